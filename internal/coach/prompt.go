package coach

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"wagewise/internal/insights"
)

const (
	// DefaultGoal stands in for a blank question.
	DefaultGoal = "Give me a short review of my recent spending and how I can improve."

	// FallbackAnswer is returned when the model produces no text.
	FallbackAnswer = "I had trouble generating advice. Please try again."

	noStats      = "No structured stats were provided."
	noCategories = "No significant categories yet."
)

// BuildPrompt assembles the coaching prompt from the user's stats and goal.
// stats may be nil.
func BuildPrompt(stats *insights.Stats, message string) string {
	statsText := noStats
	if stats != nil {
		statsText = statsSection(stats)
	}
	goal := strings.TrimSpace(message)
	if goal == "" {
		goal = DefaultGoal
	}

	var b strings.Builder
	b.WriteString("You are WageWise, a friendly, practical money coach.\n")
	b.WriteString("Your job is to look at the user's recent spending, then give clear,\n")
	b.WriteString("realistic advice in simple English. Avoid jargon.\n\n")
	b.WriteString("Here is the user's financial context:\n\n")
	b.WriteString(statsText)
	b.WriteString("\n\nUser's goal / question:\n")
	fmt.Fprintf(&b, "%q\n\n", goal)
	b.WriteString("Instructions for your answer:\n")
	b.WriteString("- Be kind but direct.\n")
	b.WriteString("- Refer to the actual numbers (income, expenses, categories).\n")
	b.WriteString("- Give 3-5 concrete, practical suggestions.\n")
	b.WriteString("- Keep it short enough to read in under a minute.\n")
	b.WriteString("- No emojis, no over-the-top motivation. Just honest, helpful coaching.\n")
	return b.String()
}

func statsSection(s *insights.Stats) string {
	money := func(d decimal.Decimal) string {
		return fmt.Sprintf("%s%s (%s)", s.CurrencySymbol, d.StringFixed(2), s.CurrencyCode)
	}

	cats := noCategories
	if len(s.TopCategories) > 0 {
		lines := make([]string, 0, len(s.TopCategories))
		for i, c := range s.TopCategories {
			if i == insights.TopCategoriesLimit {
				break
			}
			lines = append(lines, fmt.Sprintf("%d. %s: %s in last 30 days", i+1, c.Category, money(c.Amount)))
		}
		cats = strings.Join(lines, "\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Currency: %s (%s)\n\n", s.CurrencyCode, s.CurrencySymbol)
	b.WriteString("This month:\n")
	fmt.Fprintf(&b, "- Total income: %s\n", money(s.MonthIncome))
	fmt.Fprintf(&b, "- Total expenses: %s\n", money(s.MonthExpense))
	fmt.Fprintf(&b, "- Net: %s\n\n", money(s.MonthNet))
	b.WriteString("Recent activity:\n")
	fmt.Fprintf(&b, "- Transactions in last 30 days: %d\n\n", s.Last30DaysTxnCount)
	b.WriteString("Top spending categories (last 30 days):\n")
	b.WriteString(cats)
	return b.String()
}
