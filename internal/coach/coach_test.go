package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"wagewise/internal/core"
	"wagewise/internal/insights"
)

type fakeNarrator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeNarrator) Narrate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func sampleStats() *insights.Stats {
	return &insights.Stats{
		CurrencyCode:       "USD",
		CurrencySymbol:     "$",
		MonthIncome:        decimal.NewFromInt(3000),
		MonthExpense:       decimal.RequireFromString("420.5"),
		MonthNet:           decimal.RequireFromString("2579.5"),
		Last30DaysTxnCount: 7,
		TopCategories: []core.CategoryAmount{
			{Category: "Food", Amount: decimal.NewFromInt(300)},
			{Category: "Coffee", Amount: decimal.RequireFromString("120.5")},
		},
	}
}

func TestBuildPrompt_WithStats(t *testing.T) {
	p := BuildPrompt(sampleStats(), "  help me save  ")

	assert.True(t, strings.HasPrefix(p, "You are WageWise, a friendly, practical money coach."))
	assert.Contains(t, p, "Currency: USD ($)")
	assert.Contains(t, p, "- Total income: $3000.00 (USD)")
	assert.Contains(t, p, "- Net: $2579.50 (USD)")
	assert.Contains(t, p, "- Transactions in last 30 days: 7")
	assert.Contains(t, p, "1. Food: $300.00 (USD) in last 30 days")
	assert.Contains(t, p, "2. Coffee: $120.50 (USD) in last 30 days")
	assert.Contains(t, p, `"help me save"`)
}

func TestBuildPrompt_Defaults(t *testing.T) {
	p := BuildPrompt(nil, "")
	assert.Contains(t, p, noStats)
	assert.Contains(t, p, DefaultGoal)

	s := sampleStats()
	s.TopCategories = nil
	assert.Contains(t, BuildPrompt(s, "x"), noCategories)
}

func TestAdvise(t *testing.T) {
	n := &fakeNarrator{answer: "  Spend less on coffee.  "}
	c := New(n, 60)

	got, err := c.Advise(context.Background(), sampleStats(), "")
	require.NoError(t, err)
	assert.Equal(t, "Spend less on coffee.", got)
	require.Len(t, n.prompts, 1)
	assert.Contains(t, n.prompts[0], DefaultGoal)
}

func TestAdvise_FallbackOnEmptyAnswer(t *testing.T) {
	for _, n := range []*fakeNarrator{{answer: "   "}, {err: ErrEmptyAnswer}} {
		got, err := New(n, 60).Advise(context.Background(), nil, "hi")
		require.NoError(t, err)
		assert.Equal(t, FallbackAnswer, got)
	}
}

func TestAdvise_Errors(t *testing.T) {
	_, err := New(nil, 6).Advise(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	boom := errors.New("upstream down")
	_, err = New(&fakeNarrator{err: boom}, 6).Advise(context.Background(), nil, "")
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(&fakeNarrator{answer: "ok"}, 1)
	c.limiter.SetBurst(0)
	_, err = c.Advise(ctx, nil, "")
	assert.Error(t, err)
}

func TestTextFromResponse(t *testing.T) {
	_, err := textFromResponse(nil)
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = textFromResponse(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	got, err := textFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Save "}, {Text: "more."}}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Save more.", got)
}
