package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"
)

// Stats is the compact payload handed to the money coach alongside the
// user's question.
type Stats struct {
	CurrencyCode       string                `json:"currencyCode"`
	CurrencySymbol     string                `json:"currencySymbol"`
	MonthIncome        decimal.Decimal       `json:"monthIncome"`
	MonthExpense       decimal.Decimal       `json:"monthExpense"`
	MonthNet           decimal.Decimal       `json:"monthNet"`
	Last30DaysTxnCount int                   `json:"last30DaysTxnCount"`
	TopCategories      []core.CategoryAmount `json:"topCategories"`
}

// BuildStats derives the coach payload for one snapshot. It returns nil for
// an empty ledger.
func BuildStats(txs []core.Transaction, now time.Time, currencyCode, currencySymbol string) *Stats {
	if len(txs) == 0 {
		return nil
	}
	m := Monthly(txs, now)
	top := TopCategories(txs, now)
	if top == nil {
		top = []core.CategoryAmount{}
	}
	return &Stats{
		CurrencyCode:       currencyCode,
		CurrencySymbol:     currencySymbol,
		MonthIncome:        m.Income,
		MonthExpense:       m.Expense,
		MonthNet:           m.Net,
		Last30DaysTxnCount: Last30DaysCount(txs, now),
		TopCategories:      top,
	}
}
