package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"
)

// Dashboard bundles every derived view rendered on the home page.
type Dashboard struct {
	Totals             core.Totals
	Month              core.MonthlySummary
	Budget             *core.BudgetStatus
	TopCategories      []core.CategoryAmount
	SpendingByCategory []core.CategoryAmount
	CategoryShare      []core.CategoryAmount
	Cashflow           []core.CashflowPoint
	MonthlySeries      []core.MonthPoint
	Last30DaysCount    int
}

// Build computes the full dashboard for one snapshot.
func Build(txs []core.Transaction, now time.Time, budgetLimit decimal.Decimal) Dashboard {
	return Dashboard{
		Totals:             Totals(txs),
		Month:              Monthly(txs, now),
		Budget:             Budget(txs, budgetLimit),
		TopCategories:      TopCategories(txs, now),
		SpendingByCategory: SpendingByCategory(txs, now),
		CategoryShare:      CategoryShare(txs),
		Cashflow:           Cashflow(txs, now),
		MonthlySeries:      MonthlySeries(txs, now),
		Last30DaysCount:    Last30DaysCount(txs, now),
	}
}
