package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Totals are all-time sums over every record, dated or not.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// MonthlySummary covers the calendar month containing the reference time.
type MonthlySummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CashflowPoint is one calendar day of activity.
type CashflowPoint struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// MonthPoint is one calendar month ("YYYY-MM") of activity.
type MonthPoint struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// BudgetStatus compares spending against the user's monthly limit.
type BudgetStatus struct {
	Limit       decimal.Decimal `json:"limit"`
	Used        decimal.Decimal `json:"used"`
	Left        decimal.Decimal `json:"left"`
	PercentUsed float64         `json:"percentUsed"`
}
