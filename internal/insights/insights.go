// Package insights derives summaries and chart series from a snapshot of a
// user's ledger. Every function is pure: the same records and reference time
// always produce the same output and the input slice is never modified.
package insights

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"
)

// Lookback windows in calendar days. Each view keeps its own window.
const (
	CashflowLookbackDays      = 29
	SpendingChartLookbackDays = 29
	StatsLookbackDays         = 30
	MonthlySeriesMonths       = 6
	TopCategoriesLimit        = 5
)

// Totals sums every record regardless of its date.
func Totals(txs []core.Transaction) core.Totals {
	var t core.Totals
	for _, tx := range txs {
		if tx.Type == core.Income {
			t.Income = t.Income.Add(tx.Amount)
		} else {
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// Monthly sums the records dated in the calendar month containing now.
func Monthly(txs []core.Transaction, now time.Time) core.MonthlySummary {
	var m core.MonthlySummary
	y, mon, _ := now.Date()
	for _, tx := range txs {
		d, ok := tx.ParsedDate()
		if !ok || d.Year() != y || d.Month() != mon {
			continue
		}
		switch tx.Type {
		case core.Income:
			m.Income = m.Income.Add(tx.Amount)
		case core.Expense:
			m.Expense = m.Expense.Add(tx.Amount)
		}
	}
	m.Net = m.Income.Sub(m.Expense)
	return m
}

// TopCategories returns the largest expense categories of the last 30 days,
// at most five.
func TopCategories(txs []core.Transaction, now time.Time) []core.CategoryAmount {
	all := expenseByCategory(txs, windowFilter(now, StatsLookbackDays))
	if len(all) > TopCategoriesLimit {
		all = all[:TopCategoriesLimit]
	}
	return all
}

// SpendingByCategory feeds the category bar chart: expenses of the trailing
// 29 days, descending, uncapped.
func SpendingByCategory(txs []core.Transaction, now time.Time) []core.CategoryAmount {
	return expenseByCategory(txs, windowFilter(now, SpendingChartLookbackDays))
}

// CategoryShare feeds the donut chart: all-time expenses, descending, uncapped.
func CategoryShare(txs []core.Transaction) []core.CategoryAmount {
	return expenseByCategory(txs, func(core.Transaction) bool { return true })
}

// Cashflow returns one point per calendar day with activity in the trailing
// 29 days, oldest first. Quiet days are omitted.
func Cashflow(txs []core.Transaction, now time.Time) []core.CashflowPoint {
	in := windowFilter(now, CashflowLookbackDays)
	byDay := make(map[string]*core.CashflowPoint)
	for _, tx := range txs {
		if !in(tx) {
			continue
		}
		d, _ := tx.ParsedDate()
		key := d.String()
		p, ok := byDay[key]
		if !ok {
			p = &core.CashflowPoint{Date: key}
			byDay[key] = p
		}
		switch tx.Type {
		case core.Income:
			p.Income = p.Income.Add(tx.Amount)
		case core.Expense:
			p.Expense = p.Expense.Add(tx.Amount)
		}
	}

	out := make([]core.CashflowPoint, 0, len(byDay))
	for _, p := range byDay {
		p.Net = p.Income.Sub(p.Expense)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// MonthlySeries returns income and expense for the current month and the
// five before it, oldest first. Months without records are omitted.
func MonthlySeries(txs []core.Transaction, now time.Time) []core.MonthPoint {
	byMonth := make(map[string]*core.MonthPoint)
	for _, tx := range txs {
		d, ok := tx.ParsedDate()
		if !ok {
			continue
		}
		diff := monthsBetween(d.Time, now)
		if diff < 0 || diff >= MonthlySeriesMonths {
			continue
		}
		key := d.MonthKey()
		p, ok := byMonth[key]
		if !ok {
			p = &core.MonthPoint{Month: key}
			byMonth[key] = p
		}
		switch tx.Type {
		case core.Income:
			p.Income = p.Income.Add(tx.Amount)
		case core.Expense:
			p.Expense = p.Expense.Add(tx.Amount)
		}
	}

	out := make([]core.MonthPoint, 0, len(byMonth))
	for _, p := range byMonth {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Last30DaysCount counts records of either type dated in the last 30 days.
func Last30DaysCount(txs []core.Transaction, now time.Time) int {
	in := windowFilter(now, StatsLookbackDays)
	n := 0
	for _, tx := range txs {
		if in(tx) {
			n++
		}
	}
	return n
}

// Budget compares all recorded spending with limit. It returns nil when no
// positive limit is set. Left goes negative once the limit is exceeded while
// PercentUsed stops at 100.
func Budget(txs []core.Transaction, limit decimal.Decimal) *core.BudgetStatus {
	if limit.Sign() <= 0 {
		return nil
	}
	used := Totals(txs).Expense
	pct, _ := used.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		pct = 100
	}
	return &core.BudgetStatus{
		Limit:       limit,
		Used:        used,
		Left:        limit.Sub(used),
		PercentUsed: pct,
	}
}

// windowFilter accepts dated records in [today-days, today], compared by
// calendar date.
func windowFilter(now time.Time, days int) func(core.Transaction) bool {
	today := core.DateOf(now)
	start := today.AddDays(-days)
	return func(tx core.Transaction) bool {
		d, ok := tx.ParsedDate()
		if !ok {
			return false
		}
		return !d.Before(start.Time) && !d.After(today.Time)
	}
}

// expenseByCategory groups expenses accepted by keep, ordered by descending
// amount with ties kept in order of first appearance.
func expenseByCategory(txs []core.Transaction, keep func(core.Transaction) bool) []core.CategoryAmount {
	index := make(map[string]int)
	var out []core.CategoryAmount
	for _, tx := range txs {
		if tx.Type != core.Expense || !keep(tx) {
			continue
		}
		cat := tx.CategoryOrDefault()
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, core.CategoryAmount{Category: cat})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
