package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wagewise/internal/chart"
	"wagewise/internal/insights"
)

type ChartKind string

const (
	ChartCashflow   ChartKind = "cashflow"
	ChartMonthly    ChartKind = "monthly"
	ChartCategories ChartKind = "categories"
	ChartShare      ChartKind = "share"
)

var ErrUnknownChart = errors.New("unknown chart")

// ParseChartKind accepts the chart names used in URLs.
func ParseChartKind(s string) (ChartKind, error) {
	switch k := ChartKind(s); k {
	case ChartCashflow, ChartMonthly, ChartCategories, ChartShare:
		return k, nil
	}
	return "", ErrUnknownChart
}

// Chart renders one of the user's charts as PNG, serving from the cache
// until the next ledger change. chart.ErrNoData is returned, and not cached,
// when there is nothing to draw.
func (s *LedgerService) Chart(ctx context.Context, userID string, kind ChartKind) ([]byte, error) {
	key := userID + ":" + string(kind)
	if s.charts != nil {
		if png, ok := s.charts.Get(key); ok {
			return png, nil
		}
	}

	gen := s.chartGeneration(userID)
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	now := s.now()
	var png []byte
	switch kind {
	case ChartCashflow:
		png, err = chart.Cashflow(insights.Cashflow(txs, now))
	case ChartMonthly:
		png, err = chart.Monthly(insights.MonthlySeries(txs, now))
	case ChartCategories:
		png, err = chart.Categories(insights.SpendingByCategory(txs, now))
	case ChartShare:
		png, err = chart.Share(insights.CategoryShare(txs))
	default:
		return nil, ErrUnknownChart
	}
	if err != nil {
		return nil, err
	}

	if s.charts != nil && !s.cacheChart(userID, key, gen, png) {
		slog.DebugContext(ctx, "Chart not cached, ledger changed during render", "user_id", userID, "chart", kind)
	}
	return png, nil
}
