// Package chart renders the dashboard series as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"wagewise/internal/core"
)

// ErrNoData means the series is too sparse to draw.
var ErrNoData = errors.New("not enough data to draw chart")

const (
	height   = 360
	minWidth = 640
	barWidth = 36
	barGap   = 14
)

var (
	incomeColor  = drawing.ColorFromHex("10b981") // emerald-500
	expenseColor = drawing.ColorFromHex("f43f5e") // rose-500
	netColor     = drawing.ColorFromHex("38bdf8") // sky-400

	palette = []drawing.Color{
		drawing.ColorFromHex("f43f5e"),
		drawing.ColorFromHex("f59e0b"),
		drawing.ColorFromHex("10b981"),
		drawing.ColorFromHex("38bdf8"),
		drawing.ColorFromHex("a78bfa"),
		drawing.ColorFromHex("f472b6"),
		drawing.ColorFromHex("facc15"),
		drawing.ColorFromHex("94a3b8"),
	}
)

// Cashflow draws daily income, expense and net lines. At least two days of
// activity are needed.
func Cashflow(points []core.CashflowPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNoData
	}

	xs := make([]time.Time, 0, len(points))
	income := make([]float64, 0, len(points))
	expense := make([]float64, 0, len(points))
	net := make([]float64, 0, len(points))
	for _, p := range points {
		d, err := core.ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("cashflow point %q: %w", p.Date, err)
		}
		xs = append(xs, d.Time)
		income = append(income, toFloat(p.Income))
		expense = append(expense, toFloat(p.Expense))
		net = append(net, toFloat(p.Net))
	}

	graph := chart.Chart{
		Title:  "Cashflow (last 30 days)",
		Width:  900,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		Series: []chart.Series{
			line("Income", incomeColor, xs, income, nil),
			line("Expense", expenseColor, xs, expense, nil),
			line("Net", netColor, xs, net, []float64{5.0, 3.0}),
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return render(graph)
}

// Monthly draws paired income and expense bars per month.
func Monthly(points []core.MonthPoint) ([]byte, error) {
	bars := make([]chart.Value, 0, 2*len(points))
	for _, p := range points {
		label := p.Month
		if d, err := time.Parse("2006-01", p.Month); err == nil {
			label = d.Format("Jan 06")
		}
		bars = append(bars,
			chart.Value{Label: label + " in", Value: toFloat(p.Income), Style: fill(incomeColor)},
			chart.Value{Label: label + " out", Value: toFloat(p.Expense), Style: fill(expenseColor)},
		)
	}
	return barChart("Income vs expense (6 months)", bars)
}

// Categories draws one bar per category in the order given.
func Categories(items []core.CategoryAmount) ([]byte, error) {
	bars := make([]chart.Value, 0, len(items))
	for i, c := range items {
		bars = append(bars, chart.Value{
			Label: c.Category,
			Value: toFloat(c.Amount),
			Style: fill(palette[i%len(palette)]),
		})
	}
	return barChart("Spending by category (last 30 days)", bars)
}

// Share draws the all-time expense split as a donut.
func Share(items []core.CategoryAmount) ([]byte, error) {
	values := make([]chart.Value, 0, len(items))
	for i, c := range items {
		if !c.Amount.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: c.Category,
			Value: toFloat(c.Amount),
			Style: fill(palette[i%len(palette)]),
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	donut := chart.DonutChart{
		Title:  "Where your money goes",
		Width:  480,
		Height: 480,
		Values: values,
	}
	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func barChart(title string, bars []chart.Value) ([]byte, error) {
	top := 0.0
	for _, b := range bars {
		if b.Value > top {
			top = b.Value
		}
	}
	if top == 0 {
		return nil, ErrNoData
	}

	width := len(bars)*(barWidth+barGap) + 120
	if width < minWidth {
		width = minWidth
	}
	graph := chart.BarChart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth:   barWidth,
		BarSpacing: barGap,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func render(graph chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func line(name string, color drawing.Color, xs []time.Time, ys []float64, dash []float64) chart.TimeSeries {
	return chart.TimeSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor:     color,
			StrokeWidth:     2,
			StrokeDashArray: dash,
		},
		XValues: xs,
		YValues: ys,
	}
}

func fill(c drawing.Color) chart.Style {
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
