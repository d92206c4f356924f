package http

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"wagewise/internal/auth"
	"wagewise/internal/chart"
	"wagewise/internal/core"
	"wagewise/internal/insights"
	"wagewise/internal/log"
	"wagewise/internal/services"
)

type transactionJSON struct {
	ID           string          `json:"id"`
	Type         core.TxType     `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	Date         string          `json:"date"`
	Note         string          `json:"note,omitempty"`
	CurrencyCode string          `json:"currencyCode"`
}

func toTransactionJSON(tx core.Transaction) *transactionJSON {
	return &transactionJSON{
		ID:           tx.ID,
		Type:         tx.Type,
		Amount:       tx.Amount,
		Category:     tx.CategoryOrDefault(),
		Date:         tx.Date,
		Note:         tx.Note,
		CurrencyCode: tx.CurrencyCode,
	}
}

type voiceResponse struct {
	Kind        string           `json:"kind"`
	Reason      string           `json:"reason,omitempty"`
	Transaction *transactionJSON `json:"transaction,omitempty"`
	DeletedID   string           `json:"deletedId,omitempty"`
}

// handleVoice interprets a browser transcript and applies it to the ledger.
// A transcript that yields no action is still 200 with kind "noop".
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return
	}

	userID := auth.UserID(r.Context())
	out, err := s.ledger.HandleVoice(r.Context(), userID, p.Get("transcript"))
	if err != nil {
		writeJSONError(w, r, err, "Failed to handle voice command")
		return
	}
	atomic.AddInt64(&s.appMetrics.voiceCommands, 1)

	sl := log.NewStructuredLogger(log.FromContext(r.Context()))
	sl.LogVoiceCommand(r.Context(), userID, string(out.Intent.Kind), string(out.Intent.Reason))

	resp := voiceResponse{Kind: string(out.Intent.Kind), Reason: string(out.Intent.Reason)}
	switch {
	case out.Created != nil:
		atomic.AddInt64(&s.appMetrics.transactionsCreated, 1)
		sl.LogTransactionCreated(r.Context(), userID, *out.Created, "voice")
		resp.Transaction = toTransactionJSON(*out.Created)
		w.Header().Set("HX-Trigger", EventLedgerChanged)
	case out.Deleted != nil:
		atomic.AddInt64(&s.appMetrics.transactionsDeleted, 1)
		resp.DeletedID = out.Deleted.ID
		w.Header().Set("HX-Trigger", EventLedgerChanged)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCoach forwards a question to the money coach.
func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return
	}
	atomic.AddInt64(&s.appMetrics.coachRequests, 1)

	answer, err := s.ledger.Ask(r.Context(), auth.UserID(r.Context()), p.Get("message"))
	if err != nil {
		writeJSONError(w, r, err, "Coach request failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

type insightsResponse struct {
	Currency           string                `json:"currency"`
	CurrencySymbol     string                `json:"currencySymbol"`
	Totals             core.Totals           `json:"totals"`
	Month              core.MonthlySummary   `json:"month"`
	Budget             *core.BudgetStatus    `json:"budget"`
	TopCategories      []core.CategoryAmount `json:"topCategories"`
	SpendingByCategory []core.CategoryAmount `json:"spendingByCategory"`
	CategoryShare      []core.CategoryAmount `json:"categoryShare"`
	Cashflow           []core.CashflowPoint  `json:"cashflow"`
	MonthlySeries      []core.MonthPoint     `json:"monthlySeries"`
	Last30DaysCount    int                   `json:"last30DaysCount"`
	Stats              *insights.Stats       `json:"stats"`
}

// handleInsights returns every derived view of the user's ledger.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ov, err := s.ledger.Overview(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeJSONError(w, r, err, "Failed to load insights")
		return
	}
	d := ov.Dashboard
	writeJSON(w, http.StatusOK, insightsResponse{
		Currency:           ov.Currency.Code,
		CurrencySymbol:     ov.Currency.Symbol,
		Totals:             d.Totals,
		Month:              d.Month,
		Budget:             d.Budget,
		TopCategories:      nonNil(d.TopCategories),
		SpendingByCategory: nonNil(d.SpendingByCategory),
		CategoryShare:      nonNil(d.CategoryShare),
		Cashflow:           nonNil(d.Cashflow),
		MonthlySeries:      nonNil(d.MonthlySeries),
		Last30DaysCount:    d.Last30DaysCount,
		Stats:              ov.Stats,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// handleChart serves /charts/{kind}.png. A series too sparse to draw is 204.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	name, ok := strings.CutSuffix(file, ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}
	kind, err := services.ParseChartKind(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	png, err := s.ledger.Chart(r.Context(), auth.UserID(r.Context()), kind)
	if errors.Is(err, chart.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeJSONError(w, r, err, "Failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
