package http

import (
	"net/http"
	"sync/atomic"

	"wagewise/internal/auth"
	"wagewise/internal/core"
	"wagewise/internal/currency"
	"wagewise/internal/insights"
	"wagewise/internal/log"
)

type indexPage struct {
	Email    string
	Today    string
	Currency currency.Currency
	Catalog  []currency.Currency
	Budget   string
}

type summaryView struct {
	Currency  currency.Currency
	Dashboard insights.Dashboard
	Empty     bool
}

type txRow struct {
	ID       string
	Type     string
	Income   bool
	Amount   string
	Category string
	Date     string
	Note     string
}

type transactionsView struct {
	Rows []txRow
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	settings, err := s.ledger.Settings(r.Context(), session.UserID)
	if err != nil {
		writeHTMXError(w, r, err, "Failed to load settings")
		return
	}
	s.render(w, r, http.StatusOK, "index.html", indexPage{
		Email:    session.Email,
		Today:    core.DateOf(s.now()).String(),
		Currency: currency.LookupOrDefault(settings.CurrencyCode),
		Catalog:  currency.Catalog(),
		Budget:   settings.MonthlyBudget.String(),
	})
}

// handleSummary renders totals, the current month and the budget bar.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ov, err := s.ledger.Overview(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeHTMXError(w, r, err, "Failed to load summary")
		return
	}
	s.render(w, r, http.StatusOK, "summary.html", summaryView{
		Currency:  ov.Currency,
		Dashboard: ov.Dashboard,
		Empty:     len(ov.Transactions) == 0,
	})
}

// handleTransactions renders the ledger list, newest first.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ov, err := s.ledger.Overview(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeHTMXError(w, r, err, "Failed to load transactions")
		return
	}
	view := transactionsView{Rows: make([]txRow, 0, len(ov.Transactions))}
	for _, tx := range ov.Transactions {
		cur := currency.LookupOrDefault(tx.CurrencyCode)
		view.Rows = append(view.Rows, txRow{
			ID:       tx.ID,
			Type:     string(tx.Type),
			Income:   tx.Type == core.Income,
			Amount:   cur.Format(tx.Amount),
			Category: tx.CategoryOrDefault(),
			Date:     tx.Date,
			Note:     tx.Note,
		})
	}
	s.render(w, r, http.StatusOK, "transactions.html", view)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	in, err := ParseTransactionForm(r.PostForm)
	if err != nil {
		writeHTMXError(w, r, err, "Invalid transaction form")
		return
	}

	userID := auth.UserID(r.Context())
	tx, err := s.ledger.AddTransaction(r.Context(), userID, in)
	if err != nil {
		writeHTMXError(w, r, err, "Failed to save transaction")
		return
	}
	atomic.AddInt64(&s.appMetrics.transactionsCreated, 1)
	log.NewStructuredLogger(log.FromContext(r.Context())).LogTransactionCreated(r.Context(), userID, tx, "form")

	cur := currency.LookupOrDefault(tx.CurrencyCode)
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerLedgerChanged("created", tx.ID).
		TriggerFormReset().
		TriggerSuccessNotification(capitalize(string(tx.Type)) + " saved: " + cur.Format(tx.Amount) + " (" + tx.Category + ")").
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.ledger.DeleteTransaction(r.Context(), auth.UserID(r.Context()), id); err != nil {
		writeHTMXError(w, r, err, "Failed to delete transaction")
		return
	}
	atomic.AddInt64(&s.appMetrics.transactionsDeleted, 1)

	NewHTMXResponse().
		TriggerLedgerChanged("deleted", id).
		TriggerSuccessNotification("Transaction deleted").
		Write(w)
}

// handleSettings stores the display currency and monthly budget.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	budget, err := ParseBudget(r.PostForm.Get("budget"))
	if err != nil {
		writeHTMXError(w, r, err, "Invalid budget")
		return
	}
	settings, err := s.ledger.SaveSettings(r.Context(), auth.UserID(r.Context()), r.PostForm.Get("currency"), budget)
	if err != nil {
		writeHTMXError(w, r, err, "Failed to save settings")
		return
	}
	NewHTMXResponse().
		TriggerSettingsChanged(settings.CurrencyCode).
		TriggerSuccessNotification("Settings saved").
		Write(w)
}
