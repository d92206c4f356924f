package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"
)

type EventType string

const (
	TransactionCreated EventType = "transaction.created"
	TransactionDeleted EventType = "transaction.deleted"
)

// TransactionSnapshot is the record as it was when the event was raised.
type TransactionSnapshot struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	Date         string          `json:"date"`
	Note         string          `json:"note,omitempty"`
	CurrencyCode string          `json:"currencyCode"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// LedgerEvent announces a change to one user's ledger. It carries the full
// record so consumers never need to read it back from the store.
type LedgerEvent struct {
	Type        EventType           `json:"type"`
	Transaction TransactionSnapshot `json:"transaction"`
	Timestamp   time.Time           `json:"timestamp"`
}

// NewLedgerEvent builds an event for tx.
func NewLedgerEvent(typ EventType, tx core.Transaction) *LedgerEvent {
	return &LedgerEvent{
		Type: typ,
		Transaction: TransactionSnapshot{
			ID:           tx.ID,
			UserID:       tx.UserID,
			Type:         string(tx.Type),
			Amount:       tx.Amount,
			Category:     tx.Category,
			Date:         tx.Date,
			Note:         tx.Note,
			CurrencyCode: tx.CurrencyCode,
			CreatedAt:    tx.CreatedAt,
		},
		Timestamp: time.Now(),
	}
}

// Core converts the snapshot back into a ledger record.
func (s TransactionSnapshot) Core() core.Transaction {
	return core.Transaction{
		ID:           s.ID,
		UserID:       s.UserID,
		Type:         core.TxType(s.Type),
		Amount:       s.Amount,
		Category:     s.Category,
		Date:         s.Date,
		Note:         s.Note,
		CurrencyCode: s.CurrencyCode,
		CreatedAt:    s.CreatedAt,
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and sanity-checks an event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Type != TransactionCreated && e.Type != TransactionDeleted {
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.Transaction.ID == "" {
		return nil, fmt.Errorf("event without transaction id")
	}
	return &e, nil
}
