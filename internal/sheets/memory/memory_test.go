package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"
)

func tx(id, category string) core.Transaction {
	return core.Transaction{
		ID:           id,
		UserID:       "u1",
		Type:         core.Expense,
		Amount:       decimal.NewFromInt(10),
		Category:     category,
		Date:         "2024-03-01",
		CurrencyCode: "USD",
	}
}

func TestMirrorUpsertKeepsPosition(t *testing.T) {
	m := New()
	ctx := context.Background()
	for _, v := range []core.Transaction{tx("a", "Food"), tx("b", "Rent"), tx("a", "Groceries")} {
		if err := m.UpsertTransaction(ctx, v); err != nil {
			t.Fatalf("upsert %s: %v", v.ID, err)
		}
	}

	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "a" || rows[0].Category != "Groceries" {
		t.Fatalf("expected a/Groceries first, got %s/%s", rows[0].ID, rows[0].Category)
	}
	if rows[1].ID != "b" {
		t.Fatalf("expected b second, got %s", rows[1].ID)
	}
}

func TestMirrorUpsertValidates(t *testing.T) {
	m := New()
	bad := tx("a", "")
	if err := m.UpsertTransaction(context.Background(), bad); err != core.ErrEmptyCategory {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	if len(m.Rows()) != 0 {
		t.Fatal("invalid row must not be stored")
	}
}

func TestMirrorDeleteIsIdempotent(t *testing.T) {
	m := New()
	ctx := context.Background()
	_ = m.UpsertTransaction(ctx, tx("a", "Food"))
	_ = m.UpsertTransaction(ctx, tx("b", "Rent"))

	for i := 0; i < 2; i++ {
		if err := m.DeleteTransaction(ctx, "a"); err != nil {
			t.Fatalf("delete #%d: %v", i, err)
		}
	}
	rows := m.Rows()
	if len(rows) != 1 || rows[0].ID != "b" {
		t.Fatalf("unexpected rows after delete: %+v", rows)
	}
}
