package memory

import (
	"context"
	"sync"

	"wagewise/internal/core"
	ports "wagewise/internal/sheets"
)

var _ ports.LedgerMirror = (*Mirror)(nil)

// Mirror is an in-process LedgerMirror, used when no spreadsheet is
// configured and in tests.
type Mirror struct {
	mu    sync.Mutex
	order []string
	rows  map[string]core.Transaction
}

func New() *Mirror {
	return &Mirror{rows: map[string]core.Transaction{}}
}

// UpsertTransaction stores tx, replacing any row with the same ID in place.
func (m *Mirror) UpsertTransaction(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[tx.ID]; !ok {
		m.order = append(m.order, tx.ID)
	}
	m.rows[tx.ID] = tx
	return nil
}

// DeleteTransaction removes the row; unknown IDs are ignored.
func (m *Mirror) DeleteTransaction(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return nil
	}
	delete(m.rows, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Rows returns the mirrored transactions in first-written order.
func (m *Mirror) Rows() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Transaction, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.rows[id])
	}
	return out
}
