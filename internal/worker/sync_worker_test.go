package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagewise/internal/amqp"
	"wagewise/internal/core"
	"wagewise/internal/sheets/memory"
	"wagewise/internal/storage"
)

// flakyMirror wraps the in-memory mirror and fails while failing is set.
type flakyMirror struct {
	*memory.Mirror
	mu      sync.Mutex
	failing bool
	calls   int
}

func (f *flakyMirror) setFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = v
}

func (f *flakyMirror) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing {
		return errors.New("sheets unavailable")
	}
	return nil
}

func (f *flakyMirror) UpsertTransaction(ctx context.Context, tx core.Transaction) error {
	if err := f.err(); err != nil {
		return err
	}
	return f.Mirror.UpsertTransaction(ctx, tx)
}

func (f *flakyMirror) DeleteTransaction(ctx context.Context, id string) error {
	if err := f.err(); err != nil {
		return err
	}
	return f.Mirror.DeleteTransaction(ctx, id)
}

func newTx(id string) core.Transaction {
	return core.Transaction{
		ID:           id,
		UserID:       "u1",
		Type:         core.Expense,
		Amount:       decimal.NewFromInt(25),
		Category:     "Food",
		Date:         "2024-06-01",
		CurrencyCode: "USD",
		CreatedAt:    time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func setup(t *testing.T) (*storage.MemoryStore, *flakyMirror, *SyncWorker) {
	t.Helper()
	store := storage.NewMemoryStore()
	mirror := &flakyMirror{Mirror: memory.New()}
	return store, mirror, NewSyncWorker(store, mirror, 10)
}

func pendingIDs(t *testing.T, store storage.SyncStore) []string {
	t.Helper()
	pending, err := store.PendingSync(context.Background(), 100)
	require.NoError(t, err)
	ids := make([]string, len(pending))
	for i, p := range pending {
		ids[i] = p.Transaction.ID
	}
	return ids
}

func TestHandleLedgerEvent_CreateAndDelete(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	tx := newTx("t1")
	require.NoError(t, store.InsertTransaction(ctx, tx))

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.TransactionCreated, tx)))
	require.Len(t, mirror.Rows(), 1)
	assert.Empty(t, pendingIDs(t, store))

	deleted, err := store.DeleteTransaction(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, pendingIDs(t, store))

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.TransactionDeleted, deleted)))
	assert.Empty(t, mirror.Rows())
	assert.Empty(t, pendingIDs(t, store))
}

func TestHandleLedgerEvent_MirrorFailureLeftForSweep(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	tx := newTx("t1")
	require.NoError(t, store.InsertTransaction(ctx, tx))

	mirror.setFailing(true)
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.TransactionCreated, tx)))

	pending, err := store.PendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)

	mirror.setFailing(false)
	n, err := w.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, mirror.Rows(), 1)
	assert.Empty(t, pendingIDs(t, store))
}

func TestHandleLedgerEvent_LateCreateAfterDelete(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	tx := newTx("t1")
	require.NoError(t, store.InsertTransaction(ctx, tx))
	_, err := store.DeleteTransaction(ctx, "u1", "t1")
	require.NoError(t, err)

	// the delete event was never published; the sweep mirrors the tombstone
	require.NoError(t, w.StartupSyncCheck(ctx))
	assert.Empty(t, mirror.Rows())

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.TransactionCreated, tx)))
	_, err = w.ProcessPending(ctx)
	require.NoError(t, err)

	assert.Empty(t, mirror.Rows())
	assert.Empty(t, pendingIDs(t, store))
}

func TestHandleLedgerEvent_MirrorsStoredState(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	tx := newTx("t1")
	require.NoError(t, store.InsertTransaction(ctx, tx))

	stale := tx
	stale.Amount = decimal.NewFromInt(999)
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.TransactionCreated, stale)))

	rows := mirror.Rows()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(25)))
}

func TestHandleLedgerEvent_UnknownTransaction(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	require.NoError(t, mirror.Mirror.UpsertTransaction(ctx, newTx("ghost")))

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.TransactionCreated, newTx("nope"))))
	require.Len(t, mirror.Rows(), 1)

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.TransactionDeleted, newTx("ghost"))))
	assert.Empty(t, mirror.Rows())
	assert.Empty(t, pendingIDs(t, store))
}

func TestHandleLedgerEvent_UnknownType(t *testing.T) {
	_, _, w := setup(t)
	event := amqp.NewLedgerEvent("transaction.renamed", newTx("t1"))
	assert.Error(t, w.HandleLedgerEvent(context.Background(), event))
}

func TestProcessPending_MirrorsTombstones(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	require.NoError(t, store.InsertTransaction(ctx, newTx("keep")))
	require.NoError(t, store.InsertTransaction(ctx, newTx("gone")))
	_, err := store.DeleteTransaction(ctx, "u1", "gone")
	require.NoError(t, err)

	n, err := w.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := mirror.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "keep", rows[0].ID)
}

func TestProcessPending_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	require.NoError(t, store.InsertTransaction(ctx, newTx("t1")))
	mirror.setFailing(true)

	for i := 0; i < 10; i++ {
		_, err := w.ProcessPending(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, mirror.calls)
	assert.Empty(t, pendingIDs(t, store))
}

func TestStartupSyncCheck(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.InsertTransaction(ctx, newTx(id)))
	}

	require.NoError(t, w.StartupSyncCheck(ctx))
	assert.Len(t, mirror.Rows(), 3)
}

func TestSweeper_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, mirror, w := setup(t)
	require.NoError(t, store.InsertTransaction(ctx, newTx("t1")))

	s := NewSweeper(w, 10*time.Millisecond)
	require.NoError(t, s.Start(ctx))
	assert.Error(t, s.Start(ctx), "second start must fail")

	assert.Eventually(t, func() bool { return len(mirror.Rows()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "stop is idempotent")

	require.NoError(t, s.Start(ctx), "a stopped sweeper can start again")
	require.NoError(t, s.Stop(ctx))
}
