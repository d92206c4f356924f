package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wagewise/internal/amqp"
	"wagewise/internal/core"
	"wagewise/internal/sheets"
	"wagewise/internal/storage"
)

// SyncWorker mirrors ledger changes from the store into the external sheet
type SyncWorker struct {
	store     storage.SyncStore
	mirror    sheets.LedgerMirror
	batchSize int
}

func NewSyncWorker(store storage.SyncStore, mirror sheets.LedgerMirror, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{
		store:     store,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleLedgerEvent processes a single ledger event from AMQP. The event
// only names the row: what is mirrored is the row's current state in the
// store, so a create that arrives after its delete removes the row instead
// of restoring it. A mirror failure is recorded on the row and left to the
// pending sweep, so the message is still acknowledged.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	tx := event.Transaction.Core()

	slog.InfoContext(ctx, "Processing ledger event",
		"type", event.Type,
		"transaction_id", tx.ID,
		"user_id", tx.UserID)

	if event.Type != amqp.TransactionCreated && event.Type != amqp.TransactionDeleted {
		return fmt.Errorf("unknown ledger event type %q", event.Type)
	}

	state, err := w.store.SyncState(ctx, tx.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if event.Type == amqp.TransactionDeleted {
			w.sync(ctx, tx, true)
			return nil
		}
		slog.WarnContext(ctx, "Skipping create event for unknown transaction", "transaction_id", tx.ID)
		return nil
	case err != nil:
		return fmt.Errorf("load sync state %s: %w", tx.ID, err)
	}

	if state.Deleted && event.Type == amqp.TransactionCreated {
		slog.InfoContext(ctx, "Create event superseded by delete", "transaction_id", tx.ID)
	}
	w.sync(ctx, state.Transaction, state.Deleted)
	return nil
}

// ProcessPending re-sends changes the mirror has not acknowledged yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) (int, error) {
	return w.processBatch(ctx, w.batchSize)
}

// StartupSyncCheck runs a larger sweep when the worker starts, to recover
// from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced, err := w.processBatch(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "synced", synced)
	return nil
}

func (w *SyncWorker) processBatch(ctx context.Context, limit int) (int, error) {
	pending, err := w.store.PendingSync(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending changes: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending changes", "count", len(pending))

	synced := 0
	for _, p := range pending {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}
		if w.sync(ctx, p.Transaction, p.Deleted) {
			synced++
		}
	}
	return synced, nil
}

// sync applies one change to the mirror and records the outcome on the row.
func (w *SyncWorker) sync(ctx context.Context, tx core.Transaction, deleted bool) bool {
	var err error
	if deleted {
		err = w.mirror.DeleteTransaction(ctx, tx.ID)
	} else {
		err = w.mirror.UpsertTransaction(ctx, tx)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to mirror transaction",
			"transaction_id", tx.ID,
			"deleted", deleted,
			"error", err)
		if markErr := w.store.MarkSyncError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "transaction_id", tx.ID, "error", markErr)
		}
		return false
	}

	if err := w.store.MarkSynced(ctx, tx.ID, deleted); err != nil {
		// the mirror write itself succeeded
		slog.ErrorContext(ctx, "Failed to mark as synced", "transaction_id", tx.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully mirrored transaction",
		"transaction_id", tx.ID,
		"deleted", deleted,
		"amount", tx.Amount.String(),
		"category", tx.Category)
	return true
}
