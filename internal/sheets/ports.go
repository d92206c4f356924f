package sheets

import (
	"context"

	"wagewise/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerMirror keeps an external copy of the ledger, one row per
	// transaction keyed by its ID. Both operations are idempotent so a
	// redelivered event is harmless.
	LedgerMirror interface {
		UpsertTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
	}
)
