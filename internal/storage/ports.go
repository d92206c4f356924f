package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// maxSyncAttempts bounds how often a failed mirror write is retried.
const maxSyncAttempts = 5

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Settings are per-user display preferences.
type Settings struct {
	UserID        string
	CurrencyCode  string
	MonthlyBudget decimal.Decimal
}

// PendingSync is a ledger change the mirror has not acknowledged yet.
// Deleted rows are kept as tombstones until they are mirrored.
type PendingSync struct {
	Transaction core.Transaction
	Deleted     bool
	Attempts    int
}

// TransactionStore persists ledger records. Every method is scoped to one
// user; a record owned by another user behaves as missing.
type TransactionStore interface {
	// ListTransactions returns live records, newest date first, then newest
	// insert first.
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	InsertTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// SyncStore tracks which ledger changes reached the external mirror.
type SyncStore interface {
	PendingSync(ctx context.Context, limit int) ([]PendingSync, error)
	// SyncState returns the stored row, tombstoned or not, whatever its
	// sync status. ErrNotFound when the id was never stored.
	SyncState(ctx context.Context, id string) (PendingSync, error)
	// MarkSynced records that the mirror holds the row as live (deleted
	// false) or removed (deleted true). It is a no-op when the row changed
	// state since, so the newer change stays pending.
	MarkSynced(ctx context.Context, id string, deleted bool) error
	MarkSyncError(ctx context.Context, id string) error
}

// Store is everything the application needs from persistence.
type Store interface {
	TransactionStore
	UserStore
	SettingsStore
	SyncStore
	Ping(ctx context.Context) error
	Close() error
}
