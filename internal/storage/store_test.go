package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagewise/internal/core"
)

func newSQLite(t *testing.T) Store {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "wagewise.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newMemory(t *testing.T) Store {
	t.Helper()
	return NewMemoryStore()
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, factory := range map[string]func(*testing.T) Store{
		"sqlite": newSQLite,
		"memory": newMemory,
	} {
		t.Run(name, func(t *testing.T) { fn(t, factory(t)) })
	}
}

func seedUser(t *testing.T, s Store, id, email string) {
	t.Helper()
	require.NoError(t, s.CreateUser(context.Background(), User{ID: id, Email: email, PasswordHash: "hash"}))
}

var base = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func record(id, user, date string, amount string, created time.Time) core.Transaction {
	return core.Transaction{
		ID:           id,
		UserID:       user,
		Type:         core.Expense,
		Amount:       decimal.RequireFromString(amount),
		Category:     "Food",
		Date:         date,
		Note:         "note " + id,
		CurrencyCode: "USD",
		CreatedAt:    created,
	}
}

func TestStore_TransactionsOrderedAndScoped(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedUser(t, s, "u1", "one@example.com")
		seedUser(t, s, "u2", "two@example.com")

		require.NoError(t, s.InsertTransaction(ctx, record("a", "u1", "2025-06-01", "10", base)))
		require.NoError(t, s.InsertTransaction(ctx, record("b", "u1", "2025-06-10", "12.5", base)))
		require.NoError(t, s.InsertTransaction(ctx, record("c", "u1", "2025-06-10", "7", base.Add(time.Minute))))
		require.NoError(t, s.InsertTransaction(ctx, record("x", "u2", "2025-06-20", "99", base)))

		got, err := s.ListTransactions(ctx, "u1")
		require.NoError(t, err)
		ids := make([]string, len(got))
		for i, tx := range got {
			ids[i] = tx.ID
		}
		assert.Equal(t, []string{"c", "b", "a"}, ids)
		assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, "note b", got[1].Note)
		assert.Equal(t, "USD", got[1].CurrencyCode)
		assert.True(t, got[1].CreatedAt.Equal(base))

		_, err = s.GetTransaction(ctx, "u1", "x")
		assert.ErrorIs(t, err, ErrNotFound)

		one, err := s.GetTransaction(ctx, "u2", "x")
		require.NoError(t, err)
		assert.Equal(t, core.Expense, one.Type)
	})
}

func TestStore_DeleteTombstones(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedUser(t, s, "u1", "one@example.com")
		seedUser(t, s, "u2", "two@example.com")
		require.NoError(t, s.InsertTransaction(ctx, record("a", "u1", "2025-06-01", "10", base)))

		_, err := s.DeleteTransaction(ctx, "u2", "a")
		assert.ErrorIs(t, err, ErrNotFound)

		deleted, err := s.DeleteTransaction(ctx, "u1", "a")
		require.NoError(t, err)
		assert.Equal(t, "a", deleted.ID)

		_, err = s.DeleteTransaction(ctx, "u1", "a")
		assert.ErrorIs(t, err, ErrNotFound)

		list, err := s.ListTransactions(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, list)

		pending, err := s.PendingSync(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.True(t, pending[0].Deleted)
		assert.Equal(t, "a", pending[0].Transaction.ID)
	})
}

func TestStore_SyncLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedUser(t, s, "u1", "one@example.com")
		require.NoError(t, s.InsertTransaction(ctx, record("a", "u1", "2025-06-01", "10", base)))
		require.NoError(t, s.InsertTransaction(ctx, record("b", "u1", "2025-06-02", "11", base.Add(time.Second))))

		pending, err := s.PendingSync(ctx, 1)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "a", pending[0].Transaction.ID)
		assert.False(t, pending[0].Deleted)

		require.NoError(t, s.MarkSynced(ctx, "a", false))
		for i := 0; i < maxSyncAttempts; i++ {
			pending, err = s.PendingSync(ctx, 10)
			require.NoError(t, err)
			require.Len(t, pending, 1, "attempt %d", i)
			assert.Equal(t, i, pending[0].Attempts)
			require.NoError(t, s.MarkSyncError(ctx, "b"))
		}

		pending, err = s.PendingSync(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestStore_SyncStateSeesTombstones(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedUser(t, s, "u1", "one@example.com")
		require.NoError(t, s.InsertTransaction(ctx, record("a", "u1", "2025-06-01", "10", base)))

		_, err := s.SyncState(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		state, err := s.SyncState(ctx, "a")
		require.NoError(t, err)
		assert.False(t, state.Deleted)
		assert.Equal(t, "u1", state.Transaction.UserID)

		_, err = s.DeleteTransaction(ctx, "u1", "a")
		require.NoError(t, err)
		state, err = s.SyncState(ctx, "a")
		require.NoError(t, err)
		assert.True(t, state.Deleted)
		assert.True(t, state.Transaction.Amount.Equal(decimal.NewFromInt(10)))
	})
}

func TestStore_MarkSyncedIgnoresStaleState(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedUser(t, s, "u1", "one@example.com")
		require.NoError(t, s.InsertTransaction(ctx, record("a", "u1", "2025-06-01", "10", base)))
		_, err := s.DeleteTransaction(ctx, "u1", "a")
		require.NoError(t, err)

		// an upsert of the live row finished after the delete landed
		require.NoError(t, s.MarkSynced(ctx, "a", false))
		pending, err := s.PendingSync(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.True(t, pending[0].Deleted)

		require.NoError(t, s.MarkSynced(ctx, "a", true))
		pending, err = s.PendingSync(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestStore_Users(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedUser(t, s, "u1", "Ana@Example.com")

		err := s.CreateUser(ctx, User{ID: "u2", Email: "ana@example.com ", PasswordHash: "h"})
		assert.ErrorIs(t, err, ErrEmailTaken)

		u, err := s.GetUserByEmail(ctx, " ANA@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, "ana@example.com", u.Email)
		assert.Equal(t, "hash", u.PasswordHash)

		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Settings(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedUser(t, s, "u1", "one@example.com")

		_, err := s.GetSettings(ctx, "u1")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.SaveSettings(ctx, Settings{UserID: "u1", CurrencyCode: "EUR", MonthlyBudget: decimal.NewFromInt(1500)}))
		require.NoError(t, s.SaveSettings(ctx, Settings{UserID: "u1", CurrencyCode: "GBP", MonthlyBudget: decimal.RequireFromString("750.25")}))

		got, err := s.GetSettings(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "GBP", got.CurrencyCode)
		assert.True(t, got.MonthlyBudget.Equal(decimal.RequireFromString("750.25")))
	})
}

func TestStore_Ping(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		assert.NoError(t, s.Ping(context.Background()))
	})
}
