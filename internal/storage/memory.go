package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"wagewise/internal/core"
)

type memoryRow struct {
	tx       core.Transaction
	seq      int64
	deleted  bool
	status   string
	attempts int
}

// MemoryStore is a process-local Store for development and tests. It keeps
// the same ordering, scoping and tombstone rules as the SQLite repository.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int64
	rows     map[string]*memoryRow
	users    map[string]User
	settings map[string]Settings
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:     make(map[string]*memoryRow),
		users:    make(map[string]User),
		settings: make(map[string]Settings),
		now:      time.Now,
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
func (m *MemoryStore) Close() error               { return nil }

func (m *MemoryStore) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []*memoryRow
	for _, r := range m.rows {
		if r.tx.UserID == userID && !r.deleted {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.tx.Date != b.tx.Date {
			return a.tx.Date > b.tx.Date
		}
		if !a.tx.CreatedAt.Equal(b.tx.CreatedAt) {
			return a.tx.CreatedAt.After(b.tx.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]core.Transaction, len(rows))
	for i, r := range rows {
		out[i] = r.tx
	}
	return out, nil
}

func (m *MemoryStore) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rows[id]
	if !ok || r.deleted || r.tx.UserID != userID {
		return core.Transaction{}, ErrNotFound
	}
	return r.tx, nil
}

func (m *MemoryStore) InsertTransaction(_ context.Context, t core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.CreatedAt.IsZero() {
		t.CreatedAt = m.now()
	}
	t.CreatedAt = t.CreatedAt.Truncate(time.Millisecond).UTC()
	m.seq++
	m.rows[t.ID] = &memoryRow{tx: t, seq: m.seq, status: "pending"}
	return nil
}

func (m *MemoryStore) DeleteTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[id]
	if !ok || r.deleted || r.tx.UserID != userID {
		return core.Transaction{}, ErrNotFound
	}
	r.deleted = true
	r.status = "pending"
	r.attempts = 0
	return r.tx, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(u.Email))
	if _, taken := m.users[key]; taken {
		return ErrEmailTaken
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now()
	}
	u.Email = key
	m.users[key] = u
	return nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) GetSettings(_ context.Context, userID string) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.settings[userID]
	if !ok {
		return Settings{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) SaveSettings(_ context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[s.UserID] = s
	return nil
}

func (m *MemoryStore) PendingSync(_ context.Context, limit int) ([]PendingSync, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []*memoryRow
	for _, r := range m.rows {
		if r.status == "pending" || (r.status == "error" && r.attempts < maxSyncAttempts) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]PendingSync, len(rows))
	for i, r := range rows {
		out[i] = PendingSync{Transaction: r.tx, Deleted: r.deleted, Attempts: r.attempts}
	}
	return out, nil
}

func (m *MemoryStore) SyncState(_ context.Context, id string) (PendingSync, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rows[id]
	if !ok {
		return PendingSync{}, ErrNotFound
	}
	return PendingSync{Transaction: r.tx, Deleted: r.deleted, Attempts: r.attempts}, nil
}

func (m *MemoryStore) MarkSynced(_ context.Context, id string, deleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.rows[id]; ok && r.deleted == deleted {
		r.status = "synced"
	}
	return nil
}

func (m *MemoryStore) MarkSyncError(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.rows[id]; ok {
		r.status = "error"
		r.attempts++
	}
	return nil
}
