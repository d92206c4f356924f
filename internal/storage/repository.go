package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"wagewise/internal/core"
)

const transactionColumns = `id, user_id, type, amount, category, date, note, currency_code, created_at`

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// dsn enables foreign keys and a busy timeout on every pooled connection.
func dsn(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		typ       string
		amount    string
		createdAt int64
	)
	if err := s.Scan(&t.ID, &t.UserID, &typ, &amount, &t.Category, &t.Date, &t.Note, &t.CurrencyCode, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q of %s: %w", amount, t.ID, err)
	}
	t.Type = core.TxType(typ)
	t.Amount = d
	t.CreatedAt = time.UnixMilli(createdAt).UTC()
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY date DESC, created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, string(t.Type), t.Amount.String(), t.Category, t.Date, t.Note, t.CurrencyCode, t.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"type", t.Type,
		"amount", t.Amount.String(),
		"category", t.Category,
		"date", t.Date)
	return nil
}

// DeleteTransaction tombstones the record so the mirror can still learn
// about the deletion, and returns the record as it was.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transaction for delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET deleted_at = ?, sync_status = 'pending', sync_attempts = 0
		WHERE id = ? AND user_id = ?`, r.now().UnixMilli(), id, userID); err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit delete: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return t, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		u.ID, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.CreatedAt.UnixMilli())
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var (
		u         User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = ?`, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	u.CreatedAt = time.UnixMilli(createdAt).UTC()
	return u, nil
}

func (r *SQLiteRepository) GetSettings(ctx context.Context, userID string) (Settings, error) {
	s := Settings{UserID: userID}
	var budget string
	err := r.db.QueryRowContext(ctx, `
		SELECT currency_code, monthly_budget
		FROM user_settings
		WHERE user_id = ?`, userID).Scan(&s.CurrencyCode, &budget)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if s.MonthlyBudget, err = decimal.NewFromString(budget); err != nil {
		return Settings{}, fmt.Errorf("parse monthly budget %q: %w", budget, err)
	}
	return s, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, currency_code, monthly_budget, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			currency_code = excluded.currency_code,
			monthly_budget = excluded.monthly_budget,
			updated_at = excluded.updated_at`,
		s.UserID, s.CurrencyCode, s.MonthlyBudget.String(), r.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// PendingSync returns changes awaiting the mirror, oldest first. Rows that
// failed fewer than maxSyncAttempts times are retried.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`, deleted_at IS NOT NULL, sync_attempts
		FROM transactions
		WHERE sync_status = 'pending'
		   OR (sync_status = 'error' AND sync_attempts < ?)
		ORDER BY created_at ASC, rowid ASC
		LIMIT ?`, maxSyncAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var out []PendingSync
	for rows.Next() {
		var p PendingSync
		var deleted bool
		t, err := scanTransaction(scanFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &deleted, &p.Attempts)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		p.Transaction = t
		p.Deleted = deleted
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) SyncState(ctx context.Context, id string) (PendingSync, error) {
	var p PendingSync
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`, deleted_at IS NOT NULL, sync_attempts
		FROM transactions
		WHERE id = ?`, id)
	t, err := scanTransaction(scanFunc(func(dest ...any) error {
		return row.Scan(append(dest, &p.Deleted, &p.Attempts)...)
	}))
	if errors.Is(err, sql.ErrNoRows) {
		return PendingSync{}, ErrNotFound
	}
	if err != nil {
		return PendingSync{}, fmt.Errorf("get sync state: %w", err)
	}
	p.Transaction = t
	return p, nil
}

// MarkSynced marks a change as mirrored, unless the row was deleted or
// restored in the meantime.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, deleted bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'synced'
		WHERE id = ? AND (deleted_at IS NOT NULL) = ?`, id, deleted)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "Transaction changed before it was marked synced", "id", id, "deleted", deleted)
		return nil
	}
	slog.DebugContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed mirror attempt
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET sync_status = 'error', sync_attempts = sync_attempts + 1
		WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
