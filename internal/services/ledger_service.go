package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"wagewise/internal/coach"
	"wagewise/internal/core"
	"wagewise/internal/currency"
	"wagewise/internal/insights"
	"wagewise/internal/storage"
	"wagewise/internal/voice"
)

var ErrInvalidBudget = errors.New("monthly budget must not be negative")

// Publisher announces ledger changes to the mirror worker
type Publisher interface {
	PublishTransactionCreated(ctx context.Context, tx core.Transaction) error
	PublishTransactionDeleted(ctx context.Context, tx core.Transaction) error
}

// ChartCache stores rendered charts keyed "<userID>:<kind>"
type ChartCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte)
	DeletePrefix(prefix string) int
}

type Options struct {
	DefaultCurrency string
	DefaultBudget   decimal.Decimal
}

// LedgerService orchestrates ledger operations across the store, the
// interpreter, the mirror events and the coach.
type LedgerService struct {
	store     storage.Store
	publisher Publisher
	coach     *coach.Coach
	charts    ChartCache

	// chartGen counts invalidations per user; a render only caches its
	// PNG if the count is unchanged since it read the ledger.
	chartMu  sync.Mutex
	chartGen map[string]uint64

	defaultCurrency string
	defaultBudget   decimal.Decimal

	now   func() time.Time
	newID func() string
}

// NewLedgerService wires the service. publisher, coach and charts may be nil.
func NewLedgerService(store storage.Store, publisher Publisher, c *coach.Coach, charts ChartCache, opts Options) *LedgerService {
	code := strings.ToUpper(strings.TrimSpace(opts.DefaultCurrency))
	if code == "" {
		code = currency.DefaultCode
	}
	return &LedgerService{
		store:           store,
		publisher:       publisher,
		coach:           c,
		charts:          charts,
		chartGen:        make(map[string]uint64),
		defaultCurrency: code,
		defaultBudget:   opts.DefaultBudget,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Overview is one consistent snapshot of a user's ledger with every derived
// view computed from it.
type Overview struct {
	Settings     storage.Settings
	Currency     currency.Currency
	Transactions []core.Transaction
	Dashboard    insights.Dashboard
	Stats        *insights.Stats
}

// Overview loads the ledger and settings concurrently and derives the views.
func (s *LedgerService) Overview(ctx context.Context, userID string) (*Overview, error) {
	txs, settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cur := s.currencyFor(settings)
	now := s.now()
	return &Overview{
		Settings:     settings,
		Currency:     cur,
		Transactions: txs,
		Dashboard:    insights.Build(txs, now, settings.MonthlyBudget),
		Stats:        insights.BuildStats(txs, now, cur.Code, cur.Symbol),
	}, nil
}

func (s *LedgerService) load(ctx context.Context, userID string) ([]core.Transaction, storage.Settings, error) {
	var (
		txs      []core.Transaction
		settings storage.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx, userID)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = s.Settings(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storage.Settings{}, err
	}
	return txs, settings, nil
}

// Settings returns the user's settings, falling back to the configured
// defaults when none were saved.
func (s *LedgerService) Settings(ctx context.Context, userID string) (storage.Settings, error) {
	settings, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Settings{
			UserID:        userID,
			CurrencyCode:  s.defaultCurrency,
			MonthlyBudget: s.defaultBudget,
		}, nil
	}
	if err != nil {
		return storage.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// SaveSettings validates and stores the currency and monthly budget.
func (s *LedgerService) SaveSettings(ctx context.Context, userID, currencyCode string, budget decimal.Decimal) (storage.Settings, error) {
	cur, err := currency.Lookup(currencyCode)
	if err != nil {
		return storage.Settings{}, err
	}
	if budget.IsNegative() {
		return storage.Settings{}, ErrInvalidBudget
	}
	settings := storage.Settings{UserID: userID, CurrencyCode: cur.Code, MonthlyBudget: budget}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return storage.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	slog.InfoContext(ctx, "Settings saved", "user_id", userID, "currency", cur.Code, "budget", budget.String())
	return settings, nil
}

func (s *LedgerService) currencyFor(settings storage.Settings) currency.Currency {
	cur, err := currency.Lookup(settings.CurrencyCode)
	if err != nil {
		return currency.LookupOrDefault(currency.DefaultCode)
	}
	return cur
}

// NewTransaction is the user-entered part of a ledger record
type NewTransaction struct {
	Type     core.TxType
	Amount   decimal.Decimal
	Category string
	Date     string
	Note     string
}

// AddTransaction validates and stores a record for the user. A blank date
// means today; the currency comes from the user's settings.
func (s *LedgerService) AddTransaction(ctx context.Context, userID string, in NewTransaction) (core.Transaction, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return core.Transaction{}, err
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = core.DateOf(s.now()).String()
	} else {
		d, err := core.ParseDate(date)
		if err != nil {
			return core.Transaction{}, err
		}
		date = d.String()
	}

	tx := core.Transaction{
		ID:           s.newID(),
		UserID:       userID,
		Type:         in.Type,
		Amount:       in.Amount,
		Category:     strings.TrimSpace(in.Category),
		Date:         date,
		Note:         strings.TrimSpace(in.Note),
		CurrencyCode: settings.CurrencyCode,
		CreatedAt:    s.now(),
	}
	return s.insert(ctx, tx)
}

func (s *LedgerService) insert(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.InsertTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.invalidateCharts(tx.UserID)

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"category", tx.Category)

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionCreated(ctx, tx); err != nil {
			// the store row stays pending and the worker sweep picks it up
			slog.ErrorContext(ctx, "Failed to publish transaction created", "transaction_id", tx.ID, "error", err)
		}
	}
	return tx, nil
}

// DeleteTransaction removes one of the user's records.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	tx, err := s.store.DeleteTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction: %w", err)
	}
	s.invalidateCharts(userID)

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id, "user_id", userID)

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDeleted(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction deleted", "transaction_id", id, "error", err)
		}
	}
	return tx, nil
}

// VoiceOutcome reports what a spoken command did.
type VoiceOutcome struct {
	Intent  voice.Intent
	Created *core.Transaction
	Deleted *core.Transaction
}

// HandleVoice interprets transcript against the user's current ledger and
// carries out the resulting intent.
func (s *LedgerService) HandleVoice(ctx context.Context, userID, transcript string) (VoiceOutcome, error) {
	txs, settings, err := s.load(ctx, userID)
	if err != nil {
		return VoiceOutcome{}, err
	}

	intent := voice.Interpret(transcript, txs, core.DateOf(s.now()), settings.CurrencyCode)
	out := VoiceOutcome{Intent: intent}

	slog.InfoContext(ctx, "Voice command interpreted",
		"user_id", userID,
		"intent", intent.Kind,
		"reason", intent.Reason)

	switch intent.Kind {
	case voice.KindCreate:
		tx := intent.Transaction(s.newID())
		tx.UserID = userID
		tx.CreatedAt = s.now()
		created, err := s.insert(ctx, tx)
		if err != nil {
			return VoiceOutcome{}, err
		}
		out.Created = &created
	case voice.KindDelete:
		deleted, err := s.DeleteTransaction(ctx, userID, intent.TargetID)
		if err != nil {
			return VoiceOutcome{}, err
		}
		out.Deleted = &deleted
	}
	return out, nil
}

// Ask forwards the user's question to the coach along with their stats.
func (s *LedgerService) Ask(ctx context.Context, userID, message string) (string, error) {
	if !s.coach.Enabled() {
		return "", coach.ErrNotConfigured
	}
	ov, err := s.Overview(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.coach.Advise(ctx, ov.Stats, message)
}

func (s *LedgerService) invalidateCharts(userID string) {
	if s.charts == nil {
		return
	}
	s.chartMu.Lock()
	defer s.chartMu.Unlock()
	s.chartGen[userID]++
	s.charts.DeletePrefix(userID + ":")
}

func (s *LedgerService) chartGeneration(userID string) uint64 {
	s.chartMu.Lock()
	defer s.chartMu.Unlock()
	return s.chartGen[userID]
}

// cacheChart stores png unless the user's ledger changed after gen was read.
func (s *LedgerService) cacheChart(userID, key string, gen uint64, png []byte) bool {
	s.chartMu.Lock()
	defer s.chartMu.Unlock()
	if s.chartGen[userID] != gen {
		return false
	}
	s.charts.Set(key, png)
	return true
}

// Ping reports whether the store is reachable.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
