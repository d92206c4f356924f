package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// DefaultCategory replaces a missing category on read.
const DefaultCategory = "Other"

// DateLayout is the calendar-date format transactions are stored with.
const DateLayout = "2006-01-02"

const maxNoteLength = 500

type (
	TxType string

	Date struct {
		time.Time
	}

	// Transaction is a single ledger record owned by the store. Date is kept
	// as the stored text so that rows with an unparsable date still count in
	// all-time totals.
	Transaction struct {
		ID           string
		UserID       string
		Type         TxType
		Amount       decimal.Decimal
		Category     string
		Date         string
		Note         string
		CurrencyCode string
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNoteTooLong     = errors.New("note too long (max 500 characters)")
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// ParseTxType accepts "income" or "expense" in any case.
func ParseTxType(s string) (TxType, error) {
	switch TxType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", ErrInvalidType
}

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts a plain calendar date or an RFC 3339 timestamp, keeping
// only the calendar part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, ErrInvalidDate
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays moves the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// MonthKey returns "YYYY-MM".
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// ParsedDate reports the record's calendar date and whether it parsed.
func (t Transaction) ParsedDate() (Date, bool) {
	d, err := ParseDate(t.Date)
	if err != nil {
		return Date{}, false
	}
	return d, true
}

// CategoryOrDefault returns the category, or "Other" when it is blank.
func (t Transaction) CategoryOrDefault() string {
	c := strings.TrimSpace(t.Category)
	if c == "" {
		return DefaultCategory
	}
	return c
}

// Validate checks a record before it is written to the store.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if len(t.Note) > maxNoteLength {
		return ErrNoteTooLong
	}
	if len(strings.TrimSpace(t.CurrencyCode)) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}
