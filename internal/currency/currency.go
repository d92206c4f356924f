// Package currency resolves the per-user display currency: ISO 4217
// validation, a display symbol and the number of decimals amounts are shown
// with. Amounts are never converted between currencies.
package currency

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
)

// DefaultCode is used for users that never picked a currency.
const DefaultCode = "USD"

const defaultScale = 2

var ErrUnknownCurrency = errors.New("unknown currency code")

type entry struct {
	code   string
	symbol string
	label  string
}

// Currency describes how amounts in one ISO 4217 currency are displayed.
type Currency struct {
	Code   string
	Symbol string
	Label  string
	Scale  int32
}

var byCode = func() map[string]entry {
	m := make(map[string]entry, len(catalog))
	for _, e := range catalog {
		m[e.code] = e
	}
	return m
}()

// Lookup resolves code case-insensitively. Codes outside the settings
// catalog are accepted when they are valid ISO 4217 and use the code itself
// as their symbol.
func Lookup(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return Currency{}, ErrUnknownCurrency
	}
	e, known := byCode[code]
	unit, err := xcurrency.ParseISO(code)
	if err != nil && !known {
		return Currency{}, ErrUnknownCurrency
	}

	c := Currency{Code: code, Symbol: code, Label: code, Scale: defaultScale}
	if known {
		c.Symbol = e.symbol
		c.Label = e.label
	}
	if err == nil {
		scale, _ := xcurrency.Standard.Rounding(unit)
		c.Scale = int32(scale)
	}
	return c, nil
}

// LookupOrDefault is Lookup for codes that were validated on the way in;
// unknown codes degrade to DefaultCode instead of failing.
func LookupOrDefault(code string) Currency {
	c, err := Lookup(code)
	if err != nil {
		c, _ = Lookup(DefaultCode)
	}
	return c
}

// Valid reports whether code can be stored as a user's currency.
func Valid(code string) bool {
	_, err := Lookup(code)
	return err == nil
}

// Catalog returns the currencies offered in settings, in display order.
func Catalog() []Currency {
	out := make([]Currency, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, LookupOrDefault(e.code))
	}
	return out
}

// Format renders amount with the currency symbol and standard scale,
// for example "$1250.50" or "¥300".
func (c Currency) Format(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(c.Scale)
	if amount.Sign() < 0 {
		return "-" + c.Symbol + s
	}
	return c.Symbol + s
}
