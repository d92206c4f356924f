// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed into the
// transaction form.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string into a positive amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted when the
// comma is the only separator. A comma followed by exactly three digits is
// read as a thousands separator (5,000). Zero, negative and malformed inputs
// return ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")    -> 12.34
//	ParseAmount("12,34")    -> 12.34
//	ParseAmount("5,000")    -> 5000
//	ParseAmount("1,250.50") -> 1250.5
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	s, ok := normalizeSeparators(s)
	if !ok {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// normalizeSeparators turns thousands grouping and a decimal comma into a
// plain decimal string. ok is false when commas are used as grouping but
// the groups are malformed, as in "1,234,5" or "12,34.5".
func normalizeSeparators(s string) (string, bool) {
	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot {
		// 1,250.50: commas can only be grouping
		if strings.Contains(frac, ",") {
			return "", false
		}
		digits, ok := ungroup(whole)
		return digits + "." + frac, ok
	}
	parts := strings.Split(s, ",")
	if len(parts) == 2 && len(parts[1]) != 3 {
		if parts[0] == "" || parts[1] == "" {
			return "", false
		}
		return parts[0] + "." + parts[1], true
	}
	return ungroup(s)
}

// ungroup strips thousands commas from an integer part. The first group
// holds one to three digits and every later group exactly three.
func ungroup(s string) (string, bool) {
	if !strings.Contains(s, ",") {
		return s, true
	}
	groups := strings.Split(s, ",")
	if n := len(groups[0]); n == 0 || n > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}
