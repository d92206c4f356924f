// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"
	"wagewise/internal/services"
)

// maxBodyBytes bounds request bodies read by RequestBodyParser.
const maxBodyBytes = 64 << 10

var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}

	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

// ParseTransactionForm reads the manual entry form. A blank date is left
// blank for the service to default.
func ParseTransactionForm(form url.Values) (services.NewTransaction, error) {
	typ, err := core.ParseTxType(form.Get("type"))
	if err != nil {
		return services.NewTransaction{}, err
	}
	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return services.NewTransaction{}, err
	}
	return services.NewTransaction{
		Type:     typ,
		Amount:   amount,
		Category: sanitizeInput(form.Get("category")),
		Date:     strings.TrimSpace(form.Get("date")),
		Note:     sanitizeInput(form.Get("note")),
	}, nil
}

// ParseBudget reads a non-negative budget; blank means zero (no budget).
func ParseBudget(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, services.ErrInvalidBudget
	}
	d, err := core.ParseAmount(s)
	if err != nil {
		if z, zerr := decimal.NewFromString(s); zerr == nil && z.IsZero() {
			return decimal.Zero, nil
		}
		return decimal.Zero, services.ErrInvalidBudget
	}
	return d, nil
}
