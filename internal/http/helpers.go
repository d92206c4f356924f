package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"wagewise/internal/auth"
	"wagewise/internal/chart"
	"wagewise/internal/coach"
	"wagewise/internal/core"
	"wagewise/internal/currency"
	"wagewise/internal/log"
	"wagewise/internal/services"
	"wagewise/internal/storage"
)

// statusFor maps a service error to the HTTP status and the message shown
// to the user. Unknown errors are 500 with a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrNoteTooLong),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, currency.ErrUnknownCurrency),
		errors.Is(err, services.ErrInvalidBudget),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrUnknownChart),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, capitalize(rootMessage(err))
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, storage.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, coach.ErrNotConfigured):
		return http.StatusServiceUnavailable, "The money coach is not available"
	case errors.Is(err, chart.ErrNoData):
		return http.StatusNoContent, ""
	}
	return http.StatusInternalServerError, "Something went wrong, please try again"
}

// rootMessage strips wrapping prefixes ("save transaction: invalid amount").
func rootMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeHTMXError renders err as an HTML fragment with a notification trigger.
func writeHTMXError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, text := statusFor(err)
	if status >= http.StatusInternalServerError {
		logRequestError(r, msg, err)
	}
	ErrorResponse(status, text).TriggerErrorNotification(text).Write(w)
}

// writeJSONError writes {"error": "..."} with the mapped status.
func writeJSONError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, text := statusFor(err)
	if status >= http.StatusInternalServerError {
		logRequestError(r, msg, err)
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"error": text})
}

func logRequestError(r *http.Request, msg string, err error) {
	fields := log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "")
	log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), msg, err, log.ComponentHTTP, r.Pattern, fields)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// sanitizeInput removes control characters (except tab, newline and
// carriage return) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
