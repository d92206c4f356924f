package log

import (
	"context"
	"log/slog"
	"net/http"

	"wagewise/internal/core"
)

type loggerKey struct{}

// WithLogger stores logger in ctx for FromContext.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Middleware seeds every request context with logger.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

// FromContext returns the request logger, or one wrapping slog.Default
// under the "unknown" component.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return logger
	}
	return bind(slog.Default(), "unknown")
}

// StructuredLogger writes the HTTP and ledger events with their standard fields.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer")).
		WithClientIP(clientIP)

	sl.logger.WithComponent(ComponentHTTP).DebugContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd logs 4xx at warn and 5xx at error.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP)

	sl.logger.WithComponent(ComponentHTTP).Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogTransactionCreated records a stored transaction and whether it came
// from the form or a voice command.
func (sl *StructuredLogger) LogTransactionCreated(ctx context.Context, userID string, tx core.Transaction, source string) {
	fields := NewFields().
		WithTransaction(tx).
		WithUser(userID).
		WithOperation(OpCreate).
		ToSlice()

	sl.logger.WithComponent(ComponentLedger).InfoContext(ctx, "Transaction created", append(fields, "source", source)...)
}

func (sl *StructuredLogger) LogVoiceCommand(ctx context.Context, userID, kind, reason string) {
	fields := NewFields().
		WithIntent(kind, reason).
		WithUser(userID).
		WithOperation(OpInterpret)

	sl.logger.WithComponent(ComponentVoice).InfoContext(ctx, "Voice command handled", fields.ToSlice()...)
}

// LogError logs err under component. fields may be nil.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields = fields.WithError(err).WithOperation(operation)

	sl.logger.WithComponent(component).ErrorContext(ctx, msg, fields.ToSlice()...)
}
