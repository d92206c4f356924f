package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestLogFields(t *testing.T) {
	tx := core.Transaction{ID: "t1", Type: core.Expense, Amount: decimal.RequireFromString("9.99"), Category: "Food"}
	f := NewFields().
		WithTransaction(tx).
		WithUser("u1").
		WithIntent("noop", "no_amount").
		WithError(errors.New("boom"))

	want := map[string]any{
		FieldTransactionID: "t1",
		FieldTxType:        "expense",
		FieldAmount:        "9.99",
		FieldCategory:      "Food",
		FieldUserID:        "u1",
		FieldIntent:        "noop",
		FieldReason:        "no_amount",
		FieldError:         "boom",
	}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("field %s = %v, want %v", k, f[k], v)
		}
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("ToSlice() length = %d, want %d", len(f.ToSlice()), 2*len(f))
	}

	empty := NewFields().WithUser("").WithIntent("create", "").WithError(nil)
	if _, ok := empty[FieldUserID]; ok {
		t.Error("blank user id should be omitted")
	}
	if _, ok := empty[FieldReason]; ok {
		t.Error("blank reason should be omitted")
	}
	if _, ok := empty[FieldError]; ok {
		t.Error("nil error should be omitted")
	}
}

func TestMiddlewareCarriesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf).With(FieldRequestID, "req_1")

	var got *Logger
	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		got.Info("inside handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil || got.Component() != ComponentApp {
		t.Fatalf("unexpected logger from context: %+v", got)
	}
	if !strings.Contains(buf.String(), "request_id=req_1") {
		t.Errorf("request id missing from log output: %s", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Fatalf("FromContext() without logger = %+v", l)
	}
}

func TestWithComponentDoesNotRepeatKey(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf).With(FieldUserID, "u1").WithComponent(ComponentLedger)
	logger.Info("saved")

	out := buf.String()
	if n := strings.Count(out, "component="); n != 1 {
		t.Fatalf("component logged %d times: %s", n, out)
	}
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "user_id=u1") {
		t.Errorf("unexpected output: %s", out)
	}
	if logger.WithComponent(ComponentLedger) != logger {
		t.Error("same component should return the same logger")
	}
}

func TestNewDefaultsComponent(t *testing.T) {
	if got := New(Config{Output: &bytes.Buffer{}}).Component(); got != ComponentApp {
		t.Errorf("Component() = %q, want %q", got, ComponentApp)
	}
}

func TestSetupLevelVar(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, level := Setup("worker", slog.LevelInfo, &buf)

	logger.Debug("hidden")
	level.Set(slog.LevelDebug)
	logger.Debug("shown")
	slog.Info("via default")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug logged below level: %s", out)
	}
	if !strings.Contains(out, "msg=shown component=worker") {
		t.Errorf("level change not applied: %s", out)
	}
	if !strings.Contains(out, "msg=\"via default\"\n") {
		t.Errorf("default logger should not carry a component: %s", out)
	}
}

func TestStructuredLogger_HTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "level=INFO"},
		{404, "level=WARN"},
		{503, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newBufferLogger(&buf))
		sl.LogHTTPEnd(context.Background(), httptest.NewRequest(http.MethodGet, "/x", nil), tt.status, 3, "127.0.0.1")
		if !strings.Contains(buf.String(), tt.level) {
			t.Errorf("status %d logged %q, want %s", tt.status, buf.String(), tt.level)
		}
	}
}

func TestStructuredLogger_Domain(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf))
	ctx := context.Background()

	sl.LogTransactionCreated(ctx, "u1", core.Transaction{ID: "t1", Type: core.Income, Amount: decimal.NewFromInt(5), Category: "Salary"}, "voice")
	sl.LogVoiceCommand(ctx, "u1", "noop", "no_match")
	sl.LogError(ctx, "failed", errors.New("boom"), ComponentLedger, OpDelete, nil)

	out := buf.String()
	for _, want := range []string{"transaction_id=t1", "source=voice", "intent=noop", "reason=no_match", "error=boom", "operation=delete"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
