package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a slog.Logger bound to one component. The component attribute
// is attached once, so switching components never repeats the key.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config holds logger configuration. Level may be a *slog.LevelVar so the
// level can change after config is loaded; Handler, when set, wins over
// Level and Output.
type Config struct {
	Level     slog.Leveler
	Component string
	Output    io.Writer
	Handler   slog.Handler
}

func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		out := config.Output
		if out == nil {
			out = os.Stdout
		}
		level := config.Level
		if level == nil {
			level = slog.LevelInfo
		}
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}
	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	return bind(slog.New(handler), component)
}

// Setup builds the process logger for a service and installs it as the slog
// default. The returned LevelVar starts at level and can be raised or
// lowered once configuration is known.
func Setup(component string, level slog.Level, out io.Writer) (*Logger, *slog.LevelVar) {
	lv := new(slog.LevelVar)
	lv.Set(level)
	logger := New(Config{Level: lv, Component: component, Output: out})
	SetDefault(logger)
	return logger, lv
}

func bind(base *slog.Logger, component string) *Logger {
	return &Logger{
		Logger:    base.With(FieldComponent, component),
		base:      base,
		component: component,
	}
}

// With returns a logger carrying args under the same component.
func (l *Logger) With(args ...any) *Logger {
	return bind(l.base.With(args...), l.component)
}

// WithComponent keeps the attributes gathered so far and swaps the component.
func (l *Logger) WithComponent(component string) *Logger {
	if component == l.component {
		return l
	}
	return bind(l.base, component)
}

// SetDefault installs the logger without its component, so package-level
// slog calls do not claim to come from one component.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.base)
}

func (l *Logger) Component() string {
	return l.component
}
