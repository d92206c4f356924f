// Package coach narrates a user's spending through a hosted language model.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wagewise/internal/insights"
)

var (
	ErrNotConfigured = errors.New("coach is not configured")
	ErrEmptyAnswer   = errors.New("model returned no text")
)

// Narrator completes a prompt with free text.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// Coach throttles and formats requests to a Narrator.
type Coach struct {
	narrator Narrator
	limiter  *rate.Limiter
}

// New returns a coach allowing perMinute requests per minute across the
// process. A nil narrator yields a coach whose Advise always fails with
// ErrNotConfigured.
func New(narrator Narrator, perMinute int) *Coach {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &Coach{
		narrator: narrator,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// Enabled reports whether a narrator is wired.
func (c *Coach) Enabled() bool {
	return c != nil && c.narrator != nil
}

// Advise answers message in the context of stats. An empty model reply
// becomes FallbackAnswer rather than an error.
func (c *Coach) Advise(ctx context.Context, stats *insights.Stats, message string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for coach slot: %w", err)
	}

	answer, err := c.narrator.Narrate(ctx, BuildPrompt(stats, message))
	if errors.Is(err, ErrEmptyAnswer) {
		slog.WarnContext(ctx, "Coach model returned no text, using fallback answer")
		return FallbackAnswer, nil
	}
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return FallbackAnswer, nil
	}
	return answer, nil
}
