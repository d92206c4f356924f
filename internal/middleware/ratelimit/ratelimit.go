package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiting configuration
type Config struct {
	RequestsPerMinute int
	Burst             int
	CleanupInterval   time.Duration
	IdleTimeout       time.Duration
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		Burst:             10,
		CleanupInterval:   5 * time.Minute,
		IdleTimeout:       10 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Metrics counts limiter decisions.
type Metrics struct {
	Allowed  int64
	Rejected int64
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	config   Config
	limit    rate.Limit
	mu       sync.Mutex
	visitors map[string]*visitor
	metrics  Metrics
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a new rate limiter and starts its idle sweep.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultConfig().IdleTimeout
	}

	l := &Limiter{
		config:   config,
		limit:    rate.Every(time.Minute / time.Duration(config.RequestsPerMinute)),
		visitors: make(map[string]*visitor),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client identified by key may proceed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.config.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	allowed := v.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if allowed {
		atomic.AddInt64(&l.metrics.Allowed, 1)
	} else {
		atomic.AddInt64(&l.metrics.Rejected, 1)
	}
	return allowed
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := l.cleanup(); n > 0 {
				slog.Debug("Rate limiter cleanup", "removed", n, "remaining", l.ActiveClients())
			}
		case <-l.stop:
			return
		}
	}
}

// cleanup drops visitors idle longer than IdleTimeout.
func (l *Limiter) cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.config.IdleTimeout)
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// ActiveClients returns the number of tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// GetMetrics returns a snapshot of the counters.
func (l *Limiter) GetMetrics() Metrics {
	return Metrics{
		Allowed:  atomic.LoadInt64(&l.metrics.Allowed),
		Rejected: atomic.LoadInt64(&l.metrics.Rejected),
	}
}

// Middleware rejects requests over the limit with 429. onLimit, when set,
// is called before the response is written.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(*http.Request, string)) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int((time.Minute / time.Duration(l.config.RequestsPerMinute)).Seconds()) + 1)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r)
			if !l.Allow(ip) {
				if onLimit != nil {
					onLimit(r, ip)
				}
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", ip,
					"method", r.Method,
					"path", r.URL.Path)
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
