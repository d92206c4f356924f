package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"wagewise/internal/auth"
	"wagewise/internal/currency"
	"wagewise/internal/log"
	"wagewise/internal/middleware/ratelimit"
	"wagewise/internal/middleware/security"
	"wagewise/internal/middleware/trace"
	"wagewise/internal/services"
	appweb "wagewise/web"
)

// Deps are the collaborators the server routes to.
type Deps struct {
	Ledger             *services.LedgerService
	Accounts           *services.AccountService
	Issuer             *auth.Issuer
	RateLimitPerMinute int
	SecureCookies      bool
	// Logger seeds request loggers; nil uses slog's default handler.
	Logger *log.Logger
}

// Server wraps http.Server with the application's handlers and middleware.
type Server struct {
	http.Server
	ledger        *services.LedgerService
	accounts      *services.AccountService
	issuer        *auth.Issuer
	secureCookies bool
	templates     *template.Template

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	appMetrics   *appMetrics
	now          func() time.Time
	shutdownOnce sync.Once
}

type appMetrics struct {
	transactionsCreated int64
	transactionsDeleted int64
	voiceCommands       int64
	coachRequests       int64
	uptime              time.Time
}

var templateFuncs = template.FuncMap{
	"money": func(c currency.Currency, d decimal.Decimal) string {
		return c.Format(d)
	},
	"percent": func(f float64) string {
		return decimal.NewFromFloat(f).StringFixed(0) + "%"
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, d Deps) *Server {
	detector := security.NewDetector()
	limiterCfg := ratelimit.DefaultConfig()
	if d.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = d.RateLimitPerMinute
	}

	s := &Server{
		ledger:           d.Ledger,
		accounts:         d.Accounts,
		issuer:           d.Issuer,
		secureCookies:    d.SecureCookies,
		rateLimiter:      ratelimit.NewLimiter(limiterCfg),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP),
		appMetrics:       &appMetrics{uptime: time.Now()},
		now:              time.Now,
	}

	t, err := parseTemplates()
	if err != nil {
		slog.Error("Failed parsing templates", "error", err)
	}
	s.templates = t

	mux := http.NewServeMux()
	s.routes(mux)

	logger := d.Logger
	if logger == nil {
		logger = log.New(log.Config{Handler: slog.Default().Handler()})
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var h http.Handler = mux
	h = auth.Middleware(s.issuer)(h)
	h = headers.Middleware(h)
	h = s.securityDetector.Middleware(h)
	h = s.traceMiddleware.Middleware(h)
	h = log.Middleware(logger)(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /signup", s.handleSignupPage)
	mux.Handle("POST /signup", s.limited(http.HandlerFunc(s.handleSignup)))
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.Handle("POST /login", s.limited(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.Handle("GET /{$}", auth.Require(http.HandlerFunc(s.handleIndex)))
	mux.Handle("GET /ui/summary", auth.Require(http.HandlerFunc(s.handleSummary)))
	mux.Handle("GET /ui/transactions", auth.Require(http.HandlerFunc(s.handleTransactions)))
	mux.Handle("GET /api/insights", auth.Require(http.HandlerFunc(s.handleInsights)))
	mux.Handle("GET /charts/{file}", auth.Require(http.HandlerFunc(s.handleChart)))

	mux.Handle("POST /transactions", s.protected(s.handleCreateTransaction))
	mux.Handle("POST /transactions/{id}/delete", s.protected(s.handleDeleteTransaction))
	mux.Handle("POST /voice", s.protected(s.handleVoice))
	mux.Handle("POST /coach", s.protected(s.handleCoach))
	mux.Handle("POST /settings", s.protected(s.handleSettings))
}

// limited applies the per-client rate limit.
func (s *Server) limited(next http.Handler) http.Handler {
	return s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, nil)(next)
}

// protected is limited plus an authenticated session.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.limited(auth.Require(h))
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
