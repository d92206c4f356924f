package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"wagewise/internal/auth"
	"wagewise/internal/backend"
	"wagewise/internal/cache"
	"wagewise/internal/cli"
	"wagewise/internal/coach"
	apphttp "wagewise/internal/http"
	applog "wagewise/internal/log"
	"wagewise/internal/services"
)

var version = "dev"

const (
	chartCacheSize = 256
	chartCacheTTL  = 10 * time.Minute
)

func main() {
	cli.LoadEnvFile()
	logger, level := cli.SetupLogger("wagewise", slog.LevelInfo)

	cfg := cli.LoadAndValidateConfig(logger)
	level.Set(cfg.Level())

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// A nil *amqp.Client must not become a non-nil interface.
	var publisher services.Publisher
	if res.Publisher != nil {
		publisher = res.Publisher
	}

	var narrator coach.Narrator
	if cfg.GeminiAPIKey != "" {
		g, err := coach.NewGeminiNarrator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Coach disabled: failed to initialize Gemini client", "error", err)
		} else {
			narrator = g
		}
	}

	charts := cache.NewLRUCache[[]byte](chartCacheSize, chartCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(charts)
	cacheManager.StartCleanup(time.Minute)

	ledger := services.NewLedgerService(res.Store, publisher, coach.New(narrator, cfg.CoachRequestsPerMinute), charts, services.Options{
		DefaultCurrency: cfg.DefaultCurrency,
		DefaultBudget:   cfg.DefaultMonthlyBudget,
	})

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Ledger:             ledger,
		Accounts:           services.NewAccountService(res.Store),
		Issuer:             auth.NewIssuer(cfg.SessionSecret, cfg.SessionTTL),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		SecureCookies:      cfg.SecureCookies,
		Logger:             logger,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	cli.PrintBanner("wagewise", version, map[string]string{
		"port":     cfg.Port,
		"backend":  cfg.DataBackend,
		"events":   strconv.FormatBool(publisher != nil),
		"coach":    strconv.FormatBool(narrator != nil),
		"currency": cfg.DefaultCurrency,
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting wagewise server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
