package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"wagewise/internal/amqp"
	"wagewise/internal/cli"
	"wagewise/internal/sheets"
	gsheet "wagewise/internal/sheets/google"
	mem "wagewise/internal/sheets/memory"
	"wagewise/internal/storage"
	"wagewise/internal/worker"
)

var version = "dev"

func main() {
	cli.LoadEnvFile()
	logger, level := cli.SetupLogger("wagewise-worker", slog.LevelInfo)

	cfg := cli.LoadAndValidateConfig(logger)
	level.Set(cfg.Level())

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var mirror sheets.LedgerMirror
	if cfg.MirrorEnabled() {
		client, err := gsheet.New(context.Background(), gsheet.Options{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		mirror = mem.New()
		logger.Info("Google Sheets disabled, mirroring in memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, mirror, cfg.SyncBatchSize)
	sweeper := worker.NewSweeper(syncWorker, cfg.SyncInterval)

	cli.PrintBanner("wagewise-worker", version, map[string]string{
		"queue":    cfg.AMQPQueue,
		"mirror":   mirrorName(cfg.MirrorEnabled()),
		"interval": cfg.SyncInterval.String(),
		"batch":    strconv.Itoa(cfg.SyncBatchSize),
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sweeper.Stop(stopCtx); err != nil {
			logger.Warn("Sweeper stop error", "error", err)
		}
	})

	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeLedgerEvents(gctx, syncWorker.HandleLedgerEvent)
	})
	g.Go(func() error {
		return sweeper.Start(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}

func mirrorName(enabled bool) string {
	if enabled {
		return "google-sheets"
	}
	return "memory"
}
