package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"paytrack/internal/config"
	apphttp "paytrack/internal/http"
	applog "paytrack/internal/log"
	"paytrack/internal/store"
	"paytrack/internal/store/memory"
	"paytrack/internal/store/xlsx"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to resolve timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	var (
		loader   store.RecordLoader
		appender store.RecordAppender
	)
	switch cfg.DataBackend {
	case "memory":
		st := memory.New()
		loader, appender = st, st
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		st := xlsx.NewStore(cfg.RecordsFile, cfg.SheetName, loc)
		// Fail fast on an unreadable workbook instead of silently
		// rewriting it on the first append.
		if records, err := st.Load(context.Background()); err != nil {
			logger.Error("Failed to load records workbook", "error", err, "path", cfg.RecordsFile)
			os.Exit(1)
		} else {
			logger.Info("Loaded records workbook", "path", cfg.RecordsFile, "records", len(records))
		}
		loader, appender = st, st
	}
	exporter := xlsx.Exporter{Sheet: cfg.SheetName}

	srv := apphttp.NewServer(":"+cfg.Port, loader, appender, exporter, loc)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting paytrack server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
