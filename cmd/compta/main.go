package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/AE2TML/app-compta-aetml/internal/attachments"
	"github.com/AE2TML/app-compta-aetml/internal/config"
	apphttp "github.com/AE2TML/app-compta-aetml/internal/http"
	applog "github.com/AE2TML/app-compta-aetml/internal/log"
	"github.com/AE2TML/app-compta-aetml/internal/report"
	"github.com/AE2TML/app-compta-aetml/internal/services"
	"github.com/AE2TML/app-compta-aetml/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.New(applog.DefaultConfig()).Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := applog.New(applog.Config{Level: level, Component: applog.ComponentApp})
	applog.SetDefault(logger)

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err.Error(), applog.FieldFile, cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	svc := services.NewLedgerService(
		store,
		attachments.NewStore(cfg.AttachmentsDir),
		report.NewGenerator(cfg.ReportsDir),
		cfg.BackupsDir,
		logger,
	)

	srv := apphttp.NewServer(":"+cfg.Port, svc, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting compta server", "port", cfg.Port, applog.FieldFile, store.Path())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
