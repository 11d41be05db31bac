package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"blockdebug/internal/config"
	internaldb "blockdebug/internal/db"
	"blockdebug/internal/httpapi"
	"blockdebug/internal/runstore"
	"blockdebug/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the blockdebug HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to load before reading the environment")

	return cmd
}

func runServe(envFile string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "warn: could not load %s: %v\n", envFile, err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	for _, w := range cfg.Warnings {
		logger.Warn("config warning", "detail", w)
	}

	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.RunStoreDBPath, 4)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer writeDB.Close() //nolint:errcheck
	defer readDB.Close()  //nolint:errcheck

	logger.Info("running run-store migrations")
	if err := internaldb.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migration: %w", err)
	}

	store := runstore.New(writeDB)
	svc := httpapi.NewService(store, cfg.DefaultOutputSize, cfg.MaxOutputSize, cfg.JoinWorkers, logger)

	router := httpapi.NewRouter(httpapi.Deps{Cfg: cfg, Runner: svc, Logger: logger})

	var sched *scheduler.Scheduler
	if cfg.ScheduleCron != "" {
		sched = scheduler.New(svc, nil, logger)
		logger.Warn("SCHEDULE_CRON is set but no scheduled job source is configured; the scheduler will start with zero jobs")
		if err := sched.Start(ctx); err != nil {
			logger.Warn("scheduler failed to start", "error", err)
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("HTTP API listening", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
