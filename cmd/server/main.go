package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/Simplici0/marginguard/internal/config"
	"github.com/Simplici0/marginguard/internal/db"
	"github.com/Simplici0/marginguard/internal/logger"
	"github.com/Simplici0/marginguard/internal/logistics"
	"github.com/Simplici0/marginguard/internal/migrations"
	"github.com/Simplici0/marginguard/internal/repricing"
	"github.com/Simplici0/marginguard/internal/seed"
	"github.com/Simplici0/marginguard/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	version, err := migrations.Version(ctx, database)
	if err != nil {
		return err
	}
	logger.Infof("database schema at version %d", version)

	stats, err := seed.Run(ctx, database, logistics.DefaultCarriers())
	if err != nil {
		return fmt.Errorf("failed to seed carriers: %w", err)
	}
	logger.Infof("seed complete: %d carriers inserted", stats.Inserts)

	srv := &server{
		store:   store.New(database),
		engine:  repricing.NewEngine(),
		policy:  policy,
		weights: logistics.DefaultWeights(),
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s (env=%s)", httpSrv.Addr, cfg.AppEnv)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
