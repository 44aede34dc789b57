package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/parlor/internal/config"
	"github.com/dukerupert/parlor/internal/database"
	"github.com/dukerupert/parlor/internal/logging"
	"github.com/dukerupert/parlor/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, server.Options{
		SessionTimeout: cfg.SessionTimeout,
		ReclaimPeriod:  cfg.ReclaimPeriod,
		CookieSecure:   cfg.CookieSecure,
		Metrics:        cfg.Metrics,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.Reclaimer().Start(ctx)
	go srv.RateLimiter().Run(ctx, 5*time.Minute)

	// WriteTimeout is left unset: websocket connections stay open.
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("parlor listening", "addr", httpServer.Addr,
			"session_timeout", cfg.SessionTimeout, "reclaim_period", cfg.ReclaimPeriod)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	srv.Reclaimer().Stop()
	cancel()
}
