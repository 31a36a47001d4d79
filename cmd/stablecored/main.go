package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stablecore/config"
	"stablecore/native/bank"
	"stablecore/native/stable"
	"stablecore/observability/logging"
	"stablecore/service"
	"stablecore/storage"
)

const envVar = "STABLE_ENV"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv(envVar))

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.Setup("stablecored", env, slog.LevelInfo).
			Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.Environment != "" && env == "" {
		env = cfg.Environment
	}
	logger := logging.Setup("stablecored", env, logging.ParseLevel(cfg.LogLevel))

	store, err := storage.OpenLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	feed := stable.NewFeed()
	feed.SetMaxAge(time.Duration(cfg.OracleMaxAgeSeconds) * time.Second)

	engine := stable.NewEngine(cfg.Vault())
	engine.SetState(store)
	engine.SetOracle(feed)
	engine.SetTransfers(bank.NewLedger())

	server := service.NewServer(engine, feed, logger)
	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server listening", slog.String("address", cfg.ListenAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown incomplete", slog.Any("error", err))
	}
}
