package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finware/ledgerd/internal/admission"
	"github.com/finware/ledgerd/internal/config"
	"github.com/finware/ledgerd/internal/ledger"
	"github.com/finware/ledgerd/internal/logging"
	"github.com/finware/ledgerd/internal/server"
	"github.com/finware/ledgerd/internal/session"
	"github.com/finware/ledgerd/internal/store"
	"github.com/finware/ledgerd/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("ledgerd", cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, "ledgerd", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	recorder, err := telemetry.NewRecorder()
	if err != nil {
		slog.Error("failed to set up telemetry recorder", "error", err)
		os.Exit(1)
	}

	accounts := store.New()
	sessions := session.NewRegistry(accounts)
	gate := admission.NewGate(cfg.AdmissionEveryN, recorder)
	engine := ledger.NewEngine(accounts, sessions, cfg, recorder)

	srv := server.New(cfg.Port, server.NewRouter(server.RouterDependencies{
		Engine:   engine,
		Gate:     gate,
		Recorder: recorder,
	}))

	go func() {
		slog.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	if err := server.Shutdown(srv, 30*time.Second); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
