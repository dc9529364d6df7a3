// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package main is the entry point for the Heliostat server.
//
// Heliostat computes annual solar irradiance for building facade
// elements (windows, glazed curtain-wall panels) from hourly weather
// series. Batches are resumable: results are persisted per element in
// DuckDB, run state is persisted in BadgerDB, and a liveness watchdog
// recovers runs abandoned by a crashed process.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Result store: DuckDB with the radiation_records table
//  3. Run-state store: BadgerDB for durable RunState records
//  4. Engine: registry, deduplicator, orchestrator, watchdog
//  5. WebSocket hub: real-time run transition broadcasts
//  6. HTTP server: REST API under /api/v1
//
// All long-running components (watchdog, hub, HTTP server) run under a
// suture supervision tree with per-layer failure isolation.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HELIOSTAT_ prefix)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Cancels in-flight analysis runs, leaving them PAUSED and
//     resumable on next start
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes both stores
//
// # Example Usage
//
//	export HELIOSTAT_DATABASE_PATH=/data/heliostat.duckdb
//	export HELIOSTAT_STATE_PATH=/data/runstate
//	./heliostat
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

	"github.com/tomtom215/heliostat/internal/api"
	"github.com/tomtom215/heliostat/internal/config"
	"github.com/tomtom215/heliostat/internal/database"
	"github.com/tomtom215/heliostat/internal/engine"
	"github.com/tomtom215/heliostat/internal/logging"
	"github.com/tomtom215/heliostat/internal/state"
	"github.com/tomtom215/heliostat/internal/supervisor"
	"github.com/tomtom215/heliostat/internal/supervisor/services"
	ws "github.com/tomtom215/heliostat/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("state_path", cfg.State.Path).
		Str("default_preset", cfg.Engine.Preset).
		Msg("Starting Heliostat")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize result store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing result store")
		}
	}()
	logging.Info().Msg("Result store initialized")

	runs, err := state.Open(cfg.State.Path)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing result store")
		}
		logging.Fatal().Err(err).Msg("Failed to open run-state store")
	}
	defer func() {
		if err := runs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing run-state store")
		}
	}()
	logging.Info().Msg("Run-state store initialized")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Hub before the emitter subscription so transitions reach clients
	// from the first processed element.
	wsHub := ws.NewHub()

	registry := engine.NewRegistry()
	emitter := engine.NewTransitionEmitter()
	emitter.Subscribe(wsHub.BroadcastTransition)

	orch := engine.NewOrchestrator(&cfg.Engine, db, runs, registry, emitter)
	watchdog := engine.NewWatchdog(&cfg.Engine, runs)

	// Recover runs abandoned by a previous process before accepting
	// new analysis requests.
	watchdog.CheckOnce(ctx, time.Now().UTC())

	handler := api.NewHandler(db, orch, registry, cfg, wsHub)
	middleware := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddEngineService(watchdog)
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// In-flight runs persist as PAUSED and resume on next start.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := orch.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("Orchestrator shutdown incomplete")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
