// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/heliostat/internal/config"
	"github.com/tomtom215/heliostat/internal/database"
	"github.com/tomtom215/heliostat/internal/engine"
	"github.com/tomtom215/heliostat/internal/logging"
	ws "github.com/tomtom215/heliostat/internal/websocket"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket origin checks
//   - handlers_analysis.go: ingest and analysis control surface
//   - handlers_results.go: result, summary, and failure queries
//   - handlers_health.go: liveness and readiness endpoints
//   - handlers_websocket.go: progress stream upgrade
type Handler struct {
	db        *database.DB
	orch      *engine.Orchestrator
	registry  *engine.Registry
	config    *config.Config
	wsHub     *ws.Hub
	startTime time.Time
}

// NewHandler creates a new API handler with all required dependencies.
func NewHandler(db *database.DB, orch *engine.Orchestrator, registry *engine.Registry, cfg *config.Config, wsHub *ws.Hub) *Handler {
	return &Handler{
		db:        db,
		orch:      orch,
		registry:  registry,
		config:    cfg,
		wsHub:     wsHub,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow-client attacks.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. An
// empty Origin header is rejected: legitimate browser WebSockets
// always include one, and allowing its absence bypasses CORS.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().
		Str("origin", sanitizeLogValue(origin)).
		Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
