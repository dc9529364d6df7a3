// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package api

import (
	"net/http"
	"time"
)

// HealthLive reports process liveness. It answers as long as the HTTP
// layer runs; no dependencies are checked.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).String(),
	}, start)
}

// HealthReady reports readiness to serve: the result store must answer
// a ping. Used by orchestrators to gate traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY",
			"Result store is not reachable", err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
