// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package metrics provides Prometheus instrumentation for the radiation
// engine, the result store, and the API surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engine metrics

	ElementsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heliostat_elements_processed_total",
			Help: "Total number of building elements processed, by result status",
		},
		[]string{"status"}, // "ok", "skipped", "failed"
	)

	ElementsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "heliostat_elements_deduplicated_total",
			Help: "Total number of duplicate building elements collapsed before orchestration",
		},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heliostat_batch_duration_seconds",
			Help:    "Wall-clock duration of complete radiation analysis runs",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 1800},
		},
	)

	RunsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "heliostat_runs_active",
			Help: "Number of radiation analysis runs currently in RUNNING state",
		},
	)

	WatchdogRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "heliostat_watchdog_recoveries_total",
			Help: "Total number of stale runs reset to IDLE by the liveness watchdog",
		},
	)

	// Result store metrics

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "heliostat_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heliostat_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// API metrics

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "heliostat_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// WebSocket metrics

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "heliostat_websocket_clients",
			Help: "Number of connected progress WebSocket clients",
		},
	)
)

// ObserveDBQuery records the duration and outcome of a store operation.
func ObserveDBQuery(operation string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
