// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/heliostat/internal/models"
)

// GetRadiationResults returns all per-element radiation records of a
// project. Downstream consumers (PV sizing, optimization, financial
// analysis) read finished results from here only.
func (h *Handler) GetRadiationResults(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := chi.URLParam(r, "projectID")

	records, err := h.db.ListRadiationRecords(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "QUERY_FAILED",
			"Failed to query radiation records", err)
		return
	}
	if records == nil {
		records = []models.RadiationRecord{}
	}

	respondData(w, http.StatusOK, records, start)
}

// GetSummary returns the store-computed aggregate statistics over a
// project's OK records.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := chi.URLParam(r, "projectID")

	summary, err := h.db.Summary(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "QUERY_FAILED",
			"Failed to compute radiation summary", err)
		return
	}

	respondData(w, http.StatusOK, summary, start)
}

// DeleteRadiationResults removes all stored records of a project,
// forcing the next analysis to recompute every element from scratch.
// Rejected while an analysis is running, since the run's resume set
// would go stale underneath it.
func (h *Handler) DeleteRadiationResults(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := chi.URLParam(r, "projectID")

	progress, err := h.orch.Progress(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "QUERY_FAILED",
			"Failed to read run state", err)
		return
	}
	if progress.Status == models.RunStatusRunning {
		respondError(w, http.StatusConflict, "ALREADY_RUNNING",
			"Cannot delete results while an analysis is running", nil)
		return
	}

	if err := h.db.DeleteProjectRecords(r.Context(), projectID); err != nil {
		respondError(w, http.StatusInternalServerError, "DELETE_FAILED",
			"Failed to delete radiation records", err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"project_id": projectID,
		"status":     "deleted",
	}, start)
}

// GetFailures returns the FAILED records of a project so individual
// element failures can be inspected with their reasons.
func (h *Handler) GetFailures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := chi.URLParam(r, "projectID")

	records, err := h.db.ListFailedRecords(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "QUERY_FAILED",
			"Failed to query failed records", err)
		return
	}
	if records == nil {
		records = []models.RadiationRecord{}
	}

	respondData(w, http.StatusOK, records, start)
}
