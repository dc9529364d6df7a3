// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/heliostat/internal/engine"
	"github.com/tomtom215/heliostat/internal/logging"
	"github.com/tomtom215/heliostat/internal/models"
	"github.com/tomtom215/heliostat/internal/solar"
)

// maxIngestBody caps project input payloads. A full weather year plus
// a few thousand elements fits comfortably; anything larger is abuse.
const maxIngestBody = 32 << 20 // 32 MB

// ingestRequest is the payload of POST /projects/{projectID}/elements.
type ingestRequest struct {
	Elements []models.BuildingElement `json:"elements" validate:"required,min=1"`
	Weather  *models.WeatherSeries    `json:"weather" validate:"required"`
}

// IngestElements registers the validated inputs for a project,
// replacing prior inputs. Malformed elements or an incomplete weather
// series reject the whole batch before any run can see it.
func (h *Handler) IngestElements(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := chi.URLParam(r, "projectID")

	r.Body = http.MaxBytesReader(w, r.Body, maxIngestBody)
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := h.registry.Register(projectID, req.Elements, req.Weather); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("project_id", sanitizeLogValue(projectID)).
		Int("elements", len(req.Elements)).
		Msg("Project inputs ingested")

	respondData(w, http.StatusCreated, map[string]interface{}{
		"project_id": projectID,
		"elements":   len(req.Elements),
	}, start)
}

// startRequest is the payload of POST /projects/{projectID}/analysis.
type startRequest struct {
	Preset string `json:"preset"`
}

// StartAnalysis starts or resumes the radiation analysis for a
// project. Responds 202 with the run state, or 409 when a run with a
// fresh heartbeat already holds the project.
func (h *Handler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := chi.URLParam(r, "projectID")

	var req startRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
			return
		}
	}

	rs, err := h.orch.Start(r.Context(), projectID, req.Preset)
	switch {
	case errors.Is(err, engine.ErrAlreadyRunning):
		respondError(w, http.StatusConflict, "ALREADY_RUNNING",
			"An analysis for this project is already running", nil)
		return
	case errors.Is(err, engine.ErrProjectNotFound):
		respondError(w, http.StatusNotFound, "PROJECT_NOT_FOUND",
			"No inputs have been ingested for this project", nil)
		return
	case errors.Is(err, solar.ErrUnknownPreset):
		respondError(w, http.StatusBadRequest, "UNKNOWN_PRESET",
			"Preset must be one of: hourly, daily-peak, monthly-average, yearly-average", nil)
		return
	case errors.Is(err, engine.ErrNoElements):
		respondError(w, http.StatusUnprocessableEntity, "NO_ELEMENTS",
			"The project has no elements to analyze", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "START_FAILED",
			"Failed to start analysis", err)
		return
	}

	respondData(w, http.StatusAccepted, rs, start)
}

// CancelAnalysis requests cooperative cancellation of the project's
// active run. Already-committed results are left intact.
func (h *Handler) CancelAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := chi.URLParam(r, "projectID")

	if err := h.orch.Cancel(projectID); err != nil {
		if errors.Is(err, engine.ErrNotRunning) {
			respondError(w, http.StatusConflict, "NOT_RUNNING",
				"No active analysis for this project", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "CANCEL_FAILED",
			"Failed to cancel analysis", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("project_id", sanitizeLogValue(projectID)).
		Msg("Analysis cancellation requested")

	respondData(w, http.StatusAccepted, map[string]string{
		"project_id": projectID,
		"status":     "cancelling",
	}, start)
}

// GetProgress reports the progress snapshot of a project's analysis.
// A project that never ran reports IDLE with zero counters.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := chi.URLParam(r, "projectID")

	progress, err := h.orch.Progress(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "PROGRESS_FAILED",
			"Failed to read run progress", err)
		return
	}

	respondData(w, http.StatusOK, progress, start)
}
