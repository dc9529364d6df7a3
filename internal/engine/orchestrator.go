// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/heliostat/internal/config"
	"github.com/tomtom215/heliostat/internal/logging"
	"github.com/tomtom215/heliostat/internal/metrics"
	"github.com/tomtom215/heliostat/internal/models"
	"github.com/tomtom215/heliostat/internal/solar"
	"github.com/tomtom215/heliostat/internal/state"
)

// ResultStore is the durable radiation result store the orchestrator
// commits to. Satisfied by *database.DB.
type ResultStore interface {
	UpsertRadiationRecord(ctx context.Context, rec *models.RadiationRecord) error
	ListProcessedIDs(ctx context.Context, projectID string) (map[string]struct{}, error)
}

// RunStore is the durable run-state store. Satisfied by *state.Store.
type RunStore interface {
	Save(ctx context.Context, rs *models.RunState) error
	Load(ctx context.Context, projectID string) (*models.RunState, error)
	Heartbeat(ctx context.Context, projectID string, now time.Time) error
	Clear(ctx context.Context, projectID string) error
}

// Orchestrator drives radiation analysis runs, one active run per
// project at a time. Exclusivity is enforced by the durable RunState
// plus a heartbeat freshness check rather than a hard lock, so the
// watchdog can always recover an abandoned run.
type Orchestrator struct {
	cfg      *config.EngineConfig
	results  ResultStore
	runs     RunStore
	registry *Registry
	emitter  *TransitionEmitter

	mu     sync.Mutex
	active map[string]*activeRun
}

type activeRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewOrchestrator creates an orchestrator over the given stores.
func NewOrchestrator(cfg *config.EngineConfig, results ResultStore, runs RunStore, registry *Registry, emitter *TransitionEmitter) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		results:  results,
		runs:     runs,
		registry: registry,
		emitter:  emitter,
		active:   make(map[string]*activeRun),
	}
}

// Start begins (or resumes) the analysis for a project. The preset
// label may be empty, in which case the configured default applies.
// Returns ErrAlreadyRunning when a RUNNING state with a fresh
// heartbeat exists, and the started RunState otherwise. Computation
// proceeds asynchronously; observe it via Progress, Done, or the
// transition emitter.
func (o *Orchestrator) Start(ctx context.Context, projectID, presetLabel string) (*models.RunState, error) {
	if presetLabel == "" {
		presetLabel = o.cfg.Preset
	}
	preset, err := solar.ParsePreset(presetLabel)
	if err != nil {
		return nil, err
	}

	inputs, err := o.registry.Get(projectID)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, running := o.active[projectID]; running {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, projectID)
	}

	// The durable state catches a second orchestrator instance that
	// this process never saw. A stale heartbeat means the previous
	// holder died; starting over it is the self-healing path.
	if prev, err := o.runs.Load(ctx, projectID); err == nil {
		if prev.Status == models.RunStatusRunning && prev.HeartbeatFresh(time.Now(), o.cfg.HeartbeatTimeout) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, projectID)
		}
	} else if !errors.Is(err, state.ErrRunStateNotFound) {
		return nil, fmt.Errorf("check run state: %w", err)
	}

	elements := Deduplicate(inputs.Elements)
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoElements, projectID)
	}

	processed, err := o.results.ListProcessedIDs(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load processed elements: %w", err)
	}

	var pending []models.BuildingElement
	for _, e := range elements {
		if _, done := processed[e.ElementID]; !done {
			pending = append(pending, e)
		}
	}

	now := time.Now().UTC()
	rs := &models.RunState{
		ProjectID:       projectID,
		RunID:           uuid.New(),
		Status:          models.RunStatusRunning,
		Preset:          string(preset),
		StartedAt:       now,
		LastHeartbeatAt: now,
		Processed:       len(elements) - len(pending),
		Total:           len(elements),
	}
	if err := o.runs.Save(ctx, rs); err != nil {
		return nil, fmt.Errorf("persist run state: %w", err)
	}

	runCtx, cancel := context.WithTimeout(context.Background(), o.cfg.HardTimeout)
	run := &activeRun{cancel: cancel, done: make(chan struct{})}
	o.active[projectID] = run

	metrics.RunsActive.Inc()
	o.emitter.Emit(TransitionEvent{
		ProjectID:  projectID,
		Transition: TransitionRunStarted,
		Processed:  rs.Processed,
		Total:      rs.Total,
	})
	logging.Info().
		Str("component", "engine").
		Str("project_id", projectID).
		Str("run_id", rs.RunID.String()).
		Str("preset", string(preset)).
		Int("pending", len(pending)).
		Int("total", rs.Total).
		Msg("Radiation analysis started")

	go o.runBatch(runCtx, run, rs, preset, pending, inputs.Weather)

	snapshot := *rs
	return &snapshot, nil
}

// Cancel requests cooperative cancellation of the project's active
// run. Workers stop at the next element boundary; committed records
// are never rolled back.
func (o *Orchestrator) Cancel(projectID string) error {
	o.mu.Lock()
	run, ok := o.active[projectID]
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, projectID)
	}
	run.cancel()
	return nil
}

// Progress returns the current progress snapshot for a project. A
// project with no persisted run state reports IDLE.
func (o *Orchestrator) Progress(ctx context.Context, projectID string) (*models.Progress, error) {
	rs, err := o.runs.Load(ctx, projectID)
	if errors.Is(err, state.ErrRunStateNotFound) {
		return &models.Progress{ProjectID: projectID, Status: models.RunStatusIdle}, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.Progress{
		ProjectID: projectID,
		Status:    rs.Status,
		Processed: rs.Processed,
		Total:     rs.Total,
	}, nil
}

// Done returns a channel closed when the project's active run
// finishes. Returns nil when no run is active.
func (o *Orchestrator) Done(projectID string) <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if run, ok := o.active[projectID]; ok {
		return run.done
	}
	return nil
}

// Shutdown cancels all active runs and waits for them to stop, or
// until ctx expires.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	var doneChans []<-chan struct{}
	for _, run := range o.active {
		run.cancel()
		doneChans = append(doneChans, run.done)
	}
	o.mu.Unlock()

	for _, done := range doneChans {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// elementResult pairs a computed record with its emitter transition.
type elementResult struct {
	record     models.RadiationRecord
	transition TransitionType
}

// runBatch executes one run to completion. It owns all writes to the
// run's RunState; workers only compute.
func (o *Orchestrator) runBatch(ctx context.Context, run *activeRun, rs *models.RunState, preset solar.Preset, pending []models.BuildingElement, weather *models.WeatherSeries) {
	start := time.Now()
	defer func() {
		run.cancel()
		metrics.RunsActive.Dec()
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
		o.mu.Lock()
		delete(o.active, rs.ProjectID)
		o.mu.Unlock()
		close(run.done)
	}()

	positions := memoizePositions(preset, weather)

	heartbeatDone := make(chan struct{})
	go o.heartbeatLoop(ctx, rs.ProjectID, heartbeatDone)
	defer close(heartbeatDone)

	workers := o.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pending) && len(pending) > 0 {
		workers = len(pending)
	}

	work := make(chan models.BuildingElement)
	results := make(chan elementResult)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for e := range work {
				results <- o.computeElement(&e, preset, weather, positions)
				// Suspension point: cancellation is honored between
				// elements, never mid-element.
				select {
				case <-ctx.Done():
					return
				default:
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, e := range pending {
			select {
			case work <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Commits run on a context detached from cancellation. A cancel or
	// hard timeout stops workers at the next element boundary, but
	// results already computed must still reach the store, and a
	// cancelled commit must never be classified as a storage failure.
	commitCtx := context.WithoutCancel(ctx)

	var abortErr error
	for res := range results {
		if err := o.results.UpsertRadiationRecord(commitCtx, &res.record); err != nil {
			// Storage-layer failure aborts the whole run; element
			// failures never do.
			abortErr = err
			run.cancel()
			continue
		}

		rs.Processed++
		rs.LastHeartbeatAt = time.Now().UTC()
		if err := o.runs.Save(commitCtx, rs); err != nil {
			logging.Error().Err(err).
				Str("component", "engine").
				Str("project_id", rs.ProjectID).
				Msg("Failed to persist run progress")
		}

		status := "ok"
		if res.record.Status == models.RadiationStatusFailed {
			status = "failed"
		}
		metrics.ElementsProcessed.WithLabelValues(status).Inc()
		o.emitter.Emit(TransitionEvent{
			ProjectID:  rs.ProjectID,
			ElementID:  res.record.ElementID,
			Transition: res.transition,
			Processed:  rs.Processed,
			Total:      rs.Total,
		})
	}

	o.finishRun(rs, ctx.Err(), abortErr)
}

// finishRun records the terminal status of a run.
func (o *Orchestrator) finishRun(rs *models.RunState, ctxErr, abortErr error) {
	now := time.Now().UTC()
	rs.LastHeartbeatAt = now
	rs.FinishedAt = now

	transition := TransitionRunCompleted
	switch {
	case abortErr != nil:
		rs.Status = models.RunStatusFailed
		transition = TransitionRunCancelled
		logging.Error().Err(abortErr).
			Str("component", "engine").
			Str("project_id", rs.ProjectID).
			Msg("Radiation analysis aborted by storage failure")
	case ctxErr != nil:
		// Cancelled or timed out mid-run. Committed records stay;
		// PAUSED allows an explicit restart to resume from the store.
		rs.Status = models.RunStatusPaused
		transition = TransitionRunCancelled
		logging.Warn().
			Str("component", "engine").
			Str("project_id", rs.ProjectID).
			Int("processed", rs.Processed).
			Int("total", rs.Total).
			Msg("Radiation analysis paused before completion")
	default:
		rs.Status = models.RunStatusCompleted
		logging.Info().
			Str("component", "engine").
			Str("project_id", rs.ProjectID).
			Int("total", rs.Total).
			Msg("Radiation analysis completed")
	}

	if err := o.runs.Save(context.Background(), rs); err != nil {
		logging.Error().Err(err).
			Str("component", "engine").
			Str("project_id", rs.ProjectID).
			Msg("Failed to persist final run state")
	}

	o.emitter.Emit(TransitionEvent{
		ProjectID:  rs.ProjectID,
		Transition: transition,
		Processed:  rs.Processed,
		Total:      rs.Total,
	})
}

// heartbeatLoop refreshes the durable heartbeat while the run lives,
// proving liveness to the watchdog and to other orchestrator
// instances.
func (o *Orchestrator) heartbeatLoop(ctx context.Context, projectID string, done <-chan struct{}) {
	interval := o.cfg.HeartbeatInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := o.runs.Heartbeat(ctx, projectID, time.Now().UTC()); err != nil {
				logging.Warn().Err(err).
					Str("component", "engine").
					Str("project_id", projectID).
					Msg("Heartbeat persistence failed")
			}
		}
	}
}

// positionEntry is one memoized sun position. Invalid entries come
// from timestamps the position algorithm rejected; they contribute
// nothing to any element's total.
type positionEntry struct {
	pos   solar.SunPosition
	valid bool
}

// memoizePositions computes the sun position once per preset time
// sample. Positions depend only on station coordinates and timestamp,
// so every element shares this read-only table.
func memoizePositions(preset solar.Preset, weather *models.WeatherSeries) []positionEntry {
	samples := preset.Samples()
	table := make([]positionEntry, len(samples))
	for i, ts := range samples {
		sample := weather.At(ts.DayOfYear, ts.Hour)
		pos, err := solar.Position(weather.Latitude, weather.Longitude, sample.Timestamp)
		if err != nil {
			logging.Warn().Err(err).
				Int("day_of_year", ts.DayOfYear).
				Int("hour", ts.Hour).
				Msg("Skipping time sample with invalid sun position")
			continue
		}
		table[i] = positionEntry{pos: pos, valid: true}
	}
	return table
}

// computeElement evaluates one element over all preset time samples.
// Failures are isolated: the element gets a FAILED record with a
// reason and the batch continues.
func (o *Orchestrator) computeElement(e *models.BuildingElement, preset solar.Preset, weather *models.WeatherSeries, positions []positionEntry) elementResult {
	samples := preset.Samples()

	var sum float64
	evaluated := 0
	for i, ts := range samples {
		if !positions[i].valid {
			continue
		}
		w := weather.At(ts.DayOfYear, ts.Hour)
		sum += solar.PlaneOfArrayIrradiance(
			w.GHI, w.DNI, w.DHI,
			positions[i].pos,
			e.TiltDeg, e.OrientationAzimuthDeg,
			e.EffectiveShadingFactor(),
		)
		evaluated++
	}

	record := models.RadiationRecord{
		ProjectID:   e.ProjectID,
		ElementID:   e.ElementID,
		SampleCount: evaluated,
		Preset:      string(preset),
		ComputedAt:  time.Now().UTC(),
	}

	annual := preset.AnnualIrradiance(sum)
	if math.IsNaN(annual) || math.IsInf(annual, 0) {
		record.Status = models.RadiationStatusFailed
		record.Reason = "non-finite irradiance result"
		return elementResult{record: record, transition: TransitionElementFailed}
	}
	if evaluated == 0 {
		record.Status = models.RadiationStatusFailed
		record.Reason = "no valid time samples"
		return elementResult{record: record, transition: TransitionElementFailed}
	}

	record.AnnualIrradiance = annual
	record.Status = models.RadiationStatusOK
	return elementResult{record: record, transition: TransitionElementCompleted}
}
