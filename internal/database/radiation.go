// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/heliostat/internal/metrics"
	"github.com/tomtom215/heliostat/internal/models"
)

// ErrRecordNotFound indicates no radiation record exists for the key.
var ErrRecordNotFound = errors.New("radiation record not found")

// UpsertRadiationRecord inserts or replaces the record for
// (project_id, element_id). Re-running an element supersedes its prior
// record; the primary key guarantees a race between two writers leaves
// exactly one row reflecting the latest write.
func (db *DB) UpsertRadiationRecord(ctx context.Context, rec *models.RadiationRecord) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("upsert_radiation_record", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if rec.ComputedAt.IsZero() {
		rec.ComputedAt = time.Now().UTC()
	}

	const query = `INSERT INTO radiation_records (
		project_id, element_id, annual_irradiance, sample_count, preset, status, reason, computed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (project_id, element_id) DO UPDATE SET
		annual_irradiance = excluded.annual_irradiance,
		sample_count      = excluded.sample_count,
		preset            = excluded.preset,
		status            = excluded.status,
		reason            = excluded.reason,
		computed_at       = excluded.computed_at`

	_, err = db.conn.ExecContext(ctx, query,
		rec.ProjectID, rec.ElementID, rec.AnnualIrradiance, rec.SampleCount,
		rec.Preset, string(rec.Status), rec.Reason, rec.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert radiation record %s/%s: %w", rec.ProjectID, rec.ElementID, err)
	}
	return nil
}

// GetRadiationRecord retrieves one record by key.
func (db *DB) GetRadiationRecord(ctx context.Context, projectID, elementID string) (rec *models.RadiationRecord, err error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("get_radiation_record", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const query = `SELECT project_id, element_id, annual_irradiance, sample_count, preset, status, reason, computed_at
		FROM radiation_records WHERE project_id = ? AND element_id = ?`

	rec = &models.RadiationRecord{}
	var status string
	err = db.conn.QueryRowContext(ctx, query, projectID, elementID).Scan(
		&rec.ProjectID, &rec.ElementID, &rec.AnnualIrradiance, &rec.SampleCount,
		&rec.Preset, &status, &rec.Reason, &rec.ComputedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, projectID, elementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get radiation record %s/%s: %w", projectID, elementID, err)
	}
	rec.Status = models.RadiationStatus(status)
	return rec, nil
}

// ListRadiationRecords returns all records for a project, ordered by
// element ID for stable output.
func (db *DB) ListRadiationRecords(ctx context.Context, projectID string) (recs []models.RadiationRecord, err error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("list_radiation_records", start, err) }()

	const query = `SELECT project_id, element_id, annual_irradiance, sample_count, preset, status, reason, computed_at
		FROM radiation_records WHERE project_id = ? ORDER BY element_id`

	return db.queryRecords(ctx, query, projectID)
}

// ListFailedRecords returns the FAILED records for a project so callers
// can inspect individual failure reasons.
func (db *DB) ListFailedRecords(ctx context.Context, projectID string) (recs []models.RadiationRecord, err error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("list_failed_records", start, err) }()

	const query = `SELECT project_id, element_id, annual_irradiance, sample_count, preset, status, reason, computed_at
		FROM radiation_records WHERE project_id = ? AND status = 'FAILED' ORDER BY element_id`

	return db.queryRecords(ctx, query, projectID)
}

func (db *DB) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.RadiationRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query radiation records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []models.RadiationRecord
	for rows.Next() {
		var rec models.RadiationRecord
		var status string
		if err := rows.Scan(
			&rec.ProjectID, &rec.ElementID, &rec.AnnualIrradiance, &rec.SampleCount,
			&rec.Preset, &status, &rec.Reason, &rec.ComputedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan radiation record: %w", err)
		}
		rec.Status = models.RadiationStatus(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate radiation records: %w", err)
	}
	return records, nil
}

// ListProcessedIDs returns the element IDs already committed with
// status OK for a project. The orchestrator consults this (not
// in-process state) before a run so a cold restart skips finished work.
func (db *DB) ListProcessedIDs(ctx context.Context, projectID string) (ids map[string]struct{}, err error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("list_processed_ids", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const query = `SELECT element_id FROM radiation_records WHERE project_id = ? AND status = 'OK'`

	rows, err := db.conn.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query processed element IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ids = make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan element ID: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate element IDs: %w", err)
	}
	return ids, nil
}

// Summary computes aggregate statistics over a project's OK records in
// SQL. Callers never recompute these from raw records; the store owns
// the aggregation so every reader sees identical numbers.
func (db *DB) Summary(ctx context.Context, projectID string) (summary *models.RadiationSummary, err error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("summary", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const query = `SELECT
		COUNT(*),
		COALESCE(AVG(annual_irradiance), 0),
		COALESCE(MIN(annual_irradiance), 0),
		COALESCE(MAX(annual_irradiance), 0)
	FROM radiation_records WHERE project_id = ? AND status = 'OK'`

	summary = &models.RadiationSummary{}
	err = db.conn.QueryRowContext(ctx, query, projectID).Scan(
		&summary.Count, &summary.Mean, &summary.Min, &summary.Max,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute radiation summary: %w", err)
	}
	return summary, nil
}

// DeleteProjectRecords removes all records for a project. Used when a
// project's inputs are replaced and results must be recomputed.
func (db *DB) DeleteProjectRecords(ctx context.Context, projectID string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("delete_project_records", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err = db.conn.ExecContext(ctx, `DELETE FROM radiation_records WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to delete records for project %s: %w", projectID, err)
	}
	return nil
}
