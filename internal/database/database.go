// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package database implements the durable radiation result store on
// DuckDB. The store is the single source of truth for per-element
// results: uniqueness of (project_id, element_id) is enforced by a
// primary key constraint, not application logic, so racing writers
// cannot produce duplicate rows.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/heliostat/internal/config"
	"github.com/tomtom215/heliostat/internal/logging"
)

// defaultQueryTimeout bounds store operations that arrive without a
// caller deadline.
const defaultQueryTimeout = 30 * time.Second

// DB wraps the DuckDB connection and provides result-store access.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the DuckDB database and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "2GB"
	}

	connStr := cfg.Path
	if cfg.Path != ":memory:" && cfg.Path != "" {
		// Ensure the parent directory exists for file-backed databases.
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
		connStr = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
			cfg.Path, numThreads, maxMemory)
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initialize(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing database after failed init")
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Conn exposes the underlying connection for health checks.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// initialize creates the result schema.
//
// The PRIMARY KEY over (project_id, element_id) is load-bearing: the
// idempotent upsert relies on it to guarantee at most one live record
// per element even under concurrent orchestrator instances.
func (db *DB) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS radiation_records (
		project_id        VARCHAR NOT NULL,
		element_id        VARCHAR NOT NULL,
		annual_irradiance DOUBLE  NOT NULL,
		sample_count      INTEGER NOT NULL,
		preset            VARCHAR NOT NULL,
		status            VARCHAR NOT NULL,
		reason            VARCHAR NOT NULL DEFAULT '',
		computed_at       TIMESTAMP NOT NULL,
		PRIMARY KEY (project_id, element_id)
	)`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create radiation_records: %w", err)
	}
	return nil
}

// ensureContext attaches the default query timeout when the caller
// supplied no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
