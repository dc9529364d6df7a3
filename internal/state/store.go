// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package state persists per-project run state in BadgerDB. The record
// is the durable side of the orchestrator's state machine: restarts and
// watchdog recovery both read it instead of trusting in-process memory.
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/heliostat/internal/models"
)

// runKeyPrefix namespaces run-state records so the watchdog can scan
// them without touching unrelated keys.
const runKeyPrefix = "run:"

// ErrRunStateNotFound indicates no run state exists for the project.
var ErrRunStateNotFound = errors.New("run state not found")

// Store persists RunState records in BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens a BadgerDB at path and wraps it in a Store.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for run state: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an in-memory Store. Used in tests.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}

func runKey(projectID string) []byte {
	return []byte(runKeyPrefix + projectID)
}

// Save persists the run state for its project, overwriting any prior
// state. Callers save on every transition and on each heartbeat tick.
func (s *Store) Save(ctx context.Context, rs *models.RunState) error {
	data, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(rs.ProjectID), data)
	})
	if err != nil {
		return fmt.Errorf("save run state for %s: %w", rs.ProjectID, err)
	}
	return nil
}

// Load retrieves the run state for a project. A project that has never
// run returns ErrRunStateNotFound; callers treat that as IDLE.
func (s *Store) Load(ctx context.Context, projectID string) (*models.RunState, error) {
	var rs models.RunState

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(projectID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRunStateNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rs)
		})
	})
	if errors.Is(err, ErrRunStateNotFound) {
		return nil, fmt.Errorf("%w: project %s", ErrRunStateNotFound, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("load run state for %s: %w", projectID, err)
	}
	return &rs, nil
}

// Heartbeat refreshes the liveness timestamp of a RUNNING project in a
// single transaction, so a concurrent watchdog scan sees either the old
// or the new timestamp, never a partial write.
func (s *Store) Heartbeat(ctx context.Context, projectID string, now time.Time) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(projectID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRunStateNotFound
		}
		if err != nil {
			return err
		}

		var rs models.RunState
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rs)
		}); err != nil {
			return err
		}

		if rs.Status != models.RunStatusRunning {
			// A cancelled or recovered run must not be revived by a
			// late heartbeat from a worker that has not noticed yet.
			return nil
		}

		rs.LastHeartbeatAt = now
		data, err := json.Marshal(&rs)
		if err != nil {
			return err
		}
		return txn.Set(runKey(projectID), data)
	})
	if err != nil {
		return fmt.Errorf("heartbeat for %s: %w", projectID, err)
	}
	return nil
}

// Clear removes the run state for a project.
func (s *Store) Clear(ctx context.Context, projectID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(runKey(projectID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Already cleared
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("clear run state for %s: %w", projectID, err)
	}
	return nil
}

// List scans all persisted run states. The watchdog iterates this to
// find stale RUNNING entries across every project.
func (s *Store) List(ctx context.Context) ([]models.RunState, error) {
	var states []models.RunState

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(runKeyPrefix)); it.ValidForPrefix([]byte(runKeyPrefix)); it.Next() {
			var rs models.RunState
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rs)
			}); err != nil {
				key := strings.TrimPrefix(string(it.Item().Key()), runKeyPrefix)
				return fmt.Errorf("decode run state for %s: %w", key, err)
			}
			states = append(states, rs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list run states: %w", err)
	}
	return states, nil
}
