// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/heliostat/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	rs := &models.RunState{
		ProjectID:       "proj-a",
		RunID:           uuid.New(),
		Status:          models.RunStatusRunning,
		Preset:          "hourly",
		StartedAt:       now,
		LastHeartbeatAt: now,
		Processed:       3,
		Total:           10,
	}
	if err := s.Save(ctx, rs); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Load(ctx, "proj-a")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.RunID != rs.RunID {
		t.Errorf("run ID = %v, want %v", got.RunID, rs.RunID)
	}
	if got.Status != models.RunStatusRunning {
		t.Errorf("status = %q, want RUNNING", got.Status)
	}
	if got.Processed != 3 || got.Total != 10 {
		t.Errorf("progress = %d/%d, want 3/10", got.Processed, got.Total)
	}
	if !got.LastHeartbeatAt.Equal(now) {
		t.Errorf("heartbeat = %v, want %v", got.LastHeartbeatAt, now)
	}
}

func TestLoadMissingProject(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "never-ran")
	if !errors.Is(err, ErrRunStateNotFound) {
		t.Errorf("error = %v, want ErrRunStateNotFound", err)
	}
}

func TestHeartbeat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("refreshes running run", func(t *testing.T) {
		old := time.Now().UTC().Add(-time.Hour)
		rs := &models.RunState{
			ProjectID:       "proj-b",
			RunID:           uuid.New(),
			Status:          models.RunStatusRunning,
			LastHeartbeatAt: old,
		}
		if err := s.Save(ctx, rs); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		now := time.Now().UTC().Truncate(time.Second)
		if err := s.Heartbeat(ctx, "proj-b", now); err != nil {
			t.Fatalf("heartbeat failed: %v", err)
		}

		got, err := s.Load(ctx, "proj-b")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !got.LastHeartbeatAt.Equal(now) {
			t.Errorf("heartbeat = %v, want refreshed to %v", got.LastHeartbeatAt, now)
		}
	})

	t.Run("does not revive non-running run", func(t *testing.T) {
		finished := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
		rs := &models.RunState{
			ProjectID:       "proj-c",
			RunID:           uuid.New(),
			Status:          models.RunStatusCompleted,
			LastHeartbeatAt: finished,
		}
		if err := s.Save(ctx, rs); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		if err := s.Heartbeat(ctx, "proj-c", time.Now().UTC()); err != nil {
			t.Fatalf("heartbeat failed: %v", err)
		}

		got, err := s.Load(ctx, "proj-c")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !got.LastHeartbeatAt.Equal(finished) {
			t.Errorf("heartbeat on completed run moved from %v to %v", finished, got.LastHeartbeatAt)
		}
	})

	t.Run("missing project is an error", func(t *testing.T) {
		err := s.Heartbeat(ctx, "never-ran", time.Now().UTC())
		if !errors.Is(err, ErrRunStateNotFound) {
			t.Errorf("error = %v, want ErrRunStateNotFound", err)
		}
	})
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rs := &models.RunState{ProjectID: "proj-d", RunID: uuid.New(), Status: models.RunStatusCompleted}
	if err := s.Save(ctx, rs); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Clear(ctx, "proj-d"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := s.Load(ctx, "proj-d"); !errors.Is(err, ErrRunStateNotFound) {
		t.Errorf("error after clear = %v, want ErrRunStateNotFound", err)
	}

	// Clearing twice is not an error.
	if err := s.Clear(ctx, "proj-d"); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"proj-x", "proj-y", "proj-z"} {
		rs := &models.RunState{ProjectID: id, RunID: uuid.New(), Status: models.RunStatusRunning}
		if err := s.Save(ctx, rs); err != nil {
			t.Fatalf("save %s failed: %v", id, err)
		}
	}

	states, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(states) != 3 {
		t.Fatalf("state count = %d, want 3", len(states))
	}
	seen := make(map[string]bool)
	for _, rs := range states {
		seen[rs.ProjectID] = true
	}
	for _, id := range []string{"proj-x", "proj-y", "proj-z"} {
		if !seen[id] {
			t.Errorf("list missing project %s", id)
		}
	}
}
