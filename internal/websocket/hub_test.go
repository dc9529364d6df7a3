// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/heliostat/internal/engine"
	"github.com/tomtom215/heliostat/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub creates and starts a hub under a cancelable context.
func setupHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(10 * time.Millisecond)
	return hub
}

// createTestClient creates a client without a live connection.
func createTestClient(hub *Hub) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, conn: nil, send: make(chan Message, 256)}
}

// registerClient registers a client and waits for registration to complete
func registerClient(hub *Hub, client *Client) {
	hub.Register <- client
	time.Sleep(20 * time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
	if hub.clients == nil || hub.broadcast == nil || hub.Register == nil || hub.Unregister == nil {
		t.Error("hub channels not initialized")
	}
	if len(hub.clients) != 0 {
		t.Error("clients map should start empty")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := setupHub(t)

	client := createTestClient(hub)
	registerClient(hub, client)
	if got := hub.GetClientCount(); got != 1 {
		t.Fatalf("client count after register = %d, want 1", got)
	}

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)
	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("client count after unregister = %d, want 0", got)
	}
}

func TestBroadcastTransition(t *testing.T) {
	hub := setupHub(t)

	client := createTestClient(hub)
	registerClient(hub, client)

	hub.BroadcastTransition(engine.TransitionEvent{
		ProjectID:  "proj-a",
		ElementID:  "wall-01_0",
		Transition: engine.TransitionElementCompleted,
		Processed:  1,
		Total:      3,
	})

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeTransition {
			t.Errorf("message type = %q, want %q", msg.Type, MessageTypeTransition)
		}
		event, ok := msg.Data.(engine.TransitionEvent)
		if !ok {
			t.Fatalf("message data has type %T, want engine.TransitionEvent", msg.Data)
		}
		if event.ProjectID != "proj-a" || event.Processed != 1 {
			t.Errorf("event = %+v, want project proj-a processed 1", event)
		}
	case <-time.After(time.Second):
		t.Fatal("no message delivered to client")
	}
}

func TestBroadcastProgress(t *testing.T) {
	hub := setupHub(t)

	client := createTestClient(hub)
	registerClient(hub, client)

	hub.BroadcastProgress("proj-b", "RUNNING", 5, 10)

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeProgress {
			t.Errorf("message type = %q, want %q", msg.Type, MessageTypeProgress)
		}
		data, ok := msg.Data.(ProgressData)
		if !ok {
			t.Fatalf("message data has type %T, want ProgressData", msg.Data)
		}
		if data.Processed != 5 || data.Total != 10 {
			t.Errorf("progress = %d/%d, want 5/10", data.Processed, data.Total)
		}
	case <-time.After(time.Second):
		t.Fatal("no message delivered to client")
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := setupHub(t)

	slow := createTestClient(hub)
	slow.send = make(chan Message) // no buffer, nothing reading
	registerClient(hub, slow)

	hub.BroadcastProgress("proj-c", "RUNNING", 1, 2)
	time.Sleep(50 * time.Millisecond)

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("client count = %d, want slow client dropped (0)", got)
	}
}

func TestRunWithContextShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()
	time.Sleep(10 * time.Millisecond)

	client := createTestClient(hub)
	registerClient(hub, client)

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on context cancellation")
	}

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("client count after shutdown = %d, want 0", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypePing})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("marshal produced empty payload")
	}
}
