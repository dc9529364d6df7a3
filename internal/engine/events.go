// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package engine

import (
	"sync"
	"time"
)

// TransitionType labels a reported state transition.
type TransitionType string

const (
	TransitionElementCompleted TransitionType = "element_completed"
	TransitionElementFailed    TransitionType = "element_failed"
	TransitionRunStarted       TransitionType = "run_started"
	TransitionRunCompleted     TransitionType = "run_completed"
	TransitionRunCancelled     TransitionType = "run_cancelled"
	TransitionRunRecovered     TransitionType = "run_recovered"
)

// TransitionEvent is one observable state change of a run or element.
type TransitionEvent struct {
	ProjectID  string         `json:"project_id"`
	ElementID  string         `json:"element_id,omitempty"`
	Transition TransitionType `json:"transition"`
	Processed  int            `json:"processed"`
	Total      int            `json:"total"`
	Timestamp  time.Time      `json:"timestamp"`
}

// TransitionListener receives emitted events. Listeners must not block;
// slow consumers should buffer internally.
type TransitionListener func(TransitionEvent)

// TransitionEmitter is the single funnel for run observability. Every
// state transition is reported through it exactly once: identical
// consecutive events for the same (element, transition) pair are
// dropped, so two observers of the same worker cannot double-report.
type TransitionEmitter struct {
	mu        sync.Mutex
	listeners []TransitionListener

	lastElement    string
	lastTransition TransitionType
}

// NewTransitionEmitter creates an emitter with no listeners.
func NewTransitionEmitter() *TransitionEmitter {
	return &TransitionEmitter{}
}

// Subscribe registers a listener for all subsequent events.
func (e *TransitionEmitter) Subscribe(l TransitionListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Emit delivers the event to all listeners unless it duplicates the
// immediately preceding one.
func (e *TransitionEmitter) Emit(event TransitionEvent) {
	e.mu.Lock()
	if event.ElementID == e.lastElement && event.Transition == e.lastTransition && event.ElementID != "" {
		e.mu.Unlock()
		return
	}
	e.lastElement = event.ElementID
	e.lastTransition = event.Transition
	listeners := make([]TransitionListener, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	for _, l := range listeners {
		l(event)
	}
}
