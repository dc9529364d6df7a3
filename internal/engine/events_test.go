// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package engine

import "testing"

func TestTransitionEmitter(t *testing.T) {
	t.Run("delivers to all listeners", func(t *testing.T) {
		e := NewTransitionEmitter()
		var first, second int
		e.Subscribe(func(TransitionEvent) { first++ })
		e.Subscribe(func(TransitionEvent) { second++ })

		e.Emit(TransitionEvent{ProjectID: "p", ElementID: "a", Transition: TransitionElementCompleted})
		if first != 1 || second != 1 {
			t.Errorf("deliveries = %d/%d, want 1/1", first, second)
		}
	})

	t.Run("drops identical consecutive element events", func(t *testing.T) {
		e := NewTransitionEmitter()
		var count int
		e.Subscribe(func(TransitionEvent) { count++ })

		ev := TransitionEvent{ProjectID: "p", ElementID: "a", Transition: TransitionElementCompleted}
		e.Emit(ev)
		e.Emit(ev)
		if count != 1 {
			t.Errorf("deliveries = %d, want duplicate suppressed (1)", count)
		}
	})

	t.Run("different transition for same element passes", func(t *testing.T) {
		e := NewTransitionEmitter()
		var count int
		e.Subscribe(func(TransitionEvent) { count++ })

		e.Emit(TransitionEvent{ProjectID: "p", ElementID: "a", Transition: TransitionElementCompleted})
		e.Emit(TransitionEvent{ProjectID: "p", ElementID: "a", Transition: TransitionElementFailed})
		if count != 2 {
			t.Errorf("deliveries = %d, want 2", count)
		}
	})

	t.Run("interleaved elements are not duplicates", func(t *testing.T) {
		e := NewTransitionEmitter()
		var count int
		e.Subscribe(func(TransitionEvent) { count++ })

		e.Emit(TransitionEvent{ProjectID: "p", ElementID: "a", Transition: TransitionElementCompleted})
		e.Emit(TransitionEvent{ProjectID: "p", ElementID: "b", Transition: TransitionElementCompleted})
		e.Emit(TransitionEvent{ProjectID: "p", ElementID: "a", Transition: TransitionElementCompleted})
		if count != 3 {
			t.Errorf("deliveries = %d, want 3", count)
		}
	})

	t.Run("run-level events are never suppressed", func(t *testing.T) {
		e := NewTransitionEmitter()
		var count int
		e.Subscribe(func(TransitionEvent) { count++ })

		e.Emit(TransitionEvent{ProjectID: "p", Transition: TransitionRunStarted})
		e.Emit(TransitionEvent{ProjectID: "p", Transition: TransitionRunStarted})
		if count != 2 {
			t.Errorf("deliveries = %d, want 2", count)
		}
	})
}
