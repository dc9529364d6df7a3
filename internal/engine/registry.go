// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package engine

import (
	"fmt"
	"sync"

	"github.com/tomtom215/heliostat/internal/models"
	"github.com/tomtom215/heliostat/internal/validation"
)

// ProjectInputs are the validated, read-only inputs of one project:
// the building elements delivered by facade extraction and the
// representative weather year for the site.
type ProjectInputs struct {
	Elements []models.BuildingElement
	Weather  *models.WeatherSeries
}

// Registry holds ingested project inputs. Inputs are validated once on
// registration and immutable afterwards; the orchestrator reads them
// without further checks.
type Registry struct {
	mu       sync.RWMutex
	projects map[string]*ProjectInputs
}

// NewRegistry creates an empty input registry.
func NewRegistry() *Registry {
	return &Registry{projects: make(map[string]*ProjectInputs)}
}

// Register validates and stores the inputs for a project, replacing
// any prior inputs. Validation failures reject the whole batch before
// anything is stored: a zero-area element is refused here, never
// carried into a run as a FAILED record.
func (r *Registry) Register(projectID string, elements []models.BuildingElement, weather *models.WeatherSeries) error {
	if weather == nil {
		return fmt.Errorf("project %s: weather series is required", projectID)
	}
	if err := validation.ValidateWeatherSeries(weather); err != nil {
		return fmt.Errorf("project %s: %w", projectID, err)
	}
	for i := range elements {
		elements[i].ProjectID = projectID
		if err := validation.ValidateElement(&elements[i]); err != nil {
			return fmt.Errorf("project %s: %w", projectID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[projectID] = &ProjectInputs{Elements: elements, Weather: weather}
	return nil
}

// Get returns the inputs for a project, or ErrProjectNotFound.
func (r *Registry) Get(projectID string) (*ProjectInputs, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inputs, ok := r.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	return inputs, nil
}

// Has reports whether inputs exist for a project.
func (r *Registry) Has(projectID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.projects[projectID]
	return ok
}
