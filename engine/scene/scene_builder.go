package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-nav/engine/body"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithBodies loads the given bodies. Duplicates are logged and skipped.
//
// Parameters:
//   - bodies: the bodies to load
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBodies(bodies ...body.Body) SceneBuilderOption {
	return func(s *scene) {
		s.pending = append(s.pending, bodies...)
	}
}

// WithComputeWorkers sets the number of worker goroutines used by Update and Visit.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.computeWorkers = max(n, 1)
	}
}

// WithLogger sets the scene logger.
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger.With("component", "scene")
		}
	}
}

// WithBus sets the bus on which unloaded bodies are announced.
func WithBus(bus event.Bus) SceneBuilderOption {
	return func(s *scene) {
		s.bus = bus
	}
}
