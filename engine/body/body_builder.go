package body

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

// BodyOption is a functional option for configuring a Body.
type BodyOption func(*bodyImpl)

// WithLogger sets the logger used to report bad positions.
func WithLogger(logger *slog.Logger) BodyOption {
	return func(b *bodyImpl) {
		if logger != nil {
			b.logger = logger.With("body", b.name)
		}
	}
}

// WithKind sets the object classification.
func WithKind(k focus.Kind) BodyOption {
	return func(b *bodyImpl) {
		b.kind = k
	}
}

// WithTags sets the bookkeeping traits.
func WithTags(t focus.Tag) BodyOption {
	return func(b *bodyImpl) {
		b.tags = t
	}
}

// WithRadius sets the radius in internal units.
//
// Parameters:
//   - r: the radius, in internal units
//
// Returns:
//   - BodyOption: functional option to set the radius
func WithRadius(r float64) BodyOption {
	return func(b *bodyImpl) {
		b.radius = r
	}
}

// WithHeightScale sets the maximum terrain height above the radius.
func WithHeightScale(h float64) BodyOption {
	return func(b *bodyImpl) {
		b.heightScale = h
	}
}

// WithAbsoluteMagnitude sets M for stars or H for reflective bodies.
func WithAbsoluteMagnitude(m float64) BodyOption {
	return func(b *bodyImpl) {
		b.absMag = m
	}
}

// WithParent sets the body whose position the trajectory is relative to.
//
// Parameters:
//   - p: the parent body
//
// Returns:
//   - BodyOption: functional option to set the parent
func WithParent(p Body) BodyOption {
	return func(b *bodyImpl) {
		b.parent = p
	}
}

// WithTrajectory sets the position model.
func WithTrajectory(t Trajectory) BodyOption {
	return func(b *bodyImpl) {
		b.trajectory = t
	}
}

// WithSpin gives the body a rotation model.
func WithSpin(s Spin) BodyOption {
	return func(b *bodyImpl) {
		b.spin = &s
	}
}
