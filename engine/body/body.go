// Package body provides the focusable scene objects: stars, planets, moons and
// artificial satellites whose positions come from a Trajectory.
package body

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

// Body is a scene object the cameras can focus on.
type Body interface {
	focus.Focus
	focus.Luminous

	// Update computes the position of the body for the frame at t.
	//
	// Parameters:
	//   - t: the simulation time of the frame
	Update(t time.Time)

	// Parent returns the body this one moves around, or nil.
	Parent() Body

	// Remove marks the body as unloaded. Cameras holding it see it as empty.
	Remove()
}

// Spin describes a uniform rotation about the body's polar axis.
type Spin struct {
	// PeriodHours is the sidereal rotation period.
	PeriodHours float64
	// Meridian is the prime meridian angle at Epoch, in degrees.
	Meridian float64
	// Tilt is the inclination of the polar axis from the internal up axis, in degrees.
	Tilt  float64
	Epoch time.Time
}

// At returns the body rotation at t.
func (s Spin) At(t time.Time) mgl64.Quat {
	angle := s.Meridian
	if s.PeriodHours != 0 {
		angle += 360 * t.Sub(s.Epoch).Hours() / s.PeriodHours
	}
	angle = math.Mod(angle, 360)
	tilt := mgl64.QuatRotate(mgl64.DegToRad(s.Tilt), mgl64.Vec3{0, 0, 1})
	return tilt.Mul(mgl64.QuatRotate(mgl64.DegToRad(angle), mgl64.Vec3{0, 1, 0}))
}

type bodyImpl struct {
	mu     *sync.Mutex
	logger *slog.Logger

	name        string
	kind        focus.Kind
	tags        focus.Tag
	radius      float64
	heightScale float64
	absMag      float64

	parent     Body
	trajectory Trajectory
	spin       *Spin

	pos     common.Vec3Q
	at      time.Time
	removed bool
}

var _ Body = &bodyImpl{}

// NewBody creates a body. Without a trajectory it sits at its parent's position.
//
// Parameters:
//   - name: the unique object name
//   - options: functional options to configure the body
//
// Returns:
//   - Body: the new body
func NewBody(name string, options ...BodyOption) Body {
	b := &bodyImpl{
		mu:     &sync.Mutex{},
		logger: slog.Default(),
		name:   name,
		kind:   focus.Other,
		absMag: math.NaN(),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

func (b *bodyImpl) Name() string     { return b.name }
func (b *bodyImpl) Kind() focus.Kind { return b.kind }
func (b *bodyImpl) Tags() focus.Tag  { return b.tags }
func (b *bodyImpl) Radius() float64  { return b.radius }
func (b *bodyImpl) Size() float64    { return 2 * b.radius }
func (b *bodyImpl) Parent() Body     { return b.parent }

func (b *bodyImpl) HeightScale() float64 { return b.heightScale }

func (b *bodyImpl) AbsoluteMagnitude() float64 { return b.absMag }

func (b *bodyImpl) ElevationAt(common.Vec3Q) float64 {
	return b.radius
}

func (b *bodyImpl) Update(t time.Time) {
	p := b.PredictedPosition(t)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !p.IsFinite() {
		b.logger.Warn("non-finite body position", "body", b.name, "time", t)
		return
	}
	b.pos = p
	b.at = t
}

func (b *bodyImpl) AbsolutePosition() common.Vec3Q {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pos
}

func (b *bodyImpl) PredictedPosition(t time.Time) common.Vec3Q {
	var origin common.Vec3Q
	if b.parent != nil {
		origin = b.parent.PredictedPosition(t)
	}
	if b.trajectory == nil {
		return origin
	}
	return origin.Add(b.trajectory.Position(t))
}

func (b *bodyImpl) Orientation() (mgl64.Quat, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.spin == nil {
		return mgl64.QuatIdent(), false
	}
	return b.spin.At(b.at), true
}

func (b *bodyImpl) StarAncestor() focus.Focus {
	if b.kind == focus.Star {
		return nil
	}
	for p := b.parent; p != nil; p = p.Parent() {
		if p.Kind() == focus.Star {
			return p
		}
	}
	return nil
}

func (b *bodyImpl) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removed
}

func (b *bodyImpl) Remove() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed = true
}
