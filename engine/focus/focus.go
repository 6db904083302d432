// Package focus defines the contract between the cameras and the scene objects
// they can focus on, track, or treat as the closest body.
package focus

import (
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind classifies a focusable object.
type Kind uint8

const (
	Other Kind = iota
	Star
	Planet
	Moon
	Satellite
	Spacecraft
	Particle
)

func (k Kind) String() string {
	switch k {
	case Star:
		return "star"
	case Planet:
		return "planet"
	case Moon:
		return "moon"
	case Satellite:
		return "satellite"
	case Spacecraft:
		return "spacecraft"
	case Particle:
		return "particle"
	}
	return "other"
}

// IsSolid reports whether objects of this kind have a surface the camera can collide with.
func (k Kind) IsSolid() bool {
	return k == Planet || k == Moon || k == Satellite || k == Spacecraft
}

// Tag is a bit set of traits that influence camera bookkeeping.
type Tag uint8

const (
	// Copy marks a render-only duplicate of another object.
	Copy Tag = 1 << iota
	// NoClosest marks an object that must never become the closest body.
	NoClosest
)

// Has reports whether all bits in o are set in t.
func (t Tag) Has(o Tag) bool { return t&o == o }

// Focus is a scene object the camera can focus on. The camera never mutates it.
// Implementations must be safe for concurrent reads.
type Focus interface {
	// Name returns the unique object name.
	Name() string

	// Kind returns the object classification.
	Kind() Kind

	// Tags returns the bookkeeping traits of the object.
	Tags() Tag

	// AbsolutePosition returns the position computed for the current frame.
	//
	// Returns:
	//   - common.Vec3Q: the world-space position in internal units
	AbsolutePosition() common.Vec3Q

	// PredictedPosition returns the position the object will have at t.
	//
	// Parameters:
	//   - t: the simulation time
	//
	// Returns:
	//   - common.Vec3Q: the world-space position in internal units
	PredictedPosition(t time.Time) common.Vec3Q

	// Radius returns the body radius in internal units.
	Radius() float64

	// Size returns the diameter used for framing, in internal units.
	Size() float64

	// ElevationAt returns the distance from the body centre to the terrain surface
	// below p. Bodies without terrain return their radius.
	//
	// Parameters:
	//   - p: the world-space point to project onto the surface
	//
	// Returns:
	//   - float64: the surface elevation from the centre, in internal units
	ElevationAt(p common.Vec3Q) float64

	// HeightScale returns the maximum terrain height above the radius, in internal units.
	HeightScale() float64

	// Orientation returns the current body rotation. The boolean is false for
	// objects without a spin model.
	Orientation() (mgl64.Quat, bool)

	// IsEmpty reports whether the handle no longer refers to a valid object.
	IsEmpty() bool
}

// Luminous is implemented by objects that expose absolute magnitudes.
type Luminous interface {
	// AbsoluteMagnitude returns the absolute magnitude (M for stars, H for reflective bodies).
	AbsoluteMagnitude() float64

	// StarAncestor returns the star lighting this object, or nil for stars themselves.
	StarAncestor() Focus
}

// Valid reports whether f refers to a usable object.
func Valid(f Focus) bool {
	return f != nil && !f.IsEmpty()
}

// Same reports whether a and b refer to the same object by name.
func Same(a, b Focus) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name() == b.Name()
}
