package body

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
)

const keplerIterations = 16

// Trajectory gives the position of a body relative to its parent.
type Trajectory interface {
	// Position returns the parent-relative position at t, in internal units.
	Position(t time.Time) common.Vec3Q
}

// Fixed is a trajectory that never moves.
type Fixed struct {
	Pos common.Vec3Q
}

func (f Fixed) Position(time.Time) common.Vec3Q {
	return f.Pos
}

// OrbitElements are classical Keplerian elements. Angles are in degrees.
type OrbitElements struct {
	// SemiMajorAxisKm is the semi-major axis in kilometres.
	SemiMajorAxisKm float64
	Eccentricity    float64
	Inclination     float64
	AscendingNode   float64
	ArgOfPericenter float64
	// MeanAnomaly is the mean anomaly at Epoch.
	MeanAnomaly float64
	PeriodDays  float64
	Epoch       time.Time
	// Frame names the reference frame of the elements, e.g. "eclipticToEquatorial".
	// Empty means the elements are already in the internal equatorial frame.
	Frame string
}

// Orbit is a two-body Keplerian trajectory.
type Orbit struct {
	el    OrbitElements
	units common.Units
	frame mgl64.Mat4
}

var _ Trajectory = &Orbit{}

// NewOrbit creates a Keplerian trajectory.
//
// Parameters:
//   - el: the orbital elements
//   - u: the unit table used to convert kilometres
//
// Returns:
//   - *Orbit: the trajectory
func NewOrbit(el OrbitElements, u common.Units) *Orbit {
	return &Orbit{
		el:    el,
		units: u,
		frame: camera.Transform(el.Frame, nil),
	}
}

// Position solves Kepler's equation at t and rotates the result into the internal frame.
func (o *Orbit) Position(t time.Time) common.Vec3Q {
	el := o.el
	m := mgl64.DegToRad(el.MeanAnomaly)
	if el.PeriodDays != 0 {
		m += 2 * math.Pi * t.Sub(el.Epoch).Hours() / (24 * el.PeriodDays)
	}
	m = math.Mod(m, 2*math.Pi)

	e := el.Eccentricity
	ea := m
	if e > 0.8 {
		ea = math.Pi
	}
	for range keplerIterations {
		d := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= d
		if math.Abs(d) < 1e-14 {
			break
		}
	}

	a := el.SemiMajorAxisKm * o.units.KmToU
	// Position in the orbital plane, periapsis along +x.
	px := a * (math.Cos(ea) - e)
	py := a * math.Sqrt(1-e*e) * math.Sin(ea)

	w := mgl64.DegToRad(el.ArgOfPericenter)
	node := mgl64.DegToRad(el.AscendingNode)
	inc := mgl64.DegToRad(el.Inclination)
	cw, sw := math.Cos(w), math.Sin(w)
	cn, sn := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(inc), math.Sin(inc)

	x := (cn*cw-sn*sw*ci)*px + (-cn*sw-sn*cw*ci)*py
	y := (sn*cw+cn*sw*ci)*px + (-sn*sw+cn*cw*ci)*py
	z := (sw*si)*px + (cw*si)*py

	return common.FromVec3(camera.TransformVec(o.frame, toInternal(x, y, z)))
}

// toInternal maps a right-handed (x, y, z) with z toward the pole onto the internal
// frame, where Y points up and the fundamental plane is ZX.
func toInternal(x, y, z float64) mgl64.Vec3 {
	return mgl64.Vec3{y, z, x}
}
