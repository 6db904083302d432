package spacecraft

import (
	"math"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
)

// thrustBase is the engine force in newtons at machine power 1 and thrust factor 1.
const thrustBase = 1e6

// State is the linear state the coordinate provider integrates.
type State struct {
	Pos common.Vec3Q
	// Vel is the velocity in m/s.
	Vel mgl64.Vec3
	Dir mgl64.Vec3

	// Thrust is the engine force in newtons after the thrust factor.
	Thrust float64
	// Power is the engine power in [-1, 1].
	Power float64
	Mass  float64
	Drag  float64
	// Stopping brakes against the velocity instead of thrusting along Dir.
	Stopping bool
}

// Provider advances the spacecraft position.
type Provider interface {
	// Integrate advances st by dt seconds.
	//
	// Parameters:
	//   - st: the state to advance in place
	//   - dt: the step in seconds
	//   - closest: the closest body of the last frame
	//   - u: the unit table
	//
	// Returns:
	//   - bool: true if the step ended on a body surface
	Integrate(st *State, dt float64, closest camera.Record, u common.Units) bool
}

// Newtonian integrates thrust and linear drag with semi-implicit Euler steps.
type Newtonian struct {
	// StopAtSurface halts the spacecraft on the closest body surface.
	StopAtSurface bool
}

var _ Provider = Newtonian{}

func (n Newtonian) Integrate(st *State, dt float64, closest camera.Record, u common.Units) bool {
	if dt <= 0 || st.Mass <= 0 {
		return false
	}

	var force mgl64.Vec3
	speed := st.Vel.Len()
	if st.Stopping {
		if speed > 0 {
			brake := math.Min(st.Thrust, speed*st.Mass/dt)
			force = st.Vel.Mul(-brake / speed)
		}
	} else {
		force = st.Dir.Mul(st.Thrust * st.Power)
	}
	force = force.Sub(st.Vel.Mul(st.Drag * st.Mass))

	vel := st.Vel.Add(force.Mul(dt / st.Mass))
	// Braking never reverses the motion.
	if st.Stopping && vel.Dot(st.Vel) <= 0 {
		vel = mgl64.Vec3{}
	}
	st.Vel = vel
	next := st.Pos.AddVec3(vel.Mul(dt * u.MToU))

	if n.StopAtSurface && closest.Valid() {
		center := closest.Focus.AbsolutePosition()
		elev := closest.Focus.ElevationAt(next)
		if rel := next.Sub(center); rel.Len() < elev {
			dir := rel.Normalize()
			if rel.IsZero() {
				dir = st.Pos.Sub(center).Normalize()
			}
			st.Pos = center.AddVec3(dir.Mul(elev))
			st.Vel = mgl64.Vec3{}
			return true
		}
	}
	st.Pos = next
	return false
}
