package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

// computeSpeedScaling maps the distance to the reference object through the
// piecewise-linear speed function.
// Caller must hold the mutex.
func (c *naturalCameraImpl) computeSpeedScaling(m Mode, min float64) float64 {
	dist := c.distance
	starEdge := starEdgePc * c.units.PcToU
	p0 := c.proximity.Effective(0)

	switch {
	case m.UseFocus() && focus.Valid(c.focus):
		dist = c.focus.AbsolutePosition().Dst(c.pos) - (c.focus.ElevationAt(c.pos) + c.minDist)
	case m.UseClosest() && p0.Valid():
		cb := c.closestBody
		switch {
		case cb.Valid() && cb.Distance < p0.Distance:
			dist = cb.Distance - (cb.Focus.ElevationAt(c.pos) + c.minDist)
		case p0.Focus.Kind() != focus.Star && p0.SurfaceDistance()+c.minDist < starEdge:
			exp := 1.6
			if c.settings.Runtime.VR {
				exp = 1.3
			}
			dist = c.distance * math.Pow((p0.SurfaceDistance()+c.minDist)/starEdge, exp)
		}
	case m.UseClosest() && c.closestBody.Valid():
		cb := c.closestBody
		dist = cb.Distance - (cb.Focus.ElevationAt(c.pos) + c.minDist)
	}
	return c.speedFunction(dist, min)
}

// speedFunction is the three-segment distance to speed mapping.
// Caller must hold the mutex.
func (c *naturalCameraImpl) speedFunction(dist, min float64) float64 {
	if dist < 0 || math.IsNaN(dist) {
		return 0
	}
	var f float64
	switch {
	case dist < c.distA:
		f = common.Flint(dist, 0, c.distA, 0, 1e6)
	case dist < c.distB:
		f = common.Flint(dist, c.distA, c.distB, 1e6, 1e10)
	default:
		f = common.Flint(dist, c.distB, c.distC, 1e10, 2e16)
	}
	return math.Max(f, min) * c.settings.Camera.Speed * c.units.DistanceScaleFactor
}

// speedLimit returns the configured velocity cap in internal units per second, 0 when off.
// Caller must hold the mutex.
func (c *naturalCameraImpl) speedLimit() float64 {
	return c.settings.Camera.SpeedLimit * c.units.KmToU / 3600
}

// responseTime is how long forward input persists before a full stop.
// Caller must hold the mutex.
func (c *naturalCameraImpl) responseTime() float64 {
	if c.settings.Camera.Cinematic {
		return 250
	}
	if c.current != nil {
		return c.current.ResponseTime()
	}
	return c.settings.Controls.ResponseTime
}

// updatePosition integrates force, friction, acceleration and velocity into the position.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updatePosition(dt, multiplier, speedScaling float64) {
	cinematic := c.settings.Camera.Cinematic
	if c.velocityGamepad != 0 {
		c.vel = common.FromVec3(c.dir.Mul(c.velocityGamepad * multiplier))
	}

	forceLen := c.force.Len()
	velocity := c.vel.Len()

	var friction mgl64.Vec3
	if c.fullStop && focus.Valid(c.focus) {
		elevation := c.focus.ElevationAt(c.pos)
		counter := 2.0
		if c.lastFwdAmount < 0 && cinematic {
			counter = math.Min(speedScaling, 200)
		}
		if c.currentMode().IsFocus() && c.lastFwdAmount > 0 {
			if above := c.focus.AbsolutePosition().Dst(c.pos) - elevation; above > 0 {
				counter *= elevation / above
			}
		}
		if scl := -velocity * counter * dt; !math.IsNaN(scl) && !math.IsInf(scl, 0) {
			friction = c.vel.Normalize().Mul(scl)
		}
	} else {
		friction = c.force.Normalize().Mul(-forceLen * dt)
	}
	c.force = c.force.AddVec3(friction)

	if (c.lastFwdTime > c.responseTime() && c.velocityGamepad == 0 && c.fullStop) ||
		(c.lastFwdAmount > 0 && speedScaling == 0) {
		c.stopForwardMovement()
	}

	if c.force.IsFinite() {
		c.accel = c.accel.Add(c.force)
	}

	if c.force.IsZero() && velocity == 0 && c.accel.IsZero() {
		return
	}

	c.vel = c.vel.Add(c.accel.Scale(dt)).Scale(c.speedMultiplier)
	if limit := c.speedLimit(); limit > 0 {
		c.vel = c.vel.ClampLen(limit)
	}
	// A reversal means friction overshot; stop instead of drifting backwards.
	if c.lastVel.Vec3().Dot(c.vel.Vec3()) < 0 {
		c.vel = common.Vec3Q{}
	}

	velocity = c.vel.Len()
	if c.currentMode().IsFocus() {
		sign := sign(c.vel.Vec3().Dot(c.focusDirection))
		c.vel = common.FromVec3(c.focusDirection.Normalize().Mul(sign * velocity))
	}
	c.vel = c.vel.ClampLen(multiplier * c.speedMultiplier)

	c.pos = c.pos.Add(c.vel.Scale(dt))

	c.accel = common.Vec3Q{}
	c.lastVel = c.vel
	c.force = common.Vec3Q{}
}

// posDistanceCheck keeps the camera above the closest body terrain and inside the
// maximum allowed distance.
// Caller must hold the mutex.
func (c *naturalCameraImpl) posDistanceCheck() {
	if cb := c.closestBody; cb.Valid() {
		center := c.nextClosestPos
		elevation := cb.Focus.ElevationAt(c.pos) + cb.Focus.HeightScale()/math.Max(4, 20-c.settings.Scene.ElevationMultiplier)
		out := c.pos.Sub(center)
		if d := out.Len(); d < elevation {
			n := out.Normalize()
			if n.Len() == 0 {
				n = c.dir.Mul(-1)
			}
			c.pos = c.pos.AddVec3(n.Mul(elevation - d))
		}
	}
	if c.maxAllowedDistance > 0 && c.pos.Len() >= c.maxAllowedDistance {
		c.pos = c.pos.ClampLen(c.maxAllowedDistance)
	}
}

// updateRotationFree applies yaw and pitch to the view.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updateRotationFree(dt, turn float64) {
	if c.pitch.step(dt) {
		c.rotate(c.dir.Cross(c.up), c.pitch.delta*turn*c.movementMultiplier)
	}
	if c.yaw.step(dt) {
		c.rotate(c.up, -c.yaw.delta*turn*c.movementMultiplier)
	}
	reset := c.resetRotationVelocity()
	c.pitch.settle(reset)
	c.yaw.settle(reset)
}

// updateRoll applies roll to the view.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updateRoll(dt, turn float64) {
	if c.roll.step(dt) {
		c.rotate(c.dir, -c.roll.delta*turn*c.movementMultiplier)
	}
	c.roll.settle(c.resetRotationVelocity())
}

// updateRotation orbits the camera around center.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updateRotation(dt float64, center common.Vec3Q) {
	rot := c.settings.Camera.Rotate
	if c.vertical.step(dt) {
		c.rotateAround(center, c.dir.Cross(c.up), c.vertical.delta*rot*c.movementMultiplier)
	}
	if c.horizontal.step(dt) {
		c.rotateAround(center, c.up, -c.horizontal.delta*rot*c.movementMultiplier)
	}
	reset := c.resetRotationVelocity()
	c.vertical.settle(reset)
	c.horizontal.settle(reset)
}

// resetRotationVelocity reports whether rotation velocities stop every frame.
// Caller must hold the mutex.
func (c *naturalCameraImpl) resetRotationVelocity() bool {
	return !c.settings.Camera.Cinematic && !c.gamepadInput
}

// updateLateral pans the free camera with the horizontal and vertical velocities.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updateLateral(dt, translateUnits float64) {
	right := c.dir.Cross(c.up).Normalize().Mul(c.horizontal.vel * translateUnits * c.movementMultiplier)
	upward := c.up.Mul(c.vertical.vel * translateUnits * c.movementMultiplier)
	step := right.Add(upward)
	if limit := c.speedLimit(); limit > 0 && step.Len() > limit {
		step = step.Normalize().Mul(limit)
	}
	if dt > 0 && step.Len() > 0 {
		c.translate(step.Mul(dt))
	}
	reset := c.resetRotationVelocity()
	c.horizontal.settle(reset)
	c.vertical.settle(reset)
}

// rotateAround turns the view around axis and orbits the position around center.
// Caller must hold the mutex.
func (c *naturalCameraImpl) rotateAround(center common.Vec3Q, axis mgl64.Vec3, deg float64) {
	if axis.Len() == 0 || !common.IsFiniteVec3(axis) || math.IsNaN(deg) || math.IsInf(deg, 0) || deg == 0 {
		return
	}
	c.rotate(axis, deg)
	q := mgl64.QuatRotate(mgl64.DegToRad(deg), axis.Normalize())
	c.pos = center.Add(c.pos.Sub(center).Rotate(q))
	c.posDistanceCheck()
}

// translate moves the camera by a finite offset.
// Caller must hold the mutex.
func (c *naturalCameraImpl) translate(v mgl64.Vec3) {
	if !common.IsFiniteVec3(v) {
		return
	}
	c.pos = c.pos.AddVec3(v)
	c.posDistanceCheck()
}

// directionToTarget turns the view gently toward target.
// Caller must hold the mutex.
func (c *naturalCameraImpl) directionToTarget(dt float64, target common.Vec3Q, turnVelocity float64) {
	desired := target.Sub(c.pos).Normalize()
	if desired.Len() == 0 {
		c.facingFocus = true
		return
	}
	angle := mgl64.RadToDeg(common.Angle(desired, c.dir))
	if angle > math.Min(0.3, 0.3*c.fovFactor) {
		c.dir = c.dir.Add(desired.Mul(turnVelocity * dt * c.movementMultiplier)).Normalize()
		c.dir, c.up = common.Orthonormalize(c.dir, c.up)
		c.facingFocus = false
		return
	}
	c.facingFocus = true
}

// directionToTrackingObject points the view straight at target.
// Caller must hold the mutex.
func (c *naturalCameraImpl) directionToTrackingObject(target common.Vec3Q) {
	desired := target.Sub(c.pos).Normalize()
	if desired.Len() == 0 {
		return
	}
	c.dir, c.up = common.Orthonormalize(desired, c.up)
	c.facingFocus = false
}

// stopForwardMovement clears force and velocity.
// Caller must hold the mutex.
func (c *naturalCameraImpl) stopForwardMovement() {
	c.force = common.Vec3Q{}
	c.vel = common.Vec3Q{}
}

// stopTotalMovement clears every accumulator.
// Caller must hold the mutex.
func (c *naturalCameraImpl) stopTotalMovement() {
	c.stopForwardMovement()
	c.yaw, c.pitch, c.roll = rotationAxis{}, rotationAxis{}, rotationAxis{}
	c.horizontal, c.vertical = rotationAxis{}, rotationAxis{}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (c *naturalCameraImpl) AddForwardForce(amount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tu := c.speedScaling
	if amount <= 0 {
		// Never get stuck on a surface when backing off.
		tu = math.Max(10*c.units.MToU, tu)
	}
	desired := c.dir
	if c.currentMode().IsFocus() {
		desired = c.focusDirection
	}
	scale := 100.0
	if c.settings.Runtime.VR {
		scale = 10
	}
	v := desired.Normalize().Mul(amount * tu * scale)
	if !common.IsFiniteVec3(v) {
		return
	}
	c.force = c.force.AddVec3(v)
	c.lastFwdTime = 0
	c.lastFwdAmount = amount
}

func (c *naturalCameraImpl) AddRotateMovement(dx, dy float64, focusLook, accel bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch m := c.currentMode(); {
	case m.IsFree() || m.IsGame():
		c.yaw.add(dx*c.fovFactor, accel)
		c.pitch.add(dy*c.fovFactor, accel)
	case m.IsFocus():
		if focusLook || c.surfaceMode {
			c.diverted = c.diverted || focusLook
			c.yaw.add(dx*c.fovFactor, accel)
			c.pitch.add(dy*c.fovFactor, accel)
			return
		}
		factor := 1.0
		if focus.Valid(c.focus) {
			r := c.focus.Radius()
			if r > 0 {
				inRadii := c.fovFactor * (c.focus.AbsolutePosition().Dst(c.pos) - r) / r
				if inRadii < 2 {
					factor = inRadii / 2
				}
			}
		}
		c.horizontal.add(dx*factor, accel)
		c.vertical.add(dy*factor, accel)
	}
}

func (c *naturalCameraImpl) AddHorizontalRotation(amount float64, accel bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.horizontal.add(amount, accel)
}

func (c *naturalCameraImpl) AddVerticalRotation(amount float64, accel bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vertical.add(amount, accel)
}

func (c *naturalCameraImpl) AddYaw(amount float64, accel bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw.add(amount, accel)
}

func (c *naturalCameraImpl) AddPitch(amount float64, accel bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pitch.add(amount, accel)
}

func (c *naturalCameraImpl) AddRoll(amount float64, accel bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roll.add(amount, accel)
}

func (c *naturalCameraImpl) AddPanMovement(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.horizontal = rotationAxis{vel: dx * c.fovFactor}
	c.vertical = rotationAxis{vel: dy * c.fovFactor}
}

func (c *naturalCameraImpl) SetVelocity(amount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.velocityGamepad = amount
}

func (c *naturalCameraImpl) StopMovement() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	moving := !c.vel.IsZero() || c.yaw.vel != 0 || c.pitch.vel != 0 || c.roll.vel != 0 ||
		c.horizontal.vel != 0 || c.vertical.vel != 0
	c.stopForwardMovement()
	c.yaw.vel, c.pitch.vel, c.roll.vel = 0, 0, 0
	c.horizontal.vel, c.vertical.vel = 0, 0
	return moving
}

func (c *naturalCameraImpl) StopRotateMovement() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw, c.pitch = rotationAxis{}, rotationAxis{}
	c.horizontal, c.vertical = rotationAxis{}, rotationAxis{}
}

func (c *naturalCameraImpl) StopForwardMovement() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopForwardMovement()
}

func (c *naturalCameraImpl) StopTotalMovement() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTotalMovement()
}
