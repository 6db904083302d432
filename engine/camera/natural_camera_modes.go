package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

// surfaceModeRadii is the distance, in radii, below which a planet focus switches
// the camera to free look.
const surfaceModeRadii = 2.5

// turnVelocity is the rate used when turning toward a target.
// Caller must hold the mutex.
func (c *naturalCameraImpl) turnVelocity() float64 {
	if c.settings.Camera.Cinematic {
		return c.settings.Camera.Turn / 1e3
	}
	return c.settings.Camera.Turn / 1e2
}

// updateFree runs the free mode frame.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updateFree(dt float64, _ clock.TimeFrame) {
	scaling := 1.0
	if c.settings.Camera.TargetMode {
		scaling = c.speedScaling
	}
	c.updatePosition(dt, c.speedScalingCapped, scaling)

	if !c.settings.Runtime.VR {
		turn := c.settings.Camera.Turn
		if c.freeTargetOn {
			c.directionToTarget(dt, c.freeTargetPos, c.turnVelocity())
			if c.facingFocus {
				c.freeTargetOn = false
			}
		}
		c.updateRotationFree(dt, turn)
		c.updateRoll(dt, turn)
	}
	c.updateLateral(dt, c.speedScalingCapped)
}

// updateGame adds pseudo-gravity toward a nearby planet, then flies like free mode.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updateGame(dt float64, tf clock.TimeFrame) {
	cb := c.closestBody
	jumping := c.current != nil && c.current.IsKeyPressed(common.KeySpace)
	c.fullStop = true
	if c.gravity && cb.Valid() && cb.Focus.Kind() == focus.Planet && !jumping {
		toCenter := c.nextClosestPos.Sub(c.pos)
		if toCenter.Len() < 2*cb.Focus.Radius() {
			c.force = c.force.AddVec3(toCenter.Normalize().Mul(gameGravity))
			c.fullStop = false
		}
	}
	c.updateFree(dt, tf)
}

// updateFocus follows the focus, orbits around it and publishes its telemetry.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updateFocus(dt float64, tf clock.TimeFrame) {
	if !focus.Valid(c.focus) {
		c.logger.Warn("focus lost, switching to free mode")
		c.queue(event.CameraModeCmd, event.ModeChange{Mode: mode.Free})
		return
	}
	f := c.focus
	// focusPos is where the focus was when the camera last followed it.
	prev := c.focusPos
	if !prev.IsFinite() {
		prev = f.AbsolutePosition()
	}
	next := c.nextFocusPos
	if !next.IsFinite() {
		next = prev
	}

	var dx common.Vec3Q
	if c.settings.Camera.FocusLock.Position {
		dx = next.Sub(prev)
	}

	if q, ok := f.Orientation(); ok {
		if c.settings.Camera.FocusLock.Orientation && c.hasQPrev && tf.HDiff() != 0 {
			delta := q.Mul(c.qPrev.Inverse()).Normalize()
			c.pos = prev.Add(c.pos.Sub(prev).Rotate(delta))
			c.dir, c.up = common.Orthonormalize(delta.Rotate(c.dir), delta.Rotate(c.up))
		}
		c.qPrev = q
		c.hasQPrev = true
	} else {
		c.hasQPrev = false
	}

	c.pos = c.pos.Add(dx)
	target := next
	c.focusPos = next

	radius := f.Radius()
	dist := c.pos.Dst(target)
	c.surfaceMode = !c.gamepadInput && !c.settings.Runtime.VR && !c.isTracking() &&
		f.Kind() == focus.Planet && dist < surfaceModeRadii*radius/c.fovFactor

	if !c.settings.Runtime.VR {
		turn := c.settings.Camera.Turn
		if !c.diverted && !c.surfaceMode {
			c.directionToTarget(dt, target, c.turnVelocity())
		} else {
			c.updateRotationFree(dt, turn)
		}
		c.updateRoll(dt, turn)
	}

	c.updatePosition(dt, c.speedScalingCapped, c.speedScaling)
	c.updateRotation(dt, target)

	c.focusDirection = target.Sub(c.pos).Normalize()

	// Never end the frame inside the focus.
	if off := c.pos.Sub(target); off.Len() < radius {
		n := off.Normalize()
		if n.Len() == 0 {
			n = c.dir.Mul(-1)
		}
		c.pos = target.AddVec3(n.Mul(radius))
		c.focusDirection = n.Mul(-1)
	}

	if c.isTracking() {
		c.directionToTrackingObject(c.tracking.PredictedPosition(tf.Time()))
	}

	info := event.FocusInfo{
		Name:         f.Name(),
		Distance:     c.pos.Dst(target) - radius,
		AppMagCamera: FocusMagnitudeFrom(f, c.pos, c.units),
		AppMagEarth:  math.NaN(),
	}
	if c.resolver != nil && c.referenceBody != "" {
		if ref, err := c.resolver.Resolve(c.referenceBody); err == nil {
			info.AppMagEarth = FocusMagnitudeFromBody(f, ref, c.units)
		}
	}
	c.queue(event.FocusInfoUpdated, info)
}
