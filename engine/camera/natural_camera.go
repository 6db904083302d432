package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	defaultMinSpeed = 0.5e-8
	gameMinSpeed    = 1e-5
	// starEdgePc is the distance below which a non-star proximity record blends
	// into the speed scaling distance.
	starEdgePc = 0.2
	// freeTargetPc places free-mode targets effectively at infinity.
	freeTargetPc  = 1e12
	minFov        = 1.0
	maxFov        = 150.0
	maxCubemapFov = 179.0
	gameGravity   = 0.002
)

// Resolver looks up scene objects by name.
type Resolver interface {
	Resolve(name string) (focus.Focus, error)
}

// NaturalCamera is the interactive camera serving the free, focus and game modes.
// Besides the Camera contract it exposes the commands issued by input listeners
// and the event bus.
type NaturalCamera interface {
	Camera
	event.Handler

	// AddForwardForce pushes the camera along its direction (focus direction in focus mode).
	//
	// Parameters:
	//   - amount: positive for forward, negative for backward
	AddForwardForce(amount float64)

	// AddRotateMovement adds yaw/pitch in free mode or an orbit around the focus in
	// focus mode. The orbit slows down as the camera approaches the focus surface.
	//
	// Parameters:
	//   - dx: horizontal amount (yaw or orbit)
	//   - dy: vertical amount (pitch or orbit)
	//   - focusLook: look around instead of orbiting while in focus mode
	//   - accel: apply as acceleration instead of velocity
	AddRotateMovement(dx, dy float64, focusLook, accel bool)

	// AddHorizontalRotation adds orbit rotation around the focus up axis.
	AddHorizontalRotation(amount float64, accel bool)

	// AddVerticalRotation adds orbit rotation around the focus right axis.
	AddVerticalRotation(amount float64, accel bool)

	// AddYaw adds yaw.
	AddYaw(amount float64, accel bool)

	// AddPitch adds pitch.
	AddPitch(amount float64, accel bool)

	// AddRoll adds roll.
	AddRoll(amount float64, accel bool)

	// AddPanMovement sets the lateral (right, up) velocity used in free mode.
	AddPanMovement(dx, dy float64)

	// SetVelocity sets a gamepad-driven velocity along the direction, overriding forces.
	SetVelocity(amount float64)

	// StopMovement clears forces, velocity and rotation velocities.
	//
	// Returns:
	//   - bool: true if the camera was moving
	StopMovement() bool

	// StopRotateMovement clears yaw, pitch and orbit rotation.
	StopRotateMovement()

	// StopForwardMovement clears force and velocity.
	StopForwardMovement()

	// StopTotalMovement clears every force, velocity and rotation accumulator.
	StopTotalMovement()

	// Center re-centres the view on the focus.
	Center()

	// SetDiverted lets the view direction diverge from the focus in focus mode.
	SetDiverted(diverted bool)

	// GoToObject places the camera next to the focus, looking at it.
	//
	// Returns:
	//   - error: ErrNoFocus if there is no valid focus
	GoToObject() error

	// FreeTarget turns the free camera toward equatorial coordinates.
	//
	// Parameters:
	//   - ra: right ascension in degrees
	//   - dec: declination in degrees
	FreeTarget(ra, dec float64)

	// SetFocus changes the focus object.
	//
	// Returns:
	//   - error: ErrNoFocus if f is not valid; the focus is unchanged
	SetFocus(f focus.Focus) error

	// SetTrackingObject makes the focus-mode view track f. Nil clears tracking.
	SetTrackingObject(f focus.Focus)

	// SetGamepadInput marks whether a gamepad is driving the camera.
	SetGamepadInput(on bool)

	// SetFov sets the field of view, clamped to [1, 150] degrees (179 with cubemap projections).
	SetFov(fov float64)

	// SpeedScaling returns the speed ceiling computed during the last update.
	SpeedScaling() float64

	// SpeedScalingCapped returns max(10 m, SpeedScaling()) in internal units.
	SpeedScalingCapped() float64

	// Velocity returns the current velocity in internal units per second.
	Velocity() mgl64.Vec3

	// Diverted reports whether the view is allowed to diverge from the focus.
	Diverted() bool

	// FacingFocus reports whether the last turn-to-target finished.
	FacingFocus() bool

	// SurfaceMode reports whether the camera is in planet surface mode.
	SurfaceMode() bool

	// TrackingObject returns the tracked object or nil.
	TrackingObject() focus.Focus

	// Crosshair projects a world point onto a viewport for focus markers.
	//
	// Parameters:
	//   - target: the world position to mark
	//   - width, height: the viewport size in pixels
	//
	// Returns:
	//   - Crosshair: the marker placement
	Crosshair(target common.Vec3Q, width, height int) Crosshair
}

// Crosshair is where to draw a focus marker. When the target is off-screen, X and Y
// are clamped to the viewport edge and ArrowAngle orients an arrow toward it.
type Crosshair struct {
	X, Y       float64
	Inside     bool
	ArrowAngle float64
}

// rotationAxis is an (acceleration, velocity, delta) triple for one rotational degree of freedom.
type rotationAxis struct {
	accel float64
	vel   float64
	delta float64
}

// add applies amount to the acceleration when accel is set, else sets the velocity.
func (a *rotationAxis) add(amount float64, accel bool) {
	if accel {
		a.accel += amount
	} else {
		a.vel = amount
	}
}

// step integrates the axis and reports whether it produced a delta.
func (a *rotationAxis) step(dt float64) bool {
	if a.accel == 0 && a.vel == 0 {
		return false
	}
	a.vel += a.accel * dt
	a.delta = math.Mod(a.vel*dt, 360)
	return true
}

// settle resets the acceleration, and the velocity when resetVel is set.
func (a *rotationAxis) settle(resetVel bool) {
	a.accel = 0
	if resetVel {
		a.vel = 0
	}
}

type modeHandler func(c *naturalCameraImpl, dt float64, tf clock.TimeFrame)

// naturalModeHandlers dispatches the per-frame update by mode.
var naturalModeHandlers = map[Mode]modeHandler{
	mode.Free:  (*naturalCameraImpl).updateFree,
	mode.Focus: (*naturalCameraImpl).updateFocus,
	mode.Game:  (*naturalCameraImpl).updateGame,
}

type naturalCameraImpl struct {
	*abstractCamera

	resolver      Resolver
	referenceBody string

	vel     common.Vec3Q
	accel   common.Vec3Q
	force   common.Vec3Q
	lastVel common.Vec3Q

	yaw, pitch, roll     rotationAxis
	horizontal, vertical rotationAxis

	focus          focus.Focus
	focusPos       common.Vec3Q
	nextFocusPos   common.Vec3Q
	nextClosestPos common.Vec3Q
	focusDirection mgl64.Vec3
	qPrev          mgl64.Quat
	hasQPrev       bool
	tracking       focus.Focus

	diverted     bool
	facingFocus  bool
	fullStop     bool
	gravity      bool
	gamepadInput bool
	surfaceMode  bool

	lastFwdTime     float64
	lastFwdAmount   float64
	velocityGamepad float64

	freeTargetOn  bool
	freeTargetPos common.Vec3Q

	projectionFlag bool
	projection     event.Projection

	speedScaling       float64
	speedScalingCapped float64
	movementMultiplier float64
	speedMultiplier    float64

	distA, distB, distC float64
	maxAllowedDistance  float64
	minDist             float64
	distance            float64

	lastMode Mode

	kbdListener     InputListener
	gameListener    InputListener
	gamepadListener InputListener
	current         InputListener

	crosshairFirst bool
	crosshairAngle float64
}

var _ NaturalCamera = &naturalCameraImpl{}

// NewNaturalCamera creates the interactive camera at the origin looking down +Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - NaturalCamera: the new camera
func NewNaturalCamera(options ...NaturalCameraOption) NaturalCamera {
	c := &naturalCameraImpl{
		abstractCamera:     newAbstractCamera(config.Default()),
		referenceBody:      "Earth",
		fullStop:           true,
		gravity:            true,
		movementMultiplier: 1,
		speedMultiplier:    1,
		crosshairFirst:     true,
	}
	c.self = c
	for _, option := range options {
		option(c)
	}
	c.logger = c.logger.With("camera", "natural")
	c.updateUnits(c.units)
	c.refreshSpeedScaling()
	c.current = c.kbdListener
	return c
}

// updateUnits recomputes the frustum planes and speed breakpoints.
// Caller must hold the mutex.
func (c *naturalCameraImpl) updateUnits(u common.Units) {
	c.updateFrustumPlanes(u)
	c.distA = 0.1 * u.PcToU
	c.distB = 5 * u.KpcToU
	c.distC = 5000 * u.MpcToU
	c.maxAllowedDistance = 50000 * u.MpcToU
	c.minDist = u.MToU
}

// applySettings stores the frame snapshot and follows distance scale changes.
// Caller must hold the mutex.
func (c *naturalCameraImpl) applySettings(s config.Settings) {
	c.settings = s
	if s.Scene.DistanceScaleFactor > 0 && s.Scene.DistanceScaleFactor != c.units.DistanceScaleFactor {
		c.updateUnits(common.NewUnits(s.Scene.DistanceScaleFactor))
	}
	if !c.currentMode().IsGame() {
		c.fullStop = s.Controls.FullStop
	}
}

func (c *naturalCameraImpl) Update(dt float64, tf clock.TimeFrame, s config.Settings) {
	c.pollListeners(dt)

	c.mu.Lock()
	c.update(dt, tf, s)
	evs := c.drainEvents()
	c.mu.Unlock()

	c.publish(evs)
}

// update runs one frame.
// Caller must hold the mutex.
func (c *naturalCameraImpl) update(dt float64, tf clock.TimeFrame, s config.Settings) {
	c.applySettings(s)
	c.orientProjection()
	c.computeNextPositions(tf)
	m := c.refreshSpeedScaling()

	if h, ok := naturalModeHandlers[m]; ok {
		h(c, dt, tf)
	}

	c.queue(event.UpdateCamRecorder, event.RecorderFrame{Time: tf.Time(), Position: c.pos, Dir: c.dir, Up: c.up})

	c.lastFwdTime += dt
	c.lastMode = m

	c.posDistanceCheck()
	c.restoreIfNonFinite()
}

// refreshSpeedScaling recomputes the speed scaling for the current position and
// returns the natural mode it was computed for.
// Caller must hold the mutex.
func (c *naturalCameraImpl) refreshSpeedScaling() Mode {
	c.distance = c.pos.Len()
	m := c.currentMode()
	if !m.IsNatural() {
		m = c.lastMode
	}
	if m.IsGame() {
		c.speedScaling = c.computeSpeedScaling(m, gameMinSpeed)
	} else {
		c.speedScaling = c.computeSpeedScaling(m, defaultMinSpeed)
	}
	c.speedScalingCapped = math.Max(10*c.units.MToU, c.speedScaling)
	return m
}

// SetPosition moves the camera and rescales its speed for the new position.
func (c *naturalCameraImpl) SetPosition(p common.Vec3Q) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.setPosition(p); err != nil {
		return err
	}
	c.refreshSpeedScaling()
	return nil
}

func (c *naturalCameraImpl) CopyParamsFrom(other Camera) {
	c.abstractCamera.CopyParamsFrom(other)
	c.mu.Lock()
	c.refreshSpeedScaling()
	c.mu.Unlock()
}

// pollListeners lets the active listeners issue commands for this frame.
// Must be called without the mutex, listeners call back into the camera.
func (c *naturalCameraImpl) pollListeners(dt float64) {
	c.mu.Lock()
	cur, pad := c.current, c.gamepadListener
	c.mu.Unlock()
	if cur != nil {
		cur.Poll(dt)
	}
	if pad != nil {
		pad.Poll(dt)
	}
}

// computeNextPositions caches the focus and closest-body positions at the frame time.
// Caller must hold the mutex.
func (c *naturalCameraImpl) computeNextPositions(tf clock.TimeFrame) {
	m := c.currentMode()
	if m.IsFocus() && focus.Valid(c.focus) {
		c.nextFocusPos = c.focus.PredictedPosition(tf.Time())
	}
	if c.closestBody.Valid() {
		if m.IsFocus() && focus.Same(c.closestBody.Focus, c.focus) {
			c.nextClosestPos = c.nextFocusPos
		} else {
			c.nextClosestPos = c.closestBody.Focus.PredictedPosition(tf.Time())
		}
	}
}

// orientProjection applies a latched remote pose and the display orientation offsets.
// Caller must hold the mutex.
func (c *naturalCameraImpl) orientProjection() {
	if !c.projectionFlag {
		return
	}
	c.projectionFlag = false
	p := c.projection
	if err := c.setPosition(p.Position); err != nil {
		return
	}
	if err := c.setOrientation(p.Dir, p.Up); err != nil {
		return
	}
	cl := c.settings.Cluster
	// Yaw to the right, pitch up, roll clockwise.
	c.dir = common.RotateAround(c.dir, c.up, -cl.Yaw)
	right := c.dir.Cross(c.up)
	c.dir = common.RotateAround(c.dir, right, cl.Pitch)
	c.up = common.RotateAround(c.up, right, cl.Pitch)
	c.up = common.RotateAround(c.up, c.dir, cl.Roll)
	c.dir, c.up = common.Orthonormalize(c.dir, c.up)
}

func (c *naturalCameraImpl) UpdateMode(prev Camera, prevMode, newMode Mode, centerFocus bool) {
	c.mu.Lock()
	old := c.current
	var next InputListener
	switch newMode {
	case mode.Focus:
		c.diverted = !centerFocus
		c.checkFocus()
		if focus.Valid(c.focus) {
			c.focusPos = c.focus.AbsolutePosition()
			c.nextFocusPos = c.focusPos
		}
		next = c.kbdListener
	case mode.Free:
		next = c.kbdListener
	case mode.Game:
		next = c.gameListener
	}
	c.current = next
	pad := c.gamepadListener
	evs := c.drainEvents()
	c.mu.Unlock()

	if old != nil && old != next {
		old.Deactivate()
	}
	if next != nil && next != old {
		next.Activate()
	}
	if pad != nil {
		if newMode.IsNatural() {
			pad.Activate()
		} else {
			pad.Deactivate()
		}
	}
	c.publish(evs)
}

func (c *naturalCameraImpl) Focus() focus.Focus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentMode().IsFocus() {
		return nil
	}
	return c.focus
}

// checkFocus moves the camera out of the focus when it starts inside it, or adopts
// the closest body when there is no valid focus.
// Caller must hold the mutex.
func (c *naturalCameraImpl) checkFocus() {
	if focus.Valid(c.focus) {
		if c.focus.Kind() == focus.Particle {
			return
		}
		fpos := c.focus.AbsolutePosition()
		if c.pos.Dst(fpos) < c.focus.Radius() {
			c.stopTotalMovement()
			c.pos = fpos.AddVec3(mgl64.Vec3{0, 0, -c.focus.Size() * 6})
			c.posBak = c.pos
			c.dir, c.up = common.Orthonormalize(mgl64.Vec3{0, 0, 1}, c.up)
		}
		return
	}
	if c.closestBody.Valid() {
		c.focus = c.closestBody.Focus
		c.checkFocus()
	}
}

// setFocus switches the focus.
// Caller must hold the mutex.
func (c *naturalCameraImpl) setFocus(f focus.Focus) error {
	if !focus.Valid(f) {
		return ErrNoFocus
	}
	c.focus = f
	c.focusPos = f.AbsolutePosition()
	c.nextFocusPos = c.focusPos
	c.hasQPrev = false
	c.facingFocus = false
	c.refreshSpeedScaling()
	c.logger.Info("focus changed", "focus", f.Name())
	c.queue(event.FocusChanged, event.FocusUpdate{Focus: f})
	return nil
}

func (c *naturalCameraImpl) SetFocus(f focus.Focus) error {
	c.mu.Lock()
	err := c.setFocus(f)
	if err == nil {
		c.checkFocus()
	}
	evs := c.drainEvents()
	c.mu.Unlock()
	c.publish(evs)
	return err
}

func (c *naturalCameraImpl) SetTrackingObject(f focus.Focus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !focus.Valid(f) {
		c.tracking = nil
		return
	}
	c.tracking = f
}

func (c *naturalCameraImpl) TrackingObject() focus.Focus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracking
}

// isTracking reports whether a tracking object is set.
// Caller must hold the mutex.
func (c *naturalCameraImpl) isTracking() bool {
	return focus.Valid(c.tracking)
}

func (c *naturalCameraImpl) SetFov(fov float64) {
	c.mu.Lock()
	c.setFovClamped(fov)
	evs := c.drainEvents()
	c.mu.Unlock()
	c.publish(evs)
}

// setFovClamped applies a field of view inside the allowed range.
// Caller must hold the mutex.
func (c *naturalCameraImpl) setFovClamped(fov float64) {
	if math.IsNaN(fov) {
		return
	}
	hi := maxFov
	if c.settings.Camera.IsCubemap() {
		hi = maxCubemapFov
	}
	c.setFov(common.Clamp(fov, minFov, hi))
	c.updateFrustumPlanes(c.units)
	c.queue(event.FovChangeNotification, event.FovNotification{Fov: c.fov, FovFactor: c.fovFactor})
}

func (c *naturalCameraImpl) SetDiverted(diverted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diverted = diverted
}

func (c *naturalCameraImpl) Diverted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.diverted
}

func (c *naturalCameraImpl) Center() {
	c.SetDiverted(false)
}

func (c *naturalCameraImpl) SetGamepadInput(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gamepadInput = on
}

func (c *naturalCameraImpl) FacingFocus() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facingFocus
}

func (c *naturalCameraImpl) SurfaceMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surfaceMode
}

func (c *naturalCameraImpl) SpeedScaling() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speedScaling
}

func (c *naturalCameraImpl) SpeedScalingCapped() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speedScalingCapped
}

func (c *naturalCameraImpl) Velocity() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vel.Vec3()
}

func (c *naturalCameraImpl) GoToObject() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !focus.Valid(c.focus) {
		return ErrNoFocus
	}
	c.tracking = nil
	c.stopTotalMovement()

	size := c.focus.Size()
	offset := mgl64.Vec3{0, size / 4, -size * 4}
	if c.settings.Runtime.VR {
		offset[2] = -offset[2]
	}
	c.pos = c.focus.AbsolutePosition().AddVec3(offset)
	c.posBak = c.pos
	dir := offset.Mul(-1).Normalize()
	up := mgl64.Vec3{dir[0], dir[2], -dir[1]}
	c.dir, c.up = common.Orthonormalize(dir, up)
	return nil
}

func (c *naturalCameraImpl) FreeTarget(ra, dec float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := common.SphericalToCartesian(mgl64.DegToRad(ra), mgl64.DegToRad(dec), freeTargetPc*c.units.PcToU)
	p = TransformVec(Transform(c.settings.Camera.Transform, c.logger), p)
	c.freeTargetPos = common.FromVec3(p)
	c.facingFocus = false
	c.freeTargetOn = true
}

func (c *naturalCameraImpl) Crosshair(target common.Vec3Q, width, height int) Crosshair {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, h := float64(width), float64(height)
	rel := target.Sub(c.pos).Vec3()
	p := c.perspective(c.pos)
	clip := p.ProjView.Mul4x1(rel.Vec4(1))
	var x, y float64
	if clip[3] != 0 {
		x = (clip[0]/clip[3] + 1) / 2 * w
		y = (clip[1]/clip[3] + 1) / 2 * h
	}
	ang := mgl64.RadToDeg(common.Angle(c.dir, rel))
	if ang > 90 {
		// Behind the camera the projection mirrors; snap to the nearest corner.
		x, y = w-x, h-y
		switch {
		case x <= w/2 && y >= h/2:
			x, y = 0, h
		case x > w/2 && y > h/2:
			x, y = w, h
		case x <= w/2:
			x, y = 0, 0
		default:
			x, y = w, 0
		}
	}
	x = common.Clamp(x, 0, w)
	y = common.Clamp(y, 0, h)
	ch := Crosshair{X: x, Y: y, Inside: ang*2 < c.fov}
	if ch.Inside {
		return ch
	}
	screenAngle := mgl64.RadToDeg(math.Atan2(y-h/2, x-w/2))
	if !c.settings.Runtime.VR {
		ch.ArrowAngle = -90 + screenAngle
		return ch
	}
	// VR alternates between a fresh angle and the last one on successive calls.
	if c.crosshairFirst {
		c.crosshairAngle = -90 + screenAngle
	}
	ch.ArrowAngle = c.crosshairAngle
	c.crosshairFirst = !c.crosshairFirst
	return ch
}
