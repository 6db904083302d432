package camera

import (
	"log/slog"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// viewAngleThreshold is the angular size (0.05 degrees) above which objects are
	// always visible regardless of the view cone.
	viewAngleThreshold = 0.05 * math.Pi / 180
	nearPlaneMeters    = 0.5
	farPlaneMpc        = 1.0
	fovFactorBase      = 40.0
)

type pendingEvent struct {
	t       event.Type
	payload any
}

// abstractCamera holds the state shared by every concrete camera: the pose in
// extended precision, projection parameters and the closest-object bookkeeping.
// Concrete cameras embed it and serialize all access on mu.
type abstractCamera struct {
	mu *sync.Mutex

	// self is the concrete camera, used as the event source.
	self   Camera
	logger *slog.Logger
	bus    event.Bus
	modes  mode.Provider

	pos    common.Vec3Q
	posBak common.Vec3Q
	dir    mgl64.Vec3
	up     mgl64.Vec3

	fov       float64
	aspect    float64
	fovFactor float64
	angleEdge float64
	near      float64
	far       float64

	units    common.Units
	settings config.Settings

	closestBody         Record
	closestBodyBuilding Record
	closestStar         Record
	closestStarBuilding Record
	proximity           *Proximity

	prevProjView mgl64.Mat4
	pending      []pendingEvent
}

func newAbstractCamera(s config.Settings) *abstractCamera {
	c := &abstractCamera{
		mu:           &sync.Mutex{},
		logger:       slog.Default(),
		dir:          mgl64.Vec3{0, 0, 1},
		up:           mgl64.Vec3{0, 1, 0},
		aspect:       16.0 / 9.0,
		settings:     s,
		proximity:    NewProximity(s.Scene.ProximityLights),
		prevProjView: mgl64.Ident4(),
	}
	c.units = common.NewUnits(s.Scene.DistanceScaleFactor)
	c.setFov(s.Camera.Fov)
	c.updateFrustumPlanes(c.units)
	return c
}

// currentMode returns the active mode, Free when no provider is attached.
func (c *abstractCamera) currentMode() Mode {
	if c.modes == nil {
		return mode.Free
	}
	return c.modes.Mode()
}

// queue records an event to publish once the mutex is released.
// Caller must hold the mutex.
func (c *abstractCamera) queue(t event.Type, payload any) {
	c.pending = append(c.pending, pendingEvent{t: t, payload: payload})
}

// drainEvents takes the queued events.
// Caller must hold the mutex.
func (c *abstractCamera) drainEvents() []pendingEvent {
	evs := c.pending
	c.pending = nil
	return evs
}

// publish sends drained events on the bus. Must be called without the mutex.
func (c *abstractCamera) publish(evs []pendingEvent) {
	if c.bus == nil {
		return
	}
	for _, e := range evs {
		c.bus.Publish(e.t, c.self, e.payload)
	}
}

// setFov applies a field of view and recomputes the derived angles.
// Caller must hold the mutex.
func (c *abstractCamera) setFov(fov float64) {
	if fov <= 0 || math.IsNaN(fov) {
		fov = 45
	}
	c.fov = fov
	c.fovFactor = fov / fovFactorBase
	c.updateAngleEdge()
}

// updateAngleEdge computes the half-diagonal view angle in radians.
// Caller must hold the mutex.
func (c *abstractCamera) updateAngleEdge() {
	hfov := c.fov * c.aspect
	c.angleEdge = mgl64.DegToRad(math.Sqrt(c.fov*c.fov+hfov*hfov)) / 2
}

// updateFrustumPlanes sets near and far from the unit table.
// Caller must hold the mutex.
func (c *abstractCamera) updateFrustumPlanes(u common.Units) {
	c.units = u
	c.near = nearPlaneMeters * u.MToU
	c.far = farPlaneMpc * u.MpcToU
}

// setPosition stores p unless it is non-finite.
// Caller must hold the mutex.
func (c *abstractCamera) setPosition(p common.Vec3Q) error {
	if !p.IsFinite() {
		c.logger.Warn("rejected non-finite position")
		return ErrNonFinite
	}
	c.pos = p
	c.posBak = p
	return nil
}

// setOrientation stores dir and up, orthonormalized.
// Caller must hold the mutex.
func (c *abstractCamera) setOrientation(dir, up mgl64.Vec3) error {
	if !common.IsFiniteVec3(dir) || !common.IsFiniteVec3(up) || dir.Len() == 0 || up.Len() == 0 {
		c.logger.Warn("rejected non-finite orientation")
		return ErrNonFinite
	}
	c.dir, c.up = common.Orthonormalize(dir, up)
	return nil
}

// restoreIfNonFinite keeps the last good position when integration produced NaN or Inf.
// Caller must hold the mutex.
func (c *abstractCamera) restoreIfNonFinite() bool {
	if !c.pos.IsFinite() {
		c.pos = c.posBak
		c.logger.Warn("rejected non-finite integrated position")
		return true
	}
	c.posBak = c.pos
	return false
}

// rotate turns dir and up around axis by deg degrees.
// Caller must hold the mutex.
func (c *abstractCamera) rotate(axis mgl64.Vec3, deg float64) {
	if !common.IsFiniteVec3(axis) || math.IsNaN(deg) || math.IsInf(deg, 0) || deg == 0 {
		return
	}
	c.dir = common.RotateAround(c.dir, axis, deg)
	c.up = common.RotateAround(c.up, axis, deg)
	c.dir, c.up = common.Orthonormalize(c.dir, c.up)
}

// perspective builds the renderer snapshot for a camera placed at pos.
// Caller must hold the mutex.
func (c *abstractCamera) perspective(pos common.Vec3Q) Perspective {
	view := mgl64.LookAtV(mgl64.Vec3{}, c.dir, c.up)
	proj := mgl64.Perspective(mgl64.DegToRad(c.fov), c.aspect, c.near, c.far)
	pv := proj.Mul4(view)
	return Perspective{
		Position:   pos,
		Direction:  mgl32.Vec3{float32(c.dir[0]), float32(c.dir[1]), float32(c.dir[2])},
		Up:         mgl32.Vec3{float32(c.up[0]), float32(c.up[1]), float32(c.up[2])},
		Fov:        c.fov,
		Aspect:     c.aspect,
		Near:       c.near,
		Far:        c.far,
		View:       view,
		Projection: proj,
		ProjView:   pv,
		Frustum:    common.ExtractFrustumFromMatrix(pv),
	}
}

func (c *abstractCamera) Position() common.Vec3Q {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *abstractCamera) SetPosition(p common.Vec3Q) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setPosition(p)
}

func (c *abstractCamera) Direction() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir
}

func (c *abstractCamera) SetDirection(d mgl64.Vec3) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setOrientation(d, c.up)
}

func (c *abstractCamera) Up() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *abstractCamera) SetUp(u mgl64.Vec3) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !common.IsFiniteVec3(u) || u.Len() == 0 {
		c.logger.Warn("rejected non-finite up vector")
		return ErrNonFinite
	}
	// Keep the direction and rebuild up perpendicular to it.
	c.dir, c.up = common.Orthonormalize(c.dir, u)
	return nil
}

func (c *abstractCamera) CopyParamsFrom(other Camera) {
	if other == nil || other == c.self {
		return
	}
	pos, dir, up, closest := other.Position(), other.Direction(), other.Up(), other.ClosestBody()

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.setPosition(pos)
	_ = c.setOrientation(dir, up)
	c.closestBody = closest
}

func (c *abstractCamera) ClosestBody() Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closestBody
}

func (c *abstractCamera) ClosestStar() Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closestStar
}

func (c *abstractCamera) CheckClosestBody(f focus.Focus, distance float64) {
	if !focus.Valid(f) || f.Tags().Has(focus.Copy) || f.Tags().Has(focus.NoClosest) {
		return
	}
	if math.IsNaN(distance) {
		return
	}
	r := Record{Focus: f, Distance: distance}

	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.closestBodyBuilding
	if !cur.Valid() || r.SurfaceDistance() < cur.SurfaceDistance() {
		c.closestBodyBuilding = r
	}
}

func (c *abstractCamera) CheckClosestParticle(f focus.Focus, distance float64) {
	if !focus.Valid(f) || math.IsNaN(distance) {
		return
	}
	r := Record{Focus: f, Distance: distance}
	c.proximity.Update(r)

	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.closestStarBuilding
	if !cur.Valid() || r.SurfaceDistance() < cur.SurfaceDistance() {
		c.closestStarBuilding = r
	}
}

func (c *abstractCamera) SwapBuffers() {
	c.mu.Lock()
	c.closestBody, c.closestBodyBuilding = c.closestBodyBuilding, Record{}
	c.closestStar, c.closestStarBuilding = c.closestStarBuilding, Record{}
	c.mu.Unlock()
	c.proximity.Swap()
}

func (c *abstractCamera) Proximity() *Proximity {
	return c.proximity
}

func (c *abstractCamera) IsVisible(viewAngle float64, rel mgl64.Vec3, distance float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if viewAngle > viewAngleThreshold {
		return true
	}
	if distance <= 0 {
		return true
	}
	return math.Acos(common.Clamp(rel.Dot(c.dir)/distance, -1, 1)) < c.angleEdge
}

func (c *abstractCamera) UpdateFrustumPlanes(u common.Units) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateFrustumPlanes(u)
}

func (c *abstractCamera) Fov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *abstractCamera) FovFactor() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fovFactor
}

func (c *abstractCamera) SetAspect(aspect float64) {
	if aspect <= 0 || math.IsNaN(aspect) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateAngleEdge()
}

func (c *abstractCamera) Perspective() Perspective {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perspective(c.pos)
}

func (c *abstractCamera) Stereo(eyeSeparation float64) (Perspective, Perspective) {
	c.mu.Lock()
	defer c.mu.Unlock()
	half := c.dir.Cross(c.up).Normalize().Mul(eyeSeparation / 2)
	return c.perspective(c.pos.AddVec3(half.Mul(-1))), c.perspective(c.pos.AddVec3(half))
}

func (c *abstractCamera) PreviousProjView() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prevProjView
}

func (c *abstractCamera) SetPreviousProjView(m mgl64.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prevProjView = m
}
