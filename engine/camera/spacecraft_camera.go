package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// framingSizes is the framing distance in vessel sizes.
	framingSizes = 3.5
	// framingLift raises the eye above the vessel, as a fraction of the framing distance.
	framingLift = 0.125
	// framingLookAhead places the look-at point ahead of the vessel, in framing distances.
	framingLookAhead = 50.0
)

// Vessel is a simulated spacecraft the SpacecraftCamera follows. Its position and
// velocity come from its own coordinate provider; the camera only advances it and
// reads its pose.
type Vessel interface {
	focus.Focus

	// Direction returns the unit forward axis.
	Direction() mgl64.Vec3

	// Up returns the unit up axis.
	Up() mgl64.Vec3

	// Responsiveness returns the framing time constant in seconds.
	Responsiveness() float64

	// Step advances the vessel simulation.
	//
	// Parameters:
	//   - dt: real seconds since the previous frame
	//   - closest: the closest body of the last frame, used for collision stops
	Step(dt float64, closest Record)

	// Place teleports the vessel and stops it.
	Place(pos common.Vec3Q, dir, up mgl64.Vec3)
}

// SpacecraftCamera frames a Vessel from behind and above with smoothed motion.
type SpacecraftCamera interface {
	Camera
	event.Handler

	// SetVessel sets the followed vessel. Nil detaches it.
	SetVessel(v Vessel)

	// Vessel returns the followed vessel or nil.
	Vessel() Vessel

	// SetFov follows the natural camera field of view.
	SetFov(fov float64)
}

type spacecraftCameraImpl struct {
	*abstractCamera

	vessel  Vessel
	// relPos is the eye offset from the vessel, smoothed toward the framing offset.
	relPos  mgl64.Vec3
	framed  bool
	nearest string
}

var _ SpacecraftCamera = &spacecraftCameraImpl{}

// NewSpacecraftCamera creates a spacecraft camera without a vessel.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - SpacecraftCamera: the new camera
func NewSpacecraftCamera(options ...SpacecraftCameraOption) SpacecraftCamera {
	c := &spacecraftCameraImpl{
		abstractCamera: newAbstractCamera(config.Default()),
	}
	c.self = c
	for _, option := range options {
		option(c)
	}
	c.logger = c.logger.With("camera", "spacecraft")
	return c
}

func (c *spacecraftCameraImpl) Update(dt float64, tf clock.TimeFrame, s config.Settings) {
	c.mu.Lock()
	c.settings = s
	if s.Scene.DistanceScaleFactor > 0 && s.Scene.DistanceScaleFactor != c.units.DistanceScaleFactor {
		c.updateFrustumPlanes(common.NewUnits(s.Scene.DistanceScaleFactor))
	}
	v, closest := c.vessel, c.closestBody
	c.mu.Unlock()

	if v == nil || v.IsEmpty() {
		return
	}
	v.Step(dt, closest)
	scPos, scDir, scUp := v.AbsolutePosition(), v.Direction(), v.Up()
	size, resp := v.Size(), v.Responsiveness()
	if override := s.Spacecraft.Responsiveness; override > 0 {
		resp = override
	}

	c.mu.Lock()
	c.frame(dt, scPos, scDir, scUp, size, resp)
	c.restoreIfNonFinite()
	c.queueNearest(scPos)
	c.queue(event.UpdateCamRecorder, event.RecorderFrame{Time: tf.Time(), Position: c.pos, Dir: c.dir, Up: c.up})
	evs := c.drainEvents()
	c.mu.Unlock()

	c.publish(evs)
}

// frame blends the eye toward its ideal offset behind the vessel.
// Caller must hold the mutex.
func (c *spacecraftCameraImpl) frame(dt float64, scPos common.Vec3Q, scDir, scUp mgl64.Vec3, size, resp float64) {
	if !common.IsFiniteVec3(scDir) || !common.IsFiniteVec3(scUp) || scDir.Len() == 0 {
		return
	}
	alpha := 1.0
	if resp > 0 && c.framed {
		alpha = 1 - math.Exp(-dt/resp)
	}

	dist := size * framingSizes / c.fovFactor
	desired := scDir.Mul(-dist).Add(scUp.Mul(dist * framingLift))
	c.relPos = c.relPos.Add(desired.Sub(c.relPos).Mul(alpha))
	c.pos = scPos.AddVec3(c.relPos)

	lookAt := scPos.AddVec3(scDir.Mul(dist * framingLookAhead).Add(scUp.Mul(size * framingSizes)))
	want := lookAt.Sub(c.pos).Normalize()
	dir := c.dir.Add(want.Sub(c.dir).Mul(alpha))
	up := c.up.Add(scUp.Sub(c.up).Mul(alpha))
	if dir.Len() == 0 || up.Len() == 0 {
		dir, up = want, scUp
	}
	c.dir, c.up = common.Orthonormalize(dir, up)
	c.framed = true
}

// queueNearest reports the object closest to the vessel surface.
// Caller must hold the mutex.
func (c *spacecraftCameraImpl) queueNearest(scPos common.Vec3Q) {
	var best Record
	var bestDist float64
	for _, r := range []Record{c.closestBody, c.closestStar} {
		if !r.Valid() {
			continue
		}
		d := r.Focus.AbsolutePosition().Dst(scPos) - r.Focus.Radius()
		if !best.Valid() || d < bestDist {
			best, bestDist = r, d
		}
	}
	if !best.Valid() {
		return
	}
	c.queue(event.SpacecraftNearestInfo, event.NearestInfo{Name: best.Focus.Name(), Distance: bestDist})
	if best.Focus.Name() != c.nearest {
		c.nearest = best.Focus.Name()
		c.logger.Debug("nearest object changed", "name", c.nearest)
	}
}

func (c *spacecraftCameraImpl) UpdateMode(prev Camera, prevMode, newMode Mode, centerFocus bool) {
	if !newMode.IsSpacecraft() || prevMode.IsSpacecraft() {
		return
	}
	c.mu.Lock()
	v := c.vessel
	c.framed = false
	c.relPos = mgl64.Vec3{}
	c.mu.Unlock()

	if v == nil {
		c.logger.Warn("spacecraft mode without a vessel")
		return
	}
	if prev != nil && prev != Camera(c) {
		v.Place(prev.Position(), prev.Direction(), prev.Up())
	}
}

func (c *spacecraftCameraImpl) Focus() focus.Focus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vessel == nil || !c.currentMode().IsSpacecraft() {
		return nil
	}
	return c.vessel
}

func (c *spacecraftCameraImpl) SetVessel(v Vessel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vessel = v
	c.framed = false
	if v != nil {
		c.logger.Info("vessel attached", "name", v.Name())
	}
}

func (c *spacecraftCameraImpl) Vessel() Vessel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vessel
}

func (c *spacecraftCameraImpl) SetFov(fov float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setFov(fov)
}

func (c *spacecraftCameraImpl) EventTypes() []event.Type {
	return []event.Type{event.SpacecraftLoaded}
}

func (c *spacecraftCameraImpl) HandleEvent(e event.Event) {
	if e.Type != event.SpacecraftLoaded {
		return
	}
	p, ok := e.Payload.(event.Spacecraft)
	if !ok {
		return
	}
	v, ok := p.Entity.(Vessel)
	if !ok || v == nil {
		c.logger.Warn("loaded entity is not a vessel")
		return
	}
	c.SetVessel(v)
}

