package camera

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// prefetchFlushKmh is the speed above which queued spatial-index loads are dropped.
	prefetchFlushKmh   = 5e5
	prefetchFlushKmhVR = 5e6
)

// Manager owns the cameras and the active mode. It delegates the per-frame update to
// the camera serving the active mode, measures the camera speed and tracks the
// closest object of any kind.
type Manager interface {
	mode.Provider
	event.Handler

	// Update runs one frame on the active camera and publishes the motion telemetry.
	//
	// Parameters:
	//   - dt: real seconds since the previous frame
	//   - tf: the simulation time of this frame
	//   - s: the settings snapshot for this frame
	Update(dt float64, tf clock.TimeFrame, s config.Settings)

	// SetMode switches the active mode. The new camera starts from the pose of the
	// outgoing one.
	//
	// Parameters:
	//   - m: the new mode
	//   - centerFocus: centre the view on the focus when entering focus mode
	//   - postNotification: republish the field of view after the switch
	SetMode(m Mode, centerFocus, postNotification bool)

	// Current returns the camera serving the active mode.
	Current() Camera

	// Natural returns the free/focus/game camera.
	Natural() NaturalCamera

	// Spacecraft returns the spacecraft camera.
	Spacecraft() SpacecraftCamera

	// Relativistic returns the inert relativistic camera.
	Relativistic() Camera

	// SpeedKmh returns the camera speed measured during the last update.
	SpeedKmh() float64

	// ClosestOverall returns the nearest of the closest body and closest particle.
	ClosestOverall() Record

	// SwapBuffers promotes the closest-object records built by the last scene pass
	// on the active camera.
	SwapBuffers()
}

type managerImpl struct {
	mu     *sync.Mutex
	logger *slog.Logger
	bus    event.Bus

	mode atomic.Uint32

	natural      NaturalCamera
	spacecraft   SpacecraftCamera
	relativistic Camera

	settings        config.Settings
	naturalOpts     []NaturalCameraOption
	spacecraftOpts  []SpacecraftCameraOption
	lastPos         common.Vec3Q
	hasLastPos      bool
	speedKmh        float64
	closestOverall  Record
	lastProjView    mgl64.Mat4
	hasLastProjView bool
}

var _ Manager = &managerImpl{}

// NewManager creates the cameras and subscribes them and the manager to the bus.
//
// Parameters:
//   - options: functional options to configure the manager
//
// Returns:
//   - Manager: the new manager, in free mode unless configured otherwise
func NewManager(options ...ManagerOption) Manager {
	m := &managerImpl{
		mu:       &sync.Mutex{},
		logger:   slog.Default(),
		settings: config.Default(),
	}
	for _, option := range options {
		option(m)
	}

	m.natural = NewNaturalCamera(append([]NaturalCameraOption{
		WithSettings(m.settings),
		WithLogger(m.logger),
		WithBus(m.bus),
		WithModeProvider(m),
	}, m.naturalOpts...)...)
	m.spacecraft = NewSpacecraftCamera(append([]SpacecraftCameraOption{
		WithSpacecraftSettings(m.settings),
		WithSpacecraftLogger(m.logger),
		WithSpacecraftBus(m.bus),
		WithSpacecraftModeProvider(m),
	}, m.spacecraftOpts...)...)
	m.relativistic = NewRelativisticCamera(m.settings)
	m.naturalOpts, m.spacecraftOpts = nil, nil
	m.logger = m.logger.With("component", "camera_manager")

	if m.bus != nil {
		m.bus.Subscribe(m)
		m.bus.Subscribe(m.natural)
		m.bus.Subscribe(m.spacecraft)
	}
	return m
}

func (m *managerImpl) Mode() Mode {
	return Mode(m.mode.Load())
}

// cameraFor returns the camera serving md.
func (m *managerImpl) cameraFor(md Mode) Camera {
	if md.IsSpacecraft() {
		return m.spacecraft
	}
	return m.natural
}

func (m *managerImpl) Current() Camera {
	return m.cameraFor(m.Mode())
}

func (m *managerImpl) Natural() NaturalCamera {
	return m.natural
}

func (m *managerImpl) Spacecraft() SpacecraftCamera {
	return m.spacecraft
}

func (m *managerImpl) Relativistic() Camera {
	return m.relativistic
}

func (m *managerImpl) SetMode(next Mode, centerFocus, postNotification bool) {
	m.mu.Lock()
	prevMode := m.Mode()
	prev, cam := m.cameraFor(prevMode), m.cameraFor(next)
	m.mode.Store(uint32(next))
	m.mu.Unlock()

	if cam != prev {
		cam.CopyParamsFrom(prev)
	}
	for _, c := range []Camera{m.natural, m.spacecraft, m.relativistic} {
		c.UpdateMode(prev, prevMode, next, centerFocus)
	}
	m.logger.Info("camera mode changed", "from", prevMode, "to", next)

	if m.bus == nil {
		return
	}
	if postNotification {
		m.bus.Publish(event.FovChangeNotification, m, event.FovNotification{Fov: cam.Fov(), FovFactor: cam.FovFactor()})
	}
	if next.IsGame() {
		m.bus.Publish(event.CameraCinematicCmd, m, event.Toggle{On: false})
	}
}

func (m *managerImpl) Update(dt float64, tf clock.TimeFrame, s config.Settings) {
	md := m.Mode()
	cam := m.cameraFor(md)

	m.mu.Lock()
	m.settings = s
	prevPV, hasPV := m.lastProjView, m.hasLastProjView
	m.mu.Unlock()
	if hasPV {
		cam.SetPreviousProjView(prevPV)
	}

	cam.Update(dt, tf, s)

	pos := cam.Position()
	pv := cam.Perspective().ProjView
	body, star := cam.ClosestBody(), cam.ClosestStar()
	units := common.NewUnits(s.Scene.DistanceScaleFactor)

	m.mu.Lock()
	speed := 0.0
	var dirV mgl64.Vec3
	if m.hasLastPos && dt > 0 {
		delta := pos.Sub(m.lastPos)
		speed = delta.Len() * units.UToKm / (dt / common.HToS)
		dirV = delta.Normalize()
	}
	m.lastPos, m.hasLastPos = pos, true
	m.speedKmh = speed
	m.lastProjView, m.hasLastProjView = pv, true

	// The previous closest object stands until a new one is seen.
	overall := m.closestOverall
	if body.Valid() || star.Valid() {
		overall = closestOverall(body, star)
	}
	changed := overall.Valid() && !focus.Same(overall.Focus, m.closestOverall.Focus)
	m.closestOverall = overall
	m.mu.Unlock()

	if m.bus == nil {
		return
	}
	limit := prefetchFlushKmh
	if s.Runtime.VR {
		limit = prefetchFlushKmhVR
	}
	if speed > limit {
		m.bus.Publish(event.ClearOctantQueue, m, nil)
	}
	m.bus.Publish(event.CameraMotionUpdate, m, event.Motion{Position: pos, SpeedKmh: speed, Velocity: dirV, Mode: md})

	info := event.ClosestInfo{Body: body.Focus, Particle: star.Focus, Overall: overall.Focus}
	m.bus.Publish(event.CameraClosestInfo, m, info)
	if changed {
		m.bus.Publish(event.CameraNewClosest, m, info)
	}
}

// closestOverall picks between the closest body and the closest particle. The body
// is measured to its centre, the particle to its surface.
func closestOverall(body, particle Record) Record {
	switch {
	case !body.Valid():
		return particle
	case !particle.Valid():
		return body
	case particle.SurfaceDistance() <= body.Distance:
		return particle
	}
	return body
}

func (m *managerImpl) SpeedKmh() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speedKmh
}

func (m *managerImpl) ClosestOverall() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closestOverall
}

func (m *managerImpl) SwapBuffers() {
	m.Current().SwapBuffers()
}

func (m *managerImpl) EventTypes() []event.Type {
	return []event.Type{event.CameraModeCmd, event.FovChangeNotification}
}

func (m *managerImpl) HandleEvent(e event.Event) {
	switch e.Type {
	case event.CameraModeCmd:
		p, ok := e.Payload.(event.ModeChange)
		if !ok {
			return
		}
		m.SetMode(p.Mode, p.CenterFocus, p.PostNotification)
	case event.FovChangeNotification:
		p, ok := e.Payload.(event.FovNotification)
		if !ok || e.Source == Camera(m.spacecraft) {
			return
		}
		m.spacecraft.SetFov(p.Fov)
	}
}
