package camera

import (
	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Mode is the camera navigation mode.
type Mode = mode.Mode

// Camera is the contract shared by every camera implementation driven by the Manager.
// All methods are safe for concurrent use; pose mutations and Update are serialized
// on the camera's mutex so the renderer never samples a half-updated pose.
type Camera interface {
	// Update integrates one frame of motion.
	//
	// Parameters:
	//   - dt: real seconds since the previous frame
	//   - tf: the simulation time of this frame
	//   - s: the settings snapshot for this frame
	Update(dt float64, tf clock.TimeFrame, s config.Settings)

	// UpdateMode is called on every camera when the manager switches modes.
	//
	// Parameters:
	//   - prev: the camera that was active before the transition
	//   - prevMode: the previous mode
	//   - newMode: the new mode
	//   - centerFocus: whether the view should be centred on the focus
	UpdateMode(prev Camera, prevMode, newMode Mode, centerFocus bool)

	// Position returns the world-space position.
	Position() common.Vec3Q

	// SetPosition sets the world-space position.
	//
	// Parameters:
	//   - p: the new position
	//
	// Returns:
	//   - error: ErrNonFinite if p has non-finite components; the position is unchanged
	SetPosition(p common.Vec3Q) error

	// Direction returns the unit view direction.
	Direction() mgl64.Vec3

	// SetDirection sets the view direction. The vector is normalized.
	//
	// Returns:
	//   - error: ErrNonFinite if d is non-finite or zero; the direction is unchanged
	SetDirection(d mgl64.Vec3) error

	// Up returns the unit up vector.
	Up() mgl64.Vec3

	// SetUp sets the up vector. The vector is normalized.
	//
	// Returns:
	//   - error: ErrNonFinite if u is non-finite or zero; the up vector is unchanged
	SetUp(u mgl64.Vec3) error

	// CopyParamsFrom copies position, direction, up and closest body from other.
	CopyParamsFrom(other Camera)

	// Focus returns the current focus in focus mode, nil otherwise.
	Focus() focus.Focus

	// ClosestBody returns the closest solid body record of the last completed frame.
	ClosestBody() Record

	// ClosestStar returns the closest particle record of the last completed frame.
	ClosestStar() Record

	// CheckClosestBody offers a solid body as closest-body candidate for the frame being built.
	//
	// Parameters:
	//   - f: the candidate
	//   - distance: the candidate centre distance to the camera, in internal units
	CheckClosestBody(f focus.Focus, distance float64)

	// CheckClosestParticle offers a light source to the proximity set and closest star.
	//
	// Parameters:
	//   - f: the candidate
	//   - distance: the candidate centre distance to the camera, in internal units
	CheckClosestParticle(f focus.Focus, distance float64)

	// SwapBuffers promotes the records built during the last scene pass.
	// Call exactly once per completed frame.
	SwapBuffers()

	// Proximity returns the proximity set of this camera.
	Proximity() *Proximity

	// IsVisible reports whether an object is worth drawing from this camera.
	//
	// Parameters:
	//   - viewAngle: the object's angular size in radians
	//   - rel: the object position relative to the camera
	//   - distance: the object distance to the camera
	//
	// Returns:
	//   - bool: true if the object is large enough or inside the view cone
	IsVisible(viewAngle float64, rel mgl64.Vec3, distance float64) bool

	// UpdateFrustumPlanes recomputes near/far planes from the unit table.
	UpdateFrustumPlanes(u common.Units)

	// Fov returns the vertical field of view in degrees.
	Fov() float64

	// FovFactor returns fov / 40.
	FovFactor() float64

	// SetAspect sets the viewport aspect ratio (width / height).
	SetAspect(aspect float64)

	// Perspective returns the renderer snapshot of the current pose.
	Perspective() Perspective

	// Stereo returns the left and right eye perspectives.
	//
	// Parameters:
	//   - eyeSeparation: distance between the eyes in internal units
	Stereo(eyeSeparation float64) (Perspective, Perspective)

	// PreviousProjView returns the projection-view matrix of the previous frame.
	PreviousProjView() mgl64.Mat4

	// SetPreviousProjView stores the projection-view matrix of the previous frame.
	SetPreviousProjView(m mgl64.Mat4)
}

// Perspective is the renderer-facing view of a camera. The camera sits at the origin
// of camera space; world positions are made camera-relative by subtracting Position
// in extended precision before narrowing.
type Perspective struct {
	Position   common.Vec3Q
	Direction  mgl32.Vec3
	Up         mgl32.Vec3
	Fov        float64
	Aspect     float64
	Near       float64
	Far        float64
	View       mgl64.Mat4
	Projection mgl64.Mat4
	ProjView   mgl64.Mat4
	Frustum    common.Frustum
}

// Relative returns p as a camera-relative float64 vector.
func (p Perspective) Relative(world common.Vec3Q) mgl64.Vec3 {
	return world.Sub(p.Position).Vec3()
}

// InputListener is an input source owned by a camera. Listeners translate raw input
// into camera commands and must not be polled while the camera mutex is held.
type InputListener interface {
	// Poll applies held input for the frame.
	Poll(dt float64)

	// Activate starts routing input to the camera.
	Activate()

	// Deactivate stops routing input and clears held state.
	Deactivate()

	// IsKeyPressed reports whether the key code is held.
	IsKeyPressed(key int) bool

	// ResponseTime returns the seconds after which released forward input stops the camera.
	ResponseTime() float64
}
