package event

import (
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

// FocusChange requests a new focus. Either Focus or Name must be set; a name is
// resolved by the scene before the camera sees it.
type FocusChange struct {
	Focus focus.Focus
	Name  string
	// CenterFocus re-centres the view on the new focus.
	CenterFocus bool
}

// FocusUpdate reports the focus now used by the camera.
type FocusUpdate struct {
	Focus focus.Focus
}

// FocusLoss reports that Focus is no longer loaded.
type FocusLoss struct {
	Focus focus.Focus
}

// FocusInfo is the per-frame focus telemetry.
type FocusInfo struct {
	Name string
	// Distance from the camera to the focus surface, in internal units.
	Distance float64
	// AppMagCamera is the apparent magnitude seen from the camera.
	AppMagCamera float64
	// AppMagEarth is the apparent magnitude seen from the reference body.
	AppMagEarth float64
}

// FovChange requests a new field of view in degrees.
type FovChange struct {
	Fov float64
}

// FovNotification reports the effective field of view.
type FovNotification struct {
	Fov       float64
	FovFactor float64
}

// ModeChange requests a camera mode transition.
type ModeChange struct {
	Mode        mode.Mode
	CenterFocus bool
	// PostNotification republishes the field of view after the transition.
	PostNotification bool
}

// Vector carries a direction or up vector. Position commands use Position.
type Vector struct {
	Value    mgl64.Vec3
	Position common.Vec3Q
}

// Projection carries a full pose to apply on the next update.
type Projection struct {
	Position common.Vec3Q
	Dir      mgl64.Vec3
	Up       mgl64.Vec3
}

// Amount carries a single scalar.
type Amount struct {
	Value float64
}

// Delta2 carries a two-axis input delta.
type Delta2 struct {
	DX, DY float64
	// FocusOnly restricts a rotation to the focus orbit.
	FocusOnly bool
	// Acceleration applies the delta as acceleration instead of velocity.
	Acceleration bool
}

// Toggle carries an on/off state.
type Toggle struct {
	On bool
}

// Tracking sets or clears (nil Focus) the tracked object.
type Tracking struct {
	Focus focus.Focus
	Name  string
}

// SkyCoordinates are equatorial coordinates in degrees.
type SkyCoordinates struct {
	RA, Dec float64
}

// OrientationLock toggles the focus position and orientation locks.
type OrientationLock struct {
	Position    bool
	Orientation bool
}

// Controller identifies a gamepad.
type Controller struct {
	ID   int
	Name string
}

// Motion is the per-frame camera pose and speed.
type Motion struct {
	Position common.Vec3Q
	// SpeedKmh is the scalar speed in km/h.
	SpeedKmh float64
	// Velocity is the normalized velocity direction.
	Velocity mgl64.Vec3
	Mode     mode.Mode
}

// ClosestInfo reports the closest objects of each kind.
type ClosestInfo struct {
	Body     focus.Focus
	Particle focus.Focus
	Overall  focus.Focus
}

// RecorderFrame is the pose handed to camera path recorders.
type RecorderFrame struct {
	Time     time.Time
	Position common.Vec3Q
	Dir      mgl64.Vec3
	Up       mgl64.Vec3
}

// NearestInfo reports the object closest to the spacecraft.
type NearestInfo struct {
	Name string
	// Distance to the object surface in internal units.
	Distance float64
}

// Spacecraft announces a loaded spacecraft entity.
type Spacecraft struct {
	Entity focus.Focus
}

// SpacecraftState is the spacecraft telemetry.
type SpacecraftState struct {
	Machine string
	// SpeedMs is the linear speed in m/s.
	SpeedMs      float64
	ThrustFactor float64
	EnginePower  float64
	// Yaw, Pitch and Roll are the attitude angles in degrees.
	Yaw, Pitch, Roll float64
}
