// Package config holds the navigation settings. A Settings value is a plain
// snapshot: copy it and hand the copy to per-frame updates.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// Projection names.
const (
	ProjectionPerspective = "perspective"
	ProjectionCubemap     = "cubemap"
	ProjectionFisheye     = "fisheye"
)

// Cluster roles.
const (
	RoleNone   = ""
	RoleMaster = "master"
	RoleSlave  = "slave"
)

// Settings is the full navigation configuration.
type Settings struct {
	Camera     CameraSettings     `yaml:"camera"`
	Scene      SceneSettings      `yaml:"scene"`
	Controls   ControlSettings    `yaml:"controls"`
	Runtime    RuntimeSettings    `yaml:"runtime"`
	Spacecraft SpacecraftSettings `yaml:"spacecraft"`
	Cluster    ClusterSettings    `yaml:"cluster"`
	Metrics    MetricsSettings    `yaml:"metrics"`
}

// CameraSettings tunes the interactive camera.
type CameraSettings struct {
	// Speed multiplies the translation speed ceiling.
	Speed float64 `yaml:"speed"`
	// Turn scales look-around (yaw/pitch/roll) input.
	Turn float64 `yaml:"turn"`
	// Rotate scales orbit input around the focus.
	Rotate float64 `yaml:"rotate"`
	// Fov is the vertical field of view in degrees.
	Fov float64 `yaml:"fov"`
	// Cinematic keeps rotation velocity until explicitly stopped.
	Cinematic bool `yaml:"cinematic"`
	// TargetMode turns the free camera toward sky coordinates when set.
	TargetMode bool `yaml:"targetMode"`
	// SpeedLimit caps the velocity in km/h. Zero disables the cap.
	SpeedLimit float64 `yaml:"speedLimit"`
	// Projection is one of perspective, cubemap or fisheye.
	Projection string    `yaml:"projection"`
	FocusLock  FocusLock `yaml:"focusLock"`
	// Transform names the coordinate transform applied to free-mode targets.
	Transform string `yaml:"transform"`
}

// FocusLock controls how the camera follows a moving focus.
type FocusLock struct {
	Position    bool `yaml:"position"`
	Orientation bool `yaml:"orientation"`
}

// SceneSettings describes global unit scaling.
type SceneSettings struct {
	DistanceScaleFactor float64 `yaml:"distanceScaleFactor"`
	ElevationMultiplier float64 `yaml:"elevationMultiplier"`
	// ProximityLights is the capacity of the proximity set.
	ProximityLights int `yaml:"proximityLights"`
	// Workers is the size of the per-frame distance worker pool.
	Workers int `yaml:"workers"`
}

// ControlSettings tunes the input listeners.
type ControlSettings struct {
	// ResponseTime is how long forward input persists in full-stop mode, in seconds.
	ResponseTime     float64 `yaml:"responseTime"`
	InvertLookY      bool    `yaml:"invertLookY"`
	MouseSensitivity float64 `yaml:"mouseSensitivity"`
	GamepadDeadzone  float64 `yaml:"gamepadDeadzone"`
	// FullStop applies friction against velocity once input stops.
	FullStop bool `yaml:"fullStop"`
}

// RuntimeSettings covers the process-level switches.
type RuntimeSettings struct {
	VR bool `yaml:"vr"`
	// StereoEyeSeparation is the eye distance in meters.
	StereoEyeSeparation float64 `yaml:"stereoEyeSeparation"`
	// TickRate is the number of camera updates per second.
	TickRate int `yaml:"tickRate"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
}

// SpacecraftSettings lists the available spacecraft machines.
type SpacecraftSettings struct {
	Machines []Machine `yaml:"machines"`
	// Responsiveness overrides the machine responsiveness when positive, in seconds.
	Responsiveness float64 `yaml:"responsiveness"`
}

// Machine is a spacecraft model.
type Machine struct {
	Name string `yaml:"name"`
	// Size in meters.
	Size float64 `yaml:"size"`
	// Mass in kilograms.
	Mass  float64 `yaml:"mass"`
	Power float64 `yaml:"power"`
	Drag  float64 `yaml:"drag"`
	// Responsiveness is the framing time constant in seconds.
	Responsiveness float64 `yaml:"responsiveness"`
	// FullPowerTime is the seconds of held input needed to reach full power.
	FullPowerTime float64 `yaml:"fullPowerTime"`
}

// ClusterSettings configure multi-display synchronisation.
type ClusterSettings struct {
	Role    string `yaml:"role"`
	Address string `yaml:"address"`
	// BroadcastRate is the maximum number of state messages per second.
	BroadcastRate float64 `yaml:"broadcastRate"`
	// Yaw, Pitch and Roll rotate the received pose for this display, in degrees.
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
	Roll  float64 `yaml:"roll"`
}

// MetricsSettings configure the Prometheus endpoint.
type MetricsSettings struct {
	Address string `yaml:"address"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Camera: CameraSettings{
			Speed:      1,
			Turn:       1000,
			Rotate:     3000,
			Fov:        45,
			Projection: ProjectionPerspective,
			FocusLock:  FocusLock{Position: true, Orientation: false},
			Transform:  "identity",
		},
		Scene: SceneSettings{
			DistanceScaleFactor: 1,
			ElevationMultiplier: 1,
			ProximityLights:     4,
			Workers:             4,
		},
		Controls: ControlSettings{
			ResponseTime:     0.1,
			MouseSensitivity: 1,
			GamepadDeadzone:  0.15,
			FullStop:         true,
		},
		Runtime: RuntimeSettings{
			StereoEyeSeparation: 0.065,
			TickRate:            60,
			LogLevel:            "info",
		},
		Spacecraft: SpacecraftSettings{
			Machines: []Machine{
				{Name: "shuttle", Size: 37, Mass: 78000, Power: 1, Drag: 0.1, Responsiveness: 0.4, FullPowerTime: 0.5},
			},
		},
		Cluster: ClusterSettings{
			BroadcastRate: 60,
		},
	}
}

// Load reads a YAML settings file on top of Default and validates the result.
//
// Parameters:
//   - path: the YAML file path
//
// Returns:
//   - Settings: the loaded settings
//   - error: non-nil if the file cannot be read, parsed or validated
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks value ranges. Every error wraps ErrInvalid.
func (s Settings) Validate() error {
	c := s.Camera
	switch {
	case c.Speed <= 0:
		return fmt.Errorf("%w: camera.speed must be > 0, got %v", ErrInvalid, c.Speed)
	case c.Turn <= 0 || c.Rotate <= 0:
		return fmt.Errorf("%w: camera.turn and camera.rotate must be > 0", ErrInvalid)
	case c.Fov < 1 || c.Fov > 179:
		return fmt.Errorf("%w: camera.fov must be in [1, 179], got %v", ErrInvalid, c.Fov)
	case c.SpeedLimit < 0:
		return fmt.Errorf("%w: camera.speedLimit must be >= 0", ErrInvalid)
	}
	switch c.Projection {
	case ProjectionPerspective, ProjectionCubemap, ProjectionFisheye:
	default:
		return fmt.Errorf("%w: unknown camera.projection %q", ErrInvalid, c.Projection)
	}

	if s.Scene.DistanceScaleFactor <= 0 {
		return fmt.Errorf("%w: scene.distanceScaleFactor must be > 0, got %v", ErrInvalid, s.Scene.DistanceScaleFactor)
	}
	if s.Scene.ProximityLights < 1 {
		return fmt.Errorf("%w: scene.proximityLights must be >= 1", ErrInvalid)
	}
	if s.Scene.Workers < 1 {
		return fmt.Errorf("%w: scene.workers must be >= 1", ErrInvalid)
	}

	if s.Controls.ResponseTime < 0 {
		return fmt.Errorf("%w: controls.responseTime must be >= 0", ErrInvalid)
	}
	if s.Controls.GamepadDeadzone < 0 || s.Controls.GamepadDeadzone >= 1 {
		return fmt.Errorf("%w: controls.gamepadDeadzone must be in [0, 1)", ErrInvalid)
	}
	if s.Runtime.TickRate <= 0 {
		return fmt.Errorf("%w: runtime.tickRate must be > 0", ErrInvalid)
	}
	if _, err := ParseLevel(s.Runtime.LogLevel); err != nil {
		return err
	}

	for i, m := range s.Spacecraft.Machines {
		if m.Size <= 0 || m.Mass <= 0 || m.Responsiveness <= 0 {
			return fmt.Errorf("%w: spacecraft machine %d (%s) needs positive size, mass and responsiveness", ErrInvalid, i, m.Name)
		}
	}

	switch s.Cluster.Role {
	case RoleNone:
	case RoleMaster, RoleSlave:
		if s.Cluster.Address == "" {
			return fmt.Errorf("%w: cluster.address is required for role %q", ErrInvalid, s.Cluster.Role)
		}
		if s.Cluster.BroadcastRate <= 0 {
			return fmt.Errorf("%w: cluster.broadcastRate must be > 0", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cluster.role %q", ErrInvalid, s.Cluster.Role)
	}
	return nil
}

// IsCubemap reports whether a wide-angle projection is active.
func (c CameraSettings) IsCubemap() bool {
	return c.Projection == ProjectionCubemap || c.Projection == ProjectionFisheye
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalid, name)
}
