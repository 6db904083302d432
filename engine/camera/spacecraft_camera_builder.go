package camera

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
)

// SpacecraftCameraOption is a functional option for configuring a SpacecraftCamera.
type SpacecraftCameraOption func(*spacecraftCameraImpl)

// WithSpacecraftSettings sets the initial settings snapshot.
func WithSpacecraftSettings(s config.Settings) SpacecraftCameraOption {
	return func(c *spacecraftCameraImpl) {
		c.settings = s
		c.units = common.NewUnits(s.Scene.DistanceScaleFactor)
		c.proximity = NewProximity(s.Scene.ProximityLights)
		c.setFov(s.Camera.Fov)
		c.updateFrustumPlanes(c.units)
	}
}

// WithSpacecraftLogger sets the structured logger.
func WithSpacecraftLogger(logger *slog.Logger) SpacecraftCameraOption {
	return func(c *spacecraftCameraImpl) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSpacecraftBus sets the event bus the camera publishes on.
func WithSpacecraftBus(bus event.Bus) SpacecraftCameraOption {
	return func(c *spacecraftCameraImpl) {
		c.bus = bus
	}
}

// WithSpacecraftModeProvider sets the source of the active mode.
func WithSpacecraftModeProvider(p mode.Provider) SpacecraftCameraOption {
	return func(c *spacecraftCameraImpl) {
		c.modes = p
	}
}

// WithVessel sets the followed vessel.
//
// Parameters:
//   - v: the vessel
//
// Returns:
//   - SpacecraftCameraOption: functional option to set the vessel
func WithVessel(v Vessel) SpacecraftCameraOption {
	return func(c *spacecraftCameraImpl) {
		c.vessel = v
	}
}
