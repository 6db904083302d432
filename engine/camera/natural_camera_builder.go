package camera

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

// NaturalCameraOption is a functional option for configuring a NaturalCamera.
type NaturalCameraOption func(*naturalCameraImpl)

// WithSettings sets the initial settings snapshot. Field of view, proximity size and
// distance scale are taken from it.
//
// Parameters:
//   - s: the settings
//
// Returns:
//   - NaturalCameraOption: functional option to set the settings
func WithSettings(s config.Settings) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		c.settings = s
		c.units = common.NewUnits(s.Scene.DistanceScaleFactor)
		c.proximity = NewProximity(s.Scene.ProximityLights)
		c.setFov(s.Camera.Fov)
		c.fullStop = s.Controls.FullStop
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBus sets the event bus the camera publishes on.
// The camera does not subscribe itself; the manager does.
func WithBus(bus event.Bus) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		c.bus = bus
	}
}

// WithModeProvider sets the source of the active mode, usually the Manager.
func WithModeProvider(p mode.Provider) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		c.modes = p
	}
}

// WithResolver sets the scene lookup used for named focus commands and the
// reference body magnitude.
func WithResolver(r Resolver) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		c.resolver = r
	}
}

// WithReferenceBody sets the body whose viewpoint is used for the second apparent
// magnitude. Defaults to "Earth".
func WithReferenceBody(name string) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		c.referenceBody = name
	}
}

// WithPosition sets the initial position.
func WithPosition(p common.Vec3Q) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		_ = c.setPosition(p)
	}
}

// WithInitialFocus sets the initial focus without publishing events.
func WithInitialFocus(f focus.Focus) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		if focus.Valid(f) {
			c.focus = f
			c.focusPos = f.AbsolutePosition()
			c.nextFocusPos = c.focusPos
		}
	}
}

// WithInputListeners sets the keyboard/mouse listeners for the free/focus and game modes.
func WithInputListeners(natural, game InputListener) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		c.kbdListener = natural
		c.gameListener = game
	}
}

// WithGamepadListener sets the gamepad listener.
func WithGamepadListener(l InputListener) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		c.gamepadListener = l
	}
}

// WithMultipliers scales rotation (movement) and translation (speed) globally.
func WithMultipliers(movement, speed float64) NaturalCameraOption {
	return func(c *naturalCameraImpl) {
		if movement > 0 {
			c.movementMultiplier = movement
		}
		if speed > 0 {
			c.speedMultiplier = speed
		}
	}
}
