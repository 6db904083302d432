package input

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
)

// ListenerOption is a functional option for configuring the keyboard and game listeners.
type ListenerOption func(*listener)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ListenerOption {
	return func(l *listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTarget sets the camera driven by the listener. The camera is usually created
// after its listeners, in which case SetTarget wires it later.
func WithTarget(c camera.NaturalCamera) ListenerOption {
	return func(l *listener) {
		l.target = c
	}
}

// WithModeProvider sets where the listener reads the active camera mode from.
//
// Parameters:
//   - p: the mode provider, usually the camera manager
//
// Returns:
//   - ListenerOption: functional option to set the mode provider
func WithModeProvider(p mode.Provider) ListenerOption {
	return func(l *listener) {
		l.modes = p
	}
}

// WithSettings sets the initial control settings.
func WithSettings(s config.Settings) ListenerOption {
	return func(l *listener) {
		l.controls = s.Controls
		l.cinematic = s.Camera.Cinematic
	}
}

// WithViewport sets the window size used to normalize mouse motion.
func WithViewport(width, height int) ListenerOption {
	return func(l *listener) {
		l.width, l.height = width, height
	}
}

// GamepadOption is a functional option for configuring a GamepadListener.
type GamepadOption func(*gamepadListener)

// WithGamepadLogger sets the logger.
func WithGamepadLogger(logger *slog.Logger) GamepadOption {
	return func(l *gamepadListener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithGamepadModeProvider sets where the listener reads the active camera mode from.
func WithGamepadModeProvider(p mode.Provider) GamepadOption {
	return func(l *gamepadListener) {
		l.modes = p
	}
}

// WithGamepadSettings sets the initial dead zone and response time.
func WithGamepadSettings(s config.Settings) GamepadOption {
	return func(l *gamepadListener) {
		l.controls = s.Controls
	}
}

// WithController sets the joystick read before any connect event arrives.
func WithController(id int) GamepadOption {
	return func(l *gamepadListener) {
		l.controller = id
	}
}
