package camera

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
)

// ManagerOption is a functional option for configuring a Manager.
type ManagerOption func(*managerImpl)

// WithManagerSettings sets the settings the cameras are created with.
func WithManagerSettings(s config.Settings) ManagerOption {
	return func(m *managerImpl) {
		m.settings = s
	}
}

// WithManagerLogger sets the logger shared by the manager and its cameras.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *managerImpl) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerBus sets the event bus. The manager and its cameras subscribe to it.
//
// Parameters:
//   - bus: the event bus
//
// Returns:
//   - ManagerOption: functional option to set the bus
func WithManagerBus(bus event.Bus) ManagerOption {
	return func(m *managerImpl) {
		m.bus = bus
	}
}

// WithInitialMode sets the mode active before the first transition.
func WithInitialMode(md mode.Mode) ManagerOption {
	return func(m *managerImpl) {
		m.mode.Store(uint32(md))
	}
}

// WithNaturalCameraOptions forwards options to the natural camera. They run after
// the manager's own settings, logger, bus and mode provider options.
func WithNaturalCameraOptions(options ...NaturalCameraOption) ManagerOption {
	return func(m *managerImpl) {
		m.naturalOpts = append(m.naturalOpts, options...)
	}
}

// WithSpacecraftCameraOptions forwards options to the spacecraft camera.
func WithSpacecraftCameraOptions(options ...SpacecraftCameraOption) ManagerOption {
	return func(m *managerImpl) {
		m.spacecraftOpts = append(m.spacecraftOpts, options...)
	}
}
