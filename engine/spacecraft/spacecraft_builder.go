package spacecraft

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
)

// SpacecraftOption is a functional option for configuring a Spacecraft.
type SpacecraftOption func(*spacecraftImpl)

// WithName sets the object name used for focus lookups.
func WithName(name string) SpacecraftOption {
	return func(sc *spacecraftImpl) {
		sc.name = name
	}
}

// WithMachines sets the selectable machines. The first one is active.
//
// Parameters:
//   - machines: the machine definitions
//
// Returns:
//   - SpacecraftOption: functional option to set the machines
func WithMachines(machines ...config.Machine) SpacecraftOption {
	return func(sc *spacecraftImpl) {
		sc.machines = machines
	}
}

// WithUnits sets the unit table used to convert metres.
func WithUnits(u common.Units) SpacecraftOption {
	return func(sc *spacecraftImpl) {
		sc.units = u
	}
}

// WithProvider replaces the Newtonian coordinate provider.
func WithProvider(p Provider) SpacecraftOption {
	return func(sc *spacecraftImpl) {
		sc.provider = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SpacecraftOption {
	return func(sc *spacecraftImpl) {
		if logger != nil {
			sc.logger = logger.With("component", "spacecraft")
		}
	}
}

// WithBus sets the bus on which telemetry is published.
func WithBus(bus event.Bus) SpacecraftOption {
	return func(sc *spacecraftImpl) {
		sc.bus = bus
	}
}
