package cluster

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/engine/event"
)

// MasterOption is a functional option for configuring a Master.
type MasterOption func(*masterImpl)

// WithMasterLogger sets the logger.
func WithMasterLogger(logger *slog.Logger) MasterOption {
	return func(m *masterImpl) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithBroadcastRate caps the states sent per second. Zero or less removes the cap.
func WithBroadcastRate(perSecond float64) MasterOption {
	return func(m *masterImpl) {
		m.rate = perSecond
	}
}

// SlaveOption is a functional option for configuring a Slave.
type SlaveOption func(*slaveImpl)

// WithSlaveLogger sets the logger.
func WithSlaveLogger(logger *slog.Logger) SlaveOption {
	return func(s *slaveImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSlaveBus sets the bus received states are published on.
//
// Parameters:
//   - bus: the event bus the natural camera listens on
//
// Returns:
//   - SlaveOption: functional option to set the bus
func WithSlaveBus(bus event.Bus) SlaveOption {
	return func(s *slaveImpl) {
		s.bus = bus
	}
}

// WithFloodGuard caps the states applied per second. Zero or less removes the cap.
func WithFloodGuard(perSecond float64) SlaveOption {
	return func(s *slaveImpl) {
		s.rate = perSecond
	}
}

// WithRetryDelay sets the pause before reconnecting. Zero disables reconnection.
func WithRetryDelay(d time.Duration) SlaveOption {
	return func(s *slaveImpl) {
		s.retry = d
	}
}
