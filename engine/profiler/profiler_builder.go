package profiler

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring a Profiler.
type Option func(*Profiler)

// WithLogger sets the logger reports are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval sets how often a report is logged. Values <= 0 keep the default.
func WithInterval(d time.Duration) Option {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// withClock replaces the time source.
func withClock(now func() time.Time) Option {
	return func(p *Profiler) {
		p.now = now
	}
}
