package metrics

import "log/slog"

// Option is a functional option for configuring a Collector.
type Option func(*collector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUpdateBuckets overrides the update duration histogram buckets, in seconds.
//
// Parameters:
//   - buckets: increasing upper bounds; empty keeps the defaults
//
// Returns:
//   - Option: functional option to set the buckets
func WithUpdateBuckets(buckets ...float64) Option {
	return func(c *collector) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}
