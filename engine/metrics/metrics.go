// Package metrics exports camera telemetry to Prometheus. The collector listens
// on the event bus for the notifications the camera manager publishes each frame
// and keeps its own registry so several engines can run in one process.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oxynav"

// Path is the HTTP path the metrics are served on.
const Path = "/metrics"

// Collector records camera telemetry.
type Collector interface {
	event.Handler

	// ObserveUpdate records the duration of one camera update pass.
	ObserveUpdate(d time.Duration)

	// RejectPose counts a pose that could not be used because it was not finite.
	//
	// Parameters:
	//   - source: what produced the pose, e.g. "broadcast"
	RejectPose(source string)

	// Registry returns the registry the collectors are registered on.
	Registry() *prometheus.Registry

	// Handler returns the exposition handler for the registry.
	Handler() http.Handler

	// ListenAndServe serves Path on addr until ctx is cancelled.
	ListenAndServe(ctx context.Context, addr string) error
}

type collector struct {
	mu       *sync.Mutex
	logger   *slog.Logger
	registry *prometheus.Registry
	buckets  []float64
	current  mode.Mode
	seen     bool

	speed       prometheus.Gauge
	modeGauge   *prometheus.GaugeVec
	transitions *prometheus.CounterVec
	closest     prometheus.Counter
	flushes     prometheus.Counter
	focusDist   prometheus.Gauge
	rejected    *prometheus.CounterVec
	updates     prometheus.Histogram
}

var _ Collector = &collector{}

// NewCollector creates a collector and registers its metrics.
//
// Parameters:
//   - options: functional options to configure the collector
//
// Returns:
//   - Collector: the new collector, not yet subscribed to any bus
//   - error: non-nil if a metric could not be registered
func NewCollector(options ...Option) (Collector, error) {
	c := &collector{
		mu:       &sync.Mutex{},
		logger:   slog.Default(),
		registry: prometheus.NewRegistry(),
		buckets:  []float64{0.0001, 0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066},
	}
	for _, option := range options {
		option(c)
	}
	c.logger = c.logger.With("component", "metrics")

	c.speed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "camera_speed_kmh",
		Help:      "Camera speed in km/h over the last frame",
	})
	c.modeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "camera_mode",
		Help:      "1 for the active camera mode, 0 otherwise",
	}, []string{"mode"})
	c.transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "camera_mode_transitions_total",
		Help:      "Camera mode changes by source and destination mode",
	}, []string{"from", "to"})
	c.closest = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "camera_closest_changes_total",
		Help:      "Times the overall closest object changed",
	})
	c.flushes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "camera_prefetch_flushes_total",
		Help:      "Octant load queue flushes caused by high camera speed",
	})
	c.focusDist = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "camera_focus_distance",
		Help:      "Distance from the camera to the focus surface in internal units",
	})
	c.rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "camera_rejected_poses_total",
		Help:      "Non-finite camera poses that were discarded",
	}, []string{"source"})
	c.updates = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "camera_update_duration_seconds",
		Help:      "Duration of one camera update pass",
		Buckets:   c.buckets,
	})

	for _, col := range []prometheus.Collector{
		c.speed, c.modeGauge, c.transitions, c.closest, c.flushes, c.focusDist, c.rejected, c.updates,
	} {
		if err := c.registry.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register camera metric: %w", err)
		}
	}
	for _, m := range []mode.Mode{mode.Free, mode.Focus, mode.Game, mode.Spacecraft} {
		c.modeGauge.WithLabelValues(m.String()).Set(0)
	}
	return c, nil
}

func (c *collector) EventTypes() []event.Type {
	return []event.Type{
		event.CameraMotionUpdate,
		event.CameraNewClosest,
		event.ClearOctantQueue,
		event.FocusInfoUpdated,
	}
}

func (c *collector) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.CameraMotionUpdate:
		if m, ok := ev.Payload.(event.Motion); ok {
			c.motion(m)
		}
	case event.CameraNewClosest:
		c.closest.Inc()
	case event.ClearOctantQueue:
		c.flushes.Inc()
	case event.FocusInfoUpdated:
		if fi, ok := ev.Payload.(event.FocusInfo); ok {
			c.focusDist.Set(fi.Distance)
		}
	}
}

// motion updates the speed and mode gauges and counts a transition when the
// reported mode differs from the previous frame.
func (c *collector) motion(m event.Motion) {
	c.speed.Set(m.SpeedKmh)

	c.mu.Lock()
	prev, seen := c.current, c.seen
	c.current, c.seen = m.Mode, true
	c.mu.Unlock()

	if seen && prev == m.Mode {
		return
	}
	if seen {
		c.modeGauge.WithLabelValues(prev.String()).Set(0)
		c.transitions.WithLabelValues(prev.String(), m.Mode.String()).Inc()
		c.logger.Debug("mode transition observed", "from", prev, "to", m.Mode)
	}
	c.modeGauge.WithLabelValues(m.Mode.String()).Set(1)
}

func (c *collector) ObserveUpdate(d time.Duration) {
	c.updates.Observe(d.Seconds())
}

func (c *collector) RejectPose(source string) {
	c.rejected.WithLabelValues(source).Inc()
}

func (c *collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *collector) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.logger.Info("metrics listening", "address", addr, "path", Path)

	select {
	case err := <-errc:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}
