package metrics

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCollector(t *testing.T) (*collector, event.Bus) {
	t.Helper()
	col, err := NewCollector(WithLogger(testLogger()))
	if err != nil {
		t.Fatal(err)
	}
	bus := event.NewBus(testLogger())
	bus.Subscribe(col)
	return col.(*collector), bus
}

func TestMotionUpdatesSpeedAndMode(t *testing.T) {
	c, bus := newTestCollector(t)

	bus.Publish(event.CameraMotionUpdate, nil, event.Motion{SpeedKmh: 1200, Mode: mode.Free})
	if got := testutil.ToFloat64(c.speed); got != 1200 {
		t.Errorf("speed = %g, want 1200", got)
	}
	if got := testutil.ToFloat64(c.modeGauge.WithLabelValues("free")); got != 1 {
		t.Errorf("free gauge = %g, want 1", got)
	}
	if n := testutil.CollectAndCount(c.transitions); n != 0 {
		t.Errorf("first frame counted %d transitions", n)
	}

	bus.Publish(event.CameraMotionUpdate, nil, event.Motion{SpeedKmh: 0, Mode: mode.Free})
	bus.Publish(event.CameraMotionUpdate, nil, event.Motion{SpeedKmh: 5, Mode: mode.Focus})
	bus.Publish(event.CameraMotionUpdate, nil, event.Motion{SpeedKmh: 5, Mode: mode.Focus})

	if got := testutil.ToFloat64(c.transitions.WithLabelValues("free", "focus")); got != 1 {
		t.Errorf("free->focus transitions = %g, want 1", got)
	}
	if got := testutil.ToFloat64(c.modeGauge.WithLabelValues("free")); got != 0 {
		t.Errorf("free gauge = %g after leaving", got)
	}
	if got := testutil.ToFloat64(c.modeGauge.WithLabelValues("focus")); got != 1 {
		t.Errorf("focus gauge = %g, want 1", got)
	}
	if n := testutil.CollectAndCount(c.modeGauge); n != 4 {
		t.Errorf("mode gauge series = %d, want one per mode", n)
	}
}

func TestCounters(t *testing.T) {
	c, bus := newTestCollector(t)

	bus.Publish(event.CameraNewClosest, nil, event.ClosestInfo{})
	bus.Publish(event.CameraNewClosest, nil, event.ClosestInfo{})
	bus.Publish(event.ClearOctantQueue, nil, nil)
	bus.Publish(event.FocusInfoUpdated, nil, event.FocusInfo{Name: "Earth", Distance: 42})
	c.RejectPose("broadcast")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"closest changes", testutil.ToFloat64(c.closest), 2},
		{"prefetch flushes", testutil.ToFloat64(c.flushes), 1},
		{"focus distance", testutil.ToFloat64(c.focusDist), 42},
		{"rejected poses", testutil.ToFloat64(c.rejected.WithLabelValues("broadcast")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %g, want %g", tt.name, tt.got, tt.want)
		}
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c, bus := newTestCollector(t)
	bus.Publish(event.CameraMotionUpdate, nil, event.Motion{SpeedKmh: 3, Mode: mode.Game})
	c.ObserveUpdate(3 * time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"oxynav_camera_speed_kmh 3",
		`oxynav_camera_mode{mode="game"} 1`,
		"oxynav_camera_update_duration_seconds_count 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition is missing %q", want)
		}
	}
}

func TestSeparateRegistries(t *testing.T) {
	if _, err := NewCollector(WithLogger(testLogger())); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCollector(WithLogger(testLogger()), WithUpdateBuckets(0.01, 0.1)); err != nil {
		t.Fatalf("second collector in one process: %v", err)
	}
}
