package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

func newTestManager(t *testing.T, opts ...ManagerOption) (Manager, event.Bus) {
	t.Helper()
	bus := event.NewBus(testLogger())
	base := []ManagerOption{WithManagerBus(bus), WithManagerLogger(testLogger())}
	return NewManager(append(base, opts...)...), bus
}

func TestManagerFocusSurvivesFreeRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	u := common.NewUnits(1)
	earth := &stubBody{name: "Earth", kind: focus.Planet, radius: 6371 * u.KmToU}
	if err := m.Natural().SetPosition(common.V3Q(0, 0, -20000*u.KmToU)); err != nil {
		t.Fatal(err)
	}

	m.SetMode(mode.Focus, true, false)
	if err := m.Natural().SetFocus(earth); err != nil {
		t.Fatal(err)
	}
	m.SetMode(mode.Free, false, false)
	if m.Current().Focus() != nil {
		t.Error("free mode reports a focus")
	}
	m.SetMode(mode.Focus, true, false)

	if got := m.Current().Focus(); got != focus.Focus(earth) {
		t.Errorf("focus = %v, want Earth", got)
	}
	if m.Mode() != mode.Focus {
		t.Errorf("mode = %v", m.Mode())
	}
}

func TestManagerSpacecraftStartsAtNaturalPose(t *testing.T) {
	v := newStubVessel(common.V3Q(0, 0, 0))
	m, _ := newTestManager(t, WithSpacecraftCameraOptions(WithVessel(v)))
	pos := common.V3Q(3, 4, 5)
	if err := m.Natural().SetPosition(pos); err != nil {
		t.Fatal(err)
	}

	m.SetMode(mode.Spacecraft, false, false)

	if m.Current() != Camera(m.Spacecraft()) {
		t.Fatal("spacecraft camera is not current")
	}
	if !v.placed || v.pos != pos {
		t.Errorf("vessel at %v, want %v", v.pos, pos)
	}

	m.Update(frameDt, frameAt(1), config.Default())
	if v.steps != 1 {
		t.Errorf("vessel stepped %d times, want 1", v.steps)
	}
}

func TestManagerSpeedAndPrefetchFlush(t *testing.T) {
	m, bus := newTestManager(t)
	log := newEventLog(event.ClearOctantQueue, event.CameraMotionUpdate)
	bus.Subscribe(log)
	u := common.NewUnits(1)
	s := config.Default()

	start := common.V3Q(0, 0, 0)
	if err := m.Natural().SetPosition(start); err != nil {
		t.Fatal(err)
	}
	m.Update(1, frameAt(1), s)
	if m.SpeedKmh() != 0 {
		t.Fatalf("first frame speed = %v, want 0", m.SpeedKmh())
	}

	// 100 km in one second is 360000 km/h, below the flush speed.
	if err := m.Natural().SetPosition(common.V3Q(100*u.KmToU, 0, 0)); err != nil {
		t.Fatal(err)
	}
	m.Update(1, frameAt(2), s)
	if got := m.SpeedKmh(); math.Abs(got-360000) > 1 {
		t.Errorf("speed = %v km/h, want 360000", got)
	}
	if n := log.count(event.ClearOctantQueue); n != 0 {
		t.Fatalf("flushed %d times below the threshold", n)
	}

	if err := m.Natural().SetPosition(common.V3Q(1100*u.KmToU, 0, 0)); err != nil {
		t.Fatal(err)
	}
	m.Update(1, frameAt(3), s)
	if n := log.count(event.ClearOctantQueue); n != 1 {
		t.Errorf("flushes = %d, want 1", n)
	}
	e, ok := log.last(event.CameraMotionUpdate)
	if !ok {
		t.Fatal("no motion update")
	}
	if p := e.Payload.(event.Motion); p.Velocity.Sub([3]float64{1, 0, 0}).Len() > 1e-9 {
		t.Errorf("velocity direction = %v", p.Velocity)
	}

	s.Runtime.VR = true
	if err := m.Natural().SetPosition(common.V3Q(2100*u.KmToU, 0, 0)); err != nil {
		t.Fatal(err)
	}
	m.Update(1, frameAt(4), s)
	if n := log.count(event.ClearOctantQueue); n != 1 {
		t.Errorf("VR raises the flush speed, got %d flushes", n)
	}
}

func TestManagerNewClosestIsEdgeTriggered(t *testing.T) {
	m, bus := newTestManager(t)
	log := newEventLog(event.CameraClosestInfo, event.CameraNewClosest)
	bus.Subscribe(log)
	u := common.NewUnits(1)
	moon := &stubBody{name: "Moon", kind: focus.Moon, pos: common.V3Q(0, 0, 1e6*u.KmToU), radius: 1737 * u.KmToU}

	for i := 1; i <= 2; i++ {
		m.Natural().CheckClosestBody(moon, 1e6*u.KmToU)
		m.SwapBuffers()
		m.Update(frameDt, frameAt(i), config.Default())
	}

	if n := log.count(event.CameraClosestInfo); n != 2 {
		t.Errorf("closest info = %d, want 2", n)
	}
	if n := log.count(event.CameraNewClosest); n != 1 {
		t.Errorf("new closest = %d, want 1", n)
	}
	if got := m.ClosestOverall(); !focus.Same(got.Focus, moon) {
		t.Errorf("closest overall = %v", got.Focus)
	}

	// A frame where nothing was seen keeps the previous closest.
	m.SwapBuffers()
	m.Update(frameDt, frameAt(3), config.Default())
	if got := m.ClosestOverall(); !focus.Same(got.Focus, moon) {
		t.Errorf("closest overall after an empty frame = %v", got.Focus)
	}
	if n := log.count(event.CameraNewClosest); n != 1 {
		t.Errorf("new closest after an empty frame = %d, want 1", n)
	}
}

func TestClosestOverall(t *testing.T) {
	planet := Record{Focus: &stubBody{name: "planet", radius: 5}, Distance: 10}
	farStar := Record{Focus: &stubBody{name: "far star", radius: 1}, Distance: 12}
	nearStar := Record{Focus: &stubBody{name: "near star", radius: 1}, Distance: 10.5}
	tests := []struct {
		name           string
		body, particle Record
		want           string
	}{
		{"body centre closer than particle surface", planet, farStar, "planet"},
		{"particle surface closer than body centre", planet, nearStar, "near star"},
		{"no body", Record{}, farStar, "far star"},
		{"no particle", planet, Record{}, "planet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := closestOverall(tt.body, tt.particle); got.Focus.Name() != tt.want {
				t.Errorf("got %v, want %v", got.Focus.Name(), tt.want)
			}
		})
	}
}

func TestManagerGameDisablesCinematic(t *testing.T) {
	m, bus := newTestManager(t)
	log := newEventLog(event.CameraCinematicCmd, event.FovChangeNotification)
	bus.Subscribe(log)

	m.SetMode(mode.Game, false, true)

	e, ok := log.last(event.CameraCinematicCmd)
	if !ok {
		t.Fatal("cinematic not disabled")
	}
	if e.Payload.(event.Toggle).On {
		t.Error("cinematic enabled on game mode")
	}
	if log.count(event.FovChangeNotification) != 1 {
		t.Error("fov notification not posted")
	}
}

func TestManagerModeCommandsFromBus(t *testing.T) {
	m, bus := newTestManager(t)
	u := common.NewUnits(1)
	sun := &stubBody{name: "Sun", kind: focus.Star, radius: 696000 * u.KmToU}
	if err := m.Natural().SetPosition(common.V3Q(0, 0, -u.AUToU)); err != nil {
		t.Fatal(err)
	}

	bus.Publish(event.CameraModeCmd, nil, event.ModeChange{Mode: mode.Focus, CenterFocus: true})
	if m.Mode() != mode.Focus {
		t.Fatalf("mode = %v, want focus", m.Mode())
	}
	bus.Publish(event.FocusChangeCmd, nil, event.FocusChange{Focus: sun, CenterFocus: true})
	if got := m.Current().Focus(); got != focus.Focus(sun) {
		t.Fatalf("focus = %v, want Sun", got)
	}

	bus.Publish(event.FocusNotAvailable, nil, event.FocusLoss{Focus: sun})
	if m.Mode() != mode.Free {
		t.Errorf("mode = %v after losing the focus, want free", m.Mode())
	}
}

func TestManagerSpacecraftFollowsFov(t *testing.T) {
	m, _ := newTestManager(t)
	m.Natural().SetFov(60)
	if got := m.Spacecraft().Fov(); got != m.Natural().Fov() {
		t.Errorf("spacecraft fov = %v, want %v", got, m.Natural().Fov())
	}
}

func TestManagerInitialMode(t *testing.T) {
	m, _ := newTestManager(t, WithInitialMode(mode.Game))
	if m.Mode() != mode.Game {
		t.Errorf("mode = %v, want game", m.Mode())
	}
	if m.Current() != Camera(m.Natural()) {
		t.Error("game mode should use the natural camera")
	}
	if m.Relativistic() == nil {
		t.Error("no relativistic camera")
	}
}
