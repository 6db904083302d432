package input

import (
	"math"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
)

func TestDeadZone(t *testing.T) {
	tests := []struct {
		v, dz, want float64
	}{
		{0.1, 0.15, 0},
		{-0.15, 0.15, 0},
		{1, 0.15, 1},
		{-1, 0.15, -1},
		{0.575, 0.15, 0.5},
		{-0.575, 0.15, -0.5},
		{0.3, 0, 0.3},
	}
	for _, tt := range tests {
		if got := deadZone(tt.v, tt.dz); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("deadZone(%g, %g) = %g, want %g", tt.v, tt.dz, got, tt.want)
		}
	}
}

func TestTrigger(t *testing.T) {
	for _, tt := range []struct{ v, want float64 }{{-1, 0}, {0, 0.5}, {1, 1}} {
		if got := trigger(tt.v); got != tt.want {
			t.Errorf("trigger(%g) = %g, want %g", tt.v, got, tt.want)
		}
	}
}

func newTestGamepad(m mode.Mode) (GamepadListener, *padSource, *fakeCamera) {
	src := &padSource{}
	src.set(idlePad())
	cam := &fakeCamera{}
	s := config.Default()
	s.Controls.GamepadDeadzone = 0.1
	l := NewGamepadListener(src,
		WithGamepadLogger(testLogger()),
		WithGamepadModeProvider(fixedMode(m)),
		WithGamepadSettings(s),
	)
	l.SetTarget(cam)
	return l, src, cam
}

func connect(l GamepadListener, id int) {
	l.HandleEvent(event.Event{Type: event.ControllerConnected, Payload: event.Controller{ID: id, Name: "pad"}})
}

func TestGamepadNeedsControllerAndActivation(t *testing.T) {
	l, src, cam := newTestGamepad(mode.Free)
	st := idlePad()
	st.Axes[AxisLeftY] = -1
	src.set(st)

	l.Activate()
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("no controller yet, got %v", got)
	}

	l.Deactivate()
	connect(l, 2)
	if l.Controller() != 2 {
		t.Fatalf("Controller = %d, want 2", l.Controller())
	}
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("inactive listener issued %v", got)
	}

	l.Activate()
	l.Poll(1.0 / 60)
	if !cam.has("velocity 1") {
		t.Errorf("stick up should push forward, got %v", cam.take())
	}
}

func TestGamepadSticksFreeMode(t *testing.T) {
	l, src, cam := newTestGamepad(mode.Free)
	connect(l, 0)
	l.Activate()

	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("idle pad issued %v", got)
	}

	st := idlePad()
	st.Axes[AxisLeftX] = 1
	st.Axes[AxisRightY] = -1
	st.Axes[AxisRightTrigger] = 1
	src.set(st)
	l.Poll(1.0 / 60)
	got := cam.take()
	for _, want := range []string{"gamepad true", "velocity 0", "yaw 30 false", "pitch 30 false", "pan 0 0", "roll 30 false"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing %q in %v", want, got)
		}
	}

	src.set(idlePad())
	l.Poll(1.0 / 60)
	got = cam.take()
	for _, want := range []string{"gamepad false", "yaw 0 false", "pitch 0 false", "roll 0 false"} {
		if !slices.Contains(got, want) {
			t.Errorf("release pass missing %q in %v", want, got)
		}
	}
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("idle pad after release issued %v", got)
	}
}

func TestGamepadFocusModeOrbits(t *testing.T) {
	l, src, cam := newTestGamepad(mode.Focus)
	connect(l, 0)
	l.Activate()

	st := idlePad()
	st.Axes[AxisLeftX] = 1
	st.Axes[AxisRightX] = 1
	src.set(st)
	l.Poll(1.0 / 60)
	got := cam.take()
	for _, want := range []string{"horizontal -20 false", "vertical 0 false", "rotate 30 0 true false"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing %q in %v", want, got)
		}
	}
}

func TestGamepadButtonsAreEdgeTriggered(t *testing.T) {
	l, src, cam := newTestGamepad(mode.Focus)
	connect(l, 0)
	l.Activate()

	st := idlePad()
	st.Buttons[ButtonA] = true
	src.set(st)
	l.Poll(1.0 / 60)
	l.Poll(1.0 / 60)
	if got := cam.take(); !slices.Equal(got, []string{"center"}) {
		t.Errorf("held A issued %v, want one center", got)
	}
	if !l.IsKeyPressed(ButtonA) {
		t.Error("A should read as held")
	}

	st.Buttons[ButtonA] = false
	st.Buttons[ButtonB] = true
	src.set(st)
	l.Poll(1.0 / 60)
	if got := cam.take(); !slices.Equal(got, []string{"stop"}) {
		t.Errorf("B issued %v, want stop", got)
	}
}

func TestGamepadDisconnect(t *testing.T) {
	l, src, cam := newTestGamepad(mode.Free)
	connect(l, 1)
	l.Activate()
	l.HandleEvent(event.Event{Type: event.ControllerDisconnected, Payload: event.Controller{ID: 0}})
	if l.Controller() != 1 {
		t.Fatal("disconnecting another controller should be ignored")
	}
	l.HandleEvent(event.Event{Type: event.ControllerDisconnected, Payload: event.Controller{ID: 1}})
	if l.Controller() != -1 {
		t.Fatalf("Controller = %d, want -1", l.Controller())
	}

	st := idlePad()
	st.Axes[AxisLeftY] = -1
	src.set(st)
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("disconnected pad issued %v", got)
	}
}

func TestGamepadFollowsBusConnects(t *testing.T) {
	bus := event.NewBus(testLogger())
	l, _, _ := newTestGamepad(mode.Free)
	bus.Subscribe(l)

	bus.Publish(event.ControllerConnected, nil, event.Controller{ID: 3, Name: "pad"})
	if l.Controller() != 3 {
		t.Fatalf("Controller = %d, want 3", l.Controller())
	}
}
