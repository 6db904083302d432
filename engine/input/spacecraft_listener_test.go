package input

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/spacecraft"
)

func setMode(l SpacecraftListener, m mode.Mode) {
	l.HandleEvent(event.Event{Type: event.CameraModeCmd, Payload: event.ModeChange{Mode: m}})
}

func TestSpacecraftListenerFollowsMode(t *testing.T) {
	sc := spacecraft.New(spacecraft.WithLogger(testLogger()))
	l := NewSpacecraftListener(sc, testLogger())

	l.KeyDown(common.KeyW)
	l.Poll(0.25)
	if sc.EnginePower() != 0 {
		t.Fatal("inactive listener moved the throttle")
	}

	setMode(l, mode.Spacecraft)
	if !l.Active() {
		t.Fatal("spacecraft mode should activate the listener")
	}
	l.KeyDown(common.KeyW)
	l.Poll(0.25)
	if got := sc.EnginePower(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("EnginePower = %g, want 0.5", got)
	}

	setMode(l, mode.Free)
	l.Poll(0.25)
	if got := sc.EnginePower(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("leaving spacecraft mode should drop held keys, power = %g", got)
	}
}

func TestSpacecraftListenerTaps(t *testing.T) {
	sc := spacecraft.New(spacecraft.WithLogger(testLogger()))
	l := NewSpacecraftListener(nil, testLogger())
	l.HandleEvent(event.Event{Type: event.SpacecraftLoaded, Payload: event.Spacecraft{Entity: sc}})
	setMode(l, mode.Spacecraft)

	before := sc.ThrustFactorIndex()
	l.KeyDown(common.KeyPageUp)
	l.Poll(1.0 / 60)
	l.KeyDown(common.KeyPageUp)
	l.Poll(1.0 / 60)
	if got := sc.ThrustFactorIndex(); got != (before+1)%len(spacecraft.ThrustFactors) {
		t.Errorf("thrust index = %d, want one step from %d", got, before)
	}
	l.KeyUp(common.KeyPageUp)

	l.KeyDown(common.KeyW)
	l.Poll(0.5)
	l.KeyUp(common.KeyW)
	if sc.EnginePower() == 0 {
		t.Fatal("throttle did not move")
	}
	l.KeyDown(common.KeyF)
	l.Poll(1.0 / 60)
	if got := sc.EnginePower(); got != 0 {
		t.Errorf("F should stop all movement, power = %g", got)
	}
}

func TestMuxFansOut(t *testing.T) {
	a, _ := newTestKeyboard(mode.Free)
	b, _ := newTestGame()
	b.Activate()
	m := NewMux(a)
	m.Add(b)

	m.KeyDown(common.KeyW)
	if !a.IsKeyPressed(common.KeyW) || !b.IsKeyPressed(common.KeyW) {
		t.Error("key down should reach every handler")
	}
	m.KeyUp(common.KeyW)
	if a.IsKeyPressed(common.KeyW) || b.IsKeyPressed(common.KeyW) {
		t.Error("key up should reach every handler")
	}
}
