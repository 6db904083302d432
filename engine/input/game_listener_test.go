package input

import (
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
)

func newTestGame() (Listener, *fakeCamera) {
	cam := &fakeCamera{}
	l := NewGameListener(
		WithLogger(testLogger()),
		WithTarget(cam),
		WithModeProvider(fixedMode(mode.Game)),
		WithViewport(1000, 1000),
	)
	return l, cam
}

func TestGameListenerStartsInactive(t *testing.T) {
	l, cam := newTestGame()
	l.KeyDown(common.KeyW)
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("inactive game listener issued %v", got)
	}
}

func TestGameListenerMovement(t *testing.T) {
	l, cam := newTestGame()
	l.Activate()

	l.KeyDown(common.KeyW)
	l.KeyDown(common.KeyD)
	l.Poll(1.0 / 60)
	got := cam.take()
	for _, want := range []string{"fwd 1", "pan 1 0"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing %q in %v", want, got)
		}
	}

	l.KeyUp(common.KeyD)
	l.Poll(1.0 / 60)
	if got := cam.take(); !slices.Contains(got, "pan 0 0") {
		t.Errorf("releasing strafe should stop it, got %v", got)
	}
	l.Poll(1.0 / 60)
	for _, c := range cam.take() {
		if c == "pan 0 0" {
			t.Error("strafe stop should be issued once")
		}
	}

	l.KeyDown(common.KeyA)
	l.Poll(1.0 / 60)
	if got := cam.take(); !slices.Contains(got, "pan -1 0") {
		t.Errorf("strafe left missing in %v", got)
	}
}

func TestGameListenerMouseLook(t *testing.T) {
	l, cam := newTestGame()
	l.Activate()

	l.MouseMove(0, 500)
	l.MouseMove(500, 0)
	l.Poll(1.0 / 60)
	if got := cam.take(); !slices.Contains(got, "rotate 30 30 false false") {
		t.Errorf("mouse look missing in %v", got)
	}
}

func TestGameListenerFloatKey(t *testing.T) {
	l, _ := newTestGame()
	l.Activate()
	l.KeyDown(common.KeySpace)
	if !l.IsKeyPressed(common.KeySpace) {
		t.Error("space should read as held")
	}
	l.Deactivate()
	if l.IsKeyPressed(common.KeySpace) {
		t.Error("deactivate should release space")
	}
}
