package input

import (
	"slices"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
)

func newTestKeyboard(m mode.Mode, options ...ListenerOption) (Listener, *fakeCamera) {
	cam := &fakeCamera{}
	opts := append([]ListenerOption{
		WithLogger(testLogger()),
		WithTarget(cam),
		WithModeProvider(fixedMode(m)),
		WithViewport(1000, 1000),
	}, options...)
	return NewKeyboardListener(opts...), cam
}

func TestKeyboardHeldKeys(t *testing.T) {
	tests := []struct {
		name string
		mode mode.Mode
		key  int
		want string
	}{
		{"forward", mode.Free, common.KeyW, "fwd 1"},
		{"forward arrow", mode.Focus, common.KeyUp, "fwd 1"},
		{"backward", mode.Free, common.KeyDown, "fwd -1"},
		{"yaw right", mode.Free, common.KeyD, "yaw 1 true"},
		{"yaw left", mode.Game, common.KeyLeft, "yaw -1 true"},
		{"orbit right", mode.Focus, common.KeyRight, "horizontal -1 true"},
		{"orbit left", mode.Focus, common.KeyA, "horizontal 1 true"},
		{"pitch up", mode.Free, common.KeyPageUp, "pitch 1 true"},
		{"orbit down", mode.Focus, common.KeyPageDown, "vertical -1 true"},
		{"roll left", mode.Free, common.KeyQ, "roll -1 true"},
		{"roll right", mode.Focus, common.KeyE, "roll 1 true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, cam := newTestKeyboard(tt.mode)
			l.KeyDown(tt.key)
			l.Poll(1.0 / 60)
			got := cam.take()
			want := []string{tt.want, "gamepad false"}
			if !slices.Equal(got, want) {
				t.Errorf("calls = %v, want %v", got, want)
			}
		})
	}
}

func TestKeyboardReleaseAndDeactivate(t *testing.T) {
	l, cam := newTestKeyboard(mode.Free)

	l.KeyDown(common.KeyW)
	if !l.IsKeyPressed(common.KeyW) {
		t.Fatal("W should be held")
	}
	l.KeyUp(common.KeyW)
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("released key issued %v", got)
	}

	l.KeyDown(common.KeyW)
	l.Deactivate()
	if l.IsKeyPressed(common.KeyW) {
		t.Error("deactivate should forget held keys")
	}
	l.KeyDown(common.KeyS)
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("inactive listener issued %v", got)
	}

	l.Activate()
	l.KeyDown(common.KeyS)
	l.Poll(1.0 / 60)
	if !slices.Contains(cam.take(), "fwd -1") {
		t.Error("reactivated listener should drive the camera")
	}
}

func TestKeyboardHomeCentresOnce(t *testing.T) {
	l, cam := newTestKeyboard(mode.Focus)

	l.KeyDown(common.KeyHome)
	l.Poll(1.0 / 60)
	l.Poll(1.0 / 60)
	n := 0
	for _, c := range cam.take() {
		if c == "center" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("center issued %d times, want 1", n)
	}
}

func TestKeyboardMouse(t *testing.T) {
	tests := []struct {
		name      string
		mode      mode.Mode
		button    int
		shift     bool
		cinematic bool
		want      string
	}{
		{"left drag rotates", mode.Free, MouseLeft, false, false, "rotate 5 5 false false"},
		{"left drag with shift rolls", mode.Free, MouseLeft, true, false, "roll 5 false"},
		{"cinematic drag accelerates", mode.Focus, MouseLeft, false, true, "rotate 0.5 0.5 false true"},
		{"right drag pans in free mode", mode.Free, MouseRight, false, false, "pan -25 -25"},
		{"right drag looks in focus mode", mode.Focus, MouseRight, false, false, "rotate 5 5 true false"},
		{"middle drag pushes", mode.Free, MouseMiddle, false, false, "fwd 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Default()
			s.Camera.Cinematic = tt.cinematic
			l, cam := newTestKeyboard(tt.mode, WithSettings(s))
			if tt.shift {
				l.KeyDown(common.KeyLeftShift)
			}
			l.MouseButton(tt.button, true, 0, 500)
			l.MouseMove(500, 0)
			l.MouseButton(tt.button, false, 500, 0)
			l.Poll(1.0 / 60)
			if got := cam.take(); !slices.Contains(got, tt.want) {
				t.Errorf("calls = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyboardMouseWithoutButtonAndScroll(t *testing.T) {
	l, cam := newTestKeyboard(mode.Free)

	l.MouseMove(0, 0)
	l.MouseMove(300, 300)
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("hover issued %v", got)
	}

	l.Scroll(0, 2)
	l.Poll(1.0 / 60)
	if got := cam.take(); !slices.Equal(got, []string{"fwd 0.2", "gamepad false"}) {
		t.Errorf("scroll issued %v", got)
	}
	l.Poll(1.0 / 60)
	if got := cam.take(); len(got) != 0 {
		t.Errorf("scroll should be consumed once, got %v", got)
	}
}

func TestKeyboardInvertLookAndSensitivity(t *testing.T) {
	s := config.Default()
	s.Controls.InvertLookY = true
	s.Controls.MouseSensitivity = 2
	l, cam := newTestKeyboard(mode.Free, WithSettings(s))

	l.MouseButton(MouseLeft, true, 0, 500)
	l.MouseMove(500, 0)
	l.Poll(1.0 / 60)
	if got := cam.take(); !slices.Contains(got, "rotate 10 -10 false false") {
		t.Errorf("calls = %v", got)
	}
}

func TestKeyboardResponseTime(t *testing.T) {
	s := config.Default()
	s.Controls.ResponseTime = 0.4
	l, _ := newTestKeyboard(mode.Free)
	l.SetSettings(s)
	if got := l.ResponseTime(); got != 0.4 {
		t.Errorf("ResponseTime = %g, want 0.4", got)
	}
}

func TestKeyboardDrivesNaturalCamera(t *testing.T) {
	kbd := NewKeyboardListener(WithLogger(testLogger()))
	game := NewGameListener(WithLogger(testLogger()))
	cam := camera.NewNaturalCamera(
		camera.WithLogger(testLogger()),
		camera.WithInputListeners(kbd, game),
	)
	kbd.SetTarget(cam)
	game.SetTarget(cam)

	start, dir := cam.Position(), cam.Direction()
	tf := clock.Fixed{At: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Factor: 1}
	kbd.KeyDown(common.KeyW)
	for range 30 {
		cam.Update(1.0/60, tf, config.Default())
	}

	moved := cam.Position().Sub(start)
	if moved.Len() == 0 {
		t.Fatal("camera did not move")
	}
	if d := moved.Normalize().Dot(dir); d < 0.99 {
		t.Errorf("moved off axis: dot = %g", d)
	}
}
