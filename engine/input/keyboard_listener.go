package input

import (
	"github.com/Carmen-Shannon/oxy-nav/common"
)

type keyboardListener struct {
	*listener
}

var _ Listener = &keyboardListener{}

// NewKeyboardListener creates the free and focus mode listener. It starts active,
// since the natural camera starts on it.
//
// Keys: Up/W and Down/S push forward and back; Left/A and Right/D yaw (orbit in
// focus mode); PageUp and PageDown pitch; Q and E roll; Home centres the focus.
// Mouse: left drag rotates (rolls with Shift), right drag pans in free mode and
// looks around otherwise, middle drag and the wheel push forward.
//
// Parameters:
//   - options: functional options to configure the listener
//
// Returns:
//   - Listener: the new listener
func NewKeyboardListener(options ...ListenerOption) Listener {
	return &keyboardListener{listener: newListener(options, true)}
}

func (l *keyboardListener) Poll(dt float64) {
	f, ok := l.take()
	if !ok {
		return
	}
	cam := f.target
	orbit := f.mode.IsFocus()
	used := false

	if f.held(common.KeyUp, common.KeyW) {
		cam.AddForwardForce(1)
		used = true
	}
	if f.held(common.KeyDown, common.KeyS) {
		cam.AddForwardForce(-1)
		used = true
	}
	if f.held(common.KeyRight, common.KeyD) {
		if orbit {
			cam.AddHorizontalRotation(-1, true)
		} else {
			cam.AddYaw(1, true)
		}
		used = true
	}
	if f.held(common.KeyLeft, common.KeyA) {
		if orbit {
			cam.AddHorizontalRotation(1, true)
		} else {
			cam.AddYaw(-1, true)
		}
		used = true
	}
	if f.held(common.KeyPageUp) {
		if orbit {
			cam.AddVerticalRotation(1, true)
		} else {
			cam.AddPitch(1, true)
		}
		used = true
	}
	if f.held(common.KeyPageDown) {
		if orbit {
			cam.AddVerticalRotation(-1, true)
		} else {
			cam.AddPitch(-1, true)
		}
		used = true
	}
	if f.held(common.KeyQ) {
		cam.AddRoll(-1, true)
		used = true
	}
	if f.held(common.KeyE) {
		cam.AddRoll(1, true)
		used = true
	}
	if f.centre {
		cam.Center()
	}

	if l.applyDrags(f) {
		used = true
	}
	if f.scroll != 0 {
		cam.AddForwardForce(f.scroll * scrollFactor)
		used = true
	}
	if used {
		cam.SetGamepadInput(false)
	}
}

// applyDrags turns the accumulated mouse drags into camera commands.
func (l *keyboardListener) applyDrags(f frame) bool {
	cam := f.target
	accel := f.cinematic
	scale := 1.0
	if !accel {
		scale = noAccelFactor
	}
	used := false

	if dx, dy := f.sensitivity(f.drag[MouseLeft][0], f.drag[MouseLeft][1]); dx != 0 || dy != 0 {
		if f.held(common.KeyLeftShift, common.KeyRightShift) {
			if dx != 0 {
				cam.AddRoll(dx*scale, accel)
			}
		} else {
			cam.AddRotateMovement(dx*scale, dy*scale, false, accel)
		}
		used = true
	}
	if dx, dy := f.sensitivity(f.drag[MouseRight][0], f.drag[MouseRight][1]); dx != 0 || dy != 0 {
		if f.mode.IsFree() {
			cam.AddPanMovement(-dx*scale*panFactor, -dy*scale*panFactor)
		} else {
			cam.AddRotateMovement(dx*scale, dy*scale, true, accel)
		}
		used = true
	}
	if dx := f.drag[MouseMiddle][0]; dx != 0 {
		cam.AddForwardForce(dx * scale)
		used = true
	}
	return used
}
