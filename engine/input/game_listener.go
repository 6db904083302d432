package input

import (
	"github.com/Carmen-Shannon/oxy-nav/common"
)

// gameLookFactor converts a normalized mouse delta into a look velocity.
const gameLookFactor = 60.0

type gameListener struct {
	*listener

	strafing bool
}

var _ Listener = &gameListener{}

// NewGameListener creates the game mode listener: W/S move forward and back, A/D
// strafe, Q/E roll, the mouse looks around without a button held and Space keeps
// the camera floating over a planet.
//
// Parameters:
//   - options: functional options to configure the listener
//
// Returns:
//   - Listener: the new listener, inactive until game mode is entered
func NewGameListener(options ...ListenerOption) Listener {
	return &gameListener{listener: newListener(options, false)}
}

func (l *gameListener) Poll(dt float64) {
	f, ok := l.take()
	if !ok {
		return
	}
	cam := f.target

	if f.held(common.KeyW) {
		cam.AddForwardForce(1)
	}
	if f.held(common.KeyS) {
		cam.AddForwardForce(-1)
	}

	strafe := 0.0
	if f.held(common.KeyD) {
		strafe++
	}
	if f.held(common.KeyA) {
		strafe--
	}
	l.mu.Lock()
	was := l.strafing
	l.strafing = strafe != 0
	l.mu.Unlock()
	if strafe != 0 || was {
		cam.AddPanMovement(strafe, 0)
	}

	if f.held(common.KeyQ) {
		cam.AddRoll(-1, true)
	}
	if f.held(common.KeyE) {
		cam.AddRoll(1, true)
	}

	if dx, dy := f.sensitivity(f.look[0], f.look[1]); dx != 0 || dy != 0 {
		cam.AddRotateMovement(dx*gameLookFactor, dy*gameLookFactor, false, false)
	}
	cam.SetGamepadInput(false)
}

// Deactivate also forgets the strafe so the next activation does not issue a stop.
func (l *gameListener) Deactivate() {
	l.listener.Deactivate()
	l.mu.Lock()
	l.strafing = false
	l.mu.Unlock()
}
