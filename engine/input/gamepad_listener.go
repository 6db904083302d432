package input

import (
	"log/slog"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
)

const (
	// padTurnRate is the look velocity at full stick deflection.
	padTurnRate = 30.0
	// padOrbitRate is the orbit velocity at full stick deflection.
	padOrbitRate = 20.0
)

// GamepadListener drives the natural camera from a gamepad. It is activated by the
// camera when a controller connects and follows the most recent controller.
type GamepadListener interface {
	camera.InputListener
	event.Handler

	// SetTarget sets the camera the listener drives.
	SetTarget(c camera.NaturalCamera)

	// SetSettings updates the dead zone and response time.
	SetSettings(s config.Settings)

	// Controller returns the joystick id being read, or -1.
	Controller() int
}

type gamepadListener struct {
	mu     *sync.Mutex
	logger *slog.Logger
	source GamepadSource
	target camera.NaturalCamera
	modes  mode.Provider

	controls   config.ControlSettings
	active     bool
	controller int
	prev       [buttonCount]bool
	engaged    bool
}

var _ GamepadListener = &gamepadListener{}

// NewGamepadListener creates an inactive gamepad listener.
//
// Parameters:
//   - source: where gamepad samples are read from, usually the window
//   - options: functional options to configure the listener
//
// Returns:
//   - GamepadListener: the new listener
func NewGamepadListener(source GamepadSource, options ...GamepadOption) GamepadListener {
	l := &gamepadListener{
		mu:         &sync.Mutex{},
		logger:     slog.Default(),
		source:     source,
		controls:   config.Default().Controls,
		controller: -1,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// deadZone rescales v so the dead zone maps to 0 and full deflection stays 1.
func deadZone(v, dz float64) float64 {
	a := math.Abs(v)
	if a <= dz || dz >= 1 {
		return 0
	}
	return math.Copysign((a-dz)/(1-dz), v)
}

// trigger maps a GLFW trigger axis from [-1, 1] to [0, 1].
func trigger(v float64) float64 {
	t := (v + 1) / 2
	if t < 1e-3 {
		return 0
	}
	return math.Min(1, t)
}

func (l *gamepadListener) Poll(dt float64) {
	l.mu.Lock()
	if !l.active || l.target == nil || l.source == nil || l.controller < 0 {
		l.mu.Unlock()
		return
	}
	cam, id, dz := l.target, l.controller, l.controls.GamepadDeadzone
	invert := l.controls.InvertLookY
	var m mode.Mode
	if l.modes != nil {
		m = l.modes.Mode()
	}
	l.mu.Unlock()

	st, ok := l.source.Gamepad(id)
	if !ok {
		return
	}

	// Stick Y grows downward.
	lookY := -st.Axes[AxisRightY]
	if invert {
		lookY = -lookY
	}
	lx := deadZone(st.Axes[AxisLeftX], dz)
	ly := deadZone(-st.Axes[AxisLeftY], dz)
	rx := deadZone(st.Axes[AxisRightX], dz)
	ry := deadZone(lookY, dz)
	roll := trigger(st.Axes[AxisRightTrigger]) - trigger(st.Axes[AxisLeftTrigger])
	engaged := lx != 0 || ly != 0 || rx != 0 || ry != 0 || roll != 0

	l.mu.Lock()
	prev, wasEngaged := l.prev, l.engaged
	l.prev, l.engaged = st.Buttons, engaged
	l.mu.Unlock()
	pressed := func(b int) bool { return st.Buttons[b] && !prev[b] }

	// Sticks drive velocities, so releasing them sends one last zeroing pass
	// before mouse and keyboard take over again.
	if engaged || wasEngaged {
		cam.SetGamepadInput(engaged)
		cam.SetVelocity(ly)
		if m.IsFocus() {
			cam.AddHorizontalRotation(-lx*padOrbitRate, false)
			cam.AddVerticalRotation(ry*padOrbitRate, false)
			if rx != 0 {
				cam.AddRotateMovement(rx*padTurnRate, 0, true, false)
			} else {
				cam.AddYaw(0, false)
			}
		} else {
			cam.AddYaw(lx*padTurnRate, false)
			cam.AddPitch(ry*padTurnRate, false)
			cam.AddPanMovement(rx, 0)
		}
		cam.AddRoll(roll*padTurnRate, false)
	}

	if pressed(ButtonA) {
		cam.Center()
	}
	if pressed(ButtonB) {
		cam.StopTotalMovement()
	}
}

func (l *gamepadListener) Activate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		l.logger.Debug("gamepad listener active", "controller", l.controller)
	}
	l.active = true
}

func (l *gamepadListener) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = false
	l.prev = [buttonCount]bool{}
	l.engaged = false
}

// IsKeyPressed reports a held gamepad button.
func (l *gamepadListener) IsKeyPressed(button int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if button < 0 || button >= buttonCount {
		return false
	}
	return l.prev[button]
}

func (l *gamepadListener) ResponseTime() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.controls.ResponseTime
}

func (l *gamepadListener) SetTarget(c camera.NaturalCamera) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = c
}

func (l *gamepadListener) SetSettings(s config.Settings) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.controls = s.Controls
}

func (l *gamepadListener) Controller() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.controller
}

func (l *gamepadListener) EventTypes() []event.Type {
	return []event.Type{event.ControllerConnected, event.ControllerDisconnected}
}

func (l *gamepadListener) HandleEvent(e event.Event) {
	p, ok := e.Payload.(event.Controller)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	switch e.Type {
	case event.ControllerConnected:
		l.controller = p.ID
		l.prev = [buttonCount]bool{}
		l.engaged = false
		l.logger.Info("controller connected", "id", p.ID, "name", p.Name)
	case event.ControllerDisconnected:
		if l.controller == p.ID {
			l.controller = -1
		}
		l.logger.Info("controller disconnected", "id", p.ID)
	}
}
