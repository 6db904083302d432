package input

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
)

const (
	// noAccelFactor scales drags applied as velocity instead of acceleration.
	noAccelFactor = 10.0
	// scrollFactor is the forward force per scroll step.
	scrollFactor = 0.1
	// panFactor scales right-button drags into lateral velocity.
	panFactor = 5.0
)

// Listener is a keyboard and mouse listener driving the natural camera.
type Listener interface {
	camera.InputListener
	Handler

	// SetTarget sets the camera the listener drives.
	SetTarget(c camera.NaturalCamera)

	// SetSettings updates the control and camera settings the listener reads.
	SetSettings(s config.Settings)
}

// listener holds the raw input state shared by the keyboard and game listeners.
// Input events only record state; Poll turns it into camera commands without
// holding the mutex.
type listener struct {
	mu     *sync.Mutex
	logger *slog.Logger
	target camera.NaturalCamera
	modes  mode.Provider

	controls  config.ControlSettings
	cinematic bool
	active    bool

	pressed      map[int]bool
	centre       bool
	buttons      [3]bool
	width        int
	height       int
	lastX, lastY float64
	hasLast      bool
	drag         [3][2]float64
	look         [2]float64
	scroll       float64
}

// frame is what one Poll acts on.
type frame struct {
	target    camera.NaturalCamera
	mode      mode.Mode
	pressed   map[int]bool
	centre    bool
	drag      [3][2]float64
	look      [2]float64
	scroll    float64
	controls  config.ControlSettings
	cinematic bool
}

func (f frame) held(keys ...int) bool {
	for _, k := range keys {
		if f.pressed[k] {
			return true
		}
	}
	return false
}

// sensitivity converts a normalized mouse delta into a command amount.
func (f frame) sensitivity(dx, dy float64) (float64, float64) {
	s := f.controls.MouseSensitivity
	if s <= 0 {
		s = 1
	}
	if f.controls.InvertLookY {
		dy = -dy
	}
	return dx * s, dy * s
}

func newListener(options []ListenerOption, active bool) *listener {
	d := config.Default()
	l := &listener{
		mu:       &sync.Mutex{},
		logger:   slog.Default(),
		controls: d.Controls,
		active:   active,
		pressed:  map[int]bool{},
		width:    1280,
		height:   720,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// take snapshots and clears the accumulated input.
// Returns false when the listener is inactive or has no target.
func (l *listener) take() (frame, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active || l.target == nil {
		return frame{}, false
	}
	f := frame{
		target:    l.target,
		pressed:   make(map[int]bool, len(l.pressed)),
		centre:    l.centre,
		drag:      l.drag,
		look:      l.look,
		scroll:    l.scroll,
		controls:  l.controls,
		cinematic: l.cinematic,
	}
	for k, v := range l.pressed {
		f.pressed[k] = v
	}
	if l.modes != nil {
		f.mode = l.modes.Mode()
	}
	l.centre = false
	l.drag = [3][2]float64{}
	l.look = [2]float64{}
	l.scroll = 0
	return f, true
}

func (l *listener) KeyDown(key int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return
	}
	l.pressed[key] = true
	if key == common.KeyHome {
		l.centre = true
	}
}

func (l *listener) KeyUp(key int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pressed, key)
}

func (l *listener) MouseButton(button int, pressed bool, x, y float64) {
	if button < 0 || button >= len(l.buttons) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buttons[button] = pressed && l.active
	l.lastX, l.lastY, l.hasLast = x, y, true
}

func (l *listener) MouseMove(x, y float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active || !l.hasLast || l.width <= 0 || l.height <= 0 {
		l.lastX, l.lastY, l.hasLast = x, y, true
		return
	}
	dx := (x - l.lastX) / float64(l.width)
	// Screen Y grows downward.
	dy := (l.lastY - y) / float64(l.height)
	l.lastX, l.lastY = x, y
	l.look[0] += dx
	l.look[1] += dy
	for b, down := range l.buttons {
		if down {
			l.drag[b][0] += dx
			l.drag[b][1] += dy
		}
	}
}

func (l *listener) Scroll(_, dy float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		l.scroll += dy
	}
}

func (l *listener) Resize(width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.width, l.height = width, height
}

func (l *listener) IsKeyPressed(key int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pressed[key]
}

func (l *listener) ResponseTime() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.controls.ResponseTime
}

func (l *listener) Activate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = true
	l.hasLast = false
}

// Deactivate stops the listener and forgets held keys and buttons so nothing
// stays pressed when it is activated again.
func (l *listener) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = false
	l.pressed = map[int]bool{}
	l.buttons = [3]bool{}
	l.centre = false
	l.drag = [3][2]float64{}
	l.look = [2]float64{}
	l.scroll = 0
}

func (l *listener) SetTarget(c camera.NaturalCamera) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = c
}

func (l *listener) SetSettings(s config.Settings) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.controls = s.Controls
	l.cinematic = s.Camera.Cinematic
}
