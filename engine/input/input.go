package input

import "sync"

// Mouse buttons, matching GLFW.
const (
	MouseLeft   = 0
	MouseRight  = 1
	MouseMiddle = 2
)

// Gamepad axes in the GLFW standard layout. Sticks are in [-1, 1] with +Y down,
// triggers are in [-1, 1] with -1 released.
const (
	AxisLeftX = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisLeftTrigger
	AxisRightTrigger
	axisCount
)

// Gamepad buttons in the GLFW standard layout.
const (
	ButtonA = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLeftBumper
	ButtonRightBumper
	ButtonBack
	ButtonStart
	ButtonGuide
	ButtonLeftThumb
	ButtonRightThumb
	ButtonDpadUp
	ButtonDpadRight
	ButtonDpadDown
	ButtonDpadLeft
	buttonCount
)

// GamepadState is one sample of a gamepad.
type GamepadState struct {
	Axes    [axisCount]float64
	Buttons [buttonCount]bool
}

// GamepadSource returns the last sampled state of a gamepad. GLFW only allows
// sampling on the main thread, so sources cache what the window loop read.
type GamepadSource interface {
	// Gamepad returns the cached state of the joystick id and whether it is a
	// connected gamepad.
	Gamepad(id int) (GamepadState, bool)
}

// Handler receives raw window input.
type Handler interface {
	KeyDown(key int)
	KeyUp(key int)
	MouseButton(button int, pressed bool, x, y float64)
	MouseMove(x, y float64)
	Scroll(dx, dy float64)
	Resize(width, height int)
}

// Mux fans raw input out to several handlers. Inactive listeners ignore what they
// receive, so every listener can stay registered across mode changes.
type Mux struct {
	mu       *sync.RWMutex
	handlers []Handler
}

var _ Handler = &Mux{}

// NewMux creates a multiplexer over handlers.
func NewMux(handlers ...Handler) *Mux {
	return &Mux{mu: &sync.RWMutex{}, handlers: handlers}
}

// Add registers another handler.
func (m *Mux) Add(h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

func (m *Mux) each(fn func(h Handler)) {
	m.mu.RLock()
	hs := append([]Handler(nil), m.handlers...)
	m.mu.RUnlock()
	for _, h := range hs {
		fn(h)
	}
}

func (m *Mux) KeyDown(key int) { m.each(func(h Handler) { h.KeyDown(key) }) }
func (m *Mux) KeyUp(key int)   { m.each(func(h Handler) { h.KeyUp(key) }) }

func (m *Mux) MouseButton(button int, pressed bool, x, y float64) {
	m.each(func(h Handler) { h.MouseButton(button, pressed, x, y) })
}

func (m *Mux) MouseMove(x, y float64)   { m.each(func(h Handler) { h.MouseMove(x, y) }) }
func (m *Mux) Scroll(dx, dy float64)    { m.each(func(h Handler) { h.Scroll(dx, dy) }) }
func (m *Mux) Resize(width, height int) { m.each(func(h Handler) { h.Resize(width, height) }) }
