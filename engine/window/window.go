package window

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-nav/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// maxJoysticks is the number of joystick slots GLFW exposes.
const maxJoysticks = 16

// Window provides the platform window, routes its input to an input.Handler and
// caches gamepad samples for the camera update.
//
// GLFW only allows event polling and joystick sampling on the main thread, so
// ProcessMessages must run on the goroutine that created the window.
type Window interface {
	input.GamepadSource

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetInputHandler routes keys, mouse buttons, cursor motion, scroll and resizes
	// to h. Nil stops routing.
	SetInputHandler(h input.Handler)

	// SetJoystickCallback sets the function called when a gamepad connects or
	// disconnects. Gamepads already present are reported on the first loop iteration.
	//
	// Parameters:
	//   - callback: function receiving the joystick id, the new state and the gamepad name
	SetJoystickCallback(callback func(id int, connected bool, name string))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int

	// Aspect returns width / height, or 1 before the first resize.
	Aspect() float64
}

type engineWindow struct {
	mu     *sync.Mutex
	logger *slog.Logger

	title     string
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int
	width     int
	height    int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate   func()
	onResize   func(width, height int)
	onJoystick func(id int, connected bool, name string)
	handler    input.Handler

	gamepads [maxJoysticks]input.GamepadState
	present  [maxJoysticks]bool
	scanned  bool
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		logger:    slog.Default(),
		title:     "oxy-nav",
		maxWidth:  7680,
		maxHeight: 4320,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	w.logger.Info("window created", "title", w.title, "width", w.width, "height", w.height)
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *engineWindow) SetInputHandler(h input.Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = h
	if h != nil {
		h.Resize(w.width, w.height)
	}
}

func (w *engineWindow) SetJoystickCallback(callback func(id int, connected bool, name string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onJoystick = callback
}

// inputHandler returns the current handler, or nil.
func (w *engineWindow) inputHandler() input.Handler {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handler
}

// resized stores the new framebuffer size and notifies the listeners.
func (w *engineWindow) resized(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	h, cb := w.handler, w.onResize
	w.mu.Unlock()
	if h != nil {
		h.Resize(width, height)
	}
	if cb != nil {
		cb(width, height)
	}
}

// joystick records a connect or disconnect and reports it once per change.
func (w *engineWindow) joystick(id int, connected bool, name string) {
	if id < 0 || id >= maxJoysticks {
		return
	}
	w.mu.Lock()
	changed := w.present[id] != connected
	w.present[id] = connected
	if !connected {
		w.gamepads[id] = input.GamepadState{}
	}
	cb := w.onJoystick
	w.mu.Unlock()
	if !changed {
		return
	}
	w.logger.Info("gamepad", "id", id, "connected", connected, "name", name)
	if cb != nil {
		cb(id, connected, name)
	}
}

func (w *engineWindow) Gamepad(id int) (input.GamepadState, bool) {
	if id < 0 || id >= maxJoysticks {
		return input.GamepadState{}, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gamepads[id], w.present[id]
}

// storeGamepad caches one sample taken on the main thread.
func (w *engineWindow) storeGamepad(id int, st input.GamepadState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gamepads[id] = st
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		w.mu.Lock()
		update := w.onUpdate
		w.mu.Unlock()
		if update != nil {
			update()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *engineWindow) Aspect() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.width <= 0 || w.height <= 0 {
		return 1
	}
	return float64(w.width) / float64(w.height)
}
