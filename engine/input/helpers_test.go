package input

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCamera records the commands a listener issues. Methods not overridden panic
// through the nil embedded interface.
type fakeCamera struct {
	camera.NaturalCamera

	mu    sync.Mutex
	calls []string
}

func (c *fakeCamera) record(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *fakeCamera) take() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.calls
	c.calls = nil
	return out
}

func (c *fakeCamera) has(call string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}

func (c *fakeCamera) AddForwardForce(a float64) { c.record("fwd %g", a) }
func (c *fakeCamera) AddRotateMovement(dx, dy float64, look, accel bool) {
	c.record("rotate %g %g %t %t", dx, dy, look, accel)
}
func (c *fakeCamera) AddHorizontalRotation(a float64, accel bool) { c.record("horizontal %g %t", a, accel) }
func (c *fakeCamera) AddVerticalRotation(a float64, accel bool)   { c.record("vertical %g %t", a, accel) }
func (c *fakeCamera) AddYaw(a float64, accel bool)                { c.record("yaw %g %t", a, accel) }
func (c *fakeCamera) AddPitch(a float64, accel bool)              { c.record("pitch %g %t", a, accel) }
func (c *fakeCamera) AddRoll(a float64, accel bool)               { c.record("roll %g %t", a, accel) }
func (c *fakeCamera) AddPanMovement(dx, dy float64)               { c.record("pan %g %g", dx, dy) }
func (c *fakeCamera) SetVelocity(a float64)                       { c.record("velocity %g", a) }
func (c *fakeCamera) StopTotalMovement()                          { c.record("stop") }
func (c *fakeCamera) Center()                                     { c.record("center") }
func (c *fakeCamera) SetGamepadInput(on bool)                     { c.record("gamepad %t", on) }

type fixedMode mode.Mode

func (m fixedMode) Mode() mode.Mode { return mode.Mode(m) }

type padSource struct {
	mu sync.Mutex
	st GamepadState
	ok bool
}

func (p *padSource) Gamepad(int) (GamepadState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st, p.ok
}

func (p *padSource) set(st GamepadState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st, p.ok = st, true
}

// idlePad is a gamepad at rest: centred sticks, released triggers.
func idlePad() GamepadState {
	var st GamepadState
	st.Axes[AxisLeftTrigger] = -1
	st.Axes[AxisRightTrigger] = -1
	return st
}
