package input

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/spacecraft"
)

// SpacecraftListener flies a spacecraft from the keyboard while spacecraft mode is
// active. It follows the mode through CameraModeCmd and is polled by the engine
// before the camera update.
type SpacecraftListener interface {
	Handler
	event.Handler

	// Poll applies held keys to the spacecraft.
	Poll(dt float64)

	// SetSpacecraft sets the flown vessel. Nil detaches it.
	SetSpacecraft(sc spacecraft.Spacecraft)

	// Active reports whether spacecraft mode is on.
	Active() bool
}

type spacecraftListener struct {
	mu     *sync.Mutex
	logger *slog.Logger
	sc     spacecraft.Spacecraft

	active  bool
	pressed map[int]bool
	// taps are keys pressed since the last poll, for one-shot commands.
	taps []int
}

var _ SpacecraftListener = &spacecraftListener{}

// NewSpacecraftListener creates an inactive spacecraft listener.
//
// Keys: W/S throttle, A/D yaw, Up/Down pitch, Q/E roll, PageUp/PageDown change the
// thrust factor, C stabilises the attitude and F stops all motion.
func NewSpacecraftListener(sc spacecraft.Spacecraft, logger *slog.Logger) SpacecraftListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &spacecraftListener{
		mu:      &sync.Mutex{},
		logger:  logger,
		sc:      sc,
		pressed: map[int]bool{},
	}
}

func (l *spacecraftListener) Poll(dt float64) {
	l.mu.Lock()
	if !l.active || l.sc == nil {
		l.mu.Unlock()
		return
	}
	sc := l.sc
	held := func(k int) float64 {
		if l.pressed[k] {
			return 1
		}
		return 0
	}
	throttle := held(common.KeyW) - held(common.KeyS)
	yaw := held(common.KeyD) - held(common.KeyA)
	pitch := held(common.KeyUp) - held(common.KeyDown)
	roll := held(common.KeyE) - held(common.KeyQ)
	taps := l.taps
	l.taps = nil
	l.mu.Unlock()

	for _, k := range taps {
		switch k {
		case common.KeyPageUp:
			sc.IncreaseThrust()
		case common.KeyPageDown:
			sc.DecreaseThrust()
		case common.KeyC:
			sc.SetStabilising(true)
		case common.KeyF:
			sc.StopAllMovement()
		}
	}
	sc.ApplyInput(dt, throttle, yaw, pitch, roll)
}

func (l *spacecraftListener) KeyDown(key int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return
	}
	if !l.pressed[key] {
		l.taps = append(l.taps, key)
	}
	l.pressed[key] = true
}

func (l *spacecraftListener) KeyUp(key int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pressed, key)
}

func (l *spacecraftListener) MouseButton(int, bool, float64, float64) {}
func (l *spacecraftListener) MouseMove(float64, float64)               {}
func (l *spacecraftListener) Scroll(float64, float64)                  {}
func (l *spacecraftListener) Resize(int, int)                          {}

func (l *spacecraftListener) SetSpacecraft(sc spacecraft.Spacecraft) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sc = sc
}

func (l *spacecraftListener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

func (l *spacecraftListener) EventTypes() []event.Type {
	return []event.Type{event.CameraModeCmd, event.SpacecraftLoaded}
}

func (l *spacecraftListener) HandleEvent(e event.Event) {
	switch p := e.Payload.(type) {
	case event.ModeChange:
		l.mu.Lock()
		defer l.mu.Unlock()
		on := p.Mode.IsSpacecraft()
		if on != l.active {
			l.logger.Debug("spacecraft controls", "active", on)
		}
		l.active = on
		if !on {
			l.pressed = map[int]bool{}
			l.taps = nil
		}
	case event.Spacecraft:
		if sc, ok := p.Entity.(spacecraft.Spacecraft); ok {
			l.SetSpacecraft(sc)
		}
	}
}
