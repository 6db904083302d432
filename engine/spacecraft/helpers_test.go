package spacecraft

import (
	"time"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type modeFunc mode.Mode

func (m modeFunc) Mode() mode.Mode { return mode.Mode(m) }

func frame() clock.Fixed {
	return clock.Fixed{At: epoch, Hours: 0, Factor: 1}
}
