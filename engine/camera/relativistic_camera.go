package camera

import (
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

// relativisticCamera is a placeholder for a camera with relativistic aberration.
// It keeps the shared pose bookkeeping and never moves on its own.
type relativisticCamera struct {
	*abstractCamera
}

var _ Camera = &relativisticCamera{}

// NewRelativisticCamera creates the inert relativistic camera.
func NewRelativisticCamera(s config.Settings) Camera {
	c := &relativisticCamera{abstractCamera: newAbstractCamera(s)}
	c.self = c
	return c
}

func (c *relativisticCamera) Update(float64, clock.TimeFrame, config.Settings) {}

func (c *relativisticCamera) UpdateMode(Camera, Mode, Mode, bool) {}

func (c *relativisticCamera) Focus() focus.Focus { return nil }
