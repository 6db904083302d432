package camera

import (
	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

var naturalCameraEvents = []event.Type{
	event.FocusChangeCmd,
	event.FocusNotAvailable,
	event.FovChangedCmd,
	event.CameraPosCmd,
	event.CameraDirCmd,
	event.CameraUpCmd,
	event.CameraProjectionCmd,
	event.CameraFwd,
	event.CameraRotate,
	event.CameraTurn,
	event.CameraPan,
	event.CameraRoll,
	event.CameraStop,
	event.CameraCenter,
	event.CameraCenterFocusCmd,
	event.CameraTrackingObjectCmd,
	event.GoToObjectCmd,
	event.FreeModeCoordCmd,
	event.ControllerConnected,
	event.ControllerDisconnected,
	event.NewDistanceScaleFactor,
}

func (c *naturalCameraImpl) EventTypes() []event.Type {
	return naturalCameraEvents
}

func (c *naturalCameraImpl) HandleEvent(e event.Event) {
	switch e.Type {
	case event.FocusChangeCmd:
		if p, ok := e.Payload.(event.FocusChange); ok {
			c.handleFocusChange(p)
		}
	case event.FocusNotAvailable:
		if p, ok := e.Payload.(event.FocusLoss); ok {
			c.mu.Lock()
			lost := c.currentMode().IsFocus() && focus.Same(c.focus, p.Focus)
			if lost {
				c.logger.Info("focus not available, switching to free mode", "focus", p.Focus.Name())
				c.queue(event.CameraModeCmd, event.ModeChange{Mode: mode.Free})
			}
			evs := c.drainEvents()
			c.mu.Unlock()
			c.publish(evs)
		}
	case event.FovChangedCmd:
		if p, ok := e.Payload.(event.FovChange); ok {
			c.SetFov(p.Fov)
		}
	case event.CameraPosCmd:
		if p, ok := e.Payload.(event.Vector); ok {
			_ = c.SetPosition(p.Position)
		}
	case event.CameraDirCmd:
		if p, ok := e.Payload.(event.Vector); ok {
			_ = c.SetDirection(p.Value)
		}
	case event.CameraUpCmd:
		if p, ok := e.Payload.(event.Vector); ok {
			_ = c.SetUp(p.Value)
		}
	case event.CameraProjectionCmd:
		if p, ok := e.Payload.(event.Projection); ok {
			c.mu.Lock()
			c.projection = p
			c.projectionFlag = true
			c.mu.Unlock()
		}
	case event.CameraFwd:
		if p, ok := e.Payload.(event.Amount); ok {
			c.AddForwardForce(p.Value)
		}
	case event.CameraRotate:
		if p, ok := e.Payload.(event.Delta2); ok {
			if p.FocusOnly && !c.inFocusMode() {
				return
			}
			c.AddRotateMovement(p.DX, p.DY, false, p.Acceleration)
		}
	case event.CameraTurn:
		if p, ok := e.Payload.(event.Delta2); ok {
			c.AddRotateMovement(p.DX, p.DY, true, p.Acceleration)
		}
	case event.CameraPan:
		if p, ok := e.Payload.(event.Delta2); ok {
			c.AddPanMovement(p.DX, p.DY)
		}
	case event.CameraRoll:
		if p, ok := e.Payload.(event.Amount); ok {
			c.AddRoll(p.Value, c.cinematic())
		}
	case event.CameraStop:
		c.StopTotalMovement()
	case event.CameraCenter:
		c.Center()
	case event.CameraCenterFocusCmd:
		if p, ok := e.Payload.(event.Toggle); ok {
			c.SetDiverted(!p.On)
		}
	case event.CameraTrackingObjectCmd:
		if p, ok := e.Payload.(event.Tracking); ok {
			f := p.Focus
			if !focus.Valid(f) && p.Name != "" {
				f = c.resolve(p.Name)
			}
			c.SetTrackingObject(f)
		}
	case event.GoToObjectCmd:
		if err := c.GoToObject(); err != nil {
			c.logger.Warn("go to object ignored", "error", err)
		}
	case event.FreeModeCoordCmd:
		if p, ok := e.Payload.(event.SkyCoordinates); ok {
			c.FreeTarget(p.RA, p.Dec)
		}
	case event.ControllerConnected:
		c.mu.Lock()
		pad, natural := c.gamepadListener, c.currentMode().IsNatural()
		c.mu.Unlock()
		if pad != nil && natural {
			pad.Activate()
		}
	case event.ControllerDisconnected:
		c.mu.Lock()
		pad := c.gamepadListener
		c.gamepadInput = false
		c.velocityGamepad = 0
		c.mu.Unlock()
		if pad != nil {
			pad.Deactivate()
		}
	case event.NewDistanceScaleFactor:
		if p, ok := e.Payload.(event.Amount); ok && p.Value > 0 {
			c.mu.Lock()
			c.settings.Scene.DistanceScaleFactor = p.Value
			c.updateUnits(common.NewUnits(p.Value))
			c.mu.Unlock()
		}
	}
}

// handleFocusChange resolves and applies a focus command. Tracking is cleared.
func (c *naturalCameraImpl) handleFocusChange(p event.FocusChange) {
	f := p.Focus
	if !focus.Valid(f) && p.Name != "" {
		f = c.resolve(p.Name)
	}

	c.mu.Lock()
	c.tracking = nil
	c.diverted = !p.CenterFocus
	if err := c.setFocus(f); err != nil {
		c.logger.Warn("focus change ignored", "name", p.Name, "error", err)
	} else {
		c.checkFocus()
	}
	evs := c.drainEvents()
	c.mu.Unlock()
	c.publish(evs)
}

// resolve looks up a named object. Must be called without the mutex.
func (c *naturalCameraImpl) resolve(name string) focus.Focus {
	c.mu.Lock()
	r := c.resolver
	c.mu.Unlock()
	if r == nil {
		return nil
	}
	f, err := r.Resolve(name)
	if err != nil {
		c.logger.Warn("failed to resolve object", "name", name, "error", err)
		return nil
	}
	return f
}

func (c *naturalCameraImpl) inFocusMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentMode().IsFocus()
}

func (c *naturalCameraImpl) cinematic() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Camera.Cinematic
}
