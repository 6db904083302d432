package engine

import (
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
)

// settingsEvents are the commands that change the settings snapshot. The engine
// owns the snapshot, so the next tick hands the change to every camera and listener.
var settingsEvents = []event.Type{
	event.CameraCinematicCmd,
	event.OrientationLockCmd,
	event.CubemapCmd,
	event.NewDistanceScaleFactor,
}

func (e *engine) handleSettingsEvent(ev event.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Type {
	case event.CameraCinematicCmd:
		if p, ok := ev.Payload.(event.Toggle); ok {
			e.settings.Camera.Cinematic = p.On
			e.logger.Info("cinematic camera", "on", p.On)
		}
	case event.OrientationLockCmd:
		if p, ok := ev.Payload.(event.OrientationLock); ok {
			e.settings.Camera.FocusLock = config.FocusLock{Position: p.Position, Orientation: p.Orientation}
		}
	case event.CubemapCmd:
		if p, ok := ev.Payload.(event.Toggle); ok {
			if p.On {
				e.settings.Camera.Projection = config.ProjectionCubemap
			} else {
				e.settings.Camera.Projection = config.ProjectionPerspective
			}
		}
	case event.NewDistanceScaleFactor:
		if p, ok := ev.Payload.(event.Amount); ok && p.Value > 0 {
			e.settings.Scene.DistanceScaleFactor = p.Value
		}
	}
}
