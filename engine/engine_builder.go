package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/engine/body"
	"github.com/Carmen-Shannon/oxy-nav/engine/cluster"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithSettings sets the initial settings. They are validated by NewEngine.
//
// Parameters:
//   - s: the settings, usually from config.Load
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSettings(s config.Settings) EngineBuilderOption {
	return func(e *engine) {
		e.settings = s
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in ticks per second, overriding
// runtime.tickRate. Values <= 0 keep the configured rate.
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps > 0 {
			e.engineTickRate = time.Duration(float64(time.Second) / fps)
		}
	}
}

// WithWindow sets the window the engine reads input from. Without one the engine
// runs headless.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithBodies loads bodies into the scene.
func WithBodies(bodies ...body.Body) EngineBuilderOption {
	return func(e *engine) {
		e.bodies = append(e.bodies, bodies...)
	}
}

// WithStartTime sets the initial simulation time. Defaults to now.
func WithStartTime(t time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.startTime = t
	}
}

// WithClusterMaster sets the master each tick broadcasts the camera pose to, for
// callers that serve it on their own listener. Run serves it on cluster.address
// only when the address is set.
func WithClusterMaster(m cluster.Master) EngineBuilderOption {
	return func(e *engine) {
		e.master = m
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithGPUDevice sets the device the render loop uploads the camera uniform to.
// The engine allocates the buffer, see Engine.CameraUniform.
//
// Parameters:
//   - device: the WebGPU device the renderer draws with
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGPUDevice(device *wgpu.Device) EngineBuilderOption {
	return func(e *engine) {
		e.device = device
	}
}
