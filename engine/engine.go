package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/body"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/cluster"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/input"
	"github.com/Carmen-Shannon/oxy-nav/engine/metrics"
	"github.com/Carmen-Shannon/oxy-nav/engine/profiler"
	"github.com/Carmen-Shannon/oxy-nav/engine/scene"
	"github.com/Carmen-Shannon/oxy-nav/engine/spacecraft"
	"github.com/Carmen-Shannon/oxy-nav/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrRunning is returned by Run when the engine is already running or has stopped.
var ErrRunning = errors.New("engine already started")

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	mu     *sync.Mutex
	logger *slog.Logger
	bus    event.Bus

	settings  config.Settings
	clock     *clock.Clock
	startTime time.Time

	window  window.Window
	scene   scene.Scene
	bodies  []body.Body
	manager camera.Manager
	craft   spacecraft.Spacecraft

	keyboard   input.Listener
	game       input.Listener
	gamepad    input.GamepadListener
	craftInput input.SpacecraftListener
	mux        *input.Mux

	master  cluster.Master
	slave   cluster.Slave
	metrics metrics.Collector

	tickRateChannel chan time.Duration
	engineTickRate  time.Duration
	started         bool
	wg              sync.WaitGroup
	quitChannel     chan struct{}
	quitOnce        sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback     func(dt float64)
	renderCallback   func(p camera.Perspective, dt float64)
	renderFrameLimit time.Duration

	perspective    camera.Perspective
	hasPerspective bool
	serveErrs      []error

	device  *wgpu.Device
	uniform *wgpu.Buffer
	upload  func(u camera.GPUCameraUniform)
}

var _ mode.Provider = &engine{}

// Engine is the main entry point. It owns the bus, the cameras, the scene, the
// input listeners and the optional cluster and metrics endpoints, and drives them
// from a fixed-rate tick loop.
type Engine interface {
	// Bus returns the event bus every component is subscribed to.
	Bus() event.Bus

	// Manager returns the camera manager.
	Manager() camera.Manager

	// Scene returns the body registry.
	Scene() scene.Scene

	// Spacecraft returns the reference spacecraft.
	Spacecraft() spacecraft.Spacecraft

	// Window returns the window, nil for a headless engine.
	Window() window.Window

	// Input returns the handler fanning raw input out to every listener.
	// The window is wired to it; headless callers can drive it directly.
	Input() input.Handler

	// Metrics returns the telemetry collector.
	Metrics() metrics.Collector

	// Settings returns a snapshot of the current settings.
	Settings() config.Settings

	// SetSettings replaces the settings used from the next tick on.
	//
	// Parameters:
	//   - s: the new settings
	//
	// Returns:
	//   - error: non-nil, wrapping config.ErrInvalid, if s does not validate
	SetSettings(s config.Settings) error

	// Mode returns the active camera mode.
	Mode() mode.Mode

	// Perspective returns the pose computed by the latest tick.
	//
	// Returns:
	//   - camera.Perspective: the renderer snapshot
	//   - bool: false before the first tick
	Perspective() (camera.Perspective, bool)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called after each tick.
	//
	// Parameters:
	//   - callback: receives the tick delta in seconds
	SetTickCallback(callback func(dt float64))

	// SetRenderCallback registers the function called each render frame with the
	// latest camera pose.
	//
	// Parameters:
	//   - callback: receives the pose and the frame delta in seconds
	SetRenderCallback(callback func(p camera.Perspective, dt float64))

	// CameraUniform returns the buffer the render loop writes the camera uniform to
	// each frame, nil without a GPU device.
	CameraUniform() *wgpu.Buffer

	// SetRenderFrameLimit caps the render loop. Pass 0 to uncap it.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step runs one tick synchronously: clock, spacecraft input, scene pass,
	// buffer swap, camera update, cluster broadcast and telemetry.
	//
	// Parameters:
	//   - dt: real seconds since the previous tick
	Step(dt float64)

	// Run starts the tick and render loops plus the configured endpoints, and
	// blocks until the window closes, Quit is called or ctx is cancelled.
	// With a window it must be called from the main thread.
	//
	// Returns:
	//   - error: ErrRunning on a second call, or the endpoint failures joined
	Run(ctx context.Context) error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates an engine and wires its components together.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: non-nil if the settings are invalid or a component cannot be built
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:              &sync.Mutex{},
		settings:        config.Default(),
		startTime:       time.Now().UTC(),
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.settings.Validate(); err != nil {
		return nil, err
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.device != nil {
		buf, err := camera.NewUniformBuffer(e.device)
		if err != nil {
			return nil, fmt.Errorf("failed to create camera uniform buffer: %w", err)
		}
		queue := e.device.GetQueue()
		e.uniform = buf
		e.upload = func(u camera.GPUCameraUniform) {
			if err := u.WriteUniform(queue, buf); err != nil {
				e.logger.Warn("camera uniform upload failed", "error", err)
			}
		}
	}
	if e.engineTickRate <= 0 {
		e.engineTickRate = time.Second / time.Duration(e.settings.Runtime.TickRate)
	}
	s := e.settings

	e.bus = event.NewBus(e.logger)
	e.clock = clock.NewClock(e.startTime)
	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))

	col, err := metrics.NewCollector(metrics.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics collector: %w", err)
	}
	e.metrics = col

	e.scene = scene.NewScene(
		scene.WithLogger(e.logger),
		scene.WithBus(e.bus),
		scene.WithComputeWorkers(s.Scene.Workers),
		scene.WithBodies(e.bodies...),
	)
	e.bodies = nil
	// Bodies start at their positions for the start time, not at the origin.
	e.scene.Update(e.clock.Time())

	e.craft = spacecraft.New(
		spacecraft.WithMachines(s.Spacecraft.Machines...),
		spacecraft.WithUnits(common.NewUnits(s.Scene.DistanceScaleFactor)),
		spacecraft.WithLogger(e.logger),
		spacecraft.WithBus(e.bus),
	)

	listenerOpts := []input.ListenerOption{
		input.WithLogger(e.logger),
		input.WithModeProvider(e),
		input.WithSettings(s),
	}
	if e.window != nil {
		listenerOpts = append(listenerOpts, input.WithViewport(e.window.Width(), e.window.Height()))
	}
	e.keyboard = input.NewKeyboardListener(listenerOpts...)
	e.game = input.NewGameListener(listenerOpts...)
	var pads input.GamepadSource
	if e.window != nil {
		pads = e.window
	}
	e.gamepad = input.NewGamepadListener(pads,
		input.WithGamepadLogger(e.logger),
		input.WithGamepadModeProvider(e),
		input.WithGamepadSettings(s),
	)
	e.craftInput = input.NewSpacecraftListener(e.craft, e.logger)
	e.mux = input.NewMux(e.keyboard, e.game, e.craftInput)

	e.manager = camera.NewManager(
		camera.WithManagerSettings(s),
		camera.WithManagerLogger(e.logger),
		camera.WithManagerBus(e.bus),
		camera.WithNaturalCameraOptions(
			camera.WithResolver(e.scene),
			camera.WithInputListeners(e.keyboard, e.game),
			camera.WithGamepadListener(e.gamepad),
		),
		camera.WithSpacecraftCameraOptions(camera.WithVessel(e.craft)),
	)
	natural := e.manager.Natural()
	e.keyboard.SetTarget(natural)
	e.game.SetTarget(natural)
	e.gamepad.SetTarget(natural)

	for _, h := range []event.Handler{e.gamepad, e.craftInput, e.craft, e.metrics} {
		e.bus.Subscribe(h)
	}
	e.bus.Subscribe(&event.HandlerFunc{Types: settingsEvents, Fn: e.handleSettingsEvent})
	e.bus.Publish(event.SpacecraftLoaded, e, event.Spacecraft{Entity: e.craft})

	if err := e.wireCluster(s); err != nil {
		return nil, err
	}
	e.wireWindow()
	e.logger.Info("engine created", "mode", e.manager.Mode(), "bodies", e.scene.Count(),
		"cluster", s.Cluster.Role, "tick", e.engineTickRate)
	return e, nil
}

// wireCluster creates the master or slave for the configured cluster role.
func (e *engine) wireCluster(s config.Settings) error {
	switch s.Cluster.Role {
	case config.RoleMaster:
		if e.master == nil {
			e.master = cluster.NewMaster(
				cluster.WithMasterLogger(e.logger),
				cluster.WithBroadcastRate(s.Cluster.BroadcastRate),
			)
		}
	case config.RoleSlave:
		if e.slave == nil {
			e.slave = cluster.NewSlave("ws://"+s.Cluster.Address+cluster.Path,
				cluster.WithSlaveLogger(e.logger),
				cluster.WithSlaveBus(e.bus),
			)
		}
	case config.RoleNone:
	default:
		return fmt.Errorf("%w: unknown cluster role %q", config.ErrInvalid, s.Cluster.Role)
	}
	return nil
}

// wireWindow routes the window input, resize and joystick callbacks.
func (e *engine) wireWindow() {
	if e.window == nil {
		return
	}
	e.window.SetInputHandler(e.mux)
	e.window.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		aspect := float64(width) / float64(height)
		e.manager.Natural().SetAspect(aspect)
		e.manager.Spacecraft().SetAspect(aspect)
	})
	e.window.SetJoystickCallback(func(id int, connected bool, name string) {
		t := event.ControllerDisconnected
		if connected {
			t = event.ControllerConnected
		}
		e.bus.Publish(t, e, event.Controller{ID: id, Name: name})
	})
	if h := e.window.Height(); h > 0 {
		aspect := e.window.Aspect()
		e.manager.Natural().SetAspect(aspect)
		e.manager.Spacecraft().SetAspect(aspect)
	}
}

func (e *engine) Bus() event.Bus                    { return e.bus }
func (e *engine) Manager() camera.Manager           { return e.manager }
func (e *engine) Scene() scene.Scene                { return e.scene }
func (e *engine) Spacecraft() spacecraft.Spacecraft { return e.craft }
func (e *engine) Window() window.Window             { return e.window }
func (e *engine) Input() input.Handler              { return e.mux }
func (e *engine) Metrics() metrics.Collector        { return e.metrics }

func (e *engine) Mode() mode.Mode {
	if e.manager == nil {
		return mode.Free
	}
	return e.manager.Mode()
}

func (e *engine) Settings() config.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

func (e *engine) SetSettings(s config.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	prev := e.settings.Scene.DistanceScaleFactor
	e.settings = s
	e.mu.Unlock()
	if s.Scene.DistanceScaleFactor != prev {
		e.bus.Publish(event.NewDistanceScaleFactor, e, event.Amount{Value: s.Scene.DistanceScaleFactor})
	}
	return nil
}

func (e *engine) Perspective() (camera.Perspective, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.perspective, e.hasPerspective
}

func (e *engine) Step(dt float64) {
	start := time.Now()
	s := e.Settings()

	e.clock.Update(dt)
	e.keyboard.SetSettings(s)
	e.game.SetSettings(s)
	e.gamepad.SetSettings(s)
	e.craftInput.Poll(dt)

	e.scene.Update(e.clock.Time())
	e.scene.Visit(e.manager.Current())
	e.manager.SwapBuffers()
	e.manager.Update(dt, e.clock, s)

	cam := e.manager.Current()
	p := cam.Perspective()
	e.mu.Lock()
	e.perspective, e.hasPerspective = p, true
	tick, profiling := e.tickCallback, e.profilingEnabled
	e.mu.Unlock()

	e.broadcast(cam)

	work := time.Since(start)
	e.metrics.ObserveUpdate(work)
	if profiling {
		e.profiler.Tick(work)
	}
	if tick != nil {
		tick(dt)
	}
}

// broadcast sends the pose of cam to the cluster slaves when this engine is a master.
func (e *engine) broadcast(cam camera.Camera) {
	if e.master == nil {
		return
	}
	st := cluster.State{
		Time: e.clock.Time(),
		Pos:  cam.Position(),
		Dir:  cam.Direction(),
		Up:   cam.Up(),
		Fov:  cam.Fov(),
	}
	_, err := e.master.Broadcast(st)
	switch {
	case errors.Is(err, cluster.ErrInvalidState):
		e.metrics.RejectPose("broadcast")
		e.logger.Warn("camera pose not broadcast", "error", err)
	case err != nil && !errors.Is(err, cluster.ErrClosed):
		e.logger.Warn("broadcast failed", "error", err)
	}
}

func (e *engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return ErrRunning
	}
	e.started = true
	e.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, e.Quit)
	defer stop()

	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go func() {
		defer e.wg.Done()
		<-e.quitChannel
		cancel()
	}()
	e.serve(ctx)

	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				_ = e.window.Close()
			default:
			}
		})
		e.window.ProcessMessages()
		e.Quit()
		// Already closed when the quit came from the engine side.
		_ = e.window.Close()
	} else {
		<-e.quitChannel
	}

	e.wg.Wait()
	if e.master != nil {
		_ = e.master.Close()
	}
	if e.uniform != nil {
		e.uniform.Release()
	}
	e.logger.Info("engine stopped")

	e.mu.Lock()
	defer e.mu.Unlock()
	return errors.Join(e.serveErrs...)
}

// serve starts the metrics endpoint and the cluster side configured in the settings.
func (e *engine) serve(ctx context.Context) {
	s := e.Settings()
	if addr := s.Metrics.Address; addr != "" {
		e.goServe("metrics", func() error { return e.metrics.ListenAndServe(ctx, addr) })
	}
	if e.master != nil && s.Cluster.Address != "" {
		e.goServe("cluster master", func() error { return e.master.ListenAndServe(ctx, s.Cluster.Address) })
	}
	if e.slave != nil {
		e.goServe("cluster slave", func() error { return e.slave.Run(ctx) })
	}
}

// goServe runs fn on its own goroutine and records its failure.
func (e *engine) goServe(name string, fn func() error) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := fn(); err != nil {
			e.logger.Error("endpoint stopped", "endpoint", name, "error", err)
			e.mu.Lock()
			e.serveErrs = append(e.serveErrs, fmt.Errorf("%s: %w", name, err))
			e.mu.Unlock()
		}
	}()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick goroutine recovered from panic", "panic", r)
			e.Quit()
		}
	}()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTick).Seconds()
			lastTick = now
			e.Step(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// handleRender hands the latest pose to the render callback as fast as the frame
// limit allows. Recovers from panics to avoid crashing the process and signals
// quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render goroutine recovered from panic", "panic", r)
			e.Quit()
		}
	}()

	lastRender := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}
		now := time.Now()
		dt := now.Sub(lastRender).Seconds()
		lastRender = now

		e.mu.Lock()
		cb, limit := e.renderCallback, e.renderFrameLimit
		p, ok := e.perspective, e.hasPerspective
		upload := e.upload
		e.mu.Unlock()
		if ok && upload != nil {
			upload(camera.NewGPUCameraUniform(p))
		}
		if cb != nil && ok {
			cb(p, dt)
		}

		if limit <= 0 {
			// Uncapped still yields for up to a millisecond so the loop never spins.
			limit = time.Millisecond
		}
		if remaining := limit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	e.engineTickRate = newRate
	running := e.started
	e.mu.Unlock()
	if !running {
		return
	}
	// Replace any pending update so the loop always sees the latest rate.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(dt float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(p camera.Perspective, dt float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) CameraUniform() *wgpu.Buffer {
	return e.uniform
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
