// Package spacecraft provides the reference vessel followed by the spacecraft
// camera: a rigid body with an engine, attitude thrusters and a selectable machine.
package spacecraft

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	thrustLevels = 14
	// Attitude thruster force bounds in degree-kilograms per second squared.
	minAttitudeForce = 0.5e6
	maxAttitudeForce = 0.5e7
	// attitudeFriction scales the machine drag for angular motion.
	attitudeFriction = 2e7
	// stableRate is the angular speed in deg/s under which stabilisation ends.
	stableRate           = 1e-3
	defaultFullPowerTime = 0.5
)

// ThrustFactors are the selectable engine multipliers, 0.01·10^i.
var ThrustFactors = func() [thrustLevels]float64 {
	var f [thrustLevels]float64
	for i := range f {
		f[i] = 0.01 * math.Pow(10, float64(i))
	}
	return f
}()

// Spacecraft is the controllable vessel.
type Spacecraft interface {
	camera.Vessel
	event.Handler

	// Machine returns the active machine definition.
	Machine() config.Machine

	// SetMachine switches to machine i of the configured list.
	//
	// Parameters:
	//   - i: the machine index
	//
	// Returns:
	//   - error: non-nil if i is out of range
	SetMachine(i int) error

	// SetEnginePower sets the engine power, clamped to [-1, 1].
	SetEnginePower(p float64)

	// EnginePower returns the engine power.
	EnginePower() float64

	// SetAttitudePower sets the yaw, pitch and roll thruster powers, each clamped to [-1, 1].
	SetAttitudePower(yaw, pitch, roll float64)

	// ApplyInput ramps the powers from held controls. Each argument is -1, 0 or 1.
	//
	// Parameters:
	//   - dt: real seconds since the previous frame
	//   - throttle, yaw, pitch, roll: the held control directions
	ApplyInput(dt, throttle, yaw, pitch, roll float64)

	// ThrustFactorIndex returns the selected entry of ThrustFactors.
	ThrustFactorIndex() int

	// SetThrustFactorIndex selects an entry of ThrustFactors.
	//
	// Returns:
	//   - error: non-nil if i is out of range
	SetThrustFactorIndex(i int) error

	// IncreaseThrust selects the next thrust factor, wrapping around.
	IncreaseThrust()

	// DecreaseThrust selects the previous thrust factor, wrapping around.
	DecreaseThrust()

	// Velocity returns the linear velocity in m/s.
	Velocity() mgl64.Vec3

	// SetStabilising damps the angular motion until it stops.
	SetStabilising(on bool)

	// SetStopping brakes the linear motion until it stops.
	SetStopping(on bool)

	// StopAllMovement zeroes every power and clears stabilising and stopping.
	StopAllMovement()
}

type spacecraftImpl struct {
	mu     *sync.Mutex
	logger *slog.Logger
	bus    event.Bus

	name     string
	machines []config.Machine
	machine  int
	units    common.Units
	provider Provider

	state State
	up    mgl64.Vec3

	thrustIndex int
	// yawp, pitchp and rollp are the thruster powers in [-1, 1].
	yawp, pitchp, rollp float64
	// yawv, pitchv and rollv are the angular velocities in deg/s.
	yawv, pitchv, rollv float64
	roll                float64

	stabilising bool
	active      bool
	removed     bool
}

var _ Spacecraft = &spacecraftImpl{}

// New creates a spacecraft using the first configured machine.
//
// Parameters:
//   - options: functional options to configure the spacecraft
//
// Returns:
//   - Spacecraft: the new spacecraft
func New(options ...SpacecraftOption) Spacecraft {
	u := common.NewUnits(1)
	sc := &spacecraftImpl{
		mu:       &sync.Mutex{},
		logger:   slog.Default(),
		name:     "spacecraft",
		machines: config.Default().Spacecraft.Machines,
		units:    u,
		provider: Newtonian{StopAtSurface: true},
		state: State{
			Pos: common.V3Q(1e7*u.KmToU, 0, 1e8*u.KmToU),
			Dir: mgl64.Vec3{1, 0, 0},
		},
		up: mgl64.Vec3{0, 1, 0},
	}
	for _, option := range options {
		option(sc)
	}
	if len(sc.machines) == 0 {
		sc.machines = config.Default().Spacecraft.Machines
	}
	sc.applyMachine()
	return sc
}

// applyMachine copies the machine parameters into the state.
// Caller must hold the mutex.
func (sc *spacecraftImpl) applyMachine() {
	m := sc.machines[sc.machine]
	sc.state.Mass = m.Mass
	sc.state.Drag = m.Drag
	sc.updateThrust()
}

// updateThrust recomputes the engine force.
// Caller must hold the mutex.
func (sc *spacecraftImpl) updateThrust() {
	sc.state.Thrust = sc.machines[sc.machine].Power * thrustBase * ThrustFactors[sc.thrustIndex]
}

func (sc *spacecraftImpl) Name() string     { return sc.name }
func (sc *spacecraftImpl) Kind() focus.Kind { return focus.Spacecraft }

// Tags marks the vessel so it never counts as its own closest body.
func (sc *spacecraftImpl) Tags() focus.Tag { return focus.NoClosest }

func (sc *spacecraftImpl) AbsolutePosition() common.Vec3Q {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state.Pos
}

// PredictedPosition returns the current position. The vessel advances in real time
// through Step, not with the simulation clock.
func (sc *spacecraftImpl) PredictedPosition(time.Time) common.Vec3Q {
	return sc.AbsolutePosition()
}

func (sc *spacecraftImpl) Radius() float64 {
	return sc.Size() / 2
}

func (sc *spacecraftImpl) Size() float64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.machines[sc.machine].Size * sc.units.MToU
}

func (sc *spacecraftImpl) ElevationAt(common.Vec3Q) float64 {
	return sc.Radius()
}

func (sc *spacecraftImpl) HeightScale() float64 { return 0 }

func (sc *spacecraftImpl) Orientation() (mgl64.Quat, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return mgl64.QuatLookAtV(mgl64.Vec3{}, sc.state.Dir, sc.up), true
}

func (sc *spacecraftImpl) IsEmpty() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.removed
}

func (sc *spacecraftImpl) Direction() mgl64.Vec3 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state.Dir
}

func (sc *spacecraftImpl) Up() mgl64.Vec3 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.up
}

func (sc *spacecraftImpl) Responsiveness() float64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.machines[sc.machine].Responsiveness
}

func (sc *spacecraftImpl) Step(dt float64, closest camera.Record) {
	sc.mu.Lock()
	if sc.stabilising {
		sc.stabilise()
	}
	sc.stepAttitude(dt)
	landed := sc.provider.Integrate(&sc.state, dt, closest, sc.units)
	if landed {
		sc.state.Power = 0
		sc.logger.Debug("spacecraft stopped on surface", "body", closest.Focus.Name())
	}
	if sc.state.Stopping && sc.state.Vel.Len() == 0 {
		sc.state.Stopping = false
	}
	info, publish := sc.telemetry(), sc.active && sc.bus != nil
	sc.mu.Unlock()

	if publish {
		sc.bus.Publish(event.SpacecraftInfo, sc, info)
	}
}

// stabilise drives the thrusters against the angular velocity.
// Caller must hold the mutex.
func (sc *spacecraftImpl) stabilise() {
	counter := func(v float64) float64 {
		return -math.Copysign(common.Clamp(math.Abs(v), 0, 1), v)
	}
	if sc.yawv != 0 {
		sc.yawp = counter(sc.yawv)
	}
	if sc.pitchv != 0 {
		sc.pitchp = counter(sc.pitchv)
	}
	if sc.rollv != 0 {
		sc.rollp = counter(sc.rollv)
	}
	if math.Abs(sc.yawv) < stableRate && math.Abs(sc.pitchv) < stableRate && math.Abs(sc.rollv) < stableRate {
		sc.yawp, sc.pitchp, sc.rollp = 0, 0, 0
		sc.yawv, sc.pitchv, sc.rollv = 0, 0, 0
		sc.stabilising = false
	}
}

// stepAttitude integrates the thruster powers into the direction and up vectors.
// Caller must hold the mutex.
func (sc *spacecraftImpl) stepAttitude(dt float64) {
	m := sc.machines[sc.machine]
	force := common.Flint(m.Responsiveness, 0, 1, maxAttitudeForce, minAttitudeForce)
	friction := m.Drag * attitudeFriction * dt

	sc.yawv += (sc.yawp*force - sc.yawv*friction) / m.Mass * dt
	sc.pitchv += (sc.pitchp*force - sc.pitchv*friction) / m.Mass * dt
	sc.rollv += (sc.rollp*force - sc.rollv*friction) / m.Mass * dt

	yaw := math.Mod(sc.yawv*dt, 360)
	pitch := math.Mod(sc.pitchv*dt, 360)
	roll := math.Mod(sc.rollv*dt, 360)

	dir, up := sc.state.Dir, sc.up
	dir = common.RotateAround(dir, up, yaw)
	right := dir.Cross(up)
	dir = common.RotateAround(dir, right, pitch)
	up = common.RotateAround(up, right, pitch)
	up = common.RotateAround(up, dir, -roll)
	sc.state.Dir, sc.up = common.Orthonormalize(dir, up)
	sc.roll += roll
}

// telemetry snapshots the state for SpacecraftInfo.
// Caller must hold the mutex.
func (sc *spacecraftImpl) telemetry() event.SpacecraftState {
	d := sc.state.Dir
	return event.SpacecraftState{
		Machine:      sc.machines[sc.machine].Name,
		SpeedMs:      sc.state.Vel.Len(),
		ThrustFactor: ThrustFactors[sc.thrustIndex],
		EnginePower:  sc.state.Power,
		Yaw:          mgl64.RadToDeg(math.Atan2(d.Z(), d.X())),
		Pitch:        mgl64.RadToDeg(math.Asin(common.Clamp(d.Y(), -1, 1))),
		Roll:         math.Mod(sc.roll, 360),
	}
}

func (sc *spacecraftImpl) Place(pos common.Vec3Q, dir, up mgl64.Vec3) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !pos.IsFinite() || !common.IsFiniteVec3(dir) || !common.IsFiniteVec3(up) {
		sc.logger.Warn("ignoring non-finite placement")
		return
	}
	sc.state.Pos = pos
	sc.state.Dir, sc.up = common.Orthonormalize(dir, up)
	sc.state.Vel = mgl64.Vec3{}
	sc.stopAllMovement()
	sc.yawv, sc.pitchv, sc.rollv = 0, 0, 0
}

func (sc *spacecraftImpl) Machine() config.Machine {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.machines[sc.machine]
}

func (sc *spacecraftImpl) SetMachine(i int) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if i < 0 || i >= len(sc.machines) {
		return fmt.Errorf("machine index %d out of range [0, %d)", i, len(sc.machines))
	}
	sc.machine = i
	sc.applyMachine()
	sc.logger.Info("spacecraft machine selected", "machine", sc.machines[i].Name)
	return nil
}

func (sc *spacecraftImpl) SetEnginePower(p float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.state.Power = common.Clamp(p, -1, 1)
}

func (sc *spacecraftImpl) EnginePower() float64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state.Power
}

func (sc *spacecraftImpl) SetAttitudePower(yaw, pitch, roll float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.yawp = common.Clamp(yaw, -1, 1)
	sc.pitchp = common.Clamp(pitch, -1, 1)
	sc.rollp = common.Clamp(roll, -1, 1)
}

func (sc *spacecraftImpl) ApplyInput(dt, throttle, yaw, pitch, roll float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	fpt := sc.machines[sc.machine].FullPowerTime
	if fpt <= 0 {
		fpt = defaultFullPowerTime
	}
	step := dt / fpt
	sc.state.Power = common.Clamp(sc.state.Power+throttle*step, -1, 1)
	sc.yawp = common.Clamp(sc.yawp+yaw*step, -1, 1)
	sc.pitchp = common.Clamp(sc.pitchp+pitch*step, -1, 1)
	sc.rollp = common.Clamp(sc.rollp+roll*step, -1, 1)
}

func (sc *spacecraftImpl) ThrustFactorIndex() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.thrustIndex
}

func (sc *spacecraftImpl) SetThrustFactorIndex(i int) error {
	if i < 0 || i >= thrustLevels {
		return fmt.Errorf("thrust factor index %d out of range [0, %d)", i, thrustLevels)
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.setThrustIndex(i)
	return nil
}

// setThrustIndex selects a thrust factor.
// Caller must hold the mutex.
func (sc *spacecraftImpl) setThrustIndex(i int) {
	sc.thrustIndex = i
	sc.updateThrust()
	sc.logger.Info("thrust factor", "factor", ThrustFactors[i])
}

func (sc *spacecraftImpl) IncreaseThrust() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.setThrustIndex((sc.thrustIndex + 1) % thrustLevels)
}

func (sc *spacecraftImpl) DecreaseThrust() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.setThrustIndex((sc.thrustIndex + thrustLevels - 1) % thrustLevels)
}

func (sc *spacecraftImpl) Velocity() mgl64.Vec3 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state.Vel
}

func (sc *spacecraftImpl) SetStabilising(on bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.stabilising = on
}

func (sc *spacecraftImpl) SetStopping(on bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.state.Stopping = on
}

func (sc *spacecraftImpl) StopAllMovement() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.stopAllMovement()
}

// stopAllMovement zeroes the powers.
// Caller must hold the mutex.
func (sc *spacecraftImpl) stopAllMovement() {
	sc.state.Power = 0
	sc.yawp, sc.pitchp, sc.rollp = 0, 0, 0
	sc.stabilising = false
	sc.state.Stopping = false
}

func (sc *spacecraftImpl) EventTypes() []event.Type {
	return []event.Type{
		event.CameraModeCmd,
		event.SpacecraftStabiliseCmd,
		event.SpacecraftStopCmd,
		event.SpacecraftThrustIncreaseCmd,
		event.SpacecraftThrustDecreaseCmd,
		event.SpacecraftThrustSetCmd,
		event.SpacecraftMachineSelectionCmd,
		event.NewDistanceScaleFactor,
	}
}

func (sc *spacecraftImpl) HandleEvent(e event.Event) {
	switch e.Type {
	case event.CameraModeCmd:
		if p, ok := e.Payload.(event.ModeChange); ok {
			sc.mu.Lock()
			sc.active = p.Mode.IsSpacecraft()
			sc.mu.Unlock()
		}
	case event.SpacecraftStabiliseCmd:
		if p, ok := e.Payload.(event.Toggle); ok {
			sc.SetStabilising(p.On)
		}
	case event.SpacecraftStopCmd:
		if p, ok := e.Payload.(event.Toggle); ok {
			sc.SetStopping(p.On)
		}
	case event.SpacecraftThrustIncreaseCmd:
		sc.IncreaseThrust()
	case event.SpacecraftThrustDecreaseCmd:
		sc.DecreaseThrust()
	case event.SpacecraftThrustSetCmd:
		if p, ok := e.Payload.(event.Amount); ok {
			if err := sc.SetThrustFactorIndex(int(p.Value)); err != nil {
				sc.logger.Warn("thrust factor ignored", "error", err)
			}
		}
	case event.SpacecraftMachineSelectionCmd:
		if p, ok := e.Payload.(event.Amount); ok {
			if err := sc.SetMachine(int(p.Value)); err != nil {
				sc.logger.Warn("machine selection ignored", "error", err)
			}
		}
	case event.NewDistanceScaleFactor:
		if p, ok := e.Payload.(event.Amount); ok && p.Value > 0 {
			sc.mu.Lock()
			sc.units = common.NewUnits(p.Value)
			sc.mu.Unlock()
		}
	}
}
