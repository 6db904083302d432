package clock

import (
	"sync"
	"time"
)

// TimeFrame is the read-only view of simulation time handed to per-frame updates.
type TimeFrame interface {
	// Time returns the current simulation time.
	//
	// Returns:
	//   - time.Time: the simulation instant of this frame
	Time() time.Time

	// HDiff returns the simulation time advanced during the last frame, in hours.
	// Zero when time is paused.
	//
	// Returns:
	//   - float64: hours elapsed in simulation time since the previous frame
	HDiff() float64

	// WarpFactor returns the ratio of simulation seconds to real seconds.
	//
	// Returns:
	//   - float64: the time warp factor
	WarpFactor() float64
}

// Clock advances simulation time by real frame deltas scaled by a warp factor.
// Safe for concurrent use.
type Clock struct {
	mu *sync.Mutex

	now    time.Time
	warp   float64
	hdiff  float64
	paused bool
}

var _ TimeFrame = &Clock{}

// NewClock creates a clock starting at the given instant with warp factor 1.
//
// Parameters:
//   - start: the initial simulation time
//
// Returns:
//   - *Clock: the newly created clock
func NewClock(start time.Time) *Clock {
	return &Clock{
		mu:   &sync.Mutex{},
		now:  start,
		warp: 1,
	}
}

// Update advances simulation time by dt real seconds times the warp factor.
// A paused clock records an hour delta of zero.
//
// Parameters:
//   - dt: real seconds since the previous frame
func (c *Clock) Update(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || dt <= 0 {
		c.hdiff = 0
		return
	}
	simSeconds := dt * c.warp
	c.now = c.now.Add(time.Duration(simSeconds * float64(time.Second)))
	c.hdiff = simSeconds / 3600
}

// SetWarpFactor sets the simulation/real time ratio. Negative values run time backwards.
func (c *Clock) SetWarpFactor(w float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warp = w
}

// SetPaused pauses or resumes the clock.
func (c *Clock) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
}

// SetTime jumps to the given instant. The next frame reports no hour delta.
func (c *Clock) SetTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
	c.hdiff = 0
}

func (c *Clock) Time() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) HDiff() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hdiff
}

func (c *Clock) WarpFactor() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warp
}

// Fixed is an immutable TimeFrame, used by tests and by cluster slaves that
// receive their time from the master.
type Fixed struct {
	At     time.Time
	Hours  float64
	Factor float64
}

func (f Fixed) Time() time.Time    { return f.At }
func (f Fixed) HDiff() float64      { return f.Hours }
func (f Fixed) WarpFactor() float64 { return f.Factor }
