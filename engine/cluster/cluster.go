// Package cluster keeps the cameras of several displays in step. A master
// broadcasts its camera pose over WebSocket and every slave applies it as a
// projection command, rotated by its own display offsets.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/time/rate"
)

// Path is the HTTP path the master serves the WebSocket endpoint on.
const Path = "/camera"

var (
	// ErrClosed is returned by a master after Close.
	ErrClosed = errors.New("cluster: closed")
	// ErrInvalidState is returned for poses that are not finite or have a bad field of view.
	ErrInvalidState = errors.New("cluster: invalid state")
)

// State is the camera pose sent from master to slaves.
type State struct {
	Time time.Time    `json:"time"`
	Pos  common.Vec3Q `json:"pos"`
	Dir  mgl64.Vec3   `json:"dir"`
	Up   mgl64.Vec3   `json:"up"`
	Fov  float64      `json:"fov"`
}

// Validate reports whether the state can be applied by a camera.
func (s State) Validate() error {
	switch {
	case !s.Pos.IsFinite():
		return fmt.Errorf("%w: position is not finite", ErrInvalidState)
	case !common.IsFiniteVec3(s.Dir) || s.Dir.Len() == 0:
		return fmt.Errorf("%w: bad direction", ErrInvalidState)
	case !common.IsFiniteVec3(s.Up) || s.Up.Len() == 0:
		return fmt.Errorf("%w: bad up vector", ErrInvalidState)
	case math.IsNaN(s.Fov) || s.Fov <= 0 || s.Fov >= 180:
		return fmt.Errorf("%w: field of view %g", ErrInvalidState, s.Fov)
	}
	return nil
}

// newLimiter returns a limiter allowing perSecond events, unlimited when perSecond <= 0.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(math.Max(1, perSecond/10))
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
