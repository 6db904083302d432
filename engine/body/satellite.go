package body

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	satellite "github.com/joshuaferrara/go-satellite"
)

// ErrInvalidTLE reports a two-line element set that cannot be propagated.
var ErrInvalidTLE = errors.New("invalid TLE")

const tleLineLength = 69

// SGP4 is a trajectory for an Earth satellite propagated from a two-line element
// set. Positions are relative to the Earth centre; the TEME frame is treated as
// the internal equatorial frame.
type SGP4 struct {
	sat   satellite.Satellite
	units common.Units
}

var _ Trajectory = &SGP4{}

// NewSGP4 parses a TLE and initialises the propagator.
//
// Parameters:
//   - line1: the first TLE line
//   - line2: the second TLE line
//   - u: the unit table used to convert kilometres
//
// Returns:
//   - *SGP4: the trajectory
//   - error: ErrInvalidTLE, wrapped, if the lines are malformed or SGP4 fails to initialise
func NewSGP4(line1, line2 string, u common.Units) (*SGP4, error) {
	line1, line2 = strings.TrimSpace(line1), strings.TrimSpace(line2)
	// go-satellite exits the process on malformed lines, so check the layout first.
	if len(line1) != tleLineLength || len(line2) != tleLineLength {
		return nil, fmt.Errorf("%w: line lengths %d and %d, want %d", ErrInvalidTLE, len(line1), len(line2), tleLineLength)
	}
	if line1[0] != '1' || line2[0] != '2' {
		return nil, fmt.Errorf("%w: lines must start with 1 and 2", ErrInvalidTLE)
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("%w: sgp4 init code %d: %s", ErrInvalidTLE, sat.Error, sat.ErrorStr)
	}
	return &SGP4{sat: sat, units: u}, nil
}

// Position propagates to t. Failed propagations return the origin.
func (s *SGP4) Position(t time.Time) common.Vec3Q {
	t = t.UTC()
	pos, _ := satellite.Propagate(s.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return common.Vec3Q{}
	}
	k := s.units.KmToU
	return common.FromVec3(toInternal(pos.X*k, pos.Y*k, pos.Z*k))
}
