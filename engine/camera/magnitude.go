package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

// ApparentMagnitudePoint applies the distance modulus m = 5·log10(d) − 5 + M.
//
// Parameters:
//   - distPc: distance to the source in parsecs
//   - absMag: absolute magnitude M
//
// Returns:
//   - float64: the apparent magnitude, NaN for non-positive distances
func ApparentMagnitudePoint(distPc, absMag float64) float64 {
	if distPc <= 0 {
		return math.NaN()
	}
	return 5*math.Log10(distPc) - 5 + absMag
}

// ApparentMagnitudeReflective computes m = 5·log10(r·Δ) + H for bodies lit by a star,
// ignoring the phase term.
//
// Parameters:
//   - starDistAU: star to body distance r in AU
//   - viewerDistAU: viewer to body distance Δ in AU
//   - h: absolute magnitude H
//
// Returns:
//   - float64: the apparent magnitude, NaN for non-positive distances
func ApparentMagnitudeReflective(starDistAU, viewerDistAU, h float64) float64 {
	if starDistAU <= 0 || viewerDistAU <= 0 {
		return math.NaN()
	}
	return 5*math.Log10(starDistAU*viewerDistAU) + h
}

// FocusMagnitudeFrom returns the apparent magnitude of f seen from viewer.
// Objects without magnitudes yield NaN.
//
// Parameters:
//   - f: the observed object
//   - viewer: the observer position
//   - u: the unit table
//
// Returns:
//   - float64: the apparent magnitude
func FocusMagnitudeFrom(f focus.Focus, viewer common.Vec3Q, u common.Units) float64 {
	lum, ok := f.(focus.Luminous)
	if !focus.Valid(f) || !ok {
		return math.NaN()
	}
	fpos := f.AbsolutePosition()
	if k := f.Kind(); k == focus.Star || k == focus.Particle {
		return ApparentMagnitudePoint(viewer.Dst(fpos)*u.UToPc, lum.AbsoluteMagnitude())
	}
	return ApparentMagnitudeReflective(starDistance(f, lum, fpos)*u.UToAU, viewer.Dst(fpos)*u.UToAU, lum.AbsoluteMagnitude())
}

// FocusMagnitudeFromBody returns the apparent magnitude of f seen from another body,
// NaN when either is missing or f is a point source.
func FocusMagnitudeFromBody(f, observer focus.Focus, u common.Units) float64 {
	lum, ok := f.(focus.Luminous)
	if !focus.Valid(f) || !focus.Valid(observer) || !ok {
		return math.NaN()
	}
	if k := f.Kind(); k == focus.Star || k == focus.Particle {
		return math.NaN()
	}
	fpos := f.AbsolutePosition()
	return ApparentMagnitudeReflective(starDistance(f, lum, fpos)*u.UToAU, observer.AbsolutePosition().Dst(fpos)*u.UToAU, lum.AbsoluteMagnitude())
}

// starDistance is the distance from the lighting star, or from the origin when
// the object has no star ancestor.
func starDistance(f focus.Focus, lum focus.Luminous, fpos common.Vec3Q) float64 {
	if star := lum.StarAncestor(); focus.Valid(star) {
		return star.AbsolutePosition().Dst(fpos)
	}
	return fpos.Len()
}
