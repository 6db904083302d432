package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Flint linearly maps x from [x0, x1] to [y0, y1], clamping outside the input range.
//
// Parameters:
//   - x: the input value
//   - x0, x1: the input range (x0 < x1)
//   - y0, y1: the output range
//
// Returns:
//   - float64: the interpolated value
func Flint(x, x0, x1, y0, y1 float64) float64 {
	if x < x0 {
		return y0
	}
	if x > x1 {
		return y1
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SphericalToCartesian converts (longitude, latitude, radius) to cartesian
// coordinates in the internal frame, where the Z axis points to longitude 0 and
// Y is the north pole. Angles are in radians.
//
// Parameters:
//   - lon: longitude (right ascension) in radians
//   - lat: latitude (declination) in radians
//   - r: radius
//
// Returns:
//   - mgl64.Vec3: the cartesian vector
func SphericalToCartesian(lon, lat, r float64) mgl64.Vec3 {
	cosLat := math.Cos(lat)
	return mgl64.Vec3{
		r * cosLat * math.Sin(lon),
		r * math.Sin(lat),
		r * cosLat * math.Cos(lon),
	}
}

// RotateAround rotates v around axis by angle (degrees). A degenerate axis or a
// non-finite angle leaves v unchanged.
//
// Parameters:
//   - v: the vector to rotate
//   - axis: rotation axis (need not be unit length)
//   - deg: angle in degrees
//
// Returns:
//   - mgl64.Vec3: the rotated vector
func RotateAround(v, axis mgl64.Vec3, deg float64) mgl64.Vec3 {
	l := axis.Len()
	if l == 0 || !IsFiniteVec3(axis) || math.IsNaN(deg) || math.IsInf(deg, 0) {
		return v
	}
	return mgl64.QuatRotate(mgl64.DegToRad(deg), axis.Mul(1/l)).Rotate(v)
}

// Orthonormalize returns dir and up as unit vectors with up made perpendicular to dir.
// When up is parallel to dir a perpendicular fallback axis is chosen.
//
// Parameters:
//   - dir: the view direction
//   - up: the approximate up vector
//
// Returns:
//   - mgl64.Vec3: the normalized direction
//   - mgl64.Vec3: the corrected up vector
func Orthonormalize(dir, up mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	if dir.Len() == 0 {
		dir = mgl64.Vec3{0, 0, 1}
	}
	dir = dir.Normalize()
	right := dir.Cross(up)
	if right.Len() < 1e-12 {
		alt := mgl64.Vec3{0, 1, 0}
		if math.Abs(dir.Dot(alt)) > 0.9 {
			alt = mgl64.Vec3{1, 0, 0}
		}
		right = dir.Cross(alt)
	}
	right = right.Normalize()
	return dir, right.Cross(dir).Normalize()
}

// Angle returns the angle between a and b in radians.
func Angle(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	return math.Acos(Clamp(a.Dot(b)/(la*lb), -1, 1))
}
