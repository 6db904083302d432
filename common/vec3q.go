package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3Q is a world-space position vector with Quad components.
// All camera and body positions are accumulated in this type; only camera-relative
// offsets are narrowed to float64/float32 for rendering.
type Vec3Q struct {
	X, Y, Z Quad
}

// V3Q builds a Vec3Q from three float64 components.
func V3Q(x, y, z float64) Vec3Q {
	return Vec3Q{X: Q(x), Y: Q(y), Z: Q(z)}
}

// FromVec3 widens a float64 vector into a Vec3Q.
func FromVec3(v mgl64.Vec3) Vec3Q {
	return V3Q(v[0], v[1], v[2])
}

// Add returns v + o.
func (v Vec3Q) Add(o Vec3Q) Vec3Q {
	return Vec3Q{X: v.X.Add(o.X), Y: v.Y.Add(o.Y), Z: v.Z.Add(o.Z)}
}

// AddVec3 returns v + o where o is a float64 offset.
func (v Vec3Q) AddVec3(o mgl64.Vec3) Vec3Q {
	return Vec3Q{X: v.X.AddFloat(o[0]), Y: v.Y.AddFloat(o[1]), Z: v.Z.AddFloat(o[2])}
}

// Sub returns v - o.
func (v Vec3Q) Sub(o Vec3Q) Vec3Q {
	return Vec3Q{X: v.X.Sub(o.X), Y: v.Y.Sub(o.Y), Z: v.Z.Sub(o.Z)}
}

// Scale returns v * s.
func (v Vec3Q) Scale(s float64) Vec3Q {
	return Vec3Q{X: v.X.MulFloat(s), Y: v.Y.MulFloat(s), Z: v.Z.MulFloat(s)}
}

// Neg returns -v.
func (v Vec3Q) Neg() Vec3Q {
	return Vec3Q{X: v.X.Neg(), Y: v.Y.Neg(), Z: v.Z.Neg()}
}

// Len2Q returns the squared length in extended precision.
func (v Vec3Q) Len2Q() Quad {
	return v.X.Mul(v.X).Add(v.Y.Mul(v.Y)).Add(v.Z.Mul(v.Z))
}

// Len returns the length rounded to float64.
func (v Vec3Q) Len() float64 {
	return v.Len2Q().Sqrt().Float64()
}

// Dst returns the distance between v and o.
func (v Vec3Q) Dst(o Vec3Q) float64 {
	return v.Sub(o).Len()
}

// Vec3 rounds v to a float64 vector. Use only for values already small enough
// (camera-relative offsets, directions) or where precision loss is acceptable.
func (v Vec3Q) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X.Float64(), v.Y.Float64(), v.Z.Float64()}
}

// Normalize returns the unit direction of v as a float64 vector.
// The zero vector yields the zero vector.
func (v Vec3Q) Normalize() mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) {
		return mgl64.Vec3{}
	}
	// Divide in extended precision before narrowing so large vectors keep their direction.
	return mgl64.Vec3{v.X.DivFloat(l).Float64(), v.Y.DivFloat(l).Float64(), v.Z.DivFloat(l).Float64()}
}

// ClampLen returns v with its length clamped to max.
func (v Vec3Q) ClampLen(max float64) Vec3Q {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// IsZero reports whether all components are exactly zero.
func (v Vec3Q) IsZero() bool {
	return v.X.Hi == 0 && v.Y.Hi == 0 && v.Z.Hi == 0 && v.X.Lo == 0 && v.Y.Lo == 0 && v.Z.Lo == 0
}

// IsFinite reports whether every component is finite.
func (v Vec3Q) IsFinite() bool {
	return v.X.IsFinite() && v.Y.IsFinite() && v.Z.IsFinite()
}

// Rotate returns v rotated by q about the origin.
// High and low parts are rotated separately in float64. Intended for offsets
// relative to a rotation centre, not for absolute positions.
func (v Vec3Q) Rotate(q mgl64.Quat) Vec3Q {
	hi := q.Rotate(mgl64.Vec3{v.X.Hi, v.Y.Hi, v.Z.Hi})
	lo := q.Rotate(mgl64.Vec3{v.X.Lo, v.Y.Lo, v.Z.Lo})
	return Vec3Q{X: Q(hi[0]).AddFloat(lo[0]), Y: Q(hi[1]).AddFloat(lo[1]), Z: Q(hi[2]).AddFloat(lo[2])}
}

// IsFiniteVec3 reports whether every component of a float64 vector is finite.
func IsFiniteVec3(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
