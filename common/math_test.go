package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFlint(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{-1, 10},
		{0, 10},
		{5, 15},
		{10, 20},
		{11, 20},
	}
	for _, tt := range tests {
		if got := Flint(tt.x, 0, 10, 10, 20); got != tt.want {
			t.Errorf("Flint(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestOrthonormalize(t *testing.T) {
	tests := []struct {
		name    string
		dir, up mgl64.Vec3
	}{
		{"skewed", mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 1, 0}},
		{"parallel", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 2, 0}},
		{"zero dir", mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, u := Orthonormalize(tt.dir, tt.up)
			if math.Abs(d.Len()-1) > 1e-12 || math.Abs(u.Len()-1) > 1e-12 {
				t.Errorf("expected unit vectors, got |d|=%v |u|=%v", d.Len(), u.Len())
			}
			if math.Abs(d.Dot(u)) > 1e-12 {
				t.Errorf("expected perpendicular vectors, dot=%v", d.Dot(u))
			}
		})
	}
}

func TestRotateAroundIgnoresDegenerateInput(t *testing.T) {
	v := mgl64.Vec3{1, 0, 0}
	if got := RotateAround(v, mgl64.Vec3{}, 90); got != v {
		t.Errorf("zero axis should leave vector unchanged, got %v", got)
	}
	if got := RotateAround(v, mgl64.Vec3{0, 1, 0}, math.NaN()); got != v {
		t.Errorf("NaN angle should leave vector unchanged, got %v", got)
	}
	got := RotateAround(v, mgl64.Vec3{0, 0, 1}, 90)
	if !vecNear(got, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("unexpected rotation %v", got)
	}
}

func TestSphericalToCartesian(t *testing.T) {
	got := SphericalToCartesian(0, 0, 2)
	if !vecNear(got, mgl64.Vec3{0, 0, 2}, 1e-10) {
		t.Errorf("lon=0 lat=0 should point along +Z, got %v", got)
	}
	got = SphericalToCartesian(0, math.Pi/2, 1)
	if !vecNear(got, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("lat=90 should point along +Y, got %v", got)
	}
}

func TestNewUnits(t *testing.T) {
	u := NewUnits(1)
	if u.MToU != 1e-9 {
		t.Errorf("expected base MToU 1e-9, got %v", u.MToU)
	}
	if math.Abs(u.PcToU*u.UToPc-1) > 1e-12 {
		t.Errorf("PcToU and UToPc are not reciprocal")
	}
	scaled := NewUnits(1e3)
	if math.Abs(scaled.KmToU/u.KmToU-1e3) > 1e-6 {
		t.Errorf("scale factor not applied: %v vs %v", scaled.KmToU, u.KmToU)
	}
	if NewUnits(-5).DistanceScaleFactor != 1 {
		t.Error("non-positive scale factor should fall back to 1")
	}
}

func TestFrustumContainsSphere(t *testing.T) {
	proj := mgl64.Perspective(mgl64.DegToRad(60), 1, 0.1, 100)
	view := mgl64.LookAtV(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0})
	f := ExtractFrustumFromMatrix(proj.Mul4(view))

	if !f.ContainsSphere(mgl64.Vec3{0, 0, -10}, 1) {
		t.Error("sphere in front of camera should be inside")
	}
	if f.ContainsSphere(mgl64.Vec3{0, 0, 10}, 1) {
		t.Error("sphere behind camera should be outside")
	}
}

// vecNear reports whether a and b are within tol of each other.
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
