package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestQuadKeepsSmallOffsetOnLargeValue(t *testing.T) {
	// 1e22 + 0.25 is not representable in float64 but must survive in a Quad.
	big := Q(1e22)
	sum := big.AddFloat(0.25)
	back := sum.Sub(big)
	if back.Float64() != 0.25 {
		t.Errorf("expected 0.25 after round trip, got %v", back.Float64())
	}
}

func TestQuadArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"add", Q(1.5).Add(Q(2.25)).Float64(), 3.75},
		{"sub", Q(10).Sub(Q(4)).Float64(), 6},
		{"mul", Q(3).Mul(Q(-2)).Float64(), -6},
		{"mulFloat", Q(1.5).MulFloat(4).Float64(), 6},
		{"divFloat", Q(9).DivFloat(3).Float64(), 3},
		{"sqrt", Q(16).Sqrt().Float64(), 4},
		{"neg", Q(2).Neg().Float64(), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestQuadCmpAndFinite(t *testing.T) {
	if Q(1).Cmp(Q(2)) != -1 || Q(2).Cmp(Q(1)) != 1 || Q(1).Cmp(Q(1)) != 0 {
		t.Error("unexpected Cmp ordering")
	}
	if !Q(1).IsFinite() {
		t.Error("1 should be finite")
	}
	if Q(math.NaN()).IsFinite() || Q(math.Inf(1)).IsFinite() {
		t.Error("NaN and Inf must not be finite")
	}
}

func TestVec3QLenAndDst(t *testing.T) {
	v := V3Q(3, 4, 0)
	if v.Len() != 5 {
		t.Errorf("expected length 5, got %v", v.Len())
	}
	a := V3Q(1e21, 0, 0).AddVec3(mgl64.Vec3{1, 0, 0})
	b := V3Q(1e21, 0, 0)
	if d := a.Dst(b); math.Abs(d-1) > 1e-9 {
		t.Errorf("expected distance 1 at 1e21 offset, got %v", d)
	}
}

func TestVec3QNormalizeAndClamp(t *testing.T) {
	n := V3Q(0, 0, -10).Normalize()
	if !vecNear(n, mgl64.Vec3{0, 0, -1}, 1e-10) {
		t.Errorf("unexpected normalized vector %v", n)
	}
	if z := (Vec3Q{}).Normalize(); z.Len() != 0 {
		t.Errorf("zero vector should normalize to zero, got %v", z)
	}
	c := V3Q(10, 0, 0).ClampLen(2)
	if math.Abs(c.Len()-2) > 1e-12 {
		t.Errorf("expected clamped length 2, got %v", c.Len())
	}
}

func TestVec3QIsFinite(t *testing.T) {
	if !V3Q(1, 2, 3).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if V3Q(1, math.NaN(), 3).IsFinite() {
		t.Error("NaN vector reported finite")
	}
}

func TestVec3QRotate(t *testing.T) {
	q := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	r := V3Q(1, 0, 0).Rotate(q).Vec3()
	if !vecNear(r, mgl64.Vec3{0, 0, -1}, 1e-12) {
		t.Errorf("unexpected rotation result %v", r)
	}
}
