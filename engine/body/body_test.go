package body

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	issLine1 = "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09"
)

func TestOrbitPositions(t *testing.T) {
	u := common.NewUnits(1)
	a := 1e6
	tests := []struct {
		name    string
		el      OrbitElements
		at      time.Duration
		wantLen float64
		want    mgl64.Vec3
	}{
		{
			name:    "circular at epoch",
			el:      OrbitElements{SemiMajorAxisKm: a, PeriodDays: 10, Epoch: epoch},
			wantLen: a,
			want:    mgl64.Vec3{0, 0, a * u.KmToU},
		},
		{
			name:    "circular quarter period",
			el:      OrbitElements{SemiMajorAxisKm: a, PeriodDays: 10, Epoch: epoch},
			at:      60 * time.Hour,
			wantLen: a,
			want:    mgl64.Vec3{a * u.KmToU, 0, 0},
		},
		{
			name:    "circular half period",
			el:      OrbitElements{SemiMajorAxisKm: a, PeriodDays: 10, Epoch: epoch},
			at:      120 * time.Hour,
			wantLen: a,
			want:    mgl64.Vec3{0, 0, -a * u.KmToU},
		},
		{
			name:    "periapsis",
			el:      OrbitElements{SemiMajorAxisKm: a, Eccentricity: 0.5, PeriodDays: 10, Epoch: epoch},
			wantLen: a * 0.5,
		},
		{
			name:    "apoapsis",
			el:      OrbitElements{SemiMajorAxisKm: a, Eccentricity: 0.5, MeanAnomaly: 180, PeriodDays: 10, Epoch: epoch},
			wantLen: a * 1.5,
		},
		{
			name:    "ecliptic frame keeps distance",
			el:      OrbitElements{SemiMajorAxisKm: a, Inclination: 7, AscendingNode: 48, MeanAnomaly: 33, PeriodDays: 10, Epoch: epoch, Frame: "eclipticToEquatorial"},
			wantLen: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewOrbit(tt.el, u).Position(epoch.Add(tt.at)).Vec3()
			if tt.wantLen > 0 && math.Abs(p.Len()*u.UToKm-tt.wantLen) > 1e-6*tt.wantLen {
				t.Errorf("|p| = %v km, want %v", p.Len()*u.UToKm, tt.wantLen)
			}
			if tt.want != (mgl64.Vec3{}) && !vecNear(p, tt.want, 1e-9*a*u.KmToU) {
				t.Errorf("p = %v, want %v", p, tt.want)
			}
			if tt.wantLen < 0 {
				if r := p.Len() * u.UToKm; r < a*0.999 || r > a*1.001 {
					t.Errorf("|p| = %v km, want about %v", r, a)
				}
			}
		})
	}
}

func TestInclinedOrbitLeavesPlane(t *testing.T) {
	u := common.NewUnits(1)
	o := NewOrbit(OrbitElements{SemiMajorAxisKm: 1e4, Inclination: 90, MeanAnomaly: 90, PeriodDays: 1, Epoch: epoch}, u)
	p := o.Position(epoch).Vec3()
	// A polar orbit a quarter past the node sits over the pole, on the internal up axis.
	if math.Abs(p.Y()-1e4*u.KmToU) > 1e-9 {
		t.Errorf("p = %v, want on +Y", p)
	}
}

func TestBodyHierarchy(t *testing.T) {
	u := common.NewUnits(1)
	sun := NewBody("Sun", WithKind(focus.Star), WithRadius(696000*u.KmToU), WithAbsoluteMagnitude(4.83))
	earth := NewBody("Earth",
		WithKind(focus.Planet),
		WithParent(sun),
		WithRadius(6371*u.KmToU),
		WithTrajectory(Fixed{Pos: common.V3Q(0, 0, u.AUToU)}),
	)
	moon := NewBody("Moon",
		WithKind(focus.Moon),
		WithParent(earth),
		WithTrajectory(Fixed{Pos: common.V3Q(384400*u.KmToU, 0, 0)}),
	)

	if sun.StarAncestor() != nil {
		t.Error("a star has no star ancestor")
	}
	if got := moon.StarAncestor(); got == nil || got.Name() != "Sun" {
		t.Errorf("moon star ancestor = %v, want Sun", got)
	}

	moon.Update(epoch)
	want := common.V3Q(384400*u.KmToU, 0, u.AUToU)
	if got := moon.AbsolutePosition(); got.Dst(want) > 1e-12 {
		t.Errorf("moon at %v, want %v", got, want)
	}
	if got := moon.PredictedPosition(epoch.Add(time.Hour)); got.Dst(want) > 1e-12 {
		t.Errorf("static hierarchy moved: %v", got)
	}
	if !math.IsNaN(moon.AbsoluteMagnitude()) {
		t.Error("magnitude should default to NaN")
	}
	if earth.Size() != 2*earth.Radius() {
		t.Error("size is the diameter")
	}
}

func TestBodyRemove(t *testing.T) {
	b := NewBody("Halley")
	if !focus.Valid(b) {
		t.Fatal("new body should be valid")
	}
	b.Remove()
	if focus.Valid(b) {
		t.Error("removed body should be empty")
	}
}

func TestSpinOrientation(t *testing.T) {
	s := Spin{PeriodHours: 24, Epoch: epoch}
	b := NewBody("Earth", WithSpin(s))
	if _, ok := NewBody("rock").Orientation(); ok {
		t.Error("body without spin reports an orientation")
	}

	b.Update(epoch.Add(6 * time.Hour))
	q, ok := b.Orientation()
	if !ok {
		t.Fatal("no orientation")
	}
	got := q.Rotate(mgl64.Vec3{0, 0, 1})
	if !vecNear(got, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("quarter turn moved +z to %v, want +x", got)
	}

	tilted := Spin{Tilt: 90, Epoch: epoch}.At(epoch)
	if pole := tilted.Rotate(mgl64.Vec3{0, 1, 0}); !vecNear(pole, mgl64.Vec3{-1, 0, 0}, 1e-12) {
		t.Errorf("tilted pole = %v", pole)
	}
}

func TestSGP4(t *testing.T) {
	u := common.NewUnits(1)
	sgp, err := NewSGP4(issLine1, issLine2, u)
	if err != nil {
		t.Fatal(err)
	}
	earth := NewBody("Earth", WithKind(focus.Planet), WithTrajectory(Fixed{Pos: common.V3Q(0, 0, u.AUToU)}))
	iss := NewBody("ISS", WithKind(focus.Satellite), WithParent(earth), WithTrajectory(sgp))

	at := time.Date(2024, 4, 9, 13, 0, 0, 0, time.UTC)
	iss.Update(at)
	r := iss.AbsolutePosition().Dst(earth.PredictedPosition(at)) * u.UToKm
	if r < 6500 || r > 7000 {
		t.Errorf("orbit radius = %.1f km, want about 6791", r)
	}
}

func TestSGP4RejectsMalformed(t *testing.T) {
	tests := []struct {
		name         string
		line1, line2 string
	}{
		{"short", "1 25544U", issLine2},
		{"swapped", issLine2, issLine1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSGP4(tt.line1, tt.line2, common.NewUnits(1)); !errors.Is(err, ErrInvalidTLE) {
				t.Errorf("err = %v, want ErrInvalidTLE", err)
			}
		})
	}
}

// vecNear reports whether a and b are within tol of each other.
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
