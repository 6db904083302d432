package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

// stubVessel is a vessel that stays where it is placed.
type stubVessel struct {
	*stubBody
	dir, up mgl64.Vec3
	resp    float64

	steps  int
	placed bool
}

func newStubVessel(pos common.Vec3Q) *stubVessel {
	return &stubVessel{
		stubBody: &stubBody{name: "shuttle", kind: focus.Spacecraft, pos: pos, radius: 1e-6},
		dir:      mgl64.Vec3{0, 0, 1},
		up:       mgl64.Vec3{0, 1, 0},
		resp:     0.4,
	}
}

func (v *stubVessel) Direction() mgl64.Vec3   { return v.dir }
func (v *stubVessel) Up() mgl64.Vec3          { return v.up }
func (v *stubVessel) Responsiveness() float64 { return v.resp }
func (v *stubVessel) Step(float64, Record)    { v.steps++ }

func (v *stubVessel) Place(pos common.Vec3Q, dir, up mgl64.Vec3) {
	v.pos, v.dir, v.up = pos, dir, up
	v.placed = true
}

func newTestSpacecraft(v Vessel, bus event.Bus) *spacecraftCameraImpl {
	return NewSpacecraftCamera(
		WithSpacecraftLogger(testLogger()),
		WithSpacecraftBus(bus),
		WithSpacecraftModeProvider(&fixedMode{m: mode.Spacecraft}),
		WithVessel(v),
	).(*spacecraftCameraImpl)
}

// framingOffset is the steady-state eye offset from the vessel.
func framingOffset(c *spacecraftCameraImpl, v *stubVessel) mgl64.Vec3 {
	dist := v.Size() * framingSizes / c.FovFactor()
	return v.dir.Mul(-dist).Add(v.up.Mul(dist * framingLift))
}

func TestSpacecraftFirstFrameSnaps(t *testing.T) {
	v := newStubVessel(common.V3Q(1, 2, 3))
	c := newTestSpacecraft(v, nil)

	c.Update(frameDt, frameAt(1), config.Default())

	if v.steps != 1 {
		t.Fatalf("vessel stepped %d times, want 1", v.steps)
	}
	got := c.Position().Sub(v.pos).Vec3()
	want := framingOffset(c, v)
	if !vecNear(got, want, 1e-12) {
		t.Errorf("offset = %v, want %v", got, want)
	}
	if c.Direction().Dot(v.dir) < 0.99 {
		t.Errorf("camera should look along the vessel, dir = %v", c.Direction())
	}
	assertOrthonormal(t, c.Direction(), c.Up())
}

func TestSpacecraftFramingSmoothsTurns(t *testing.T) {
	v := newStubVessel(common.V3Q(0, 0, 0))
	c := newTestSpacecraft(v, nil)
	c.Update(frameDt, frameAt(1), config.Default())

	v.dir = mgl64.Vec3{1, 0, 0}
	want := framingOffset(c, v)

	c.Update(frameDt, frameAt(2), config.Default())
	partial := c.Position().Sub(v.pos).Vec3()
	if vecNear(partial, want, 1e-9*want.Len()) {
		t.Fatal("eye jumped to the new offset in a single frame")
	}

	for i := 3; i < 600; i++ {
		c.Update(frameDt, frameAt(i), config.Default())
	}
	got := c.Position().Sub(v.pos).Vec3()
	if got.Sub(want).Len() > 1e-6*want.Len() {
		t.Errorf("offset = %v, want %v after settling", got, want)
	}
	assertOrthonormal(t, c.Direction(), c.Up())
}

func TestSpacecraftPublishesNearest(t *testing.T) {
	bus := event.NewBus(testLogger())
	log := newEventLog(event.SpacecraftNearestInfo, event.UpdateCamRecorder)
	bus.Subscribe(log)

	v := newStubVessel(common.V3Q(0, 0, 0))
	c := newTestSpacecraft(v, bus)
	moon := &stubBody{name: "Moon", kind: focus.Moon, pos: common.V3Q(0, 0, 10), radius: 2}
	c.CheckClosestBody(moon, 10)
	c.SwapBuffers()

	c.Update(frameDt, frameAt(1), config.Default())

	e, ok := log.last(event.SpacecraftNearestInfo)
	if !ok {
		t.Fatal("no nearest info published")
	}
	info := e.Payload.(event.NearestInfo)
	if info.Name != "Moon" || math.Abs(info.Distance-8) > 1e-12 {
		t.Errorf("nearest = %+v, want Moon at 8", info)
	}
	if log.count(event.UpdateCamRecorder) != 1 {
		t.Errorf("recorder frames = %d, want 1", log.count(event.UpdateCamRecorder))
	}
}

func TestSpacecraftWithoutVesselIsInert(t *testing.T) {
	c := newTestSpacecraft(nil, nil)
	before := c.Position()
	c.Update(frameDt, frameAt(1), config.Default())
	if c.Position() != before {
		t.Error("camera moved without a vessel")
	}
	if c.Focus() != nil {
		t.Error("focus without a vessel")
	}
}

func TestSpacecraftPlacedOnModeEntry(t *testing.T) {
	v := newStubVessel(common.V3Q(0, 0, 0))
	c := newTestSpacecraft(v, nil)
	natural, _ := newTestNatural(t, mode.Free)
	if err := natural.SetPosition(common.V3Q(5, 6, 7)); err != nil {
		t.Fatal(err)
	}

	c.UpdateMode(natural, mode.Free, mode.Spacecraft, false)

	if !v.placed || v.pos != common.V3Q(5, 6, 7) {
		t.Errorf("vessel placed = %v at %v", v.placed, v.pos)
	}
	if !vecNear(v.dir, natural.Direction(), 1e-10) {
		t.Errorf("vessel dir = %v, want %v", v.dir, natural.Direction())
	}

	v.placed = false
	c.UpdateMode(natural, mode.Spacecraft, mode.Spacecraft, false)
	if v.placed {
		t.Error("vessel re-placed without a mode change")
	}
}

func TestSpacecraftLoadedEvent(t *testing.T) {
	c := newTestSpacecraft(nil, nil)
	v := newStubVessel(common.V3Q(0, 0, 0))

	c.HandleEvent(event.Event{Type: event.SpacecraftLoaded, Payload: event.Spacecraft{Entity: &stubBody{name: "rock"}}})
	if c.Vessel() != nil {
		t.Fatal("non-vessel entity attached")
	}
	c.HandleEvent(event.Event{Type: event.SpacecraftLoaded, Payload: event.Spacecraft{Entity: v}})
	if c.Vessel() != Vessel(v) {
		t.Fatal("vessel not attached")
	}
	if c.Focus() != focus.Focus(v) {
		t.Error("spacecraft camera should focus its vessel")
	}
}

func TestRelativisticCameraIsInert(t *testing.T) {
	c := NewRelativisticCamera(config.Default())
	pos, dir := c.Position(), c.Direction()
	c.Update(frameDt, frameAt(1), config.Default())
	c.UpdateMode(nil, mode.Free, mode.Focus, true)
	if c.Position() != pos || c.Direction() != dir {
		t.Error("relativistic camera moved")
	}
	if c.Focus() != nil {
		t.Error("relativistic camera has a focus")
	}
}
