package camera

import (
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/common"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/Carmen-Shannon/oxy-nav/engine/clock"
	"github.com/Carmen-Shannon/oxy-nav/engine/config"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
	"github.com/go-gl/mathgl/mgl64"
)

const frameDt = 1.0 / 60.0

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubBody is a sphere moving linearly in simulation time. pos is the position at
// epoch; now is the time of the last scene update.
type stubBody struct {
	name   string
	kind   focus.Kind
	tags   focus.Tag
	pos    common.Vec3Q
	now    time.Time
	vel    mgl64.Vec3
	radius float64
	absMag float64
	empty  bool

	spin    bool
	spinRad float64
}

func (b *stubBody) Name() string                     { return b.name }
func (b *stubBody) Kind() focus.Kind                 { return b.kind }
func (b *stubBody) Tags() focus.Tag                  { return b.tags }
func (b *stubBody) Radius() float64                  { return b.radius }
func (b *stubBody) Size() float64                    { return 2 * b.radius }
func (b *stubBody) ElevationAt(common.Vec3Q) float64 { return b.radius }
func (b *stubBody) HeightScale() float64             { return 0 }
func (b *stubBody) IsEmpty() bool                    { return b.empty }

func (b *stubBody) AbsolutePosition() common.Vec3Q {
	if b.now.IsZero() {
		return b.pos
	}
	return b.PredictedPosition(b.now)
}

func (b *stubBody) PredictedPosition(t time.Time) common.Vec3Q {
	return b.pos.AddVec3(b.vel.Mul(t.Sub(epoch).Seconds()))
}

func (b *stubBody) Orientation() (mgl64.Quat, bool) {
	if !b.spin {
		return mgl64.QuatIdent(), false
	}
	return mgl64.QuatRotate(b.spinRad, mgl64.Vec3{0, 1, 0}), true
}

func (b *stubBody) AbsoluteMagnitude() float64 { return b.absMag }
func (b *stubBody) StarAncestor() focus.Focus  { return nil }

// fixedMode is a settable mode provider.
type fixedMode struct {
	m mode.Mode
}

func (f *fixedMode) Mode() mode.Mode { return f.m }

// eventLog records every event of the subscribed types.
type eventLog struct {
	mu    *sync.Mutex
	types []event.Type
	got   []event.Event
}

func newEventLog(types ...event.Type) *eventLog {
	return &eventLog{mu: &sync.Mutex{}, types: types}
}

func (l *eventLog) HandleEvent(e event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, e)
}

func (l *eventLog) EventTypes() []event.Type { return l.types }

func (l *eventLog) count(t event.Type) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.got {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (l *eventLog) last(t event.Type) (event.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.got) - 1; i >= 0; i-- {
		if l.got[i].Type == t {
			return l.got[i], true
		}
	}
	return event.Event{}, false
}

func newTestNatural(t *testing.T, m mode.Mode, opts ...NaturalCameraOption) (*naturalCameraImpl, *fixedMode) {
	t.Helper()
	p := &fixedMode{m: m}
	base := []NaturalCameraOption{
		WithSettings(config.Default()),
		WithLogger(testLogger()),
		WithModeProvider(p),
	}
	c := NewNaturalCamera(append(base, opts...)...).(*naturalCameraImpl)
	return c, p
}

func frameAt(i int) clock.Fixed {
	return clock.Fixed{At: epoch.Add(time.Duration(float64(i) * frameDt * float64(time.Second))), Hours: frameDt / 3600, Factor: 1}
}

func assertOrthonormal(t *testing.T, dir, up mgl64.Vec3) {
	t.Helper()
	const eps = 1e-9
	if math.Abs(dir.Len()-1) > eps {
		t.Errorf("|dir| = %v, want 1", dir.Len())
	}
	if math.Abs(up.Len()-1) > eps {
		t.Errorf("|up| = %v, want 1", up.Len())
	}
	if d := math.Abs(dir.Dot(up)); d > eps {
		t.Errorf("dir . up = %v, want 0", d)
	}
}

// vecNear reports whether a and b are within tol of each other.
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
