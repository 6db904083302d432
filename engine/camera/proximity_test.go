package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

func names(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Focus.Name()
	}
	return out
}

func TestProximityOrderAndCapacity(t *testing.T) {
	p := NewProximity(3)
	for _, c := range []struct {
		name string
		dist float64
	}{
		{"far", 50}, {"near", 5}, {"mid", 20}, {"nearest", 1}, {"farthest", 99},
	} {
		p.Update(Record{Focus: &stubBody{name: c.name, kind: focus.Star}, Distance: c.dist})
	}
	if got := p.Records(); len(got) != 0 {
		t.Fatalf("building side leaked before swap: %v", names(got))
	}

	p.Swap()
	got := names(p.Records())
	want := []string{"nearest", "near", "mid"}
	if len(got) != len(want) {
		t.Fatalf("records = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("records = %v, want %v", got, want)
		}
	}
	if r := p.Effective(0); r.Focus.Name() != "nearest" {
		t.Errorf("Effective(0) = %v", r.Focus.Name())
	}
	if r := p.Effective(7); r.Valid() {
		t.Error("out of range index should be empty")
	}
}

func TestProximityReplacesSameObject(t *testing.T) {
	p := NewProximity(4)
	sun := &stubBody{name: "Sun", kind: focus.Star, radius: 1}
	other := &stubBody{name: "Sirius", kind: focus.Star, radius: 1}

	p.Update(Record{Focus: sun, Distance: 10})
	p.Update(Record{Focus: other, Distance: 20})
	if p.Update(Record{Focus: sun, Distance: 10}) {
		t.Error("identical record should not be re-inserted")
	}
	p.Update(Record{Focus: sun, Distance: 30})
	p.Swap()

	got := names(p.Records())
	if len(got) != 2 || got[0] != "Sirius" || got[1] != "Sun" {
		t.Fatalf("records = %v, want [Sirius Sun]", got)
	}
}

func TestProximitySwapClearsBuilding(t *testing.T) {
	p := NewProximity(0)
	if p.Size() != DefaultProximitySize {
		t.Fatalf("size = %d, want default %d", p.Size(), DefaultProximitySize)
	}
	p.Update(Record{Focus: &stubBody{name: "Vega", kind: focus.Star}, Distance: 3})
	p.Swap()
	p.Swap()
	if got := p.Records(); len(got) != 0 {
		t.Fatalf("expected empty set after an empty frame, got %v", names(got))
	}
}

func TestProximityRejectsInvalid(t *testing.T) {
	p := NewProximity(2)
	if p.Update(Record{}) {
		t.Error("nil focus accepted")
	}
	if p.Update(Record{Focus: &stubBody{name: "gone", empty: true}, Distance: 1}) {
		t.Error("empty focus accepted")
	}
}
