package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

// DefaultProximitySize is the default number of light sources tracked for illumination.
const DefaultProximitySize = 4

// Record is a candidate object with its distance to the camera at the time it was offered.
type Record struct {
	Focus focus.Focus
	// Distance from the camera to the object centre, in internal units.
	Distance float64
}

// Valid reports whether the record refers to a usable object.
func (r Record) Valid() bool {
	return focus.Valid(r.Focus)
}

// SurfaceDistance returns the distance from the camera to the object surface.
func (r Record) SurfaceDistance() float64 {
	if r.Focus == nil {
		return r.Distance
	}
	return r.Distance - r.Focus.Radius()
}

// Proximity is a double-buffered list of the nearest light sources. Writers fill the
// building side during the scene pass; readers only see the effective side, promoted
// once per frame by Swap.
type Proximity struct {
	mu *sync.Mutex

	building  []Record
	effective []Record
}

// NewProximity creates a proximity set with the given capacity.
//
// Parameters:
//   - size: the number of records kept; values below 1 use DefaultProximitySize
//
// Returns:
//   - *Proximity: the new set
func NewProximity(size int) *Proximity {
	if size < 1 {
		size = DefaultProximitySize
	}
	return &Proximity{
		mu:        &sync.Mutex{},
		building:  make([]Record, size),
		effective: make([]Record, size),
	}
}

// Size returns the capacity of the set.
func (p *Proximity) Size() int {
	return len(p.effective)
}

// Update inserts r into the building side, keeping ascending surface distance.
// A record for an object already present replaces the old one.
//
// Returns:
//   - bool: true if the record was inserted
func (p *Proximity) Update(r Record) bool {
	if !r.Valid() {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.indexOf(r.Focus); i >= 0 {
		if p.building[i].Distance == r.Distance {
			return false
		}
		p.removeAt(i)
	}

	d := r.SurfaceDistance()
	for i := range p.building {
		cur := p.building[i]
		if cur.Focus == nil || d < cur.SurfaceDistance() {
			copy(p.building[i+1:], p.building[i:len(p.building)-1])
			p.building[i] = r
			return true
		}
	}
	return false
}

// Swap promotes the building side and clears the new building side.
func (p *Proximity) Swap() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.effective, p.building = p.building, p.effective
	clear(p.building)
}

// Effective returns the i-th nearest record of the last completed frame.
func (p *Proximity) Effective(i int) Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.effective) {
		return Record{}
	}
	return p.effective[i]
}

// Records returns a copy of the effective side.
func (p *Proximity) Records() []Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Record, 0, len(p.effective))
	for _, r := range p.effective {
		if r.Focus != nil {
			out = append(out, r)
		}
	}
	return out
}

// indexOf finds f in the building side.
// Caller must hold the mutex.
func (p *Proximity) indexOf(f focus.Focus) int {
	for i, r := range p.building {
		if r.Focus != nil && focus.Same(r.Focus, f) {
			return i
		}
	}
	return -1
}

// removeAt deletes the building record at i, shifting the tail left.
// Caller must hold the mutex.
func (p *Proximity) removeAt(i int) {
	copy(p.building[i:], p.building[i+1:])
	p.building[len(p.building)-1] = Record{}
}
