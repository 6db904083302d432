// Package scene holds the loaded bodies. Each frame it advances their positions and
// feeds their distances to the active camera's closest-object bookkeeping.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-nav/engine/body"
	"github.com/Carmen-Shannon/oxy-nav/engine/camera"
	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/Carmen-Shannon/oxy-nav/engine/focus"
)

var (
	// ErrUnknownBody is returned when a name does not match a loaded body.
	ErrUnknownBody = errors.New("unknown body")
	// ErrDuplicateBody is returned when adding a body whose name is already loaded.
	ErrDuplicateBody = errors.New("duplicate body")
)

// Scene is the registry of loaded bodies. Names are matched case-insensitively.
// Thread-safe for concurrent access.
type Scene interface {
	camera.Resolver

	// Add loads a body.
	//
	// Parameters:
	//   - b: the body to load
	//
	// Returns:
	//   - error: ErrDuplicateBody, wrapped, if the name is already loaded
	Add(b body.Body) error

	// Remove unloads the named body and announces it with FocusNotAvailable.
	//
	// Parameters:
	//   - name: the body name
	//
	// Returns:
	//   - error: ErrUnknownBody, wrapped, if no such body is loaded
	Remove(name string) error

	// Get returns the named body.
	Get(name string) (body.Body, bool)

	// Bodies returns the loaded bodies sorted by name.
	Bodies() []body.Body

	// Count returns the number of loaded bodies.
	Count() int

	// Update computes every body position for the frame at t, in parallel.
	//
	// Parameters:
	//   - t: the simulation time of the frame
	Update(t time.Time)

	// Visit offers every body to the camera as a closest-object candidate, in parallel.
	// Stars and particles go to CheckClosestParticle, solid bodies to CheckClosestBody.
	//
	// Parameters:
	//   - cam: the active camera
	Visit(cam camera.Camera)
}

type scene struct {
	mu     *sync.RWMutex
	logger *slog.Logger
	bus    event.Bus

	bodies map[string]body.Body
	// pending holds the bodies queued by WithBodies until the scene is built.
	pending []body.Body

	// computePool runs the per-body work of Update and Visit. Workers persist
	// across frames.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
}

var _ Scene = &scene{}

// NewScene creates an empty scene.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		logger:         slog.Default(),
		bodies:         make(map[string]body.Body),
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}
	// The pool is created after the options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	for _, b := range s.pending {
		if err := s.Add(b); err != nil {
			s.logger.Warn("skipping body", "error", err)
		}
	}
	s.pending = nil
	return s
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *scene) Resolve(name string) (focus.Focus, error) {
	b, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", name, ErrUnknownBody)
	}
	return b, nil
}

func (s *scene) Add(b body.Body) error {
	if b == nil {
		return fmt.Errorf("add: nil body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(b.Name())
	if _, ok := s.bodies[k]; ok {
		return fmt.Errorf("add %q: %w", b.Name(), ErrDuplicateBody)
	}
	s.bodies[k] = b
	s.logger.Debug("body loaded", "body", b.Name(), "kind", b.Kind())
	return nil
}

func (s *scene) Remove(name string) error {
	s.mu.Lock()
	k := key(name)
	b, ok := s.bodies[k]
	if ok {
		delete(s.bodies, k)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("remove %q: %w", name, ErrUnknownBody)
	}
	b.Remove()
	s.logger.Info("body unloaded", "body", b.Name())
	if s.bus != nil {
		s.bus.Publish(event.FocusNotAvailable, s, event.FocusLoss{Focus: b})
	}
	return nil
}

func (s *scene) Get(name string) (body.Body, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies[key(name)]
	return b, ok
}

func (s *scene) Bodies() []body.Body {
	out := s.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bodies)
}

// snapshot copies the body list so per-frame work runs without the scene lock.
func (s *scene) snapshot() []body.Body {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]body.Body, 0, len(s.bodies))
	for _, b := range s.bodies {
		out = append(out, b)
	}
	return out
}

func (s *scene) Update(t time.Time) {
	s.parallel(s.snapshot(), func(b body.Body) {
		b.Update(t)
	})
}

func (s *scene) Visit(cam camera.Camera) {
	if cam == nil {
		return
	}
	pos := cam.Position()
	s.parallel(s.snapshot(), func(b body.Body) {
		if !focus.Valid(b) {
			return
		}
		d := b.AbsolutePosition().Dst(pos)
		switch k := b.Kind(); {
		case k == focus.Star || k == focus.Particle:
			cam.CheckClosestParticle(b, d)
		case k.IsSolid():
			cam.CheckClosestBody(b, d)
		}
	})
}

// parallel runs fn over bodies on the compute pool and waits for all of them.
// A WaitGroup is the per-frame barrier, the pool itself only idles out.
func (s *scene) parallel(bodies []body.Body, fn func(body.Body)) {
	var wg sync.WaitGroup
	chunk := max((len(bodies)+s.computeWorkers-1)/s.computeWorkers, 1)
	for id, start := 0, 0; start < len(bodies); id, start = id+1, start+chunk {
		part := bodies[start:min(start+chunk, len(bodies))]
		wg.Add(1)
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for _, b := range part {
					fn(b)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}
