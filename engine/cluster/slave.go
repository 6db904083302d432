package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-nav/engine/event"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Slave receives the master pose and publishes it onto the event bus as
// CameraProjectionCmd, plus FovChangedCmd when the field of view changes.
type Slave interface {
	// Run connects to the master and applies its states until ctx is cancelled,
	// reconnecting after the retry delay when the connection drops.
	//
	// Returns:
	//   - error: nil once ctx is cancelled, or the dial error when retries are disabled
	Run(ctx context.Context) error

	// Last returns the most recently applied state.
	Last() (State, bool)

	// Received returns how many states were applied.
	Received() uint64
}

type slaveImpl struct {
	mu      *sync.Mutex
	logger  *slog.Logger
	bus     event.Bus
	url     string
	limiter *rate.Limiter
	rate    float64
	retry   time.Duration
	dialer  *websocket.Dialer

	last     State
	hasLast  bool
	received uint64
}

var _ Slave = &slaveImpl{}

// NewSlave creates a slave for the master at url (ws://host:port/camera).
//
// Parameters:
//   - url: the master WebSocket URL
//   - options: functional options to configure the slave
//
// Returns:
//   - Slave: the new slave, not yet connected
func NewSlave(url string, options ...SlaveOption) Slave {
	s := &slaveImpl{
		mu:     &sync.Mutex{},
		logger: slog.Default(),
		url:    url,
		rate:   120,
		retry:  time.Second,
		dialer: websocket.DefaultDialer,
	}
	for _, option := range options {
		option(s)
	}
	s.limiter = newLimiter(s.rate)
	s.logger = s.logger.With("component", "cluster_slave")
	return s
}

func (s *slaveImpl) Run(ctx context.Context) error {
	for {
		err := s.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if s.retry <= 0 {
			return err
		}
		s.logger.Info("connection to master lost", "url", s.url, "error", err, "retry", s.retry)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.retry):
		}
	}
}

// session runs one connection until it fails or ctx is cancelled.
func (s *slaveImpl) session(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial master: %w", err)
	}
	s.logger.Info("connected to master", "url", s.url)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("master closed the connection")
			}
			return fmt.Errorf("read from master: %w", err)
		}
		if !s.limiter.Allow() {
			s.logger.Debug("state dropped by flood guard")
			continue
		}
		s.apply(msg)
	}
}

// apply decodes, validates and publishes one state.
func (s *slaveImpl) apply(msg []byte) {
	var st State
	if err := json.Unmarshal(msg, &st); err != nil {
		s.logger.Debug("malformed state dropped", "error", err)
		return
	}
	if err := st.Validate(); err != nil {
		s.logger.Debug("invalid state dropped", "error", err)
		return
	}

	s.mu.Lock()
	fovChanged := !s.hasLast || s.last.Fov != st.Fov
	s.last, s.hasLast = st, true
	s.received++
	bus := s.bus
	s.mu.Unlock()

	if bus == nil {
		return
	}
	if fovChanged {
		bus.Publish(event.FovChangedCmd, s, event.FovChange{Fov: st.Fov})
	}
	bus.Publish(event.CameraProjectionCmd, s, event.Projection{Position: st.Pos, Dir: st.Dir, Up: st.Up})
}

func (s *slaveImpl) Last() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

func (s *slaveImpl) Received() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received
}
