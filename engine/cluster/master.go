package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 8
)

// Master broadcasts the camera pose to connected slaves.
type Master interface {
	// ServeHTTP upgrades a slave connection to WebSocket.
	http.Handler

	// Broadcast sends s to every slave, subject to the broadcast rate.
	//
	// Parameters:
	//   - s: the pose to send
	//
	// Returns:
	//   - bool: true if the state was sent, false if the rate limit dropped it
	//   - error: ErrClosed after Close, ErrInvalidState for a bad pose
	Broadcast(s State) (bool, error)

	// Clients returns the number of connected slaves.
	Clients() int

	// ListenAndServe serves Path on addr until ctx is cancelled.
	ListenAndServe(ctx context.Context, addr string) error

	// Close disconnects every slave and rejects further broadcasts.
	Close() error
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type masterImpl struct {
	mu       *sync.Mutex
	logger   *slog.Logger
	upgrader websocket.Upgrader
	limiter  *rate.Limiter
	rate     float64
	clients  map[*client]struct{}
	closed   bool
}

var _ Master = &masterImpl{}

// NewMaster creates a master with no slaves.
//
// Parameters:
//   - options: functional options to configure the master
//
// Returns:
//   - Master: the new master
func NewMaster(options ...MasterOption) Master {
	m := &masterImpl{
		mu:      &sync.Mutex{},
		logger:  slog.Default(),
		rate:    60,
		clients: map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			// Display nodes connect from other hosts of the same wall.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, option := range options {
		option(m)
	}
	m.limiter = newLimiter(m.rate)
	m.logger = m.logger.With("component", "cluster_master")
	return m
}

func (m *masterImpl) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.clients[c] = struct{}{}
	n := len(m.clients)
	m.mu.Unlock()
	m.logger.Info("slave connected", "remote", r.RemoteAddr, "clients", n)

	go m.writeLoop(c)
	m.readLoop(c)
}

// readLoop discards slave messages and unregisters the slave when it goes away.
func (m *masterImpl) readLoop(c *client) {
	defer m.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop forwards queued states until the send channel closes.
func (m *masterImpl) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			m.logger.Debug("write to slave failed", "remote", c.conn.RemoteAddr(), "error", err)
			c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.conn.Close()
}

// drop unregisters c and stops its writer.
func (m *masterImpl) drop(c *client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[c]; !ok {
		return
	}
	delete(m.clients, c)
	close(c.send)
	m.logger.Info("slave disconnected", "remote", c.conn.RemoteAddr(), "clients", len(m.clients))
}

func (m *masterImpl) Broadcast(s State) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}
	if len(m.clients) == 0 || !m.limiter.Allow() {
		return false, nil
	}
	msg, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("failed to encode camera state: %w", err)
	}
	for c := range m.clients {
		select {
		case c.send <- msg:
		default:
			m.logger.Debug("slave lagging, state dropped", "remote", c.conn.RemoteAddr())
		}
	}
	return true, nil
}

func (m *masterImpl) Clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

func (m *masterImpl) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, m)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	m.logger.Info("cluster master listening", "address", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("cluster master: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("cluster master shutdown: %w", err)
	}
	return nil
}

func (m *masterImpl) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	for c := range m.clients {
		delete(m.clients, c)
		close(c.send)
	}
	m.logger.Info("cluster master closed")
	return nil
}
