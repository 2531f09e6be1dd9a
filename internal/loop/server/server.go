// Package server keeps track of the viewers connected over SSH. Every viewer owns
// an independent field; the server only counts sessions, enforces the session
// limit and tells everyone when it is shutting down.
package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrFull is returned by Register when the session limit is reached.
var ErrFull = errors.New("too many viewers")

// ErrShuttingDown is returned by Register once Shutdown has started.
var ErrShuttingDown = errors.New("server shutting down")

// EventType identifies the type of session event.
type EventType int

const (
	EventServerShutdown EventType = iota
)

// Event is sent from the server to a session.
type Event struct {
	Type EventType
}

// Handle represents a session's registration with the server.
type Handle struct {
	ID       int
	Username string
	Started  time.Time
	EventsCh chan Event // Events sent to the session (shutdown, etc.)
}

// Registry tracks live sessions.
type Registry struct {
	mu           sync.RWMutex
	clients      map[int]*Handle
	nextClientID int
	maxSessions  int // 0 means unlimited
	shuttingDown bool
	logger       *log.Logger
}

// NewRegistry creates a registry allowing at most maxSessions concurrent sessions
// (0 = unlimited).
func NewRegistry(maxSessions int, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		clients:      make(map[int]*Handle),
		nextClientID: 1,
		maxSessions:  maxSessions,
		logger:       logger,
	}
}

// Register adds a session and returns its handle.
func (r *Registry) Register(username string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shuttingDown {
		return nil, ErrShuttingDown
	}
	if r.maxSessions > 0 && len(r.clients) >= r.maxSessions {
		return nil, ErrFull
	}

	handle := &Handle{
		ID:       r.nextClientID,
		Username: username,
		Started:  time.Now(),
		EventsCh: make(chan Event, 4),
	}
	r.nextClientID++
	r.clients[handle.ID] = handle

	r.logger.Debug("session registered", "id", handle.ID, "user", username, "active", len(r.clients))
	return handle, nil
}

// Unregister removes a session. Unknown IDs are ignored.
func (r *Registry) Unregister(clientID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.clients[clientID]
	if !ok {
		return
	}
	delete(r.clients, clientID)
	r.logger.Debug("session unregistered", "id", clientID, "user", handle.Username,
		"duration", time.Since(handle.Started).Round(time.Second), "active", len(r.clients))
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Shutdown notifies all sessions about the shutdown and waits for them to
// disconnect, up to the given timeout. New registrations are refused from now on.
func (r *Registry) Shutdown(timeout time.Duration) {
	r.mu.Lock()
	r.shuttingDown = true
	for _, handle := range r.clients {
		select {
		case handle.EventsCh <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	r.logger.Info("notified viewers about shutdown", "active", len(r.clients))
	r.mu.Unlock()

	// Wait for all sessions to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			r.logger.Warn("shutdown timeout with viewers still connected", "active", r.Count())
			return
		case <-ticker.C:
		}
	}
}
