package ucs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// SessionRegistry caches authenticated sessions keyed by endpoint identity.
//
// The first Acquire for an identity performs the aaaLogin handshake; every later
// Acquire whose host is the cached session's host or connection name returns the
// same Session. Handshakes in flight are matched the same way, so an alias never
// opens a second session. Sessions
// are never evicted or re-authenticated. The creator of a registry owns it and may
// call Close to log every session out.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions []*Session
	closed   bool

	group singleflight.Group
	// inflight holds the configurations being authenticated, by singleflight key.
	inflight map[string]*ConnectionConfig

	handshakes atomic.Int64
	failures   atomic.Int64
	reused     atomic.Int64
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{}
}

// Acquire returns the session for config's identity, authenticating on first use.
// An authentication failure is reported as a ConnectionError and leaves the
// registry unchanged.
func (r *SessionRegistry) Acquire(ctx context.Context, config *ConnectionConfig) (*Session, error) {
	if err := validateConfig(config); err != nil {
		return nil, NewInvalidArgumentError("acquire session", "%s", err.Error())
	}

	if s := r.Lookup(config); s != nil {
		r.reused.Add(1)
		LogConnectionEvent(ctx, "session_reused", map[string]any{
			"endpoint": config.Endpoint(),
		})
		return s, nil
	}

	key := r.flightKey(config)
	v, err, _ := r.group.Do(key, func() (any, error) {
		defer r.endFlight(key)

		// A concurrent caller may have finished the handshake while we waited.
		if s := r.Lookup(config); s != nil {
			return s, nil
		}

		s, err := openSession(ctx, config)
		if err != nil {
			r.failures.Add(1)
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			_ = s.Logout(ctx)
			return nil, NewConnectionError(config.Endpoint(), errors.New("session registry is closed"))
		}
		r.sessions = append(r.sessions, s)
		r.handshakes.Add(1)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// flightKey returns the singleflight key for config: the key of a handshake in
// flight that would serve config, or config's own key, which is then registered.
func (r *SessionRegistry) flightKey(config *ConnectionConfig) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, pending := range r.inflight {
		if pending.matches(config) {
			return key
		}
	}
	key := config.identityKey()
	if r.inflight == nil {
		r.inflight = make(map[string]*ConnectionConfig)
	}
	if _, ok := r.inflight[key]; !ok {
		r.inflight[key] = config.clone()
	}
	return key
}

func (r *SessionRegistry) endFlight(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, key)
}

// Lookup returns the cached session matching config's identity, or nil.
func (r *SessionRegistry) Lookup(config *ConnectionConfig) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.config.matches(config) {
			return s
		}
	}
	return nil
}

// Len returns the number of cached sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Stats returns registry statistics.
func (r *SessionRegistry) Stats() RegistryStats {
	return RegistryStats{
		Sessions:   r.Len(),
		Handshakes: r.handshakes.Load(),
		Failures:   r.failures.Load(),
		Reused:     r.reused.Load(),
	}
}

// Close logs out every session and empties the registry. Acquire fails afterwards.
func (r *SessionRegistry) Close(ctx context.Context) error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = nil
	r.closed = true
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Logout(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logout %s: %w", s.Endpoint(), err))
		}
	}
	return errors.Join(errs...)
}
