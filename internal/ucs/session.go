package ucs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// errSessionClosed is returned by primitives called after Logout.
var errSessionClosed = errors.New("session is logged out")

// Session is an authenticated connection to one UCS Manager endpoint.
//
// Session implements Client and sync.Locker. The lock is not taken by the
// primitives themselves; the Reconciler holds it for a whole reconciliation.
type Session struct {
	mu sync.Mutex

	config    *ConnectionConfig
	transport *transport
	openedAt  time.Time

	stateMu       sync.RWMutex
	cookie        string
	refreshPeriod string
	closed        bool
}

// openSession authenticates against the endpoint described by config.
func openSession(ctx context.Context, config *ConnectionConfig) (*Session, error) {
	s := &Session{
		config:    config.clone(),
		transport: newTransport(config),
	}

	LogConnectionEvent(ctx, "authentication_attempt", map[string]any{
		"endpoint": config.Endpoint(),
		"username": config.Username,
		"url":      config.URL(),
	})

	var resp LoginResponse
	err := s.transport.post(ctx, MethodLogin, &LoginRequest{
		InName:     config.Username,
		InPassword: config.Password,
	}, &resp)
	if err == nil && resp.OutCookie == "" {
		err = errors.New("endpoint returned an empty session cookie")
	}
	if err != nil {
		s.transport.close()
		connErr := NewConnectionError(config.Endpoint(), err)
		LogConnectionEvent(ctx, "authentication_failed", map[string]any{
			"endpoint": config.Endpoint(),
			"error":    connErr.Error(),
		})
		return nil, connErr
	}

	s.cookie = resp.OutCookie
	s.refreshPeriod = resp.OutRefreshPeriod
	s.openedAt = time.Now()

	LogConnectionEvent(ctx, "session_established", map[string]any{
		"endpoint":       config.Endpoint(),
		"refresh_period": resp.OutRefreshPeriod,
		"privileges":     resp.OutPriv,
	})
	return s, nil
}

// Lock serializes reconciliations sharing the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the reconciliation lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Config returns a copy of the configuration the session was opened with.
func (s *Session) Config() *ConnectionConfig {
	return s.config.clone()
}

// Endpoint returns the endpoint identifier used in errors and logs.
func (s *Session) Endpoint() string {
	return s.config.Endpoint()
}

// OpenedAt returns when the session was authenticated.
func (s *Session) OpenedAt() time.Time {
	return s.openedAt
}

// Closed reports whether the session has been logged out.
func (s *Session) Closed() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.closed
}

func (s *Session) currentCookie() (string, error) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.closed {
		return "", errSessionClosed
	}
	return s.cookie, nil
}

// Logout ends the session. Subsequent primitives fail with a RemoteError.
func (s *Session) Logout(ctx context.Context) error {
	s.stateMu.Lock()
	if s.closed {
		s.stateMu.Unlock()
		return nil
	}
	cookie := s.cookie
	s.closed = true
	s.cookie = ""
	s.stateMu.Unlock()

	defer s.transport.close()

	var resp LogoutResponse
	if err := s.transport.post(ctx, MethodLogout, &LogoutRequest{InCookie: cookie}, &resp); err != nil {
		LogConnectionEvent(ctx, "logout_failed", map[string]any{
			"endpoint": s.Endpoint(),
			"error":    err.Error(),
		})
		return NewRemoteError(MethodLogout, s.Endpoint(), "", err)
	}

	LogConnectionEvent(ctx, "session_closed", map[string]any{
		"endpoint": s.Endpoint(),
		"lifetime": time.Since(s.openedAt).String(),
	})
	return nil
}

// call posts one method with the session cookie. build receives the cookie and
// returns the request document.
func (s *Session) call(ctx context.Context, method string, dn DN, build func(cookie string) any, out any) error {
	cookie, err := s.currentCookie()
	if err != nil {
		return NewRemoteError(method, s.Endpoint(), dn, err)
	}

	tflog.SubsystemTrace(ctx, Subsystem, "Calling XML API method", map[string]any{
		"method":   method,
		"endpoint": s.Endpoint(),
		"dn":       dn.String(),
	})

	if err := s.transport.post(ctx, method, build(cookie), out); err != nil {
		return NewRemoteError(method, s.Endpoint(), dn, err)
	}
	return nil
}
