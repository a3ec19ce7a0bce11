package ucs

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
)

// Connection limits.
const (
	// MaxDialRetries bounds the socket-level retries performed by the transport.
	MaxDialRetries = 10

	// DefaultPort is the UCS Manager HTTPS port.
	DefaultPort = 443
)

// ConnectionConfig holds configuration for a UCS Manager endpoint.
//
// The Host (or Name) field is the endpoint identity used by SessionRegistry. A
// config must not be modified once a session has been opened for it.
type ConnectionConfig struct {
	// Endpoint identity
	Host string // UCS Manager hostname or IP address
	Name string // Optional connection name, matched like a host

	// Authentication settings
	Username string
	Password string

	// Transport settings
	Port          int           `default:"443"`
	Secure        bool          `default:"true"` // HTTPS when true, HTTP otherwise
	SkipTLSVerify bool          // Skip certificate verification (lab systems only)
	TLSConfig     *tls.Config   // Custom TLS configuration
	Timeout       time.Duration `default:"30s"` // Per-request timeout

	// Socket-level retry settings (dial failures only)
	DialRetries  int           `default:"2"`
	RetryWaitMin time.Duration `default:"250ms"`
	RetryWaitMax time.Duration `default:"2s"`
}

// DefaultConfig returns a secure default configuration.
func DefaultConfig() *ConnectionConfig {
	config := &ConnectionConfig{}
	if err := defaults.Set(config); err != nil {
		// Struct tags are static; a failure here is a programming error.
		panic(fmt.Sprintf("ucs: invalid connection defaults: %v", err))
	}
	config.TLSConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	return config
}

// URL returns the XML API endpoint for the configuration.
func (c *ConnectionConfig) URL() string {
	scheme := "https"
	if !c.Secure {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s:%d/nuova", scheme, c.Host, c.Port)
}

// Endpoint returns a short human-readable endpoint identifier for errors and logs.
func (c *ConnectionConfig) Endpoint() string {
	if c.Name != "" && !strings.EqualFold(c.Name, c.Host) {
		return fmt.Sprintf("%s (%s)", c.Host, c.Name)
	}
	return c.Host
}

// identityKey is the registry key for the configuration.
func (c *ConnectionConfig) identityKey() string {
	return strings.ToLower(strings.TrimSpace(c.Host))
}

// matches reports whether a request for other is served by a session opened
// for c: the requested host must be c's host or c's connection name.
func (c *ConnectionConfig) matches(other *ConnectionConfig) bool {
	if other == nil {
		return false
	}
	host := strings.TrimSpace(other.Host)
	if strings.EqualFold(strings.TrimSpace(c.Host), host) {
		return true
	}
	return c.Name != "" && strings.EqualFold(strings.TrimSpace(c.Name), host)
}

// tlsConfig returns the effective TLS configuration.
func (c *ConnectionConfig) tlsConfig() *tls.Config {
	var cfg *tls.Config
	if c.TLSConfig != nil {
		cfg = c.TLSConfig.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if c.SkipTLSVerify {
		cfg.InsecureSkipVerify = true //nolint:gosec // explicitly requested for lab systems
	}
	return cfg
}

// clone returns a copy that is safe to retain.
func (c *ConnectionConfig) clone() *ConnectionConfig {
	out := *c
	if c.TLSConfig != nil {
		out.TLSConfig = c.TLSConfig.Clone()
	}
	return &out
}

// validateConfig validates the connection configuration.
func validateConfig(config *ConnectionConfig) error {
	if config == nil {
		return errors.New("configuration is required")
	}

	if strings.TrimSpace(config.Host) == "" {
		return errors.New("host is required")
	}

	if config.Username == "" {
		return errors.New("username is required")
	}

	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}

	if config.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if config.DialRetries < 0 {
		return errors.New("DialRetries cannot be negative")
	}

	if config.DialRetries > MaxDialRetries {
		return fmt.Errorf("DialRetries too high (max %d)", MaxDialRetries)
	}

	return nil
}

// ClassID is a UCS managed object class, e.g. "ippoolPool".
type ClassID string

func (c ClassID) String() string {
	return string(c)
}

// Properties holds the XML attributes of a managed object.
type Properties map[string]string

// Clone returns a copy of the properties.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Client is the set of remote primitives the reconciler is built from.
// *Session implements Client.
type Client interface {
	// ResolveDN returns the object at dn, or nil when nothing exists there.
	ResolveDN(ctx context.Context, dn DN) (*ManagedObject, error)

	// QueryChildren lists the direct children of parent with the given class.
	// A nil filter matches every child. Never returns nil, nil for a missing parent:
	// an empty slice is returned instead.
	QueryChildren(ctx context.Context, parent *ManagedObject, class ClassID, filter *EqFilter) ([]*ManagedObject, error)

	// QueryClass lists every object of a class in the tree.
	QueryClass(ctx context.Context, class ClassID, filter *EqFilter) ([]*ManagedObject, error)

	// Commit sends staged subtrees to the endpoint in one atomic request.
	Commit(ctx context.Context, roots ...*ManagedObject) ([]*ManagedObject, error)

	// Remove deletes the given objects (and their descendants) in one request.
	Remove(ctx context.Context, objects ...*ManagedObject) error
}

// RegistryStats provides statistics about a session registry.
type RegistryStats struct {
	Sessions   int   // Live sessions
	Handshakes int64 // Successful aaaLogin calls
	Failures   int64 // Failed aaaLogin calls
	Reused     int64 // Acquire calls answered from the registry
}
