package ucs

import (
	"context"
	"errors"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// ProviderData is handed to Terraform resources: the registry owned by the
// provider instance and the endpoint it was configured for.
type ProviderData struct {
	Registry *SessionRegistry
	Config   *ConnectionConfig
}

// NewProviderData creates provider data for config with a fresh registry.
func NewProviderData(config *ConnectionConfig) *ProviderData {
	return &ProviderData{
		Registry: NewSessionRegistry(),
		Config:   config,
	}
}

// Session returns the authenticated session for the configured endpoint,
// authenticating on first use.
func (pd *ProviderData) Session(ctx context.Context) (*Session, error) {
	if pd.Registry == nil || pd.Config == nil {
		return nil, errors.New("UCS provider data is not initialized")
	}
	return pd.Registry.Acquire(ctx, pd.Config)
}

// Reconciler returns a reconciler bound to the configured endpoint's session.
func (pd *ProviderData) Reconciler(ctx context.Context) (*Reconciler, error) {
	session, err := pd.Session(ctx)
	if err != nil {
		return nil, err
	}
	return NewReconciler(session), nil
}

// Stats returns registry statistics for debug logging.
func (pd *ProviderData) Stats(ctx context.Context) RegistryStats {
	if pd.Registry == nil {
		return RegistryStats{}
	}
	stats := pd.Registry.Stats()
	tflog.SubsystemTrace(ctx, Subsystem, "Session registry statistics", map[string]any{
		"sessions":   stats.Sessions,
		"handshakes": stats.Handshakes,
		"failures":   stats.Failures,
		"reused":     stats.Reused,
	})
	return stats
}
