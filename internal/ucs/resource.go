package ucs

import (
	"context"
	"strings"
)

// Resource kinds.
const (
	KindIPPool                 = "ip_pool"
	KindLANConnPolicy          = "lan_connection_policy"
	KindSANConnPolicy          = "san_connection_policy"
	KindVSANPortAssignment     = "vsan_port_assignment"
	KindServiceProfileTemplate = "service_profile_template"
)

// OrgScope places a resource inside an organization, given as a path
// ("root/HR") or a bare name ("HR").
type OrgScope struct {
	Org string `mapstructure:"-"`
}

// Scope resolves the organization.
func (o OrgScope) Scope(ctx context.Context, c Client) (*ManagedObject, error) {
	return ResolveOrg(ctx, c, o.Org)
}

func (o OrgScope) validateOrg(kind string) error {
	org := strings.TrimSpace(o.Org)
	if org == "" {
		return NewInvalidArgumentError("validate "+kind, "organization is required")
	}
	if IsOrgPath(org) {
		_, err := OrgDN(org)
		return err
	}
	return checkNamingValue("organization", org)
}

// validateName checks a logical object name.
func validateName(kind, name string) error {
	if name == "" {
		return NewInvalidArgumentError("validate "+kind, "name is required")
	}
	if len(name) > 32 {
		return NewInvalidArgumentError("validate "+kind, "name %q is longer than 32 characters", name)
	}
	return checkNamingValue("name", name)
}

// setIfNotEmpty copies value into props under key when it is set.
func setIfNotEmpty(props Properties, key, value string) {
	if value != "" {
		props[key] = value
	}
}

// stageNamedRoot stages a named object under scope, or returns nil when one
// already exists.
func stageNamedRoot(scope *ManagedObject, existing []*ManagedObject, class ClassID, props Properties) (*ManagedObject, error) {
	if len(existing) > 0 {
		return nil, nil
	}
	return Stage(scope, class, props)
}
