package ucs

import (
	"context"
	"strconv"
)

// AdapterSpec describes one vNIC or vHBA of a connection policy.
type AdapterSpec struct {
	Name           string `mapstructure:"name"`
	Order          int    `mapstructure:"order"`
	Template       string `mapstructure:"templ"`
	AdaptorProfile string `mapstructure:"policy"`
}

func (a AdapterSpec) properties() Properties {
	props := Properties{"name": a.Name}
	if a.Order > 0 {
		props["order"] = strconv.Itoa(a.Order)
	}
	setIfNotEmpty(props, "nwTemplName", a.Template)
	setIfNotEmpty(props, "adaptorProfileName", a.AdaptorProfile)
	return props
}

func validateAdapters(kind string, adapters []AdapterSpec) error {
	names := make(map[string]bool, len(adapters))
	orders := make(map[int]bool, len(adapters))
	for _, a := range adapters {
		if err := validateName(kind, a.Name); err != nil {
			return err
		}
		if names[a.Name] {
			return NewInvalidArgumentError("validate "+kind, "adapter %q is listed twice", a.Name)
		}
		names[a.Name] = true

		if a.Order < 0 {
			return NewInvalidArgumentError("validate "+kind, "adapter %q has negative order %d", a.Name, a.Order)
		}
		if a.Order > 0 {
			if orders[a.Order] {
				return NewInvalidArgumentError("validate "+kind, "order %d is used by more than one adapter", a.Order)
			}
			orders[a.Order] = true
		}
		if a.Template != "" {
			if err := checkNamingValue("templ", a.Template); err != nil {
				return err
			}
		}
		if a.AdaptorProfile != "" {
			if err := checkNamingValue("policy", a.AdaptorProfile); err != nil {
				return err
			}
		}
	}
	return nil
}

// LANConnPolicySpec describes a LAN connectivity policy and its vNICs.
type LANConnPolicySpec struct {
	OrgScope `mapstructure:",squash"`
	Name     string        `mapstructure:"-"`
	Descr    string        `mapstructure:"descr"`
	VNICs    []AdapterSpec `mapstructure:"-"`
}

func (s *LANConnPolicySpec) Kind() string { return KindLANConnPolicy }

func (s *LANConnPolicySpec) Validate() error {
	if err := s.validateOrg(s.Kind()); err != nil {
		return err
	}
	if err := validateName(s.Kind(), s.Name); err != nil {
		return err
	}
	return validateAdapters(s.Kind(), s.VNICs)
}

func (s *LANConnPolicySpec) Lookup(ctx context.Context, c Client, scope *ManagedObject) ([]*ManagedObject, error) {
	return lookupNamed(ctx, c, scope, ClassLANConnPolicy, s.Name)
}

func (s *LANConnPolicySpec) Plan(scope *ManagedObject, existing []*ManagedObject) ([]*ManagedObject, error) {
	props := Properties{"name": s.Name}
	setIfNotEmpty(props, "descr", s.Descr)

	policy, err := stageNamedRoot(scope, existing, ClassLANConnPolicy, props)
	if err != nil || policy == nil {
		return nil, err
	}
	for _, vnic := range s.VNICs {
		if _, err := Stage(policy, ClassEther, vnic.properties()); err != nil {
			return nil, err
		}
	}
	return []*ManagedObject{policy}, nil
}

// SANConnPolicySpec describes a SAN connectivity policy, its WWNN pool and vHBAs.
type SANConnPolicySpec struct {
	OrgScope `mapstructure:",squash"`
	Name     string        `mapstructure:"-"`
	Descr    string        `mapstructure:"descr"`
	WWNNPool string        `mapstructure:"wwnn_pool"`
	VHBAs    []AdapterSpec `mapstructure:"-"`
}

func (s *SANConnPolicySpec) Kind() string { return KindSANConnPolicy }

func (s *SANConnPolicySpec) Validate() error {
	if err := s.validateOrg(s.Kind()); err != nil {
		return err
	}
	if err := validateName(s.Kind(), s.Name); err != nil {
		return err
	}
	if s.WWNNPool != "" {
		if err := checkNamingValue("wwnn_pool", s.WWNNPool); err != nil {
			return err
		}
	}
	return validateAdapters(s.Kind(), s.VHBAs)
}

func (s *SANConnPolicySpec) Lookup(ctx context.Context, c Client, scope *ManagedObject) ([]*ManagedObject, error) {
	return lookupNamed(ctx, c, scope, ClassSANConnPolicy, s.Name)
}

// Plan stages the policy, its fc-node (carrying the WWNN pool) and the vHBAs.
func (s *SANConnPolicySpec) Plan(scope *ManagedObject, existing []*ManagedObject) ([]*ManagedObject, error) {
	props := Properties{"name": s.Name}
	setIfNotEmpty(props, "descr", s.Descr)

	policy, err := stageNamedRoot(scope, existing, ClassSANConnPolicy, props)
	if err != nil || policy == nil {
		return nil, err
	}

	nodeProps := Properties{}
	setIfNotEmpty(nodeProps, "identPoolName", s.WWNNPool)
	if _, err := Stage(policy, ClassFcNode, nodeProps); err != nil {
		return nil, err
	}

	for _, vhba := range s.VHBAs {
		if _, err := Stage(policy, ClassFc, vhba.properties()); err != nil {
			return nil, err
		}
	}
	return []*ManagedObject{policy}, nil
}
