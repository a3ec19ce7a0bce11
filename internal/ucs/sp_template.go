package ucs

import (
	"context"
	"slices"
)

// Service profile template types accepted by lsServer.
var serviceProfileTemplateTypes = []string{"initial-template", "updating-template"}

// ServiceProfileTemplateSpec describes a service profile template built from
// existing pools and policies, which are referenced by name only.
type ServiceProfileTemplateSpec struct {
	OrgScope          `mapstructure:",squash"`
	Name              string `mapstructure:"-"`
	Descr             string `mapstructure:"descr"`
	Type              string `mapstructure:"type" default:"initial-template"`
	UUIDPool          string `mapstructure:"uuid_pool"`
	BIOSPolicy        string `mapstructure:"bios_policy" default:"default"`
	BootPolicy        string `mapstructure:"boot_policy" default:"default"`
	FirmwarePolicy    string `mapstructure:"firmware_policy" default:"default"`
	LocalDiskPolicy   string `mapstructure:"disk_policy" default:"default"`
	MaintenancePolicy string `mapstructure:"maintenance_policy"`
	KVMPolicy         string `mapstructure:"kvm_policy"`
	ManagementIPPool  string `mapstructure:"management_ip_pool"`
	LANConnPolicy     string `mapstructure:"lan_conn_policy"`
	SANConnPolicy     string `mapstructure:"san_conn_policy"`
}

func (s *ServiceProfileTemplateSpec) Kind() string { return KindServiceProfileTemplate }

func (s *ServiceProfileTemplateSpec) Validate() error {
	if err := s.validateOrg(s.Kind()); err != nil {
		return err
	}
	if err := validateName(s.Kind(), s.Name); err != nil {
		return err
	}
	if s.Type != "" && !slices.Contains(serviceProfileTemplateTypes, s.Type) {
		return NewInvalidArgumentError("validate "+s.Kind(), "type must be one of %v, got %q", serviceProfileTemplateTypes, s.Type)
	}
	refs := s.policyRefs()
	refs["lanConnPolicyName"] = s.LANConnPolicy
	refs["sanConnPolicyName"] = s.SANConnPolicy
	for field, value := range refs {
		if value == "" {
			continue
		}
		if err := checkNamingValue(field, value); err != nil {
			return err
		}
	}
	return nil
}

// policyRefs maps lsServer properties to the referenced pool and policy names.
func (s *ServiceProfileTemplateSpec) policyRefs() map[string]string {
	return map[string]string{
		"identPoolName":       s.UUIDPool,
		"biosProfileName":     s.BIOSPolicy,
		"bootPolicyName":      s.BootPolicy,
		"hostFwPolicyName":    s.FirmwarePolicy,
		"localDiskPolicyName": s.LocalDiskPolicy,
		"maintPolicyName":     s.MaintenancePolicy,
		"kvmMgmtPolicyName":   s.KVMPolicy,
		"extIPPoolName":       s.ManagementIPPool,
	}
}

func (s *ServiceProfileTemplateSpec) Lookup(ctx context.Context, c Client, scope *ManagedObject) ([]*ManagedObject, error) {
	return lookupNamed(ctx, c, scope, ClassServiceProfile, s.Name)
}

// Plan stages the template and, when connection policies are referenced, its
// connectivity definition.
func (s *ServiceProfileTemplateSpec) Plan(scope *ManagedObject, existing []*ManagedObject) ([]*ManagedObject, error) {
	props := Properties{"name": s.Name}
	setIfNotEmpty(props, "descr", s.Descr)
	setIfNotEmpty(props, "type", s.Type)
	for key, value := range s.policyRefs() {
		setIfNotEmpty(props, key, value)
	}
	if s.ManagementIPPool != "" {
		props["extIPState"] = "pooled"
	}

	template, err := stageNamedRoot(scope, existing, ClassServiceProfile, props)
	if err != nil || template == nil {
		return nil, err
	}

	if s.LANConnPolicy != "" || s.SANConnPolicy != "" {
		connProps := Properties{}
		setIfNotEmpty(connProps, "lanConnPolicyName", s.LANConnPolicy)
		setIfNotEmpty(connProps, "sanConnPolicyName", s.SANConnPolicy)
		if _, err := Stage(template, ClassConnDef, connProps); err != nil {
			return nil, err
		}
	}
	return []*ManagedObject{template}, nil
}
