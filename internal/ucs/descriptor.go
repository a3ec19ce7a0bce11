package ucs

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
)

// Descriptor is the inbound desired-state mapping:
//
//	resource_type: ip_pool
//	scope_name:    root
//	logical_name:  DC03
//	target_state:  present
//	properties:    {descr: datacenter 03 ip pool}
//	children:      [{starting_address: 10.10.0.1, number_of_ip: 100}]
//
// Unknown fields are ignored.
type Descriptor struct {
	ResourceType string           `mapstructure:"resource_type" yaml:"resource_type" toml:"resource_type"`
	ScopeName    string           `mapstructure:"scope_name" yaml:"scope_name" toml:"scope_name"`
	LogicalName  string           `mapstructure:"logical_name" yaml:"logical_name" toml:"logical_name"`
	TargetState  string           `mapstructure:"target_state" yaml:"target_state" toml:"target_state"`
	Properties   map[string]any   `mapstructure:"properties" yaml:"properties" toml:"properties"`
	Children     []map[string]any `mapstructure:"children" yaml:"children" toml:"children"`
}

// resourceTypes maps accepted resource_type values to resource kinds.
var resourceTypes = map[string]string{
	"ip_pool":                  KindIPPool,
	"address_pool":             KindIPPool,
	"lan_connection_policy":    KindLANConnPolicy,
	"lan_conn":                 KindLANConnPolicy,
	"san_connection_policy":    KindSANConnPolicy,
	"san_conn":                 KindSANConnPolicy,
	"vsan_port_assignment":     KindVSANPortAssignment,
	"port_assignment":          KindVSANPortAssignment,
	"vsan_assign":              KindVSANPortAssignment,
	"service_profile_template": KindServiceProfileTemplate,
}

// Long-form option names accepted in descriptors, mapped to the short keys.
var (
	ipPoolAliases = map[string]string{
		"ip_pool_descr": "descr",
		"description":   "descr",
	}
	ipBlockAliases = map[string]string{
		"starting_address": "from",
		"r_from":           "from",
		"ending_address":   "to",
		"number_of_ip":     "size",
		"default_route":    "def_gw",
		"gateway":          "def_gw",
		"primary_dns":      "prim_dns",
		"secondary_dns":    "sec_dns",
	}
	connPolicyAliases = map[string]string{
		"lan_con_descr": "descr",
		"san_con_descr": "descr",
		"description":   "descr",
	}
	adapterAliases = map[string]string{
		"template":             "templ",
		"nw_templ_name":        "templ",
		"adaptor_profile_name": "policy",
	}
	templateAliases = map[string]string{
		"template_descr":    "descr",
		"description":       "descr",
		"uuid":              "uuid_pool",
		"management_ip":     "management_ip_pool",
		"lan_con_policy":    "lan_conn_policy",
		"san_con_policy":    "san_conn_policy",
		"local_disk_policy": "disk_policy",
		"host_fw_policy":    "firmware_policy",
		"maint_policy":      "maintenance_policy",
	}
)

// DecodeDescriptor decodes a generic mapping, such as one entry of a YAML
// playbook, into a Descriptor.
func DecodeDescriptor(raw map[string]any) (*Descriptor, error) {
	var d Descriptor
	if err := decodeMap(raw, nil, &d); err != nil {
		return nil, NewInvalidArgumentError("decode descriptor", "%s", err.Error())
	}
	return &d, nil
}

// State returns the validated target state.
func (d *Descriptor) State() (State, error) {
	if strings.TrimSpace(d.TargetState) == "" {
		return "", NewInvalidArgumentError("decode descriptor", "target_state is required")
	}
	return ParseState(d.TargetState)
}

// Resource converts the descriptor into a validated resource.
func (d *Descriptor) Resource() (Resource, error) {
	for field, value := range map[string]string{
		"resource_type": d.ResourceType,
		"scope_name":    d.ScopeName,
		"logical_name":  d.LogicalName,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, NewInvalidArgumentError("decode descriptor", "%s is required", field)
		}
	}

	kind, ok := resourceTypes[normalizeResourceType(d.ResourceType)]
	if !ok {
		return nil, NewInvalidArgumentError("decode descriptor", "unsupported resource_type %q", d.ResourceType)
	}

	var (
		resource Resource
		err      error
	)
	switch kind {
	case KindIPPool:
		resource, err = d.ipPool()
	case KindLANConnPolicy:
		resource, err = d.lanConnPolicy()
	case KindSANConnPolicy:
		resource, err = d.sanConnPolicy()
	case KindVSANPortAssignment:
		resource, err = d.vsanPortAssignment()
	case KindServiceProfileTemplate:
		resource, err = d.serviceProfileTemplate()
	}
	if err != nil {
		return nil, err
	}

	if err := resource.Validate(); err != nil {
		return nil, err
	}
	return resource, nil
}

func normalizeResourceType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.ReplaceAll(t, "-", "_")
	return strings.TrimPrefix(t, "ucs_")
}

func (d *Descriptor) ipPool() (*IPPoolSpec, error) {
	spec := &IPPoolSpec{}
	if err := d.decodeProperties(ipPoolAliases, spec); err != nil {
		return nil, err
	}
	spec.Org, spec.Name = d.ScopeName, d.LogicalName

	for i, child := range d.Children {
		var block IPBlockSpec
		renamed, err := renameKeys(child, ipBlockAliases)
		if err == nil {
			renamed, err = expandBlockRange(renamed)
		}
		if err == nil {
			err = decodeRenamed(renamed, &block)
		}
		if err != nil {
			return nil, NewInvalidArgumentError("decode descriptor", "child %d: %s", i, err.Error())
		}
		spec.Blocks = append(spec.Blocks, block)
	}
	return spec, nil
}

func (d *Descriptor) adapters() ([]AdapterSpec, error) {
	adapters := make([]AdapterSpec, 0, len(d.Children))
	for i, child := range d.Children {
		var a AdapterSpec
		if err := decodeMap(child, adapterAliases, &a); err != nil {
			return nil, NewInvalidArgumentError("decode descriptor", "child %d: %s", i, err.Error())
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

func (d *Descriptor) lanConnPolicy() (*LANConnPolicySpec, error) {
	spec := &LANConnPolicySpec{}
	if err := d.decodeProperties(connPolicyAliases, spec); err != nil {
		return nil, err
	}
	spec.Org, spec.Name = d.ScopeName, d.LogicalName

	vnics, err := d.adapters()
	if err != nil {
		return nil, err
	}
	spec.VNICs = vnics
	return spec, nil
}

func (d *Descriptor) sanConnPolicy() (*SANConnPolicySpec, error) {
	spec := &SANConnPolicySpec{}
	if err := d.decodeProperties(connPolicyAliases, spec); err != nil {
		return nil, err
	}
	spec.Org, spec.Name = d.ScopeName, d.LogicalName

	vhbas, err := d.adapters()
	if err != nil {
		return nil, err
	}
	spec.VHBAs = vhbas
	return spec, nil
}

// vsanPortAssignment reads the switch id from scope_name and the VSAN id from
// logical_name. Ports come from properties.ports and from children[].port.
func (d *Descriptor) vsanPortAssignment() (*VSANPortAssignmentSpec, error) {
	spec := &VSANPortAssignmentSpec{}
	if err := d.decodeProperties(nil, spec); err != nil {
		return nil, err
	}

	id, err := strconv.Atoi(strings.TrimSpace(d.LogicalName))
	if err != nil {
		return nil, NewInvalidArgumentError("decode descriptor", "logical_name %q is not a VSAN id", d.LogicalName)
	}
	spec.VSANID = id
	if spec.SwitchID == "" {
		spec.SwitchID = d.ScopeName
	}

	for i, child := range d.Children {
		var port struct {
			Port string `mapstructure:"port"`
		}
		if err := decodeMap(child, nil, &port); err != nil || port.Port == "" {
			return nil, NewInvalidArgumentError("decode descriptor", "child %d must name a port", i)
		}
		spec.Ports = append(spec.Ports, port.Port)
	}
	return spec, nil
}

func (d *Descriptor) serviceProfileTemplate() (*ServiceProfileTemplateSpec, error) {
	spec := &ServiceProfileTemplateSpec{}
	if err := d.decodeProperties(templateAliases, spec); err != nil {
		return nil, err
	}
	spec.Org, spec.Name = d.ScopeName, d.LogicalName
	return spec, nil
}

// decodeProperties applies struct defaults, then decodes properties over them.
func (d *Descriptor) decodeProperties(aliases map[string]string, out any) error {
	if err := defaults.Set(out); err != nil {
		return NewInvalidArgumentError("decode descriptor", "%s", err.Error())
	}
	if err := decodeMap(d.Properties, aliases, out); err != nil {
		return NewInvalidArgumentError("decode descriptor", "properties: %s", err.Error())
	}
	return nil
}

// decodeMap renames aliased keys and decodes input into out, converting
// scalars between strings and numbers as needed.
func decodeMap(input map[string]any, aliases map[string]string, out any) error {
	if len(input) == 0 {
		return nil
	}
	renamed, err := renameKeys(input, aliases)
	if err != nil {
		return err
	}
	return decodeRenamed(renamed, out)
}

// renameKeys lower-cases keys and maps aliases to their canonical key. Two
// keys that land on the same canonical key are rejected.
func renameKeys(input map[string]any, aliases map[string]string) (map[string]any, error) {
	renamed := make(map[string]any, len(input))
	origin := make(map[string]string, len(input))
	for k, v := range input {
		key := strings.ToLower(strings.TrimSpace(k))
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if prev, ok := origin[key]; ok {
			names := []string{prev, k}
			slices.Sort(names)
			return nil, fmt.Errorf("%q and %q both set %q", names[0], names[1], key)
		}
		origin[key] = k
		renamed[key] = v
	}
	return renamed, nil
}

func decodeRenamed(renamed map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(renamed)
}

// expandBlockRange replaces a "block" range ("10.10.0.1-10.10.0.100") with
// its from and to addresses.
func expandBlockRange(child map[string]any) (map[string]any, error) {
	raw, ok := child["block"]
	if !ok {
		return child, nil
	}
	if _, ok := child["from"]; ok {
		return nil, errors.New(`"block" cannot be combined with a starting address`)
	}
	if _, ok := child["to"]; ok {
		return nil, errors.New(`"block" cannot be combined with an ending address`)
	}

	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf(`"block" must be a range such as "10.10.0.1-10.10.0.100", got %T`, raw)
	}
	from, to, ok := strings.Cut(strings.ReplaceAll(text, "–", "-"), "-")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || from == "" || to == "" {
		return nil, fmt.Errorf(`"block" must be a range such as "10.10.0.1-10.10.0.100", got %q`, text)
	}

	out := maps.Clone(child)
	delete(out, "block")
	out["from"], out["to"] = from, to
	return out, nil
}
