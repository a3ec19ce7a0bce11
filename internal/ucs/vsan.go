package ucs

import (
	"context"
	"strconv"
	"strings"
)

// FCPort is a unified FC port in slot/port notation.
type FCPort struct {
	Slot int
	Port int
}

// ParseFCPort parses "4/13".
func ParseFCPort(s string) (FCPort, error) {
	slot, port, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return FCPort{}, NewInvalidArgumentError("parse port", "port %q must be written as slot/port", s)
	}
	slotID, err := strconv.Atoi(slot)
	if err != nil || slotID <= 0 {
		return FCPort{}, NewInvalidArgumentError("parse port", "port %q has an invalid slot", s)
	}
	portID, err := strconv.Atoi(port)
	if err != nil || portID <= 0 {
		return FCPort{}, NewInvalidArgumentError("parse port", "port %q has an invalid port number", s)
	}
	return FCPort{Slot: slotID, Port: portID}, nil
}

func (p FCPort) String() string {
	return strconv.Itoa(p.Slot) + "/" + strconv.Itoa(p.Port)
}

// VSANPortAssignmentSpec assigns FC ports of one fabric interconnect to a VSAN.
//
// Present creates the assignments that are missing, in one commit. Absent removes
// the assignments that exist, in one request. The VSAN itself is never created.
type VSANPortAssignmentSpec struct {
	VSANID   int      `mapstructure:"-"`
	SwitchID string   `mapstructure:"switch_id"`
	Ports    []string `mapstructure:"ports"`
}

func (s *VSANPortAssignmentSpec) Kind() string { return KindVSANPortAssignment }

func (s *VSANPortAssignmentSpec) Validate() error {
	if s.VSANID < 1 || s.VSANID > 4093 {
		return NewInvalidArgumentError("validate "+s.Kind(), "VSAN id must be between 1 and 4093, got %d", s.VSANID)
	}
	if _, err := FabricSANSwitchDN(s.SwitchID); err != nil {
		return err
	}
	if len(s.Ports) == 0 {
		return NewInvalidArgumentError("validate "+s.Kind(), "at least one port is required")
	}
	_, err := s.fcPorts()
	return err
}

func (s *VSANPortAssignmentSpec) fcPorts() ([]FCPort, error) {
	seen := make(map[FCPort]bool, len(s.Ports))
	ports := make([]FCPort, 0, len(s.Ports))
	for _, p := range s.Ports {
		port, err := ParseFCPort(p)
		if err != nil {
			return nil, err
		}
		if seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}
	return ports, nil
}

// Scope resolves the VSAN on the fabric interconnect, found by its id.
func (s *VSANPortAssignmentSpec) Scope(ctx context.Context, c Client) (*ManagedObject, error) {
	switchDN, err := FabricSANSwitchDN(s.SwitchID)
	if err != nil {
		return nil, err
	}
	fabric, err := c.ResolveDN(ctx, switchDN)
	if err != nil || fabric == nil {
		return nil, err
	}

	filter, err := NewEqFilter("id", strconv.Itoa(s.VSANID))
	if err != nil {
		return nil, err
	}
	vsans, err := c.QueryChildren(ctx, fabric, ClassVSAN, filter)
	if err != nil {
		return nil, err
	}
	for _, vsan := range vsans {
		if vsan.Get("id") == filter.Value {
			return vsan, nil
		}
	}
	return nil, nil
}

// fcPortOf reads the port of an assignment from its properties. Assignments
// are matched by slot and port, never by relative name.
func fcPortOf(mo *ManagedObject) (FCPort, bool) {
	slot, err1 := strconv.Atoi(mo.Get("slotId"))
	port, err2 := strconv.Atoi(mo.Get("portId"))
	if err1 != nil || err2 != nil {
		return FCPort{}, false
	}
	return FCPort{Slot: slot, Port: port}, true
}

// Lookup returns the requested ports that are already assigned, in request order.
func (s *VSANPortAssignmentSpec) Lookup(ctx context.Context, c Client, scope *ManagedObject) ([]*ManagedObject, error) {
	ports, err := s.fcPorts()
	if err != nil {
		return nil, err
	}
	assigned, err := c.QueryChildren(ctx, scope, ClassVSANPortAssignment, nil)
	if err != nil {
		return nil, err
	}

	byPort := make(map[FCPort]*ManagedObject, len(assigned))
	for _, mo := range assigned {
		key, ok := fcPortOf(mo)
		if !ok {
			continue
		}
		if _, ok := byPort[key]; !ok {
			byPort[key] = mo
		}
	}

	var existing []*ManagedObject
	for _, p := range ports {
		if mo, ok := byPort[p]; ok {
			existing = append(existing, mo)
		}
	}
	return existing, nil
}

// Plan stages one assignment per missing port.
func (s *VSANPortAssignmentSpec) Plan(scope *ManagedObject, existing []*ManagedObject) ([]*ManagedObject, error) {
	ports, err := s.fcPorts()
	if err != nil {
		return nil, err
	}

	present := make(map[FCPort]bool, len(existing))
	for _, mo := range existing {
		if key, ok := fcPortOf(mo); ok {
			present[key] = true
		}
	}

	var roots []*ManagedObject
	for _, p := range ports {
		if present[p] {
			continue
		}
		mo, err := Stage(scope, ClassVSANPortAssignment, Properties{
			"slotId":        strconv.Itoa(p.Slot),
			"portId":        strconv.Itoa(p.Port),
			"switchId":      strings.ToUpper(s.SwitchID),
			"adminState":    "enabled",
			"autoNegotiate": "yes",
		})
		if err != nil {
			return nil, err
		}
		roots = append(roots, mo)
	}
	return roots, nil
}
