package ucs

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"net/netip"
	"slices"
)

// Assignment orders accepted by ippoolPool.
var ipPoolAssignmentOrders = []string{"default", "sequential"}

// IPPoolSpec describes an IPv4 address pool and its blocks.
type IPPoolSpec struct {
	OrgScope        `mapstructure:",squash"`
	Name            string        `mapstructure:"-"`
	Descr           string        `mapstructure:"descr"`
	AssignmentOrder string        `mapstructure:"assignment_order" default:"sequential"`
	Blocks          []IPBlockSpec `mapstructure:"-"`
}

// IPBlockSpec describes a contiguous address range. The range is given either
// as From and To, or as From and Size.
type IPBlockSpec struct {
	From    string `mapstructure:"from"`
	To      string `mapstructure:"to"`
	Size    int    `mapstructure:"size"`
	Gateway string `mapstructure:"def_gw"`
	Subnet  string `mapstructure:"subnet"`
	PrimDNS string `mapstructure:"prim_dns"`
	SecDNS  string `mapstructure:"sec_dns"`
}

// Range returns the first and last address of the block.
func (b IPBlockSpec) Range() (netip.Addr, netip.Addr, error) {
	from, err := netip.ParseAddr(b.From)
	if err != nil || !from.Is4() {
		return netip.Addr{}, netip.Addr{}, NewInvalidArgumentError("validate ip block", "from %q is not an IPv4 address", b.From)
	}

	var to netip.Addr
	switch {
	case b.To != "":
		to, err = netip.ParseAddr(b.To)
		if err != nil || !to.Is4() {
			return netip.Addr{}, netip.Addr{}, NewInvalidArgumentError("validate ip block", "to %q is not an IPv4 address", b.To)
		}
	case b.Size > 0:
		last := uint64(addrValue(from)) + uint64(b.Size) - 1
		if last > math.MaxUint32 {
			return netip.Addr{}, netip.Addr{}, NewInvalidArgumentError("validate ip block", "block of %d addresses from %s overflows the address space", b.Size, b.From)
		}
		to = valueAddr(uint32(last))
	default:
		return netip.Addr{}, netip.Addr{}, NewInvalidArgumentError("validate ip block", "block starting at %s needs either to or size", b.From)
	}

	if to.Less(from) {
		return netip.Addr{}, netip.Addr{}, NewInvalidArgumentError("validate ip block", "block end %s is before start %s", to, from)
	}
	if b.To != "" && b.Size > 0 {
		if want := blockSize(from, to); want != b.Size {
			return netip.Addr{}, netip.Addr{}, NewInvalidArgumentError("validate ip block", "block %s-%s holds %d addresses, not %d", from, to, want, b.Size)
		}
	}
	return from, to, nil
}

func blockSize(from, to netip.Addr) int {
	return int(addrValue(to)-addrValue(from)) + 1
}

func addrValue(a netip.Addr) uint32 {
	return binary.BigEndian.Uint32(a.AsSlice())
}

func valueAddr(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}

func (b IPBlockSpec) properties() (Properties, error) {
	from, to, err := b.Range()
	if err != nil {
		return nil, err
	}

	props := Properties{
		"from": from.String(),
		"to":   to.String(),
	}
	for key, value := range map[string]string{
		"defGw":   b.Gateway,
		"subnet":  b.Subnet,
		"primDns": b.PrimDNS,
		"secDns":  b.SecDNS,
	} {
		if value == "" {
			continue
		}
		if _, err := netip.ParseAddr(value); err != nil {
			return nil, NewInvalidArgumentError("validate ip block", "%s %q is not an IP address", key, value)
		}
		props[key] = value
	}
	return props, nil
}

func (s *IPPoolSpec) Kind() string { return KindIPPool }

func (s *IPPoolSpec) Validate() error {
	if err := s.validateOrg(s.Kind()); err != nil {
		return err
	}
	if err := validateName(s.Kind(), s.Name); err != nil {
		return err
	}
	if s.AssignmentOrder != "" && !slices.Contains(ipPoolAssignmentOrders, s.AssignmentOrder) {
		return NewInvalidArgumentError("validate "+s.Kind(), "assignment order must be one of %v, got %q", ipPoolAssignmentOrders, s.AssignmentOrder)
	}

	var ranges [][2]netip.Addr
	for i, block := range s.Blocks {
		if _, err := block.properties(); err != nil {
			return err
		}
		from, to, _ := block.Range()
		for _, r := range ranges {
			if !(to.Less(r[0]) || r[1].Less(from)) {
				return NewInvalidArgumentError("validate "+s.Kind(), "block %d (%s-%s) overlaps block %s-%s", i, from, to, r[0], r[1])
			}
		}
		ranges = append(ranges, [2]netip.Addr{from, to})
	}
	return nil
}

func (s *IPPoolSpec) Lookup(ctx context.Context, c Client, scope *ManagedObject) ([]*ManagedObject, error) {
	return lookupNamed(ctx, c, scope, ClassIPPool, s.Name)
}

// Plan stages the pool with all of its blocks as one subtree.
func (s *IPPoolSpec) Plan(scope *ManagedObject, existing []*ManagedObject) ([]*ManagedObject, error) {
	props := Properties{"name": s.Name}
	setIfNotEmpty(props, "descr", s.Descr)
	setIfNotEmpty(props, "assignmentOrder", s.AssignmentOrder)

	pool, err := stageNamedRoot(scope, existing, ClassIPPool, props)
	if err != nil || pool == nil {
		return nil, err
	}

	for i, block := range s.Blocks {
		blockProps, err := block.properties()
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if _, err := Stage(pool, ClassIPBlock, blockProps); err != nil {
			return nil, err
		}
	}
	return []*ManagedObject{pool}, nil
}

// DN returns the DN of the pool in the organization given by path.
func (s *IPPoolSpec) DN() (DN, error) {
	org, err := OrgDN(s.Org)
	if err != nil {
		return "", err
	}
	return ResolveName(org, ClassIPPool, s.Name)
}
