package ucs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPBlockSpec_Range(t *testing.T) {
	tests := []struct {
		name     string
		block    IPBlockSpec
		from, to string
		wantErr  string
	}{
		{
			name:  "from and size",
			block: IPBlockSpec{From: "10.10.0.1", Size: 100},
			from:  "10.10.0.1",
			to:    "10.10.0.100",
		},
		{
			name:  "size crosses an octet",
			block: IPBlockSpec{From: "10.10.0.200", Size: 100},
			from:  "10.10.0.200",
			to:    "10.10.1.43",
		},
		{
			name:  "from and to",
			block: IPBlockSpec{From: "10.10.1.1", To: "10.10.1.200"},
			from:  "10.10.1.1",
			to:    "10.10.1.200",
		},
		{
			name:  "consistent to and size",
			block: IPBlockSpec{From: "10.10.1.1", To: "10.10.1.10", Size: 10},
			from:  "10.10.1.1",
			to:    "10.10.1.10",
		},
		{
			name:  "single address",
			block: IPBlockSpec{From: "192.168.0.5", Size: 1},
			from:  "192.168.0.5",
			to:    "192.168.0.5",
		},
		{name: "inconsistent to and size", block: IPBlockSpec{From: "10.10.1.1", To: "10.10.1.10", Size: 5}, wantErr: "holds 10 addresses"},
		{name: "missing end", block: IPBlockSpec{From: "10.10.1.1"}, wantErr: "needs either to or size"},
		{name: "reversed", block: IPBlockSpec{From: "10.10.1.10", To: "10.10.1.1"}, wantErr: "before start"},
		{name: "overflow", block: IPBlockSpec{From: "255.255.255.250", Size: 10}, wantErr: "overflows"},
		{name: "ipv6", block: IPBlockSpec{From: "2001:db8::1", Size: 10}, wantErr: "not an IPv4 address"},
		{name: "garbage", block: IPBlockSpec{From: "ten", Size: 10}, wantErr: "not an IPv4 address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := tt.block.Range()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, IsInvalidArgument(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from.String())
			assert.Equal(t, tt.to, to.String())
		})
	}
}

func TestIPPoolSpec_Validate(t *testing.T) {
	valid := func() *IPPoolSpec {
		return &IPPoolSpec{
			OrgScope: OrgScope{Org: "HR"},
			Name:     "DC03",
			Blocks: []IPBlockSpec{
				{From: "10.10.0.1", Size: 100, Gateway: "10.10.0.1", PrimDNS: "10.10.0.10"},
				{From: "10.10.1.1", Size: 200},
			},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*IPPoolSpec)
	}{
		{name: "missing org", mutate: func(s *IPPoolSpec) { s.Org = "" }},
		{name: "missing name", mutate: func(s *IPPoolSpec) { s.Name = "" }},
		{name: "name too long", mutate: func(s *IPPoolSpec) { s.Name = "a-very-long-pool-name-exceeding-32" }},
		{name: "unsafe name", mutate: func(s *IPPoolSpec) { s.Name = `DC"03` }},
		{name: "bad assignment order", mutate: func(s *IPPoolSpec) { s.AssignmentOrder = "random" }},
		{name: "overlapping blocks", mutate: func(s *IPPoolSpec) { s.Blocks[1].From = "10.10.0.50" }},
		{name: "bad gateway", mutate: func(s *IPPoolSpec) { s.Blocks[0].Gateway = "gw" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid()
			tt.mutate(spec)
			err := spec.Validate()
			require.Error(t, err)
			assert.True(t, IsInvalidArgument(err))
		})
	}
}

func TestIPPoolSpec_Plan(t *testing.T) {
	spec := &IPPoolSpec{
		OrgScope:        OrgScope{Org: "root"},
		Name:            "DC03",
		Descr:           "datacenter 03 ip pool",
		AssignmentOrder: "sequential",
		Blocks: []IPBlockSpec{
			{From: "10.10.0.1", Size: 100, Gateway: "10.10.0.1", PrimDNS: "10.10.0.10", SecDNS: "10.10.0.11"},
		},
	}
	org := &ManagedObject{ClassID: ClassOrg, DN: RootOrgDN}

	roots, err := spec.Plan(org, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	pool := roots[0]
	assert.Equal(t, Properties{"name": "DC03", "descr": "datacenter 03 ip pool", "assignmentOrder": "sequential"}, pool.Properties)
	require.Len(t, pool.Children, 1)
	assert.Equal(t, Properties{
		"from":    "10.10.0.1",
		"to":      "10.10.0.100",
		"defGw":   "10.10.0.1",
		"primDns": "10.10.0.10",
		"secDns":  "10.10.0.11",
	}, pool.Children[0].Properties)

	roots, err = spec.Plan(org, []*ManagedObject{{ClassID: ClassIPPool, DN: "org-root/ip-pool-DC03"}})
	require.NoError(t, err)
	assert.Empty(t, roots)

	dn, err := spec.DN()
	require.NoError(t, err)
	assert.Equal(t, DN("org-root/ip-pool-DC03"), dn)
}
