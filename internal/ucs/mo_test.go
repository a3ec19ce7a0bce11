package ucs

import (
	"encoding/xml"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_ComposesSubtree(t *testing.T) {
	org := &ManagedObject{ClassID: ClassOrg, DN: RootOrgDN}

	pool, err := Stage(org, ClassIPPool, Properties{"name": "DC03"})
	require.NoError(t, err)
	block, err := Stage(pool, ClassIPBlock, Properties{"from": "10.10.0.1", "to": "10.10.0.100"})
	require.NoError(t, err)

	assert.Equal(t, DN("org-root/ip-pool-DC03"), pool.DN)
	assert.Equal(t, DN("org-root/ip-pool-DC03/block-10.10.0.1-10.10.0.100"), block.DN)
	assert.Same(t, pool, block.Parent())
	assert.Same(t, org, pool.Parent())
	assert.True(t, pool.Staged())

	// The queried parent is not modified; the staged one collects its children.
	assert.Empty(t, org.Children)
	require.Len(t, pool.Children, 1)
	assert.Same(t, block, pool.Children[0])
}

func TestStage_CopiesProperties(t *testing.T) {
	org := &ManagedObject{ClassID: ClassOrg, DN: RootOrgDN}
	props := Properties{"name": "DC03"}

	pool, err := Stage(org, ClassIPPool, props)
	require.NoError(t, err)
	props["name"] = "changed"

	assert.Equal(t, "DC03", pool.Name())
}

func TestStage_Errors(t *testing.T) {
	_, err := Stage(nil, ClassIPPool, Properties{"name": "DC03"})
	assert.True(t, IsInvalidArgument(err))

	_, err = Stage(&ManagedObject{DN: RootOrgDN}, ClassIPPool, Properties{})
	assert.True(t, IsInvalidArgument(err))
}

func TestManagedObject_MarshalXML(t *testing.T) {
	org := &ManagedObject{ClassID: ClassOrg, DN: RootOrgDN}
	pool, err := Stage(org, ClassIPPool, Properties{"name": "DC03", "descr": "dc"})
	require.NoError(t, err)
	_, err = Stage(pool, ClassIPBlock, Properties{"from": "10.10.0.1", "to": "10.10.0.100", "defGw": "10.10.0.1"})
	require.NoError(t, err)

	out, err := xml.Marshal(pool)
	require.NoError(t, err)

	assert.Equal(t,
		`<ippoolPool dn="org-root/ip-pool-DC03" descr="dc" name="DC03" status="created">`+
			`<ippoolBlock rn="block-10.10.0.1-10.10.0.100" defGw="10.10.0.1" from="10.10.0.1" to="10.10.0.100" status="created"></ippoolBlock>`+
			`</ippoolPool>`,
		string(out))
}

func TestManagedObject_UnmarshalXML(t *testing.T) {
	input := `<configConfMos cookie="c" inHierarchical="false"><inConfigs><pair key="org-root/lan-conn-pol-esx">` +
		`<vnicLanConnPolicy dn="org-root/lan-conn-pol-esx" name="esx" status="created">` +
		`<vnicEther rn="ether-eth0" name="eth0" order="1" status="created"/>` +
		`<vnicEther rn="ether-eth1" name="eth1" order="2" status="created"/>` +
		`</vnicLanConnPolicy></pair></inConfigs></configConfMos>`

	var req ConfMosRequest
	require.NoError(t, xml.Unmarshal([]byte(input), &req))
	require.Len(t, req.InConfigs.Pairs, 1)

	root := req.InConfigs.Pairs[0].Object
	require.NotNil(t, root)

	want := &ManagedObject{
		ClassID:    ClassLANConnPolicy,
		DN:         "org-root/lan-conn-pol-esx",
		RN:         "lan-conn-pol-esx",
		Properties: Properties{"name": "esx"},
		Status:     StatusCreated,
		Children: []*ManagedObject{
			{
				ClassID:    ClassEther,
				DN:         "org-root/lan-conn-pol-esx/ether-eth0",
				RN:         "ether-eth0",
				Properties: Properties{"name": "eth0", "order": "1"},
				Status:     StatusCreated,
			},
			{
				ClassID:    ClassEther,
				DN:         "org-root/lan-conn-pol-esx/ether-eth1",
				RN:         "ether-eth1",
				Properties: Properties{"name": "eth1", "order": "2"},
				Status:     StatusCreated,
			},
		},
	}

	if diff := cmp.Diff(want, root, cmpopts.IgnoreUnexported(ManagedObject{})); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}
	assert.Same(t, root, root.Children[1].Parent())
}

func TestDecodeResponse_ErrorElement(t *testing.T) {
	body := []byte(`<error cookie="" response="yes" errorCode="552" invocationResult="unidentified-fail" errorDescr="Authorization required"/>`)

	var resp ResolveDNResponse
	err := decodeResponse(MethodResolveDN, body, &resp)
	require.Error(t, err)

	var ucsErr *UCSError
	require.ErrorAs(t, err, &ucsErr)
	assert.Equal(t, CodeAuthRequired, ucsErr.Code)
	assert.Equal(t, "Authorization required", ucsErr.Message)
}

func TestDecodeResponse_UnexpectedElement(t *testing.T) {
	var resp ResolveDNResponse
	err := decodeResponse(MethodResolveDN, []byte(`<configResolveClass/>`), &resp)
	assert.ErrorContains(t, err, "unexpected element")
}
