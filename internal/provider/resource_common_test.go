package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/tfsdk"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-go/tftypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func TestKindTitle(t *testing.T) {
	tests := map[string]string{
		ucs.KindIPPool:                 "IP Pool",
		ucs.KindLANConnPolicy:          "LAN Connection Policy",
		ucs.KindSANConnPolicy:          "SAN Connection Policy",
		ucs.KindVSANPortAssignment:     "VSAN Port Assignment",
		ucs.KindServiceProfileTemplate: "Service Profile Template",
	}

	for kind, want := range tests {
		assert.Equal(t, want, kindTitle(kind), kind)
	}
}

func TestNameFromRN(t *testing.T) {
	name, err := nameFromRN(ucs.ClassIPPool, "ip-pool-DC01")
	require.NoError(t, err)
	assert.Equal(t, "DC01", name)

	name, err = nameFromRN(ucs.ClassServiceProfile, "ls-esxi")
	require.NoError(t, err)
	assert.Equal(t, "esxi", name)

	_, err = nameFromRN(ucs.ClassIPPool, "lan-conn-pol-esx")
	assert.Error(t, err)

	_, err = nameFromRN(ucs.ClassIPPool, "ip-pool-")
	assert.Error(t, err)
}

func TestAddUCSError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		summary string
	}{
		{
			name:    "invalid argument",
			err:     ucs.NewInvalidArgumentError("validate ip_pool", "bad block"),
			summary: "Error Creating IP Pool: Invalid Argument",
		},
		{
			name:    "unreachable",
			err:     ucs.NewConnectionError("ucsm:443", errors.New("connection refused")),
			summary: "Error Creating IP Pool: Connection Failed",
		},
		{
			name:    "bad credentials",
			err:     &ucs.UCSError{Kind: ucs.KindConnection, Category: ucs.ErrorCategoryAuthentication, Code: ucs.CodeAuthFailed},
			summary: "Error Creating IP Pool: Authentication Failed",
		},
		{
			name:    "not found",
			err:     &ucs.UCSError{Kind: ucs.KindNotFound, Operation: "resolve"},
			summary: "Error Creating IP Pool: Not Found",
		},
		{
			name:    "permission",
			err:     &ucs.UCSError{Kind: ucs.KindRemote, Category: ucs.ErrorCategoryPermission, Code: ucs.CodeUnauthorizedWrite},
			summary: "Error Creating IP Pool: Permission Denied",
		},
		{
			name:    "remote",
			err:     &ucs.UCSError{Kind: ucs.KindRemote, Category: ucs.ErrorCategoryConflict, Code: ucs.CodeAlreadyExists},
			summary: "Error Creating IP Pool: UCS Manager Error",
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			summary: "Error Creating IP Pool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags diag.Diagnostics
			addUCSError(&diags, "Error Creating IP Pool", tt.err)

			require.Len(t, diags, 1)
			assert.Equal(t, diag.SeverityError, diags[0].Severity())
			assert.Equal(t, tt.summary, diags[0].Summary())
			assert.Contains(t, diags[0].Detail(), tt.err.Error())
		})
	}
}

func TestProviderDataFrom(t *testing.T) {
	var diags diag.Diagnostics
	assert.Nil(t, providerDataFrom(nil, &diags, "Resource"))
	assert.False(t, diags.HasError())

	assert.Nil(t, providerDataFrom("not provider data", &diags, "Resource"))
	require.True(t, diags.HasError())
	assert.Equal(t, "Unexpected Resource Configure Type", diags[0].Summary())

	data := ucs.NewProviderData(ucs.DefaultConfig())
	diags = nil
	assert.Same(t, data, providerDataFrom(data, &diags, "Data Source"))
	assert.False(t, diags.HasError())
}

func TestReplaceIfOrgChanged(t *testing.T) {
	tests := []struct {
		name    string
		state   types.String
		plan    types.String
		replace bool
	}{
		{"same path", types.StringValue("root/HR"), types.StringValue("root/HR"), false},
		{"path rewritten as dn", types.StringValue("org-root/org-HR"), types.StringValue("root/HR"), false},
		{"root implied", types.StringValue("root/HR"), types.StringValue("/HR/"), false},
		{"different org", types.StringValue("root/HR"), types.StringValue("root/Finance"), true},
		{"bare name to path", types.StringValue("HR"), types.StringValue("root/HR"), true},
		{"create", types.StringNull(), types.StringValue("root"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Non-null raw state and plan mark an update of an existing resource.
			stateRaw := tftypes.NewValue(tftypes.String, "existing")
			if tt.state.IsNull() {
				stateRaw = tftypes.NewValue(tftypes.String, nil)
			}
			req := planmodifier.StringRequest{
				State:       tfsdk.State{Raw: stateRaw},
				Plan:        tfsdk.Plan{Raw: tftypes.NewValue(tftypes.String, "planned")},
				StateValue:  tt.state,
				PlanValue:   tt.plan,
				ConfigValue: tt.plan,
			}
			resp := &planmodifier.StringResponse{PlanValue: tt.plan}

			replaceIfOrgChanged().PlanModifyString(context.Background(), req, resp)

			require.False(t, resp.Diagnostics.HasError(), "%v", resp.Diagnostics)
			assert.Equal(t, tt.replace, resp.RequiresReplace)
		})
	}
}
