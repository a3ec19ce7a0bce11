package provider_test

import (
	"context"
	"math/big"
	"regexp"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/providerserver"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-go/tfprotov6"
	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/tfversion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/terraform-provider-ucs/internal/provider"
)

// Helper function to execute the dn function.
func executeDNFunction(t *testing.T, kind, scope string, naming types.Dynamic) (string, error) {
	t.Helper()
	ctx := context.Background()
	f := &provider.DNFunction{}

	var req function.RunRequest
	resp := function.RunResponse{
		Result: function.NewResultData(types.StringUnknown()),
	}
	req.Arguments = function.NewArgumentsData([]attr.Value{
		types.StringValue(kind),
		types.StringValue(scope),
		naming,
	})

	f.Run(ctx, req, &resp)

	if resp.Error != nil {
		return "", resp.Error
	}

	result, ok := resp.Result.Value().(types.String)
	require.True(t, ok, "result is %T", resp.Result.Value())
	return result.ValueString(), nil
}

func namingString(name string) types.Dynamic {
	return types.DynamicValue(types.StringValue(name))
}

func namingObject(t *testing.T, attrs map[string]attr.Value) types.Dynamic {
	t.Helper()
	attrTypes := make(map[string]attr.Type, len(attrs))
	for k, v := range attrs {
		attrTypes[k] = v.Type(context.Background())
	}
	obj, diags := types.ObjectValue(attrTypes, attrs)
	require.False(t, diags.HasError(), "%v", diags)
	return types.DynamicValue(obj)
}

func TestDNFunction_Metadata(t *testing.T) {
	f := &provider.DNFunction{}

	var resp function.MetadataResponse
	f.Metadata(context.Background(), function.MetadataRequest{}, &resp)

	assert.Equal(t, "dn", resp.Name)
}

func TestDNFunction_Definition(t *testing.T) {
	f := &provider.DNFunction{}

	var resp function.DefinitionResponse
	f.Definition(context.Background(), function.DefinitionRequest{}, &resp)

	require.Len(t, resp.Definition.Parameters, 3)
	assert.Equal(t, "kind", resp.Definition.Parameters[0].GetName())
	assert.Equal(t, "scope", resp.Definition.Parameters[1].GetName())
	assert.Equal(t, "naming", resp.Definition.Parameters[2].GetName())
	assert.Contains(t, resp.Definition.MarkdownDescription, "ip-pool")
	assert.IsType(t, function.StringReturn{}, resp.Definition.Return)
}

func TestDNFunction_Names(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		scope string
		obj   string
		want  string
	}{
		{"pool in root", "ip-pool", "root", "DC01", "org-root/ip-pool-DC01"},
		{"pool by class id", "ippoolPool", "root", "DC01", "org-root/ip-pool-DC01"},
		{"nested org path", "lan-conn-pol", "root/Corp/HR", "esx", "org-root/org-Corp/org-HR/lan-conn-pol-esx"},
		{"org dn scope", "san-conn-pol", "org-root/org-HR", "esx", "org-root/org-HR/san-conn-pol-esx"},
		{"service profile", "ls", "root", "esxi-template", "org-root/ls-esxi-template"},
		{"vsan on fabric", "net", "fabric/san/A", "vsan100", "fabric/san/A/net-vsan100"},
		{"sub-organization", "org", "root", "HR", "org-root/org-HR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := executeDNFunction(t, tt.kind, tt.scope, namingString(tt.obj))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDNFunction_NamingProperties(t *testing.T) {
	t.Run("ip block", func(t *testing.T) {
		got, err := executeDNFunction(t, "block", "org-root/ip-pool-DC01", namingObject(t, map[string]attr.Value{
			"from": types.StringValue("10.0.0.1"),
			"to":   types.StringValue("10.0.0.9"),
		}))
		require.NoError(t, err)
		assert.Equal(t, "org-root/ip-pool-DC01/block-10.0.0.1-10.0.0.9", got)
	})

	t.Run("numeric port", func(t *testing.T) {
		got, err := executeDNFunction(t, "phys", "fabric/san/A/net-vsan100", namingObject(t, map[string]attr.Value{
			"switchId": types.StringValue("A"),
			"slotId":   types.NumberValue(big.NewFloat(1)),
			"portId":   types.NumberValue(big.NewFloat(13)),
		}))
		require.NoError(t, err)
		assert.Equal(t, "fabric/san/A/net-vsan100/phys-switch-A-slot-1-port-13", got)
	})
}

func TestDNFunction_ErrorCases(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		scope   string
		naming  types.Dynamic
		wantErr string
	}{
		{"unknown kind", "widget", "root", namingString("x"), "unknown kind"},
		{"bad scope", "ip-pool", "root//HR", namingString("x"), ""},
		{"invalid name", "ip-pool", "root", namingString("has space"), "invalid"},
		{"null naming", "ip-pool", "root", types.DynamicNull(), "cannot be null"},
		{"list naming", "ip-pool", "root", types.DynamicValue(types.ListValueMust(types.StringType, []attr.Value{types.StringValue("x")})), "must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeDNFunction(t, tt.kind, tt.scope, tt.naming)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestAccDNFunction(t *testing.T) {
	if !provider.IsAccTest() {
		t.Skip("Skipping acceptance test - set TF_ACC=1 to run")
	}

	resource.UnitTest(t, resource.TestCase{
		TerraformVersionChecks: []tfversion.TerraformVersionCheck{
			tfversion.SkipBelow(tfversion.Version1_8_0),
		},
		ProtoV6ProviderFactories: map[string]func() (tfprotov6.ProviderServer, error){
			"ucs": providerserver.NewProtocol6WithError(provider.New("test")()),
		},
		Steps: []resource.TestStep{
			{
				Config: `
output "pool" {
  value = provider::ucs::dn("ip-pool", "root/HR", "DC01")
}

output "block" {
  value = provider::ucs::dn("block", "org-root/ip-pool-DC01", { from = "10.0.0.1", to = "10.0.0.9" })
}`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckOutput("pool", "org-root/org-HR/ip-pool-DC01"),
					resource.TestCheckOutput("block", "org-root/ip-pool-DC01/block-10.0.0.1-10.0.0.9"),
				),
			},
			{
				Config: `
output "bad" {
  value = provider::ucs::dn("widget", "root", "x")
}`,
				ExpectError: regexp.MustCompile(`unknown kind`),
			},
		},
	})
}
