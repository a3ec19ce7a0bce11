package helpers_test

import (
	"math/big"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/terraform-provider-ucs/internal/provider/helpers"
	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func TestNamingFromTerraform(t *testing.T) {
	tests := []struct {
		name  string
		value attr.Value
		want  helpers.Naming
	}{
		{
			name:  "string",
			value: types.StringValue("DC01"),
			want:  helpers.Naming{Name: "DC01"},
		},
		{
			name:  "dynamic string",
			value: types.DynamicValue(types.StringValue("esx")),
			want:  helpers.Naming{Name: "esx"},
		},
		{
			name: "object with numbers",
			value: types.ObjectValueMust(
				map[string]attr.Type{"slotId": types.NumberType, "portId": types.NumberType},
				map[string]attr.Value{
					"slotId": types.NumberValue(big.NewFloat(1)),
					"portId": types.NumberValue(big.NewFloat(13)),
				},
			),
			want: helpers.Naming{Properties: ucs.Properties{"slotId": "1", "portId": "13"}},
		},
		{
			name: "map of strings",
			value: types.MapValueMust(types.StringType, map[string]attr.Value{
				"from": types.StringValue("10.0.0.1"),
				"to":   types.StringValue("10.0.0.9"),
			}),
			want: helpers.Naming{Properties: ucs.Properties{"from": "10.0.0.1", "to": "10.0.0.9"}},
		},
		{
			name: "bool and int64",
			value: types.ObjectValueMust(
				map[string]attr.Type{"enabled": types.BoolType, "id": types.Int64Type},
				map[string]attr.Value{
					"enabled": types.BoolValue(true),
					"id":      types.Int64Value(100),
				},
			),
			want: helpers.Naming{Properties: ucs.Properties{"enabled": "yes", "id": "100"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := helpers.NamingFromTerraform(t.Context(), tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Properties == nil, got.IsName())
		})
	}
}

func TestNamingFromTerraform_Errors(t *testing.T) {
	tests := []struct {
		name    string
		value   attr.Value
		wantErr string
	}{
		{"null", types.StringNull(), "cannot be null"},
		{"unknown dynamic", types.DynamicUnknown(), "cannot be null"},
		{"list", types.ListValueMust(types.StringType, []attr.Value{types.StringValue("x")}), "must be a string"},
		{
			"nested list property",
			types.ObjectValueMust(
				map[string]attr.Type{"ports": types.ListType{ElemType: types.StringType}},
				map[string]attr.Value{"ports": types.ListValueMust(types.StringType, nil)},
			),
			`naming property "ports" must be a string or number`,
		},
		{
			"null property",
			types.ObjectValueMust(
				map[string]attr.Type{"from": types.StringType},
				map[string]attr.Value{"from": types.StringNull()},
			),
			`naming property "from" cannot be null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := helpers.NamingFromTerraform(t.Context(), tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
