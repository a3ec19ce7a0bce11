// Package helpers converts Terraform values into the naming values used to
// address UCS Manager objects.
package helpers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Naming is the naming part of a DN: either a plain object name or a set of
// naming properties (e.g. "from" and "to" for an IP block).
type Naming struct {
	Name       string
	Properties ucs.Properties
}

// IsName reports whether the naming is a plain object name.
func (n Naming) IsName() bool {
	return n.Properties == nil
}

// NamingFromTerraform reads a naming value: a string, or an object or map of
// scalar naming properties. Dynamic values are unwrapped.
func NamingFromTerraform(ctx context.Context, value attr.Value) (Naming, error) {
	if value == nil || value.IsNull() || value.IsUnknown() {
		return Naming{}, fmt.Errorf("naming cannot be null or unknown")
	}

	switch v := value.(type) {
	case types.Dynamic:
		return NamingFromTerraform(ctx, v.UnderlyingValue())
	case types.String:
		return Naming{Name: v.ValueString()}, nil
	case types.Object:
		return namingFromElements(ctx, v.Attributes())
	case types.Map:
		return namingFromElements(ctx, v.Elements())
	default:
		return Naming{}, fmt.Errorf("naming must be a string or an object of naming properties, got %s", value.Type(ctx))
	}
}

func namingFromElements(ctx context.Context, elements map[string]attr.Value) (Naming, error) {
	props := make(ucs.Properties, len(elements))
	for key, elem := range elements {
		s, err := scalarString(ctx, elem)
		if err != nil {
			return Naming{}, fmt.Errorf("naming property %q %w", key, err)
		}
		props[key] = s
	}
	return Naming{Properties: props}, nil
}

// scalarString renders a scalar the way UCS Manager writes property values.
func scalarString(ctx context.Context, value attr.Value) (string, error) {
	if value.IsNull() || value.IsUnknown() {
		return "", fmt.Errorf("cannot be null or unknown")
	}

	switch v := value.(type) {
	case types.Dynamic:
		return scalarString(ctx, v.UnderlyingValue())
	case types.String:
		return v.ValueString(), nil
	case types.Int64:
		return strconv.FormatInt(v.ValueInt64(), 10), nil
	case types.Float64:
		return strconv.FormatFloat(v.ValueFloat64(), 'f', -1, 64), nil
	case types.Number:
		bigFloat := v.ValueBigFloat()
		if bigFloat == nil {
			return "", fmt.Errorf("number value is nil")
		}
		return bigFloat.Text('f', -1), nil
	case types.Bool:
		// UCS Manager booleans are "yes"/"no"
		if v.ValueBool() {
			return "yes", nil
		}
		return "no", nil
	default:
		return "", fmt.Errorf("must be a string or number, got %s", value.Type(ctx))
	}
}
