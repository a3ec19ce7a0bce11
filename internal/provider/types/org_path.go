package types

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types/basetypes"
	"github.com/hashicorp/terraform-plugin-go/tftypes"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Ensure the implementation satisfies the expected interfaces.
var (
	_ basetypes.StringTypable                    = OrgPathType{}
	_ basetypes.StringValuable                   = OrgPathValue{}
	_ basetypes.StringValuableWithSemanticEquals = OrgPathValue{}
)

// OrgPathType is a custom string type for organization references. Paths that
// name the same organization ("root/HR", "org-root/org-HR") are semantically
// equal.
type OrgPathType struct {
	basetypes.StringType
}

// String returns a human readable string of the type name.
func (t OrgPathType) String() string {
	return "OrgPathType"
}

// ValueType returns the Value type.
func (t OrgPathType) ValueType(ctx context.Context) attr.Value {
	return OrgPathValue{}
}

// Equal returns true if the given type is equivalent.
func (t OrgPathType) Equal(o attr.Type) bool {
	other, ok := o.(OrgPathType)
	if !ok {
		return false
	}

	return t.StringType.Equal(other.StringType)
}

// ValueFromString returns a StringValuable type given a StringValue.
func (t OrgPathType) ValueFromString(ctx context.Context, in basetypes.StringValue) (basetypes.StringValuable, diag.Diagnostics) {
	return OrgPathValue{StringValue: in}, nil
}

// ValueFromTerraform returns a Value given a tftypes.Value.
func (t OrgPathType) ValueFromTerraform(ctx context.Context, in tftypes.Value) (attr.Value, error) {
	attrValue, err := t.StringType.ValueFromTerraform(ctx, in)
	if err != nil {
		return nil, err
	}

	stringValue, ok := attrValue.(basetypes.StringValue)
	if !ok {
		return nil, fmt.Errorf("expected basetypes.StringValue, got: %T", attrValue)
	}

	stringValuable, diags := t.ValueFromString(ctx, stringValue)
	if diags.HasError() {
		return nil, fmt.Errorf("could not create OrgPathValue: %v", diags.Errors())
	}

	return stringValuable, nil
}

// OrgPathValue is an organization reference: a path such as "root/HR", a DN
// such as "org-root/org-HR", or a bare organization name.
type OrgPathValue struct {
	basetypes.StringValue
}

// Equal returns true if the given value is equivalent.
func (v OrgPathValue) Equal(o attr.Value) bool {
	other, ok := o.(OrgPathValue)
	if !ok {
		return false
	}

	return v.StringValue.Equal(other.StringValue)
}

// Type returns the type of the value.
func (v OrgPathValue) Type(ctx context.Context) attr.Type {
	return OrgPathType{}
}

// StringSemanticEquals compares two references by the DN they resolve to.
// Bare names are found by a lookup at apply time and only equal themselves.
func (v OrgPathValue) StringSemanticEquals(ctx context.Context, newValuable basetypes.StringValuable) (bool, diag.Diagnostics) {
	var diags diag.Diagnostics

	newValue, ok := newValuable.(OrgPathValue)
	if !ok {
		diags.AddError(
			"Semantic Equality Check Error",
			"An unexpected value type was received while attempting to perform semantic equality checks. "+
				"This is always an error in the provider. Please report the following to the provider developer:\n\n"+
				fmt.Sprintf("Expected OrgPathValue, but got: %T", newValuable),
		)
		return false, diags
	}

	if v.IsNull() || v.IsUnknown() || newValue.IsNull() || newValue.IsUnknown() {
		return v.Equal(newValue), diags
	}

	oldRef := v.ValueString()
	newRef := newValue.ValueString()
	if oldRef == newRef {
		return true, diags
	}
	if !ucs.IsOrgPath(oldRef) || !ucs.IsOrgPath(newRef) {
		return false, diags
	}

	oldDN, err1 := ucs.OrgDN(oldRef)
	newDN, err2 := ucs.OrgDN(newRef)
	if err1 != nil || err2 != nil {
		return false, diags
	}

	return oldDN == newDN, diags
}

// DN returns the DN of the referenced organization when it can be known
// without contacting UCS Manager.
func (v OrgPathValue) DN() (ucs.DN, bool) {
	if v.IsNull() || v.IsUnknown() || !ucs.IsOrgPath(v.ValueString()) {
		return "", false
	}
	dn, err := ucs.OrgDN(v.ValueString())
	if err != nil {
		return "", false
	}
	return dn, true
}

// OrgPath is a helper function to create an OrgPathValue.
func OrgPath(value string) OrgPathValue {
	return OrgPathValue{
		StringValue: basetypes.NewStringValue(value),
	}
}

// OrgPathNull is a helper function to create a null OrgPathValue.
func OrgPathNull() OrgPathValue {
	return OrgPathValue{
		StringValue: basetypes.NewStringNull(),
	}
}

// OrgPathUnknown is a helper function to create an unknown OrgPathValue.
func OrgPathUnknown() OrgPathValue {
	return OrgPathValue{
		StringValue: basetypes.NewStringUnknown(),
	}
}
