package planmodifiers

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/types"

	customtypes "github.com/isometry/terraform-provider-ucs/internal/provider/types"
	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// dnFromOrgAndName implements the plan modifier.
type dnFromOrgAndName struct {
	class ucs.ClassID
}

// DNFromOrgAndName returns a plan modifier that computes the dn of an object of
// the given class from the org and name attributes.
//
// The dn is only known at plan time when org is written as a path. For a bare
// organization name the prior state value is kept while org and name are
// unchanged, and the value is left unknown otherwise.
func DNFromOrgAndName(class ucs.ClassID) planmodifier.String {
	return dnFromOrgAndName{class: class}
}

// Description returns a human-readable description of the plan modifier.
func (m dnFromOrgAndName) Description(_ context.Context) string {
	return fmt.Sprintf("computes the %s dn from org and name when org is a path", m.class)
}

// MarkdownDescription returns a markdown description of the plan modifier.
func (m dnFromOrgAndName) MarkdownDescription(_ context.Context) string {
	return fmt.Sprintf("computes the `%s` dn from `org` and `name` when `org` is a path", m.class)
}

// PlanModifyString implements the plan modification logic.
func (m dnFromOrgAndName) PlanModifyString(ctx context.Context, req planmodifier.StringRequest, resp *planmodifier.StringResponse) {
	if !req.ConfigValue.IsNull() {
		return
	}

	var org customtypes.OrgPathValue
	var name types.String
	resp.Diagnostics.Append(req.Plan.GetAttribute(ctx, path.Root("org"), &org)...)
	resp.Diagnostics.Append(req.Plan.GetAttribute(ctx, path.Root("name"), &name)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if name.IsUnknown() || name.IsNull() || org.IsUnknown() || org.IsNull() {
		return
	}

	if orgDN, ok := org.DN(); ok {
		dn, err := ucs.ResolveName(orgDN, m.class, name.ValueString())
		if err != nil {
			resp.Diagnostics.AddAttributeError(
				path.Root("name"),
				"Invalid Object Name",
				fmt.Sprintf("Could not compute the distinguished name: %s", err.Error()),
			)
			return
		}
		resp.PlanValue = types.StringValue(dn.String())
		return
	}

	// Bare organization names are resolved by UCS Manager at apply time.
	if req.StateValue.IsNull() || req.State.Raw.IsNull() {
		return
	}

	var priorOrg customtypes.OrgPathValue
	var priorName types.String
	resp.Diagnostics.Append(req.State.GetAttribute(ctx, path.Root("org"), &priorOrg)...)
	resp.Diagnostics.Append(req.State.GetAttribute(ctx, path.Root("name"), &priorName)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if priorOrg.ValueString() == org.ValueString() && priorName.Equal(name) {
		resp.PlanValue = req.StateValue
	}
}
