package provider

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/listplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	customtypes "github.com/isometry/terraform-provider-ucs/internal/provider/types"
	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

var ipv4Regex = regexp.MustCompile(`^((25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])$`)

// addUCSError reports an engine error, naming its kind in the summary so that
// configuration mistakes are distinguishable from endpoint failures.
func addUCSError(diags *diag.Diagnostics, summary string, err error) {
	var ucsErr *ucs.UCSError
	if !errors.As(err, &ucsErr) {
		diags.AddError(summary, err.Error())
		return
	}

	detail := err.Error()
	switch ucsErr.Kind {
	case ucs.KindInvalidArgument:
		diags.AddError(summary+": Invalid Argument", detail)
	case ucs.KindConnection:
		if ucsErr.Category == ucs.ErrorCategoryAuthentication {
			diags.AddError(summary+": Authentication Failed",
				detail+"\n\nCheck the username and password.")
			return
		}
		diags.AddError(summary+": Connection Failed",
			detail+"\n\nCheck the hostname, port and secure settings, and that UCS Manager is reachable.")
	case ucs.KindNotFound:
		diags.AddError(summary+": Not Found", detail)
	default:
		if ucsErr.Category == ucs.ErrorCategoryPermission {
			diags.AddError(summary+": Permission Denied",
				detail+"\n\nThe configured user does not have the privileges required for this operation.")
			return
		}
		diags.AddError(summary+": UCS Manager Error", detail)
	}
}

// providerDataFrom extracts the engine handle passed by the provider's Configure.
func providerDataFrom(providerData any, diags *diag.Diagnostics, kind string) *ucs.ProviderData {
	if providerData == nil {
		return nil
	}

	data, ok := providerData.(*ucs.ProviderData)
	if !ok {
		diags.AddError(
			fmt.Sprintf("Unexpected %s Configure Type", kind),
			fmt.Sprintf("Expected *ucs.ProviderData, got: %T. Please report this issue to the provider developers.", providerData),
		)
		return nil
	}
	return data
}

// reconcilingResource holds what every managed resource needs: a way to reach
// the configured endpoint's reconciler.
type reconcilingResource struct {
	data *ucs.ProviderData
}

func (r *reconcilingResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	// Prevent panic if the provider has not been configured.
	if req.ProviderData == nil {
		return
	}
	r.data = providerDataFrom(req.ProviderData, &resp.Diagnostics, "Resource")
}

func (r *reconcilingResource) reconciler(ctx context.Context, diags *diag.Diagnostics) *ucs.Reconciler {
	if r.data == nil {
		diags.AddError(
			"Unconfigured Provider",
			"The provider has not been configured. Please report this issue to the provider developers.",
		)
		return nil
	}

	reconciler, err := r.data.Reconciler(ctx)
	if err != nil {
		addUCSError(diags, "Unable to Connect to UCS Manager", err)
		return nil
	}
	r.data.Stats(ctx)
	return reconciler
}

// present makes spec present and reports the DN of the object. A missing
// scope container is an error here: Terraform needs the object to exist
// after Create.
func (r *reconcilingResource) present(ctx context.Context, spec ucs.Resource, diags *diag.Diagnostics) (ucs.DN, bool) {
	reconciler := r.reconciler(ctx, diags)
	if reconciler == nil {
		return "", false
	}

	result, err := reconciler.Present(ctx, spec)
	if err != nil {
		addUCSError(diags, "Error Creating "+kindTitle(spec.Kind()), err)
		return "", false
	}

	if !result.Changed && !result.Found {
		diags.AddError(
			"Error Creating "+kindTitle(spec.Kind()),
			fmt.Sprintf("The container for this %s does not exist on UCS Manager. "+
				"Create the organization (or VSAN) first, then apply again.", strings.ReplaceAll(spec.Kind(), "_", " ")),
		)
		return "", false
	}

	if !result.Changed {
		diags.AddWarning(
			"Existing Object Adopted",
			fmt.Sprintf("%s already existed and was adopted without changes. "+
				"Its properties were not compared with the configuration.", result.DN),
		)
	}

	tflog.Debug(ctx, "Reconciled resource present", map[string]any{
		"kind":    spec.Kind(),
		"dn":      result.DN.String(),
		"changed": result.Changed,
	})
	return result.DN, true
}

// observe reports whether spec is completely present.
func (r *reconcilingResource) observe(ctx context.Context, spec ucs.Resource, diags *diag.Diagnostics) (ucs.Result, bool) {
	reconciler := r.reconciler(ctx, diags)
	if reconciler == nil {
		return ucs.Result{}, false
	}

	result, err := reconciler.Observe(ctx, spec)
	if err != nil {
		addUCSError(diags, "Error Reading "+kindTitle(spec.Kind()), err)
		return ucs.Result{}, false
	}
	return result, true
}

// absent removes spec. Objects that are already gone are not an error.
func (r *reconcilingResource) absent(ctx context.Context, spec ucs.Resource, diags *diag.Diagnostics) {
	reconciler := r.reconciler(ctx, diags)
	if reconciler == nil {
		return
	}

	result, err := reconciler.Absent(ctx, spec)
	if err != nil {
		if ucs.IsNotFoundError(err) {
			tflog.Debug(ctx, "Resource already absent", map[string]any{"kind": spec.Kind()})
			return
		}
		addUCSError(diags, "Error Deleting "+kindTitle(spec.Kind()), err)
		return
	}

	tflog.Debug(ctx, "Reconciled resource absent", map[string]any{
		"kind":    spec.Kind(),
		"dn":      result.DN.String(),
		"changed": result.Changed,
	})
}

// kindTitle turns "ip_pool" into "IP Pool" for diagnostics.
func kindTitle(kind string) string {
	words := strings.Split(kind, "_")
	for i, w := range words {
		switch w {
		case "ip", "lan", "san", "vsan":
			words[i] = strings.ToUpper(w)
		default:
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// importOrgScoped sets org and name from an imported DN such as
// "org-root/org-HR/ip-pool-DC01".
func importOrgScoped(ctx context.Context, id string, class ucs.ClassID, resp *resource.ImportStateResponse) {
	dn, err := ucs.ParseDN(id)
	if err != nil {
		addUCSError(&resp.Diagnostics, "Invalid Import ID", err)
		return
	}

	parent := dn.Parent()
	if parent.IsZero() || !strings.HasPrefix(parent.RN(), "org-") {
		resp.Diagnostics.AddError(
			"Invalid Import ID",
			fmt.Sprintf("Expected the DN of an object inside an organization, such as org-root/org-HR/<rn>, got %q.", id),
		)
		return
	}

	name, err := nameFromRN(class, dn.RN())
	if err != nil {
		resp.Diagnostics.AddError("Invalid Import ID", err.Error())
		return
	}

	tflog.Debug(ctx, "Importing UCS object", map[string]any{
		"dn":   dn.String(),
		"org":  parent.String(),
		"name": name,
	})

	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), types.StringValue(dn.String()))...)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("dn"), types.StringValue(dn.String()))...)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("org"), customtypes.OrgPath(parent.String()))...)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("name"), types.StringValue(name))...)
}

// nameFromRN recovers the name of a singly named class from its relative name.
func nameFromRN(class ucs.ClassID, rn string) (string, error) {
	sample, err := ucs.RN(class, ucs.Properties{"name": "x"})
	if err != nil {
		return "", err
	}
	prefix := strings.TrimSuffix(sample, "x")
	name, ok := strings.CutPrefix(rn, prefix)
	if !ok || name == "" {
		return "", fmt.Errorf("relative name %q does not name a %s (expected %s<name>)", rn, class, prefix)
	}
	return name, nil
}

// optionalString returns the value of an optional attribute, or "".
func optionalString(v types.String) string {
	if v.IsNull() || v.IsUnknown() {
		return ""
	}
	return v.ValueString()
}

// Arguments other than org and name are only known in state once they have
// been applied; an imported object carries org and name only. Changing an
// argument that is in state replaces the object, while filling one in after
// import is recorded in place.
const replaceIfSetDescription = "Changing this value replaces the object, unless it is being recorded for the first time after import."

func replaceIfSetString() planmodifier.String {
	return stringplanmodifier.RequiresReplaceIf(
		func(ctx context.Context, req planmodifier.StringRequest, resp *stringplanmodifier.RequiresReplaceIfFuncResponse) {
			resp.RequiresReplace = !req.StateValue.IsNull()
		},
		replaceIfSetDescription, replaceIfSetDescription,
	)
}

func replaceIfSetList() planmodifier.List {
	return listplanmodifier.RequiresReplaceIf(
		func(ctx context.Context, req planmodifier.ListRequest, resp *listplanmodifier.RequiresReplaceIfFuncResponse) {
			resp.RequiresReplace = !req.StateValue.IsNull()
		},
		replaceIfSetDescription, replaceIfSetDescription,
	)
}

// replaceIfOrgChanged replaces the object when org names a different
// organization. Rewriting a path in another form ("root/HR" as
// "org-root/org-HR") is recorded in place.
func replaceIfOrgChanged() planmodifier.String {
	return stringplanmodifier.RequiresReplaceIf(
		func(ctx context.Context, req planmodifier.StringRequest, resp *stringplanmodifier.RequiresReplaceIfFuncResponse) {
			prior := customtypes.OrgPathValue{StringValue: req.StateValue}
			planned := customtypes.OrgPathValue{StringValue: req.PlanValue}
			equal, diags := prior.StringSemanticEquals(ctx, planned)
			resp.Diagnostics.Append(diags...)
			resp.RequiresReplace = !equal
		},
		"Changing the organization replaces the object.",
		"Changing the organization replaces the object.",
	)
}
