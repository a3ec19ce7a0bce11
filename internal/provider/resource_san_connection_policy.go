package provider

import (
	"context"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	customtypes "github.com/isometry/terraform-provider-ucs/internal/provider/types"
	"github.com/isometry/terraform-provider-ucs/internal/provider/validators"
	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &SANConnPolicyResource{}
var _ resource.ResourceWithConfigure = &SANConnPolicyResource{}
var _ resource.ResourceWithImportState = &SANConnPolicyResource{}

func NewSANConnPolicyResource() resource.Resource {
	return &SANConnPolicyResource{}
}

// SANConnPolicyResource defines the resource implementation.
type SANConnPolicyResource struct {
	reconcilingResource
}

// SANConnPolicyResourceModel describes the resource data model.
type SANConnPolicyResourceModel struct {
	ID          types.String             `tfsdk:"id"`
	DN          types.String             `tfsdk:"dn"`
	Org         customtypes.OrgPathValue `tfsdk:"org"`
	Name        types.String             `tfsdk:"name"`
	Description types.String             `tfsdk:"description"`
	WWNNPool    types.String             `tfsdk:"wwnn_pool"`
	VHBAs       []AdapterResourceModel   `tfsdk:"vhba"`
}

func (r *SANConnPolicyResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_san_connection_policy"
}

func (r *SANConnPolicyResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	s := connPolicySchema(
		"Manages a SAN connectivity policy (`vnicSanConnPolicy`), its WWNN assignment and its vHBAs. The policy "+
			"and its children are created in a single atomic request. An existing policy with the same name is adopted as is.",
		ucs.ClassSANConnPolicy,
		"vhba",
		"vHBAs of the policy. Names and non-zero orders must be unique.",
	)
	s.Attributes["wwnn_pool"] = schema.StringAttribute{
		MarkdownDescription: "The name of the WWNN pool node WWNs are drawn from.",
		Optional:            true,
		Validators: []validator.String{
			validators.IsValidObjectName(),
		},
		PlanModifiers: []planmodifier.String{
			replaceIfSetString(),
		},
	}
	resp.Schema = s
}

func (r *SANConnPolicyResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data SANConnPolicyResourceModel

	// Initialize logging subsystem for consistent logging
	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Creating UCS SAN connectivity policy", map[string]any{
		"org":   data.Org.ValueString(),
		"name":  data.Name.ValueString(),
		"vhbas": len(data.VHBAs),
	})

	dn, ok := r.present(ctx, data.spec(), &resp.Diagnostics)
	if !ok {
		return
	}

	data.ID = types.StringValue(dn.String())
	data.DN = types.StringValue(dn.String())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *SANConnPolicyResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data SANConnPolicyResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	result, ok := r.observe(ctx, data.spec(), &resp.Diagnostics)
	if !ok {
		return
	}
	if !result.Found {
		tflog.Debug(ctx, "UCS SAN connectivity policy not found, removing from state", map[string]any{
			"dn": data.DN.ValueString(),
		})
		resp.State.RemoveResource(ctx)
		return
	}

	data.ID = types.StringValue(result.DN.String())
	data.DN = types.StringValue(result.DN.String())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *SANConnPolicyResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data SANConnPolicyResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *SANConnPolicyResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data SANConnPolicyResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Deleting UCS SAN connectivity policy", map[string]any{
		"dn": data.DN.ValueString(),
	})

	r.absent(ctx, data.spec(), &resp.Diagnostics)
}

func (r *SANConnPolicyResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	importOrgScoped(initializeLogging(ctx), strings.TrimSpace(req.ID), ucs.ClassSANConnPolicy, resp)
}

func (m *SANConnPolicyResourceModel) spec() *ucs.SANConnPolicySpec {
	return &ucs.SANConnPolicySpec{
		OrgScope: ucs.OrgScope{Org: m.Org.ValueString()},
		Name:     m.Name.ValueString(),
		Descr:    optionalString(m.Description),
		WWNNPool: optionalString(m.WWNNPool),
		VHBAs:    adapterSpecs(m.VHBAs),
	}
}
