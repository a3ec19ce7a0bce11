package provider

import (
	"context"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/isometry/terraform-provider-ucs/internal/provider/planmodifiers"
	customtypes "github.com/isometry/terraform-provider-ucs/internal/provider/types"
	"github.com/isometry/terraform-provider-ucs/internal/provider/validators"
	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &LANConnPolicyResource{}
var _ resource.ResourceWithConfigure = &LANConnPolicyResource{}
var _ resource.ResourceWithImportState = &LANConnPolicyResource{}

func NewLANConnPolicyResource() resource.Resource {
	return &LANConnPolicyResource{}
}

// LANConnPolicyResource defines the resource implementation.
type LANConnPolicyResource struct {
	reconcilingResource
}

// LANConnPolicyResourceModel describes the resource data model.
type LANConnPolicyResourceModel struct {
	ID          types.String             `tfsdk:"id"`
	DN          types.String             `tfsdk:"dn"`
	Org         customtypes.OrgPathValue `tfsdk:"org"`
	Name        types.String             `tfsdk:"name"`
	Description types.String             `tfsdk:"description"`
	VNICs       []AdapterResourceModel   `tfsdk:"vnic"`
}

// AdapterResourceModel describes a vNIC or vHBA of a connection policy.
type AdapterResourceModel struct {
	Name          types.String `tfsdk:"name"`
	Order         types.Int64  `tfsdk:"order"`
	Template      types.String `tfsdk:"template"`
	AdapterPolicy types.String `tfsdk:"adapter_policy"`
}

// connPolicySchema returns the schema shared by LAN and SAN connectivity
// policies; adapters is the name of the adapter list ("vnic" or "vhba").
func connPolicySchema(description string, class ucs.ClassID, adapters string, adapterDescription string) schema.Schema {
	return schema.Schema{
		MarkdownDescription: description,

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				MarkdownDescription: "The DN of the policy.",
				Computed:            true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"dn": schema.StringAttribute{
				MarkdownDescription: "The distinguished name of the policy.",
				Computed:            true,
				PlanModifiers: []planmodifier.String{
					planmodifiers.DNFromOrgAndName(class),
				},
			},
			"org": schema.StringAttribute{
				MarkdownDescription: "The organization holding the policy: a path (`root/HR`), a DN (`org-root/org-HR`) " +
					"or a bare organization name.",
				Required:   true,
				CustomType: customtypes.OrgPathType{},
				Validators: []validator.String{
					validators.IsValidOrgRef(),
				},
				PlanModifiers: []planmodifier.String{
					replaceIfOrgChanged(),
				},
			},
			"name": schema.StringAttribute{
				MarkdownDescription: "The name of the policy.",
				Required:            true,
				Validators: []validator.String{
					validators.IsValidObjectName(),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"description": schema.StringAttribute{
				MarkdownDescription: "A description of the policy.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtMost(256),
				},
				PlanModifiers: []planmodifier.String{
					replaceIfSetString(),
				},
			},
			adapters: schema.ListNestedAttribute{
				MarkdownDescription: adapterDescription,
				Optional:            true,
				PlanModifiers: []planmodifier.List{
					replaceIfSetList(),
				},
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"name": schema.StringAttribute{
							MarkdownDescription: "The adapter name, unique within the policy.",
							Required:            true,
							Validators: []validator.String{
								validators.IsValidObjectName(),
							},
						},
						"order": schema.Int64Attribute{
							MarkdownDescription: "The PCI order of the adapter. Unset lets UCS Manager assign it.",
							Optional:            true,
							Validators: []validator.Int64{
								int64validator.AtLeast(1),
							},
						},
						"template": schema.StringAttribute{
							MarkdownDescription: "The name of the adapter template the adapter is bound to.",
							Optional:            true,
							Validators: []validator.String{
								validators.IsValidObjectName(),
							},
						},
						"adapter_policy": schema.StringAttribute{
							MarkdownDescription: "The name of the adapter policy, e.g. `VMWare`.",
							Optional:            true,
							Validators: []validator.String{
								validators.IsValidObjectName(),
							},
						},
					},
				},
			},
		},
	}
}

func adapterSpecs(adapters []AdapterResourceModel) []ucs.AdapterSpec {
	var specs []ucs.AdapterSpec
	for _, a := range adapters {
		specs = append(specs, ucs.AdapterSpec{
			Name:           a.Name.ValueString(),
			Order:          int(a.Order.ValueInt64()),
			Template:       optionalString(a.Template),
			AdaptorProfile: optionalString(a.AdapterPolicy),
		})
	}
	return specs
}

func (r *LANConnPolicyResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_lan_connection_policy"
}

func (r *LANConnPolicyResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = connPolicySchema(
		"Manages a LAN connectivity policy (`vnicLanConnPolicy`) and its vNICs. The policy and its vNICs are "+
			"created in a single atomic request. An existing policy with the same name is adopted as is.",
		ucs.ClassLANConnPolicy,
		"vnic",
		"vNICs of the policy. Names and non-zero orders must be unique.",
	)
}

func (r *LANConnPolicyResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data LANConnPolicyResourceModel

	// Initialize logging subsystem for consistent logging
	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Creating UCS LAN connectivity policy", map[string]any{
		"org":   data.Org.ValueString(),
		"name":  data.Name.ValueString(),
		"vnics": len(data.VNICs),
	})

	dn, ok := r.present(ctx, data.spec(), &resp.Diagnostics)
	if !ok {
		return
	}

	data.ID = types.StringValue(dn.String())
	data.DN = types.StringValue(dn.String())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *LANConnPolicyResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data LANConnPolicyResourceModel

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
		tflog.Debug(ctx, "UCS LAN connectivity policy not found, removing from state", map[string]any{
			"dn": data.DN.ValueString(),
		})
		resp.State.RemoveResource(ctx)
		return
	}

	data.ID = types.StringValue(result.DN.String())
	data.DN = types.StringValue(result.DN.String())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *LANConnPolicyResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data LANConnPolicyResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *LANConnPolicyResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data LANConnPolicyResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Deleting UCS LAN connectivity policy", map[string]any{
		"dn": data.DN.ValueString(),
	})

	r.absent(ctx, data.spec(), &resp.Diagnostics)
}

func (r *LANConnPolicyResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	importOrgScoped(initializeLogging(ctx), strings.TrimSpace(req.ID), ucs.ClassLANConnPolicy, resp)
}

func (m *LANConnPolicyResourceModel) spec() *ucs.LANConnPolicySpec {
	return &ucs.LANConnPolicySpec{
		OrgScope: ucs.OrgScope{Org: m.Org.ValueString()},
		Name:     m.Name.ValueString(),
		Descr:    optionalString(m.Description),
		VNICs:    adapterSpecs(m.VNICs),
	}
}
