package provider

import (
	"context"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringdefault"
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
var _ resource.Resource = &IPPoolResource{}
var _ resource.ResourceWithConfigure = &IPPoolResource{}
var _ resource.ResourceWithImportState = &IPPoolResource{}

func NewIPPoolResource() resource.Resource {
	return &IPPoolResource{}
}

// IPPoolResource defines the resource implementation.
type IPPoolResource struct {
	reconcilingResource
}

// IPPoolResourceModel describes the resource data model.
type IPPoolResourceModel struct {
	ID              types.String             `tfsdk:"id"`               // Same as dn
	DN              types.String             `tfsdk:"dn"`               // Computed
	Org             customtypes.OrgPathValue `tfsdk:"org"`              // Required
	Name            types.String             `tfsdk:"name"`             // Required
	Description     types.String             `tfsdk:"description"`      // Optional
	AssignmentOrder types.String             `tfsdk:"assignment_order"` // Optional+Computed+Default: sequential
	Blocks          []IPBlockResourceModel   `tfsdk:"blocks"`           // Optional
}

// IPBlockResourceModel describes one address block of the pool.
type IPBlockResourceModel struct {
	From         types.String `tfsdk:"from"`
	To           types.String `tfsdk:"to"`
	Size         types.Int64  `tfsdk:"size"`
	Gateway      types.String `tfsdk:"default_gateway"`
	SubnetMask   types.String `tfsdk:"subnet_mask"`
	PrimaryDNS   types.String `tfsdk:"primary_dns"`
	SecondaryDNS types.String `tfsdk:"secondary_dns"`
}

func (r *IPPoolResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_ip_pool"
}

func (r *IPPoolResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	ipv4 := stringvalidator.RegexMatches(ipv4Regex, "must be an IPv4 address")

	resp.Schema = schema.Schema{
		MarkdownDescription: "Manages an IPv4 address pool (`ippoolPool`) and its blocks. The pool and all of its blocks are " +
			"created in a single atomic request. An existing pool with the same name is adopted as is.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				MarkdownDescription: "The DN of the pool.",
				Computed:            true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"dn": schema.StringAttribute{
				MarkdownDescription: "The distinguished name of the pool, e.g. `org-root/org-HR/ip-pool-DC01`.",
				Computed:            true,
				PlanModifiers: []planmodifier.String{
					planmodifiers.DNFromOrgAndName(ucs.ClassIPPool),
				},
			},
			"org": schema.StringAttribute{
				MarkdownDescription: "The organization holding the pool: a path (`root/HR`), a DN (`org-root/org-HR`) " +
					"or a bare organization name, which is looked up anywhere in the hierarchy.",
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
				MarkdownDescription: "The name of the pool.",
				Required:            true,
				Validators: []validator.String{
					validators.IsValidObjectName(),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"description": schema.StringAttribute{
				MarkdownDescription: "A description of the pool.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtMost(256),
				},
				PlanModifiers: []planmodifier.String{
					replaceIfSetString(),
				},
			},
			"assignment_order": schema.StringAttribute{
				MarkdownDescription: "How addresses are handed out: `default` or `sequential`. Defaults to `sequential`.",
				Optional:            true,
				Computed:            true,
				Default:             stringdefault.StaticString("sequential"),
				Validators: []validator.String{
					stringvalidator.OneOf("default", "sequential"),
				},
				PlanModifiers: []planmodifier.String{
					replaceIfSetString(),
				},
			},
			"blocks": schema.ListNestedAttribute{
				MarkdownDescription: "Address blocks of the pool. Each block is given by `from` and either `to` or `size`.",
				Optional:            true,
				Validators: []validator.List{
					listvalidator.SizeAtLeast(1),
				},
				PlanModifiers: []planmodifier.List{
					replaceIfSetList(),
				},
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"from": schema.StringAttribute{
							MarkdownDescription: "First address of the block.",
							Required:            true,
							Validators:          []validator.String{ipv4},
						},
						"to": schema.StringAttribute{
							MarkdownDescription: "Last address of the block. Conflicts with `size`.",
							Optional:            true,
							Validators: []validator.String{
								ipv4,
								stringvalidator.ExactlyOneOf(path.MatchRelative().AtParent().AtName("size")),
							},
						},
						"size": schema.Int64Attribute{
							MarkdownDescription: "Number of addresses in the block. Conflicts with `to`.",
							Optional:            true,
							Validators: []validator.Int64{
								int64validator.AtLeast(1),
							},
						},
						"default_gateway": schema.StringAttribute{
							MarkdownDescription: "Default gateway handed out with the block's addresses.",
							Optional:            true,
							Validators:          []validator.String{ipv4},
						},
						"subnet_mask": schema.StringAttribute{
							MarkdownDescription: "Subnet mask, e.g. `255.255.255.0`.",
							Optional:            true,
							Validators:          []validator.String{ipv4},
						},
						"primary_dns": schema.StringAttribute{
							MarkdownDescription: "Primary DNS server.",
							Optional:            true,
							Validators:          []validator.String{ipv4},
						},
						"secondary_dns": schema.StringAttribute{
							MarkdownDescription: "Secondary DNS server.",
							Optional:            true,
							Validators:          []validator.String{ipv4},
						},
					},
				},
			},
		},
	}
}

func (r *IPPoolResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data IPPoolResourceModel

	// Initialize logging subsystem for consistent logging
	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Creating UCS IP pool", map[string]any{
		"org":    data.Org.ValueString(),
		"name":   data.Name.ValueString(),
		"blocks": len(data.Blocks),
	})

	dn, ok := r.present(ctx, data.spec(), &resp.Diagnostics)
	if !ok {
		return
	}

	data.ID = types.StringValue(dn.String())
	data.DN = types.StringValue(dn.String())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *IPPoolResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data IPPoolResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Reading UCS IP pool", map[string]any{
		"dn": data.DN.ValueString(),
	})

	result, ok := r.observe(ctx, data.spec(), &resp.Diagnostics)
	if !ok {
		return
	}
	if !result.Found {
		tflog.Debug(ctx, "UCS IP pool not found, removing from state", map[string]any{
			"dn": data.DN.ValueString(),
		})
		resp.State.RemoveResource(ctx)
		return
	}

	data.ID = types.StringValue(result.DN.String())
	data.DN = types.StringValue(result.DN.String())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// Update only records arguments filled in after import; every other change
// replaces the pool.
func (r *IPPoolResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data IPPoolResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Recording UCS IP pool arguments", map[string]any{
		"dn": data.DN.ValueString(),
	})

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *IPPoolResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data IPPoolResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Deleting UCS IP pool", map[string]any{
		"dn": data.DN.ValueString(),
	})

	r.absent(ctx, data.spec(), &resp.Diagnostics)
}

// ImportState accepts the DN of the pool.
func (r *IPPoolResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	importOrgScoped(initializeLogging(ctx), strings.TrimSpace(req.ID), ucs.ClassIPPool, resp)
}

func (m *IPPoolResourceModel) spec() *ucs.IPPoolSpec {
	spec := &ucs.IPPoolSpec{
		OrgScope:        ucs.OrgScope{Org: m.Org.ValueString()},
		Name:            m.Name.ValueString(),
		Descr:           optionalString(m.Description),
		AssignmentOrder: optionalString(m.AssignmentOrder),
	}
	for _, block := range m.Blocks {
		spec.Blocks = append(spec.Blocks, ucs.IPBlockSpec{
			From:    block.From.ValueString(),
			To:      optionalString(block.To),
			Size:    int(block.Size.ValueInt64()),
			Gateway: optionalString(block.Gateway),
			Subnet:  optionalString(block.SubnetMask),
			PrimDNS: optionalString(block.PrimaryDNS),
			SecDNS:  optionalString(block.SecondaryDNS),
		})
	}
	return spec
}
