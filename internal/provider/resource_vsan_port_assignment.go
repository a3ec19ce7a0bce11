package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/setvalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/int64planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/setplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &VSANPortAssignmentResource{}
var _ resource.ResourceWithConfigure = &VSANPortAssignmentResource{}

var fcPortRegex = regexp.MustCompile(`^[0-9]+/[0-9]+$`)

func NewVSANPortAssignmentResource() resource.Resource {
	return &VSANPortAssignmentResource{}
}

// VSANPortAssignmentResource assigns fibre channel uplink ports of one fabric
// interconnect to an existing VSAN.
type VSANPortAssignmentResource struct {
	reconcilingResource
}

// VSANPortAssignmentResourceModel describes the resource data model.
type VSANPortAssignmentResourceModel struct {
	ID       types.String `tfsdk:"id"`        // "<switch_id>/<vsan_id>"
	VSANID   types.Int64  `tfsdk:"vsan_id"`   // Required
	SwitchID types.String `tfsdk:"switch_id"` // Required - A or B
	Ports    types.Set    `tfsdk:"ports"`     // Required - "slot/port"
}

func (r *VSANPortAssignmentResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_vsan_port_assignment"
}

func (r *VSANPortAssignmentResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Assigns fibre channel uplink ports of a fabric interconnect to an existing VSAN. " +
			"Missing assignments are created in a single request; destroying the resource removes only the listed ports. " +
			"The VSAN itself must already exist.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				MarkdownDescription: "Identifier of the assignment, `<switch_id>/<vsan_id>`.",
				Computed:            true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"vsan_id": schema.Int64Attribute{
				MarkdownDescription: "The numeric id of the VSAN (1-4093).",
				Required:            true,
				Validators: []validator.Int64{
					int64validator.Between(1, 4093),
				},
				PlanModifiers: []planmodifier.Int64{
					int64planmodifier.RequiresReplace(),
				},
			},
			"switch_id": schema.StringAttribute{
				MarkdownDescription: "The fabric interconnect, `A` or `B`.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.OneOfCaseInsensitive("A", "B"),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"ports": schema.SetAttribute{
				MarkdownDescription: "Fibre channel ports to assign, as `slot/port` (e.g. `1/13`).",
				Required:            true,
				ElementType:         types.StringType,
				Validators: []validator.Set{
					setvalidator.SizeAtLeast(1),
					setvalidator.ValueStringsAre(
						stringvalidator.RegexMatches(fcPortRegex, "must be a port in the form slot/port"),
					),
				},
				PlanModifiers: []planmodifier.Set{
					setplanmodifier.RequiresReplace(),
				},
			},
		},
	}
}

func (r *VSANPortAssignmentResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data VSANPortAssignmentResourceModel

	// Initialize logging subsystem for consistent logging
	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	spec, ok := data.spec(ctx, &resp.Diagnostics)
	if !ok {
		return
	}

	tflog.Debug(ctx, "Assigning FC ports to VSAN", map[string]any{
		"vsan_id":   spec.VSANID,
		"switch_id": spec.SwitchID,
		"ports":     spec.Ports,
	})

	if _, ok := r.present(ctx, spec, &resp.Diagnostics); !ok {
		return
	}

	data.ID = types.StringValue(data.id())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *VSANPortAssignmentResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data VSANPortAssignmentResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	spec, ok := data.spec(ctx, &resp.Diagnostics)
	if !ok {
		return
	}

	result, ok := r.observe(ctx, spec, &resp.Diagnostics)
	if !ok {
		return
	}
	// Any missing port makes the assignment incomplete; recreating it adds
	// only the missing ports.
	if !result.Found {
		tflog.Debug(ctx, "VSAN port assignment incomplete, removing from state", map[string]any{
			"id": data.ID.ValueString(),
		})
		resp.State.RemoveResource(ctx)
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *VSANPortAssignmentResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data VSANPortAssignmentResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *VSANPortAssignmentResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data VSANPortAssignmentResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	spec, ok := data.spec(ctx, &resp.Diagnostics)
	if !ok {
		return
	}

	tflog.Debug(ctx, "Removing FC ports from VSAN", map[string]any{
		"id": data.ID.ValueString(),
	})

	r.absent(ctx, spec, &resp.Diagnostics)
}

func (m *VSANPortAssignmentResourceModel) id() string {
	return fmt.Sprintf("%s/%d", strings.ToUpper(m.SwitchID.ValueString()), m.VSANID.ValueInt64())
}

func (m *VSANPortAssignmentResourceModel) spec(ctx context.Context, diags *diag.Diagnostics) (*ucs.VSANPortAssignmentSpec, bool) {
	var ports []string
	diags.Append(m.Ports.ElementsAs(ctx, &ports, false)...)
	if diags.HasError() {
		return nil, false
	}

	return &ucs.VSANPortAssignmentSpec{
		VSANID:   int(m.VSANID.ValueInt64()),
		SwitchID: m.SwitchID.ValueString(),
		Ports:    ports,
	}, true
}
