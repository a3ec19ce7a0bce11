package provider

import (
	"context"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
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
var _ resource.Resource = &ServiceProfileTemplateResource{}
var _ resource.ResourceWithConfigure = &ServiceProfileTemplateResource{}
var _ resource.ResourceWithImportState = &ServiceProfileTemplateResource{}

func NewServiceProfileTemplateResource() resource.Resource {
	return &ServiceProfileTemplateResource{}
}

// ServiceProfileTemplateResource defines the resource implementation.
type ServiceProfileTemplateResource struct {
	reconcilingResource
}

// ServiceProfileTemplateResourceModel describes the resource data model.
type ServiceProfileTemplateResourceModel struct {
	ID          types.String             `tfsdk:"id"`
	DN          types.String             `tfsdk:"dn"`
	Org         customtypes.OrgPathValue `tfsdk:"org"`
	Name        types.String             `tfsdk:"name"`
	Description types.String             `tfsdk:"description"`
	Type        types.String             `tfsdk:"type"`

	// Pools and policies, referenced by name
	UUIDPool          types.String `tfsdk:"uuid_pool"`
	BIOSPolicy        types.String `tfsdk:"bios_policy"`
	BootPolicy        types.String `tfsdk:"boot_policy"`
	FirmwarePolicy    types.String `tfsdk:"firmware_policy"`
	LocalDiskPolicy   types.String `tfsdk:"local_disk_policy"`
	MaintenancePolicy types.String `tfsdk:"maintenance_policy"`
	KVMPolicy         types.String `tfsdk:"kvm_policy"`
	ManagementIPPool  types.String `tfsdk:"management_ip_pool"`
	LANConnPolicy     types.String `tfsdk:"lan_connection_policy"`
	SANConnPolicy     types.String `tfsdk:"san_connection_policy"`
}

func (r *ServiceProfileTemplateResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_service_profile_template"
}

// policyReference is the schema of an attribute naming an existing pool or policy.
func policyReference(description string, defaultValue string) schema.StringAttribute {
	attr := schema.StringAttribute{
		MarkdownDescription: description,
		Optional:            true,
		Validators: []validator.String{
			validators.IsValidObjectName(),
		},
		PlanModifiers: []planmodifier.String{
			replaceIfSetString(),
		},
	}
	if defaultValue != "" {
		attr.MarkdownDescription += " Defaults to `" + defaultValue + "`."
		attr.Computed = true
		attr.Default = stringdefault.StaticString(defaultValue)
	}
	return attr
}

func (r *ServiceProfileTemplateResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Manages a service profile template (`lsServer`). Pools and policies are referenced by name " +
			"and are resolved by UCS Manager; they are not required to exist when the template is created.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				MarkdownDescription: "The DN of the template.",
				Computed:            true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"dn": schema.StringAttribute{
				MarkdownDescription: "The distinguished name of the template, e.g. `org-root/ls-esxi`.",
				Computed:            true,
				PlanModifiers: []planmodifier.String{
					planmodifiers.DNFromOrgAndName(ucs.ClassServiceProfile),
				},
			},
			"org": schema.StringAttribute{
				MarkdownDescription: "The organization holding the template: a path (`root/HR`), a DN (`org-root/org-HR`) " +
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
				MarkdownDescription: "The name of the template.",
				Required:            true,
				Validators: []validator.String{
					validators.IsValidObjectName(),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"description": schema.StringAttribute{
				MarkdownDescription: "A description of the template.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtMost(256),
				},
				PlanModifiers: []planmodifier.String{
					replaceIfSetString(),
				},
			},
			"type": schema.StringAttribute{
				MarkdownDescription: "`initial-template` or `updating-template`. Defaults to `initial-template`.",
				Optional:            true,
				Computed:            true,
				Default:             stringdefault.StaticString("initial-template"),
				Validators: []validator.String{
					stringvalidator.OneOf("initial-template", "updating-template"),
				},
				PlanModifiers: []planmodifier.String{
					replaceIfSetString(),
				},
			},
			"uuid_pool":             policyReference("UUID suffix pool.", ""),
			"bios_policy":           policyReference("BIOS policy.", "default"),
			"boot_policy":           policyReference("Boot policy.", "default"),
			"firmware_policy":       policyReference("Host firmware package.", "default"),
			"local_disk_policy":     policyReference("Local disk configuration policy.", "default"),
			"maintenance_policy":    policyReference("Maintenance policy.", ""),
			"kvm_policy":            policyReference("KVM management policy.", ""),
			"management_ip_pool":    policyReference("Outband management IP pool. Setting it enables pooled management addresses.", ""),
			"lan_connection_policy": policyReference("LAN connectivity policy.", ""),
			"san_connection_policy": policyReference("SAN connectivity policy.", ""),
		},
	}
}

func (r *ServiceProfileTemplateResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data ServiceProfileTemplateResourceModel

	// Initialize logging subsystem for consistent logging
	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Creating UCS service profile template", map[string]any{
		"org":  data.Org.ValueString(),
		"name": data.Name.ValueString(),
		"type": data.Type.ValueString(),
	})

	dn, ok := r.present(ctx, data.spec(), &resp.Diagnostics)
	if !ok {
		return
	}

	data.ID = types.StringValue(dn.String())
	data.DN = types.StringValue(dn.String())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *ServiceProfileTemplateResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data ServiceProfileTemplateResourceModel

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
		tflog.Debug(ctx, "UCS service profile template not found, removing from state", map[string]any{
			"dn": data.DN.ValueString(),
		})
		resp.State.RemoveResource(ctx)
		return
	}

	data.ID = types.StringValue(result.DN.String())
	data.DN = types.StringValue(result.DN.String())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *ServiceProfileTemplateResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data ServiceProfileTemplateResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *ServiceProfileTemplateResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data ServiceProfileTemplateResourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Deleting UCS service profile template", map[string]any{
		"dn": data.DN.ValueString(),
	})

	r.absent(ctx, data.spec(), &resp.Diagnostics)
}

func (r *ServiceProfileTemplateResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	importOrgScoped(initializeLogging(ctx), strings.TrimSpace(req.ID), ucs.ClassServiceProfile, resp)
}

func (m *ServiceProfileTemplateResourceModel) spec() *ucs.ServiceProfileTemplateSpec {
	return &ucs.ServiceProfileTemplateSpec{
		OrgScope:          ucs.OrgScope{Org: m.Org.ValueString()},
		Name:              m.Name.ValueString(),
		Descr:             optionalString(m.Description),
		Type:              optionalString(m.Type),
		UUIDPool:          optionalString(m.UUIDPool),
		BIOSPolicy:        optionalString(m.BIOSPolicy),
		BootPolicy:        optionalString(m.BootPolicy),
		FirmwarePolicy:    optionalString(m.FirmwarePolicy),
		LocalDiskPolicy:   optionalString(m.LocalDiskPolicy),
		MaintenancePolicy: optionalString(m.MaintenancePolicy),
		KVMPolicy:         optionalString(m.KVMPolicy),
		ManagementIPPool:  optionalString(m.ManagementIPPool),
		LANConnPolicy:     optionalString(m.LANConnPolicy),
		SANConnPolicy:     optionalString(m.SANConnPolicy),
	}
}
