package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/datasourcevalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/isometry/terraform-provider-ucs/internal/provider/validators"
	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &OrgDataSource{}
var _ datasource.DataSourceWithConfigure = &OrgDataSource{}
var _ datasource.DataSourceWithConfigValidators = &OrgDataSource{}

func NewOrgDataSource() datasource.DataSource {
	return &OrgDataSource{}
}

// OrgDataSource looks up an organization.
type OrgDataSource struct {
	data *ucs.ProviderData
}

// OrgDataSourceModel describes the data source data model.
type OrgDataSourceModel struct {
	// Lookup methods (mutually exclusive)
	Path types.String `tfsdk:"path"` // Path or bare name
	DN   types.String `tfsdk:"dn"`   // Distinguished Name

	// Computed
	ID          types.String `tfsdk:"id"`
	Name        types.String `tfsdk:"name"`
	ParentDN    types.String `tfsdk:"parent_dn"`
	Description types.String `tfsdk:"description"`
}

func (d *OrgDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_org"
}

func (d *OrgDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Looks up a UCS Manager organization by path, DN or name. A bare name is searched for " +
			"anywhere in the organization tree and the first match wins.",

		Attributes: map[string]schema.Attribute{
			"path": schema.StringAttribute{
				MarkdownDescription: "The organization as a path (`root/HR`) or bare name (`HR`).",
				Optional:            true,
				Validators: []validator.String{
					validators.IsValidOrgRef(),
				},
			},
			"dn": schema.StringAttribute{
				MarkdownDescription: "The distinguished name of the organization, e.g. `org-root/org-HR`.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					validators.IsValidDN(ucs.ClassOrg),
				},
			},
			"id": schema.StringAttribute{
				MarkdownDescription: "Same as `dn`.",
				Computed:            true,
			},
			"name": schema.StringAttribute{
				MarkdownDescription: "The name of the organization.",
				Computed:            true,
			},
			"parent_dn": schema.StringAttribute{
				MarkdownDescription: "The DN of the parent organization. Empty for `org-root`.",
				Computed:            true,
			},
			"description": schema.StringAttribute{
				MarkdownDescription: "The description of the organization.",
				Computed:            true,
			},
		},
	}
}

func (d *OrgDataSource) ConfigValidators(ctx context.Context) []datasource.ConfigValidator {
	return []datasource.ConfigValidator{
		datasourcevalidator.ExactlyOneOf(
			path.MatchRoot("path"),
			path.MatchRoot("dn"),
		),
	}
}

func (d *OrgDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	// Prevent panic if the provider has not been configured.
	if req.ProviderData == nil {
		return
	}
	d.data = providerDataFrom(req.ProviderData, &resp.Diagnostics, "Data Source")
}

func (d *OrgDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data OrgDataSourceModel

	ctx = initializeLogging(ctx)

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if d.data == nil {
		resp.Diagnostics.AddError(
			"Unconfigured Provider",
			"The provider has not been configured. Please report this issue to the provider developers.",
		)
		return
	}

	session, err := d.data.Session(ctx)
	if err != nil {
		addUCSError(&resp.Diagnostics, "Unable to Connect to UCS Manager", err)
		return
	}

	var org *ucs.ManagedObject
	var ref string
	if !data.DN.IsNull() {
		ref = data.DN.ValueString()
		var dn ucs.DN
		dn, err = ucs.ParseDN(ref)
		if err == nil {
			org, err = session.ResolveDN(ctx, dn)
		}
	} else {
		ref = data.Path.ValueString()
		org, err = ucs.ResolveOrg(ctx, session, ref)
	}
	if err != nil {
		addUCSError(&resp.Diagnostics, "Error Reading Organization", err)
		return
	}
	if org == nil {
		resp.Diagnostics.AddError(
			"Organization Not Found",
			fmt.Sprintf("The organization %q does not exist on UCS Manager.", ref),
		)
		return
	}

	tflog.Debug(ctx, "Retrieved UCS organization", map[string]any{
		"ref": ref,
		"dn":  org.DN.String(),
	})

	data.ID = types.StringValue(org.DN.String())
	data.DN = types.StringValue(org.DN.String())
	data.Name = types.StringValue(org.Name())
	data.ParentDN = types.StringValue(org.DN.Parent().String())
	data.Description = types.StringValue(org.Get("descr"))

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
