package provider

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/ephemeral"
	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Environment variables read when the matching provider attribute is not set.
const (
	EnvHostname      = "UCSM_IP"
	EnvName          = "UCSM_NAME"
	EnvUsername      = "UCSM_USER"
	EnvPassword      = "UCSM_PASSWORD"
	EnvPort          = "UCSM_PORT"
	EnvSecure        = "UCSM_SECURE"
	EnvSkipTLSVerify = "UCSM_SKIP_TLS_VERIFY"
	EnvTimeout       = "UCSM_TIMEOUT"
	EnvDialRetries   = "UCSM_DIAL_RETRIES"
)

// Ensure UCSProvider satisfies various provider interfaces.
var _ provider.Provider = &UCSProvider{}
var _ provider.ProviderWithFunctions = &UCSProvider{}
var _ provider.ProviderWithEphemeralResources = &UCSProvider{}

// UCSProvider defines the provider implementation.
type UCSProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
	data    *ucs.ProviderData
}

// UCSProviderModel describes the provider data model.
type UCSProviderModel struct {
	// Endpoint identity
	Hostname types.String `tfsdk:"hostname"`
	Name     types.String `tfsdk:"name"`

	// Authentication settings
	Username types.String `tfsdk:"username"`
	Password types.String `tfsdk:"password"`

	// Transport settings
	Port          types.Int64 `tfsdk:"port"`
	Secure        types.Bool  `tfsdk:"secure"`
	SkipTLSVerify types.Bool  `tfsdk:"skip_tls_verify"`
	Timeout       types.Int64 `tfsdk:"timeout"`
	DialRetries   types.Int64 `tfsdk:"dial_retries"`
}

func (p *UCSProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "ucs"
	resp.Version = p.version
}

func (p *UCSProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "The UCS provider manages pools, connectivity policies, VSAN port assignments and service profile " +
			"templates on Cisco UCS Manager through its XML API. Objects are reconciled by existence: a resource is " +
			"created when missing and removed on destroy, and every change to its arguments replaces it.",
		Attributes: map[string]schema.Attribute{
			// Endpoint identity
			"hostname": schema.StringAttribute{
				MarkdownDescription: "Hostname or IP address of UCS Manager. Defaults to `localhost`. " +
					"Can be set via the `UCSM_IP` environment variable.",
				Optional: true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"name": schema.StringAttribute{
				MarkdownDescription: "Optional connection name. Resources configured with either the hostname or this name " +
					"share one authenticated session. Can be set via the `UCSM_NAME` environment variable.",
				Optional: true,
			},

			// Authentication settings
			"username": schema.StringAttribute{
				MarkdownDescription: "Username for UCS Manager. Defaults to `admin`. " +
					"Can be set via the `UCSM_USER` environment variable.",
				Optional: true,
			},
			"password": schema.StringAttribute{
				MarkdownDescription: "Password for UCS Manager. Defaults to `password`. " +
					"Can be set via the `UCSM_PASSWORD` environment variable.",
				Optional:  true,
				Sensitive: true,
			},

			// Transport settings
			"port": schema.Int64Attribute{
				MarkdownDescription: "Port of the XML API. Defaults to `443`. " +
					"Can be set via the `UCSM_PORT` environment variable.",
				Optional: true,
				Validators: []validator.Int64{
					int64validator.Between(1, 65535),
				},
			},
			"secure": schema.BoolAttribute{
				MarkdownDescription: "Use HTTPS. Defaults to `true`. " +
					"Can be set via the `UCSM_SECURE` environment variable.",
				Optional: true,
			},
			"skip_tls_verify": schema.BoolAttribute{
				MarkdownDescription: "Skip TLS certificate verification. Not recommended for production. Defaults to `false`. " +
					"Can be set via the `UCSM_SKIP_TLS_VERIFY` environment variable.",
				Optional: true,
			},
			"timeout": schema.Int64Attribute{
				MarkdownDescription: "Per-request timeout in seconds. Defaults to `30`. " +
					"Can be set via the `UCSM_TIMEOUT` environment variable.",
				Optional: true,
				Validators: []validator.Int64{
					int64validator.AtLeast(1),
				},
			},
			"dial_retries": schema.Int64Attribute{
				MarkdownDescription: "Number of times a connection attempt is retried when the endpoint cannot be reached. " +
					"Requests that reached the endpoint are never repeated. Defaults to `2`. " +
					"Can be set via the `UCSM_DIAL_RETRIES` environment variable.",
				Optional: true,
				Validators: []validator.Int64{
					int64validator.Between(0, ucs.MaxDialRetries),
				},
			},
		},
	}
}

func (p *UCSProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data UCSProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Configure logging subsystems and set up provider context
	ctx = p.configureLogging(ctx)

	tflog.Info(ctx, "Configuring UCS provider", map[string]any{
		"version": p.version,
	})

	config := p.buildConnectionConfig(&data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	providerData := ucs.NewProviderData(config)

	// Authenticate now so that bad credentials fail at configuration time.
	// The session is cached in the registry and shared by every resource.
	start := time.Now()
	if _, err := providerData.Session(ctx); err != nil {
		tflog.Error(ctx, "Authentication failed", map[string]any{
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		addUCSError(&resp.Diagnostics, "Unable to Connect to UCS Manager", err)
		return
	}

	tflog.Info(ctx, "UCS provider configured successfully", map[string]any{
		"endpoint":    config.Endpoint(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	p.data = providerData
	resp.DataSourceData = providerData
	resp.ResourceData = providerData
}

// configureLogging sets up logging configuration based on environment variables.
func (p *UCSProvider) configureLogging(ctx context.Context) context.Context {
	ctx = tflog.SetField(ctx, "provider", "ucs")
	ctx = tflog.SetField(ctx, "provider_version", p.version)
	ctx = initializeLogging(ctx)

	tflog.Debug(ctx, "UCS provider logging configured")

	return ctx
}

// buildConnectionConfig constructs the connection configuration from provider config and environment variables.
func (p *UCSProvider) buildConnectionConfig(data *UCSProviderModel, diags *diag.Diagnostics) *ucs.ConnectionConfig {
	config := ucs.DefaultConfig()

	config.Host = p.getStringValue(data.Hostname, EnvHostname, "localhost")
	config.Name = p.getStringValue(data.Name, EnvName, "")
	config.Username = p.getStringValue(data.Username, EnvUsername, "admin")
	config.Password = p.getStringValue(data.Password, EnvPassword, "password")

	config.Port = int(p.getInt64Value(data.Port, EnvPort, int64(config.Port)))
	config.Secure = p.getBoolValue(data.Secure, EnvSecure, config.Secure)
	config.SkipTLSVerify = p.getBoolValue(data.SkipTLSVerify, EnvSkipTLSVerify, false)

	if timeout := p.getInt64Value(data.Timeout, EnvTimeout, int64(config.Timeout/time.Second)); timeout > 0 {
		config.Timeout = time.Duration(timeout) * time.Second
	}
	config.DialRetries = int(p.getInt64Value(data.DialRetries, EnvDialRetries, int64(config.DialRetries)))

	if config.Port <= 0 || config.Port > 65535 {
		diags.AddError(
			"Invalid Port",
			"The UCS Manager port must be between 1 and 65535, got "+strconv.Itoa(config.Port)+".",
		)
	}
	if config.DialRetries < 0 || config.DialRetries > ucs.MaxDialRetries {
		diags.AddError(
			"Invalid Dial Retries",
			"dial_retries must be between 0 and "+strconv.Itoa(ucs.MaxDialRetries)+".",
		)
	}

	return config
}

// Helper functions for configuration value resolution

func (p *UCSProvider) getStringValue(configValue types.String, envVar, defaultValue string) string {
	if !configValue.IsNull() && configValue.ValueString() != "" {
		return configValue.ValueString()
	}
	if envValue := os.Getenv(envVar); envValue != "" {
		return envValue
	}
	return defaultValue
}

func (p *UCSProvider) getBoolValue(configValue types.Bool, envVar string, defaultValue bool) bool {
	if !configValue.IsNull() {
		return configValue.ValueBool()
	}
	if envValue := os.Getenv(envVar); envValue != "" {
		if parsed, err := strconv.ParseBool(envValue); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func (p *UCSProvider) getInt64Value(configValue types.Int64, envVar string, defaultValue int64) int64 {
	if !configValue.IsNull() {
		return configValue.ValueInt64()
	}
	if envValue := os.Getenv(envVar); envValue != "" {
		if parsed, err := strconv.ParseInt(envValue, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func (p *UCSProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewIPPoolResource,
		NewLANConnPolicyResource,
		NewSANConnPolicyResource,
		NewVSANPortAssignmentResource,
		NewServiceProfileTemplateResource,
	}
}

func (p *UCSProvider) EphemeralResources(ctx context.Context) []func() ephemeral.EphemeralResource {
	return []func() ephemeral.EphemeralResource{}
}

func (p *UCSProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewOrgDataSource,
	}
}

func (p *UCSProvider) Functions(ctx context.Context) []func() function.Function {
	return []func() function.Function{
		NewDNFunction,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &UCSProvider{
			version: version,
		}
	}
}
