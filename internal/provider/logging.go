package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// initializeLogging initializes the provider and engine subsystems for consistent logging.
// This should be called at the beginning of each data source Read method
// and resource Create/Read/Update/Delete methods.
func initializeLogging(ctx context.Context) context.Context {
	// Pattern: TF_LOG_PROVIDER_UCS_<SUBSYSTEM>
	ctx = tflog.NewSubsystem(ctx, "provider",
		tflog.WithLevelFromEnv("TF_LOG_PROVIDER_UCS_PROVIDER"))
	return tflog.NewSubsystem(ctx, ucs.Subsystem,
		tflog.WithLevelFromEnv("TF_LOG_PROVIDER_UCS_ENGINE"))
}
