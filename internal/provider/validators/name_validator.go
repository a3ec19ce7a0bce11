package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

var (
	_ validator.String = objectNameValidator{}
	_ validator.String = orgRefValidator{}
)

// UCS Manager limits logical object names to 32 characters.
const maxObjectNameLength = 32

var objectNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

type objectNameValidator struct{}

func (v objectNameValidator) Description(_ context.Context) string {
	return fmt.Sprintf("value must be 1 to %d characters of letters, digits, '_', '.', ':' and '-'", maxObjectNameLength)
}

func (v objectNameValidator) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

func (v objectNameValidator) ValidateString(ctx context.Context, request validator.StringRequest, response *validator.StringResponse) {
	if request.ConfigValue.IsNull() || request.ConfigValue.IsUnknown() {
		return
	}

	value := request.ConfigValue.ValueString()
	if len(value) == 0 || len(value) > maxObjectNameLength || !objectNameRegex.MatchString(value) {
		response.Diagnostics.AddAttributeError(
			request.Path,
			"Invalid Object Name",
			fmt.Sprintf("The value %q is not a valid UCS Manager object name: %s.", value, v.Description(ctx)),
		)
	}
}

// IsValidObjectName returns a validator which ensures that a configured value
// can be used as the name of a pool, policy or template.
func IsValidObjectName() validator.String {
	return objectNameValidator{}
}

type orgRefValidator struct{}

func (v orgRefValidator) Description(_ context.Context) string {
	return "value must be an organization path such as root/HR, a DN such as org-root/org-HR, or an organization name"
}

func (v orgRefValidator) MarkdownDescription(_ context.Context) string {
	return "value must be an organization path such as `root/HR`, a DN such as `org-root/org-HR`, or an organization name"
}

func (v orgRefValidator) ValidateString(ctx context.Context, request validator.StringRequest, response *validator.StringResponse) {
	if request.ConfigValue.IsNull() || request.ConfigValue.IsUnknown() {
		return
	}

	value := request.ConfigValue.ValueString()
	if ucs.IsOrgPath(value) {
		if _, err := ucs.OrgDN(value); err != nil {
			response.Diagnostics.AddAttributeError(
				request.Path,
				"Invalid Organization",
				fmt.Sprintf("The value %q is not a valid organization path: %s", value, err.Error()),
			)
		}
		return
	}

	if !objectNameRegex.MatchString(value) {
		response.Diagnostics.AddAttributeError(
			request.Path,
			"Invalid Organization",
			fmt.Sprintf("The value %q is not a valid organization name.", value),
		)
	}
}

// IsValidOrgRef returns a validator which ensures that a configured value
// references an organization by path, DN or bare name.
func IsValidOrgRef() validator.String {
	return orgRefValidator{}
}
