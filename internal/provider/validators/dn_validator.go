package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Ensure the implementation satisfies the expected interface.
var _ validator.String = dnValidator{}

// dnValidator validates that a string is a well-formed UCS Manager DN,
// optionally naming an object of one of the given classes.
type dnValidator struct {
	classes []ucs.ClassID
}

func (v dnValidator) classNames() string {
	names := make([]string, len(v.classes))
	for i, c := range v.classes {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Description describes the validation in plain text.
func (v dnValidator) Description(_ context.Context) string {
	if len(v.classes) == 0 {
		return "value must be a valid Distinguished Name (DN)"
	}
	return fmt.Sprintf("value must be the Distinguished Name (DN) of an object of class %s", v.classNames())
}

// MarkdownDescription describes the validation in Markdown.
func (v dnValidator) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

// ValidateString performs the validation.
func (v dnValidator) ValidateString(ctx context.Context, request validator.StringRequest, response *validator.StringResponse) {
	if request.ConfigValue.IsNull() || request.ConfigValue.IsUnknown() {
		return
	}

	value := request.ConfigValue.ValueString()

	dn, err := ucs.ParseDN(value)
	if err != nil {
		response.Diagnostics.AddAttributeError(
			request.Path,
			"Invalid Distinguished Name",
			fmt.Sprintf("The value %q is not a valid Distinguished Name format: %s", value, err.Error()),
		)
		return
	}

	if len(v.classes) == 0 {
		return
	}
	for _, class := range v.classes {
		if ucs.MatchesRN(class, dn.RN()) {
			return
		}
	}
	response.Diagnostics.AddAttributeError(
		request.Path,
		"Invalid Distinguished Name",
		fmt.Sprintf("The value %q does not name an object of class %s: unexpected relative name %q.", value, v.classNames(), dn.RN()),
	)
}

// IsValidDN returns a validator which ensures that any configured attribute
// value is a valid UCS Manager DN such as "org-root/ip-pool-DC01". When classes
// are given, the last relative name must have the shape of one of them.
//
// Unknown values and null values are skipped from validation.
func IsValidDN(classes ...ucs.ClassID) validator.String {
	return dnValidator{classes: classes}
}
