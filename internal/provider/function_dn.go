package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/isometry/terraform-provider-ucs/internal/provider/helpers"
	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

var _ function.Function = &DNFunction{}

func NewDNFunction() function.Function {
	return &DNFunction{}
}

// DNFunction composes the DN of a managed object without contacting UCS Manager.
type DNFunction struct{}

func (f DNFunction) Metadata(_ context.Context, req function.MetadataRequest, resp *function.MetadataResponse) {
	resp.Name = "dn"
}

func (f DNFunction) Definition(_ context.Context, req function.DefinitionRequest, resp *function.DefinitionResponse) {
	kinds := strings.Join(ucs.Kinds(), ", ")

	resp.Definition = function.Definition{
		Summary: "Compose the DN of a managed object",
		Description: "Returns the distinguished name of an object of the given kind inside scope. The kind is a short name " +
			"(" + kinds + ") or a class id. The scope is an organization path (root/HR), an organization DN, or a " +
			"fabric DN. Naming is the object name, or an object of naming properties for classes named by more than one.",
		MarkdownDescription: "Returns the distinguished name of an object of the given kind inside `scope`.\n\n" +
			"- `kind` is a short name (" + kinds + ") or a class id such as `ippoolPool`\n" +
			"- `scope` is an organization path (`root/HR`), an organization DN (`org-root/org-HR`) or a fabric DN (`fabric/san/A`)\n" +
			"- `naming` is the object name, or an object of naming properties such as `{ from = \"10.0.0.1\", to = \"10.0.0.9\" }`\n\n" +
			"Example: `provider::ucs::dn(\"ip-pool\", \"root/HR\", \"DC01\")` returns `org-root/org-HR/ip-pool-DC01`.",
		Parameters: []function.Parameter{
			function.StringParameter{
				Name:        "kind",
				Description: "Short kind name or class id of the object.",
			},
			function.StringParameter{
				Name:        "scope",
				Description: "Organization path, organization DN or fabric DN containing the object.",
			},
			function.DynamicParameter{
				Name:        "naming",
				Description: "The object name, or an object of naming properties.",
			},
		},
		Return: function.StringReturn{},
	}
}

func (f DNFunction) Run(ctx context.Context, req function.RunRequest, resp *function.RunResponse) {
	var kind, scope string
	var naming types.Dynamic

	resp.Error = function.ConcatFuncErrors(resp.Error, req.Arguments.Get(ctx, &kind, &scope, &naming))
	if resp.Error != nil {
		return
	}

	dn, err := composeDN(ctx, kind, scope, naming)
	if err != nil {
		resp.Error = function.NewFuncError(err.Error())
		return
	}

	resp.Error = function.ConcatFuncErrors(resp.Error, resp.Result.Set(ctx, dn.String()))
}

func composeDN(ctx context.Context, kind, scope string, naming types.Dynamic) (ucs.DN, error) {
	class, ok := ucs.ClassForKind(kind)
	if !ok {
		return "", fmt.Errorf("unknown kind %q, expected one of: %s", kind, strings.Join(ucs.Kinds(), ", "))
	}

	scopeDN, err := ucs.ScopeDN(scope)
	if err != nil {
		return "", err
	}

	n, err := helpers.NamingFromTerraform(ctx, naming)
	if err != nil {
		return "", err
	}
	if n.IsName() {
		return ucs.ResolveName(scopeDN, class, n.Name)
	}
	return ucs.Resolve(scopeDN, class, n.Properties)
}
