package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func newDNCmd() *cobra.Command {
	var (
		class  string
		scope  string
		name   string
		naming map[string]string
	)

	cmd := &cobra.Command{
		Use:   "dn --class KIND --scope SCOPE (--name NAME | --naming KEY=VALUE,...)",
		Short: "Print the DN of a managed object without contacting UCS Manager",
		Example: `  ucsctl dn --class ip-pool --scope root/HR --name DC03
  ucsctl dn --class block --scope org-root/ip-pool-DC03 --naming from=10.0.0.1,to=10.0.0.9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dn, err := composeDN(class, scope, name, naming)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dn)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&class, "class", "", "short kind name ("+strings.Join(ucs.Kinds(), ", ")+") or class id")
	flags.StringVar(&scope, "scope", "root", "organization path, organization DN or fabric DN")
	flags.StringVar(&name, "name", "", "object name")
	flags.StringToStringVar(&naming, "naming", nil, "naming properties, for classes named by more than one")
	_ = cmd.MarkFlagRequired("class")
	cmd.MarkFlagsOneRequired("name", "naming")
	cmd.MarkFlagsMutuallyExclusive("name", "naming")

	return cmd
}

func composeDN(kind, scope, name string, naming map[string]string) (ucs.DN, error) {
	class, ok := ucs.ClassForKind(kind)
	if !ok {
		return "", ucs.NewInvalidArgumentError("dn", "unknown class %q, expected one of: %s", kind, strings.Join(ucs.Kinds(), ", "))
	}

	scopeDN, err := ucs.ScopeDN(scope)
	if err != nil {
		return "", err
	}

	if len(naming) > 0 {
		props := make(ucs.Properties, len(naming))
		for k, v := range naming {
			props[k] = v
		}
		return ucs.Resolve(scopeDN, class, props)
	}
	return ucs.ResolveName(scopeDN, class, name)
}
