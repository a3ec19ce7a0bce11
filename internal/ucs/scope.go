package ucs

import (
	"context"
	"strings"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// IsOrgPath reports whether ref is written as a path ("root/HR", "org-root/org-HR")
// rather than a bare organization name.
func IsOrgPath(ref string) bool {
	ref = strings.TrimSpace(ref)
	return strings.Contains(ref, "/") || strings.HasPrefix(ref, "org-") || ref == "root"
}

// ResolveOrg finds an organization by path or by name, returning nil when it does
// not exist.
//
// A path is resolved by DN. A bare name is looked up with a class query on orgOrg,
// so it also finds organizations nested below root; when several organizations
// share the name, the first one returned by the endpoint wins.
func ResolveOrg(ctx context.Context, c Client, ref string) (*ManagedObject, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, NewInvalidArgumentError("resolve org", "organization cannot be empty")
	}

	if IsOrgPath(ref) {
		dn, err := OrgDN(ref)
		if err != nil {
			return nil, err
		}
		return c.ResolveDN(ctx, dn)
	}

	filter, err := ChildFilter(ref)
	if err != nil {
		return nil, err
	}
	orgs, err := c.QueryClass(ctx, ClassOrg, filter)
	if err != nil {
		return nil, err
	}
	for _, org := range orgs {
		if org.Name() == ref {
			if len(orgs) > 1 {
				tflog.SubsystemWarn(ctx, Subsystem, "Organization name is ambiguous, using first match", map[string]any{
					"name":    ref,
					"matches": len(orgs),
					"dn":      org.DN.String(),
				})
			}
			return org, nil
		}
	}
	return nil, nil
}

// lookupNamed returns the first direct child of scope with the given class and
// name, as a one-element slice, or nil when there is none.
func lookupNamed(ctx context.Context, c Client, scope *ManagedObject, class ClassID, name string) ([]*ManagedObject, error) {
	filter, err := ChildFilter(name)
	if err != nil {
		return nil, err
	}
	children, err := c.QueryChildren(ctx, scope, class, filter)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.Name() == name {
			return []*ManagedObject{child}, nil
		}
	}
	return nil, nil
}
