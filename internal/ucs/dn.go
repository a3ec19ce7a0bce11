package ucs

import (
	"strings"
)

// DN is a UCS distinguished name: relative names joined by "/", root first.
//
// Input:  "org-root/org-HR/ip-pool-DC03"
// Parent: "org-root/org-HR"
// RN:     "ip-pool-DC03"
type DN string

// Well-known containers.
const (
	RootOrgDN   DN = "org-root"
	FabricSANDN DN = "fabric/san"
)

func (d DN) String() string {
	return string(d)
}

// IsZero reports whether the DN is empty.
func (d DN) IsZero() bool {
	return d == ""
}

// Parent returns the DN of the containing object, or "" for a top-level DN.
func (d DN) Parent() DN {
	idx := strings.LastIndexByte(string(d), '/')
	if idx < 0 {
		return ""
	}
	return d[:idx]
}

// RN returns the last relative name of the DN.
func (d DN) RN() string {
	idx := strings.LastIndexByte(string(d), '/')
	return string(d[idx+1:])
}

// Child returns the DN of the child with the given relative name.
func (d DN) Child(rn string) DN {
	if d == "" {
		return DN(rn)
	}
	return DN(string(d) + "/" + rn)
}

// IsDescendantOf reports whether d lies strictly below ancestor.
func (d DN) IsDescendantOf(ancestor DN) bool {
	return ancestor != "" && strings.HasPrefix(string(d), string(ancestor)+"/")
}

// ParseDN validates a DN string.
func ParseDN(s string) (DN, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewInvalidArgumentError("parse DN", "DN cannot be empty")
	}
	for _, rn := range strings.Split(s, "/") {
		if rn == "" {
			return "", NewInvalidArgumentError("parse DN", "DN %q contains an empty relative name", s)
		}
		if err := checkNamingValue("dn", rn); err != nil {
			return "", err
		}
	}
	return DN(s), nil
}

// OrgDN converts an organization path to its DN. All of the following name the
// same container:
//
//	"root/HR"  "org-root/org-HR"  "HR"
//
// A single bare name other than "root" is taken to be a direct child of root.
func OrgDN(path string) (DN, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return "", NewInvalidArgumentError("resolve org", "organization path cannot be empty")
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = strings.TrimPrefix(seg, "org-")
	}
	if segments[0] != "root" {
		segments = append([]string{"root"}, segments...)
	}

	dn := DN("")
	for _, seg := range segments {
		if seg == "" {
			return "", NewInvalidArgumentError("resolve org", "organization path %q contains an empty segment", path)
		}
		if err := checkNamingValue("org", seg); err != nil {
			return "", err
		}
		dn = dn.Child("org-" + seg)
	}
	return dn, nil
}

// FabricSANSwitchDN returns the DN of the SAN cloud endpoint of a fabric interconnect.
func FabricSANSwitchDN(switchID string) (DN, error) {
	id := strings.ToUpper(strings.TrimSpace(switchID))
	if id != "A" && id != "B" {
		return "", NewInvalidArgumentError("resolve fabric", "switch id must be A or B, got %q", switchID)
	}
	return FabricSANDN.Child(id), nil
}

// ScopeDN converts a scope reference to a DN. References into the fabric tree,
// and DNs below an organization ("org-root/ip-pool-DC01"), are taken as DNs;
// anything else is an organization path.
func ScopeDN(ref string) (DN, error) {
	ref = strings.TrimSpace(ref)
	if ref == "fabric" || strings.HasPrefix(ref, "fabric/") {
		return ParseDN(ref)
	}
	if strings.HasPrefix(ref, "org-root/") {
		for _, rn := range strings.Split(ref, "/") {
			if !strings.HasPrefix(rn, "org-") {
				return ParseDN(ref)
			}
		}
	}
	return OrgDN(ref)
}
