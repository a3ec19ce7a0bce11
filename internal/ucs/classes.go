package ucs

import (
	"regexp"
	"slices"
	"strings"
)

// Managed object classes handled by the engine.
const (
	ClassOrg                ClassID = "orgOrg"
	ClassIPPool             ClassID = "ippoolPool"
	ClassIPBlock            ClassID = "ippoolBlock"
	ClassLANConnPolicy      ClassID = "vnicLanConnPolicy"
	ClassEther              ClassID = "vnicEther"
	ClassSANConnPolicy      ClassID = "vnicSanConnPolicy"
	ClassFcNode             ClassID = "vnicFcNode"
	ClassFc                 ClassID = "vnicFc"
	ClassServiceProfile     ClassID = "lsServer"
	ClassConnDef            ClassID = "vnicConnDef"
	ClassFabricSANEndpoint  ClassID = "fabricSanEp"
	ClassVSAN               ClassID = "fabricVsan"
	ClassVSANPortAssignment ClassID = "fabricFcVsanPortEp"
)

// classInfo describes how a class derives its relative name.
type classInfo struct {
	// prefix is the short kind name, e.g. "ip-pool".
	prefix string
	// rn is the relative name template; [prop] is replaced by a naming property.
	rn string
	// naming lists the properties referenced by rn, in order.
	naming []string
}

var classRegistry = map[ClassID]classInfo{
	ClassOrg:                {prefix: "org", rn: "org-[name]", naming: []string{"name"}},
	ClassIPPool:             {prefix: "ip-pool", rn: "ip-pool-[name]", naming: []string{"name"}},
	ClassIPBlock:            {prefix: "block", rn: "block-[from]-[to]", naming: []string{"from", "to"}},
	ClassLANConnPolicy:      {prefix: "lan-conn-pol", rn: "lan-conn-pol-[name]", naming: []string{"name"}},
	ClassEther:              {prefix: "ether", rn: "ether-[name]", naming: []string{"name"}},
	ClassSANConnPolicy:      {prefix: "san-conn-pol", rn: "san-conn-pol-[name]", naming: []string{"name"}},
	ClassFcNode:             {prefix: "fc-node", rn: "fc-node"},
	ClassFc:                 {prefix: "fc", rn: "fc-[name]", naming: []string{"name"}},
	ClassServiceProfile:     {prefix: "ls", rn: "ls-[name]", naming: []string{"name"}},
	ClassConnDef:            {prefix: "conn-def", rn: "conn-def"},
	ClassFabricSANEndpoint:  {prefix: "san", rn: "[id]", naming: []string{"id"}},
	ClassVSAN:               {prefix: "net", rn: "net-[name]", naming: []string{"name"}},
	ClassVSANPortAssignment: {prefix: "phys", rn: "phys-switch-[switchId]-slot-[slotId]-port-[portId]", naming: []string{"switchId", "slotId", "portId"}},
}

// namingValuePattern restricts naming property values to characters that are
// safe inside both a DN and a filter expression.
var namingValuePattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

func checkNamingValue(property, value string) error {
	if !namingValuePattern.MatchString(value) {
		return NewInvalidArgumentError("resolve", "invalid %s %q: only letters, digits, '_', '.', ':' and '-' are allowed", property, value)
	}
	return nil
}

// NamingProperties returns the properties that determine the relative name of a class.
func NamingProperties(class ClassID) []string {
	return slices.Clone(classRegistry[class].naming)
}

// ClassForKind maps a short kind name such as "ip-pool" (or a class id) to its class.
func ClassForKind(kind string) (ClassID, bool) {
	if _, ok := classRegistry[ClassID(kind)]; ok {
		return ClassID(kind), true
	}
	for id, info := range classRegistry {
		if strings.EqualFold(info.prefix, kind) {
			return id, true
		}
	}
	return "", false
}

// Kinds returns the short kind names accepted by ClassForKind, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(classRegistry))
	for _, info := range classRegistry {
		kinds = append(kinds, info.prefix)
	}
	slices.Sort(kinds)
	return kinds
}

// MatchesRN reports whether rn has the shape of a relative name of class.
func MatchesRN(class ClassID, rn string) bool {
	info, ok := classRegistry[class]
	if !ok {
		return false
	}
	literal, _, templated := strings.Cut(info.rn, "[")
	if !templated {
		return rn == info.rn
	}
	return len(rn) > len(literal) && strings.HasPrefix(rn, literal)
}

// RN derives the relative name of an object of class from its naming properties.
func RN(class ClassID, naming Properties) (string, error) {
	info, ok := classRegistry[class]
	if !ok {
		return "", NewInvalidArgumentError("resolve", "unsupported class %q", class)
	}

	rn := info.rn
	for _, prop := range info.naming {
		value, ok := naming[prop]
		if !ok || value == "" {
			return "", NewInvalidArgumentError("resolve", "%s requires naming property %q", class, prop)
		}
		if err := checkNamingValue(prop, value); err != nil {
			return "", err
		}
		rn = strings.Replace(rn, "["+prop+"]", value, 1)
	}
	return rn, nil
}

// Resolve composes the DN of an object of class under scope. It is pure: the
// same inputs always produce the same DN.
//
//	Resolve("org-root", ClassIPPool, Properties{"name": "DC03"}) // "org-root/ip-pool-DC03"
func Resolve(scope DN, class ClassID, naming Properties) (DN, error) {
	if scope.IsZero() {
		return "", NewInvalidArgumentError("resolve", "scope DN cannot be empty")
	}
	rn, err := RN(class, naming)
	if err != nil {
		return "", err
	}
	return scope.Child(rn), nil
}

// ResolveName is Resolve for classes named by a single "name" property.
func ResolveName(scope DN, class ClassID, name string) (DN, error) {
	return Resolve(scope, class, Properties{"name": name})
}
