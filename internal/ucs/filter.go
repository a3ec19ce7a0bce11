package ucs

import (
	"fmt"
	"strings"
	"unicode"
)

// EqFilter is an equality filter on one property of a class.
// String renders the textual form used by the UCS SDKs:
//
//	(name, "DC03", type="eq")
type EqFilter struct {
	Class    ClassID
	Property string
	Value    string
}

func (f *EqFilter) String() string {
	return fmt.Sprintf("(%s, %q, type=\"eq\")", f.Property, f.Value)
}

// Matches reports whether an object satisfies the filter.
func (f *EqFilter) Matches(mo *ManagedObject) bool {
	if f == nil {
		return true
	}
	if f.Class != "" && mo.ClassID != f.Class {
		return false
	}
	return mo.Properties[f.Property] == f.Value
}

// NewEqFilter builds an equality filter, rejecting values that would break the
// filter grammar.
func NewEqFilter(property, value string) (*EqFilter, error) {
	if property == "" {
		return nil, NewInvalidArgumentError("filter", "filter property cannot be empty")
	}
	if err := checkFilterValue(value); err != nil {
		return nil, err
	}
	return &EqFilter{Property: property, Value: value}, nil
}

// ChildFilter builds the name filter used for existence checks.
func ChildFilter(name string) (*EqFilter, error) {
	return NewEqFilter("name", name)
}

func checkFilterValue(value string) error {
	if value == "" {
		return NewInvalidArgumentError("filter", "filter value cannot be empty")
	}
	if strings.ContainsAny(value, `"\`) {
		return NewInvalidArgumentError("filter", "filter value %q contains a quote or backslash", value)
	}
	if strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return NewInvalidArgumentError("filter", "filter value %q contains a control character", value)
	}
	return nil
}

// withClass returns a copy of the filter bound to class.
func (f *EqFilter) withClass(class ClassID) *EqFilter {
	if f == nil {
		return nil
	}
	out := *f
	out.Class = class
	return &out
}
