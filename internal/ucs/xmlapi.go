package ucs

import (
	"encoding/xml"
	"fmt"
)

// XML API method names.
const (
	MethodLogin           = "aaaLogin"
	MethodLogout          = "aaaLogout"
	MethodResolveDN       = "configResolveDn"
	MethodResolveChildren = "configResolveChildren"
	MethodResolveClass    = "configResolveClass"
	MethodConfMos         = "configConfMos"
)

// ResponseStatus holds the attributes common to every XML API response.
type ResponseStatus struct {
	Cookie           string `xml:"cookie,attr,omitempty"`
	Response         string `xml:"response,attr,omitempty"`
	ErrorCode        string `xml:"errorCode,attr,omitempty"`
	ErrorDescr       string `xml:"errorDescr,attr,omitempty"`
	InvocationResult string `xml:"invocationResult,attr,omitempty"`
}

// Err returns the response error, if the endpoint reported one.
func (r *ResponseStatus) Err(method string) error {
	if r.ErrorCode == "" || r.ErrorCode == "0" {
		return nil
	}
	return newResponseError(method, r.ErrorCode, r.ErrorDescr)
}

// rawResponse is used to inspect the root element before decoding.
type rawResponse struct {
	XMLName xml.Name
	ResponseStatus
}

// LoginRequest is aaaLogin.
type LoginRequest struct {
	XMLName    xml.Name `xml:"aaaLogin"`
	InName     string   `xml:"inName,attr"`
	InPassword string   `xml:"inPassword,attr"`
}

// LoginResponse is the aaaLogin reply.
type LoginResponse struct {
	XMLName xml.Name `xml:"aaaLogin"`
	ResponseStatus
	OutCookie        string `xml:"outCookie,attr"`
	OutRefreshPeriod string `xml:"outRefreshPeriod,attr,omitempty"`
	OutPriv          string `xml:"outPriv,attr,omitempty"`
	OutVersion       string `xml:"outVersion,attr,omitempty"`
}

// LogoutRequest is aaaLogout.
type LogoutRequest struct {
	XMLName  xml.Name `xml:"aaaLogout"`
	InCookie string   `xml:"inCookie,attr"`
}

// LogoutResponse is the aaaLogout reply.
type LogoutResponse struct {
	XMLName xml.Name `xml:"aaaLogout"`
	ResponseStatus
	OutStatus string `xml:"outStatus,attr,omitempty"`
}

// ResolveDNRequest is configResolveDn.
type ResolveDNRequest struct {
	XMLName        xml.Name `xml:"configResolveDn"`
	Cookie         string   `xml:"cookie,attr"`
	DN             string   `xml:"dn,attr"`
	InHierarchical string   `xml:"inHierarchical,attr"`
}

// ResolveDNResponse is the configResolveDn reply.
type ResolveDNResponse struct {
	XMLName xml.Name `xml:"configResolveDn"`
	ResponseStatus
	DN        string    `xml:"dn,attr,omitempty"`
	OutConfig ConfigSet `xml:"outConfig"`
}

// ResolveChildrenRequest is configResolveChildren.
type ResolveChildrenRequest struct {
	XMLName        xml.Name  `xml:"configResolveChildren"`
	Cookie         string    `xml:"cookie,attr"`
	ClassID        string    `xml:"classId,attr"`
	InDN           string    `xml:"inDn,attr"`
	InHierarchical string    `xml:"inHierarchical,attr"`
	InFilter       *InFilter `xml:"inFilter,omitempty"`
}

// ResolveChildrenResponse is the configResolveChildren reply.
type ResolveChildrenResponse struct {
	XMLName xml.Name `xml:"configResolveChildren"`
	ResponseStatus
	ClassID    string    `xml:"classId,attr,omitempty"`
	OutConfigs ConfigSet `xml:"outConfigs"`
}

// ResolveClassRequest is configResolveClass.
type ResolveClassRequest struct {
	XMLName        xml.Name  `xml:"configResolveClass"`
	Cookie         string    `xml:"cookie,attr"`
	ClassID        string    `xml:"classId,attr"`
	InHierarchical string    `xml:"inHierarchical,attr"`
	InFilter       *InFilter `xml:"inFilter,omitempty"`
}

// ResolveClassResponse is the configResolveClass reply.
type ResolveClassResponse struct {
	XMLName xml.Name `xml:"configResolveClass"`
	ResponseStatus
	ClassID    string    `xml:"classId,attr,omitempty"`
	OutConfigs ConfigSet `xml:"outConfigs"`
}

// ConfMosRequest is configConfMos.
type ConfMosRequest struct {
	XMLName        xml.Name `xml:"configConfMos"`
	Cookie         string   `xml:"cookie,attr"`
	InHierarchical string   `xml:"inHierarchical,attr"`
	InConfigs      PairSet  `xml:"inConfigs"`
}

// ConfMosResponse is the configConfMos reply.
type ConfMosResponse struct {
	XMLName xml.Name `xml:"configConfMos"`
	ResponseStatus
	OutConfigs PairSet `xml:"outConfigs"`
}

// ConfigSet is a list of objects of any class.
type ConfigSet struct {
	Objects []*ManagedObject `xml:",any"`
}

// PairSet is the keyed list used by configConfMos.
type PairSet struct {
	Pairs []Pair `xml:"pair"`
}

// Pair associates a DN with the object to configure there.
type Pair struct {
	Key    string         `xml:"key,attr"`
	Object *ManagedObject `xml:",any"`
}

// InFilter wraps a single filter expression.
type InFilter struct {
	Eq *EqExpr `xml:"eq,omitempty"`
}

// EqExpr is the wire form of an EqFilter.
type EqExpr struct {
	Class    string `xml:"class,attr"`
	Property string `xml:"property,attr"`
	Value    string `xml:"value,attr"`
}

// Filter converts the expression back to an EqFilter.
func (e *EqExpr) Filter() *EqFilter {
	if e == nil {
		return nil
	}
	return &EqFilter{Class: ClassID(e.Class), Property: e.Property, Value: e.Value}
}

func newInFilter(f *EqFilter) *InFilter {
	if f == nil {
		return nil
	}
	return &InFilter{Eq: &EqExpr{Class: f.Class.String(), Property: f.Property, Value: f.Value}}
}

// ErrorResponse is the generic <error> element returned for unusable requests.
type ErrorResponse struct {
	XMLName xml.Name `xml:"error"`
	ResponseStatus
}

// decodeResponse decodes body into out after checking for an error response.
func decodeResponse(method string, body []byte, out any) error {
	var raw rawResponse
	if err := xml.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if err := raw.Err(method); err != nil {
		return err
	}
	if raw.XMLName.Local != method {
		return fmt.Errorf("decode %s response: unexpected element <%s>", method, raw.XMLName.Local)
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}
