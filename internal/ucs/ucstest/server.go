// Package ucstest provides an in-process UCS Manager XML API endpoint for tests.
package ucstest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Default credentials accepted by the server.
const (
	DefaultUsername = "admin"
	DefaultPassword = "password"
)

// Server is a fake UCS Manager holding an in-memory object tree.
//
// configConfMos requests are applied to a copy of the tree, which replaces the
// live tree only if every object in the request was applied.
type Server struct {
	srv *httptest.Server

	username string
	password string

	mu         sync.Mutex
	objects    []*ucs.ManagedObject
	sessions   map[string]bool
	calls      map[string]int
	logins     int
	logouts    int
	confMos    []*ucs.ConfMosRequest
	loginDelay time.Duration

	failCommitAfter int
	failNext        map[string]*ucs.ResponseStatus
}

// Option configures a Server.
type Option func(*Server)

// WithCredentials sets the accepted username and password.
func WithCredentials(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

// WithLoginDelay delays every aaaLogin reply.
func WithLoginDelay(d time.Duration) Option {
	return func(s *Server) {
		s.loginDelay = d
	}
}

// NewServer starts a server seeded with org-root and both SAN fabric endpoints.
// It is closed when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		username:        DefaultUsername,
		password:        DefaultPassword,
		sessions:        make(map[string]bool),
		calls:           make(map[string]int),
		failNext:        make(map[string]*ucs.ResponseStatus),
		failCommitAfter: -1,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.seed(ucs.ClassOrg, "org-root", ucs.Properties{"name": "root"})
	s.seed("fabricEp", "fabric", nil)
	s.seed("fabricSanCloud", "fabric/san", nil)
	s.seed(ucs.ClassFabricSANEndpoint, "fabric/san/A", ucs.Properties{"id": "A"})
	s.seed(ucs.ClassFabricSANEndpoint, "fabric/san/B", ucs.Properties{"id": "B"})

	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.CloseClientConnections()
	s.srv.Close()
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return s.srv.URL
}

// Config returns a connection configuration for the server.
func (s *Server) Config() *ucs.ConnectionConfig {
	u, err := url.Parse(s.srv.URL)
	if err != nil {
		panic(err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		panic(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		panic(err)
	}

	config := ucs.DefaultConfig()
	config.Host = host
	config.Port = port
	config.Secure = false
	config.Username = s.username
	config.Password = s.password
	config.Timeout = 5 * time.Second
	config.DialRetries = 0
	return config
}

func (s *Server) seed(class ucs.ClassID, dn ucs.DN, props ucs.Properties) {
	s.objects = append(s.objects, &ucs.ManagedObject{
		ClassID:    class,
		DN:         dn,
		RN:         dn.RN(),
		Properties: props.Clone(),
	})
}

// AddObject inserts an object. Its parent must already exist.
func (s *Server) AddObject(class ucs.ClassID, dn ucs.DN, props ucs.Properties) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dn.Parent() != "" && indexOf(s.objects, dn.Parent()) < 0 {
		panic(fmt.Sprintf("ucstest: parent of %s does not exist", dn))
	}
	s.seed(class, dn, props)
}

// AddOrg creates an organization below parent (a DN such as "org-root").
func (s *Server) AddOrg(parent ucs.DN, name string) ucs.DN {
	dn := parent.Child("org-" + name)
	s.AddObject(ucs.ClassOrg, dn, ucs.Properties{"name": name})
	return dn
}

// AddVSAN creates a VSAN on a fabric interconnect.
func (s *Server) AddVSAN(switchID, name string, id int) ucs.DN {
	dn := ucs.FabricSANDN.Child(switchID).Child("net-" + name)
	s.AddObject(ucs.ClassVSAN, dn, ucs.Properties{
		"name":     name,
		"id":       strconv.Itoa(id),
		"switchId": switchID,
	})
	return dn
}

// Exists reports whether an object exists at dn.
func (s *Server) Exists(dn ucs.DN) bool {
	return s.Object(dn) != nil
}

// Object returns a copy of the object at dn, or nil.
func (s *Server) Object(dn ucs.DN) *ucs.ManagedObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.objects, dn); i >= 0 {
		return cloneObject(s.objects[i])
	}
	return nil
}

// Count returns the number of objects of class.
func (s *Server) Count(class ucs.ClassID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, mo := range s.objects {
		if mo.ClassID == class {
			n++
		}
	}
	return n
}

// Logins returns the number of successful aaaLogin calls.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Logouts returns the number of aaaLogout calls.
func (s *Server) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

// Calls returns the number of requests received for method.
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// ConfMos returns every configConfMos request received, in order.
func (s *Server) ConfMos() []*ucs.ConfMosRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ucs.ConfMosRequest, len(s.confMos))
	copy(out, s.confMos)
	return out
}

// FailCommitAfter makes the next configConfMos fail after n objects have been
// applied. The tree is left as it was before the request.
func (s *Server) FailCommitAfter(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommitAfter = n
}

// FailNext makes the next call of method fail with the given error code.
func (s *Server) FailNext(method string, code int, descr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[method] = &ucs.ResponseStatus{
		ErrorCode:        strconv.Itoa(code),
		ErrorDescr:       descr,
		InvocationResult: "unidentified-fail",
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/nuova" {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	method, err := rootElement(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if method == ucs.MethodLogin && s.loginDelay > 0 {
		time.Sleep(s.loginDelay)
	}

	resp := s.dispatch(method, body)

	out, err := xml.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(out)
}

func (s *Server) dispatch(method string, body []byte) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[method]++
	if status, ok := s.failNext[method]; ok {
		delete(s.failNext, method)
		return &errorResponse{XMLName: xml.Name{Local: method}, ResponseStatus: withResponse(*status)}
	}

	switch method {
	case ucs.MethodLogin:
		return s.login(body)
	case ucs.MethodLogout:
		return s.logout(body)
	}

	var cookie struct {
		Cookie string `xml:"cookie,attr"`
	}
	if err := xml.Unmarshal(body, &cookie); err != nil || !s.sessions[cookie.Cookie] {
		return &errorResponse{
			XMLName:        xml.Name{Local: method},
			ResponseStatus: failure(ucs.CodeAuthRequired, "Authorization required"),
		}
	}

	switch method {
	case ucs.MethodResolveDN:
		return s.resolveDN(body)
	case ucs.MethodResolveChildren:
		return s.resolveChildren(body)
	case ucs.MethodResolveClass:
		return s.resolveClass(body)
	case ucs.MethodConfMos:
		return s.confMosCall(body)
	default:
		return &errorResponse{
			XMLName:        xml.Name{Local: "error"},
			ResponseStatus: failure(ucs.CodeInvalidProperty, "unknown method "+method),
		}
	}
}

func (s *Server) login(body []byte) any {
	var req ucs.LoginRequest
	if err := xml.Unmarshal(body, &req); err != nil || req.InName != s.username || req.InPassword != s.password {
		return &errorResponse{
			XMLName:        xml.Name{Local: ucs.MethodLogin},
			ResponseStatus: failure(ucs.CodeAuthFailed, "Authentication failed"),
		}
	}

	cookie := uuid.NewString()
	s.sessions[cookie] = true
	s.logins++
	return &ucs.LoginResponse{
		ResponseStatus:   ucs.ResponseStatus{Response: "yes"},
		OutCookie:        cookie,
		OutRefreshPeriod: "600",
		OutPriv:          "admin",
		OutVersion:       "4.2(3d)",
	}
}

func (s *Server) logout(body []byte) any {
	var req ucs.LogoutRequest
	if err := xml.Unmarshal(body, &req); err == nil {
		delete(s.sessions, req.InCookie)
	}
	s.logouts++
	return &ucs.LogoutResponse{
		ResponseStatus: ucs.ResponseStatus{Response: "yes"},
		OutStatus:      "success",
	}
}

func (s *Server) resolveDN(body []byte) any {
	var req ucs.ResolveDNRequest
	if err := xml.Unmarshal(body, &req); err != nil {
		return badRequest(ucs.MethodResolveDN, err)
	}
	resp := &ucs.ResolveDNResponse{
		ResponseStatus: ucs.ResponseStatus{Cookie: req.Cookie, Response: "yes"},
		DN:             req.DN,
	}
	if i := indexOf(s.objects, ucs.DN(req.DN)); i >= 0 {
		resp.OutConfig.Objects = []*ucs.ManagedObject{cloneObject(s.objects[i])}
	}
	return resp
}

func (s *Server) resolveChildren(body []byte) any {
	var req ucs.ResolveChildrenRequest
	if err := xml.Unmarshal(body, &req); err != nil {
		return badRequest(ucs.MethodResolveChildren, err)
	}
	var filter *ucs.EqFilter
	if req.InFilter != nil {
		filter = req.InFilter.Eq.Filter()
	}

	resp := &ucs.ResolveChildrenResponse{
		ResponseStatus: ucs.ResponseStatus{Cookie: req.Cookie, Response: "yes"},
		ClassID:        req.ClassID,
	}
	for _, mo := range s.objects {
		if mo.DN.Parent() != ucs.DN(req.InDN) || mo.ClassID != ucs.ClassID(req.ClassID) {
			continue
		}
		if filter.Matches(mo) {
			resp.OutConfigs.Objects = append(resp.OutConfigs.Objects, cloneObject(mo))
		}
	}
	return resp
}

func (s *Server) resolveClass(body []byte) any {
	var req ucs.ResolveClassRequest
	if err := xml.Unmarshal(body, &req); err != nil {
		return badRequest(ucs.MethodResolveClass, err)
	}
	var filter *ucs.EqFilter
	if req.InFilter != nil {
		filter = req.InFilter.Eq.Filter()
	}

	resp := &ucs.ResolveClassResponse{
		ResponseStatus: ucs.ResponseStatus{Cookie: req.Cookie, Response: "yes"},
		ClassID:        req.ClassID,
	}
	for _, mo := range s.objects {
		if mo.ClassID == ucs.ClassID(req.ClassID) && filter.Matches(mo) {
			resp.OutConfigs.Objects = append(resp.OutConfigs.Objects, cloneObject(mo))
		}
	}
	return resp
}

func (s *Server) confMosCall(body []byte) any {
	var req ucs.ConfMosRequest
	if err := xml.Unmarshal(body, &req); err != nil {
		return badRequest(ucs.MethodConfMos, err)
	}
	s.confMos = append(s.confMos, &req)

	failAfter := s.failCommitAfter
	s.failCommitAfter = -1

	tree := make([]*ucs.ManagedObject, len(s.objects))
	copy(tree, s.objects)
	applied := 0

	resp := &ucs.ConfMosResponse{
		ResponseStatus: ucs.ResponseStatus{Cookie: req.Cookie, Response: "yes"},
	}

	for _, pair := range req.InConfigs.Pairs {
		root := pair.Object
		if root == nil {
			return &errorResponse{XMLName: xml.Name{Local: ucs.MethodConfMos}, ResponseStatus: failure(ucs.CodeInvalidProperty, "empty pair "+pair.Key)}
		}
		if root.DN.IsZero() {
			root.DN = ucs.DN(pair.Key)
		}

		var status *ucs.ResponseStatus
		switch root.Status {
		case ucs.StatusDeleted:
			tree, status = deleteSubtree(tree, root.DN)
			applied++
		default:
			var objs []*ucs.ManagedObject
			root.Walk(func(mo *ucs.ManagedObject) { objs = append(objs, mo) })
			for _, mo := range objs {
				if failAfter >= 0 && applied >= failAfter {
					st := failure(ucs.CodeTxRollback, "transaction rolled back")
					status = &st
					break
				}
				tree, status = createObject(tree, mo)
				if status != nil {
					break
				}
				applied++
			}
		}
		if status == nil && failAfter >= 0 && applied > failAfter {
			st := failure(ucs.CodeTxRollback, "transaction rolled back")
			status = &st
		}
		if status != nil {
			return &errorResponse{XMLName: xml.Name{Local: ucs.MethodConfMos}, ResponseStatus: *status}
		}

		out := cloneObject(root)
		out.Status = root.Status
		resp.OutConfigs.Pairs = append(resp.OutConfigs.Pairs, ucs.Pair{Key: pair.Key, Object: out})
	}

	s.objects = tree
	return resp
}

func createObject(tree []*ucs.ManagedObject, mo *ucs.ManagedObject) ([]*ucs.ManagedObject, *ucs.ResponseStatus) {
	if mo.DN.IsZero() {
		st := failure(ucs.CodeInvalidProperty, "object without DN")
		return tree, &st
	}
	if indexOf(tree, mo.DN) >= 0 {
		st := failure(ucs.CodeAlreadyExists, "object "+mo.DN.String()+" already exists")
		return tree, &st
	}
	if parent := mo.DN.Parent(); parent != "" && indexOf(tree, parent) < 0 {
		st := failure(ucs.CodeNoSuchObject, "parent "+parent.String()+" does not exist")
		return tree, &st
	}

	stored := cloneObject(mo)
	return append(tree, stored), nil
}

func deleteSubtree(tree []*ucs.ManagedObject, dn ucs.DN) ([]*ucs.ManagedObject, *ucs.ResponseStatus) {
	if indexOf(tree, dn) < 0 {
		st := failure(ucs.CodeNoSuchObject, "object "+dn.String()+" does not exist")
		return tree, &st
	}
	kept := make([]*ucs.ManagedObject, 0, len(tree))
	for _, mo := range tree {
		if mo.DN == dn || mo.DN.IsDescendantOf(dn) {
			continue
		}
		kept = append(kept, mo)
	}
	return kept, nil
}

func indexOf(tree []*ucs.ManagedObject, dn ucs.DN) int {
	for i, mo := range tree {
		if mo.DN == dn {
			return i
		}
	}
	return -1
}

// cloneObject copies an object without its children or status.
func cloneObject(mo *ucs.ManagedObject) *ucs.ManagedObject {
	return &ucs.ManagedObject{
		ClassID:    mo.ClassID,
		DN:         mo.DN,
		RN:         mo.DN.RN(),
		Properties: mo.Properties.Clone(),
	}
}

type errorResponse struct {
	XMLName xml.Name
	ucs.ResponseStatus
}

func failure(code int, descr string) ucs.ResponseStatus {
	return withResponse(ucs.ResponseStatus{
		ErrorCode:        strconv.Itoa(code),
		ErrorDescr:       descr,
		InvocationResult: "unidentified-fail",
	})
}

func withResponse(status ucs.ResponseStatus) ucs.ResponseStatus {
	status.Response = "yes"
	return status
}

func badRequest(method string, err error) any {
	return &errorResponse{
		XMLName:        xml.Name{Local: method},
		ResponseStatus: failure(ucs.CodeInvalidProperty, err.Error()),
	}
}

func rootElement(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("no root element: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}
