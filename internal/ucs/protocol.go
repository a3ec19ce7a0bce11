package ucs

import (
	"context"
	"fmt"
)

const inHierarchicalFalse = "false"

// ResolveDN returns the object at dn, or nil when the endpoint has nothing there.
func (s *Session) ResolveDN(ctx context.Context, dn DN) (*ManagedObject, error) {
	if dn.IsZero() {
		return nil, NewInvalidArgumentError(MethodResolveDN, "DN cannot be empty")
	}

	var resp ResolveDNResponse
	err := s.call(ctx, MethodResolveDN, dn, func(cookie string) any {
		return &ResolveDNRequest{
			Cookie:         cookie,
			DN:             dn.String(),
			InHierarchical: inHierarchicalFalse,
		}
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.OutConfig.Objects) == 0 {
		return nil, nil
	}
	mo := resp.OutConfig.Objects[0]
	if mo.DN.IsZero() {
		mo.DN = dn
		mo.RN = dn.RN()
	}
	return mo, nil
}

// QueryChildren lists the direct children of parent with the given class, in
// the order the endpoint returns them. A nil filter matches every child.
func (s *Session) QueryChildren(ctx context.Context, parent *ManagedObject, class ClassID, filter *EqFilter) ([]*ManagedObject, error) {
	if parent == nil || parent.DN.IsZero() {
		return nil, NewInvalidArgumentError(MethodResolveChildren, "parent object is required")
	}
	if class == "" {
		return nil, NewInvalidArgumentError(MethodResolveChildren, "class is required")
	}

	var resp ResolveChildrenResponse
	err := s.call(ctx, MethodResolveChildren, parent.DN, func(cookie string) any {
		return &ResolveChildrenRequest{
			Cookie:         cookie,
			ClassID:        class.String(),
			InDN:           parent.DN.String(),
			InHierarchical: inHierarchicalFalse,
			InFilter:       newInFilter(filter.withClass(class)),
		}
	}, &resp)
	if err != nil {
		return nil, err
	}

	children := make([]*ManagedObject, 0, len(resp.OutConfigs.Objects))
	for _, mo := range resp.OutConfigs.Objects {
		// Only direct children of the requested class.
		if mo.ClassID != class || mo.DN.Parent() != parent.DN {
			continue
		}
		mo.parent = parent
		children = append(children, mo)
	}
	return children, nil
}

// QueryClass lists every object of class in the tree.
func (s *Session) QueryClass(ctx context.Context, class ClassID, filter *EqFilter) ([]*ManagedObject, error) {
	if class == "" {
		return nil, NewInvalidArgumentError(MethodResolveClass, "class is required")
	}

	var resp ResolveClassResponse
	err := s.call(ctx, MethodResolveClass, "", func(cookie string) any {
		return &ResolveClassRequest{
			Cookie:         cookie,
			ClassID:        class.String(),
			InHierarchical: inHierarchicalFalse,
			InFilter:       newInFilter(filter.withClass(class)),
		}
	}, &resp)
	if err != nil {
		return nil, err
	}

	objects := make([]*ManagedObject, 0, len(resp.OutConfigs.Objects))
	for _, mo := range resp.OutConfigs.Objects {
		if mo.ClassID == class {
			objects = append(objects, mo)
		}
	}
	return objects, nil
}

// Commit sends the staged subtrees rooted at roots in a single configConfMos
// request. The endpoint applies the request atomically: either every object is
// created or none is.
func (s *Session) Commit(ctx context.Context, roots ...*ManagedObject) ([]*ManagedObject, error) {
	if len(roots) == 0 {
		return nil, NewInvalidArgumentError(MethodConfMos, "nothing to commit")
	}

	req := &ConfMosRequest{InHierarchical: inHierarchicalFalse}
	for _, root := range roots {
		if root == nil || !root.Staged() {
			return nil, NewInvalidArgumentError(MethodConfMos, "only staged objects can be committed")
		}
		req.InConfigs.Pairs = append(req.InConfigs.Pairs, Pair{Key: root.DN.String(), Object: root})
	}

	return s.confMos(ctx, roots[0].DN, req)
}

// Remove deletes objects, and everything below them, in a single configConfMos
// request. The deletion is complete when Remove returns.
func (s *Session) Remove(ctx context.Context, objects ...*ManagedObject) error {
	if len(objects) == 0 {
		return NewInvalidArgumentError(MethodConfMos, "nothing to remove")
	}

	req := &ConfMosRequest{InHierarchical: inHierarchicalFalse}
	for _, mo := range objects {
		if mo == nil || mo.DN.IsZero() {
			return NewInvalidArgumentError(MethodConfMos, "objects to remove must have a DN")
		}
		req.InConfigs.Pairs = append(req.InConfigs.Pairs, Pair{
			Key: mo.DN.String(),
			Object: &ManagedObject{
				ClassID: mo.ClassID,
				DN:      mo.DN,
				RN:      mo.DN.RN(),
				Status:  StatusDeleted,
			},
		})
	}

	_, err := s.confMos(ctx, objects[0].DN, req)
	return err
}

func (s *Session) confMos(ctx context.Context, dn DN, req *ConfMosRequest) ([]*ManagedObject, error) {
	var resp ConfMosResponse
	err := s.call(ctx, MethodConfMos, dn, func(cookie string) any {
		req.Cookie = cookie
		return req
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := make([]*ManagedObject, 0, len(resp.OutConfigs.Pairs))
	for _, pair := range resp.OutConfigs.Pairs {
		if pair.Object == nil {
			return nil, NewRemoteError(MethodConfMos, s.Endpoint(), DN(pair.Key),
				fmt.Errorf("empty result for %s", pair.Key))
		}
		out = append(out, pair.Object)
	}
	return out, nil
}

var _ Client = (*Session)(nil)
