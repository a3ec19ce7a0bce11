package ucs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// State is the desired state of a resource.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// ParseState parses a target state, case-insensitively.
func ParseState(s string) (State, error) {
	switch State(strings.ToLower(strings.TrimSpace(s))) {
	case StatePresent:
		return StatePresent, nil
	case StateAbsent:
		return StateAbsent, nil
	default:
		return "", NewInvalidArgumentError("parse state", "target state must be present or absent, got %q", s)
	}
}

// Result reports the outcome of a reconciliation.
type Result struct {
	// Changed is true when the endpoint was modified.
	Changed bool
	// Found is true when the target existed before the reconciliation.
	Found bool
	// DN identifies the target, when it is known.
	DN DN
}

// Resource is a desired-state description of one kind of managed object.
type Resource interface {
	// Kind names the resource type, e.g. "ip_pool".
	Kind() string

	// Validate checks the description without contacting the endpoint.
	Validate() error

	// Scope resolves the container the resource lives in, or nil if it is missing.
	Scope(ctx context.Context, c Client) (*ManagedObject, error)

	// Lookup returns the existing objects under scope that make up the resource.
	Lookup(ctx context.Context, c Client, scope *ManagedObject) ([]*ManagedObject, error)

	// Plan stages the subtrees needed to make the resource present, given what
	// Lookup found. No roots means nothing needs to be created.
	Plan(scope *ManagedObject, existing []*ManagedObject) ([]*ManagedObject, error)
}

// Reconciler converges resources on one endpoint.
type Reconciler struct {
	client Client
}

// NewReconciler creates a reconciler over client. When client is also a
// sync.Locker (as *Session is) each reconciliation holds its lock.
func NewReconciler(client Client) *Reconciler {
	return &Reconciler{client: client}
}

func (r *Reconciler) lock() func() {
	if l, ok := r.client.(sync.Locker); ok {
		l.Lock()
		return l.Unlock
	}
	return func() {}
}

// Apply converges resource to state.
func (r *Reconciler) Apply(ctx context.Context, resource Resource, state State) (Result, error) {
	switch state {
	case StatePresent:
		return r.Present(ctx, resource)
	case StateAbsent:
		return r.Absent(ctx, resource)
	default:
		return Result{}, NewInvalidArgumentError("reconcile", "unknown target state %q", state)
	}
}

// Present creates the resource if it does not exist.
//
// A missing scope yields Changed=false without error. An existing object is left
// untouched; its properties are not compared with the description.
func (r *Reconciler) Present(ctx context.Context, resource Resource) (Result, error) {
	if err := resource.Validate(); err != nil {
		return Result{}, err
	}

	defer r.lock()()

	ctx = tflog.SetField(ctx, "resource_kind", resource.Kind())
	var result Result
	err := LogOperation(ctx, "present", nil, func() error {
		scope, err := resource.Scope(ctx, r.client)
		if err != nil {
			return err
		}
		if scope == nil {
			tflog.SubsystemWarn(ctx, Subsystem, "Scope container does not exist, nothing to do")
			return nil
		}

		existing, err := resource.Lookup(ctx, r.client, scope)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			result.Found = true
			result.DN = existing[0].DN
		}

		roots, err := resource.Plan(scope, existing)
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			tflog.SubsystemDebug(ctx, Subsystem, "Resource already present", map[string]any{
				"dn": result.DN.String(),
			})
			return nil
		}

		objectCount := 0
		for _, root := range roots {
			root.Walk(func(*ManagedObject) { objectCount++ })
		}
		tflog.SubsystemDebug(ctx, Subsystem, "Committing staged objects", map[string]any{
			"roots":   len(roots),
			"objects": objectCount,
		})

		if _, err := r.client.Commit(ctx, roots...); err != nil {
			return err
		}

		for _, root := range roots {
			confirmed, err := r.client.ResolveDN(ctx, root.DN)
			if err != nil {
				return err
			}
			if confirmed == nil {
				return NewRemoteError("confirm", "", root.DN, fmt.Errorf("%s not found after commit", root.DN))
			}
		}

		result.Changed = true
		if result.DN.IsZero() {
			result.DN = roots[0].DN
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// Absent removes the resource if it exists. A missing scope yields Changed=false.
func (r *Reconciler) Absent(ctx context.Context, resource Resource) (Result, error) {
	if err := resource.Validate(); err != nil {
		return Result{}, err
	}

	defer r.lock()()

	ctx = tflog.SetField(ctx, "resource_kind", resource.Kind())
	var result Result
	err := LogOperation(ctx, "absent", nil, func() error {
		scope, err := resource.Scope(ctx, r.client)
		if err != nil {
			return err
		}
		if scope == nil {
			tflog.SubsystemDebug(ctx, Subsystem, "Scope container does not exist, treating resource as absent")
			return nil
		}

		existing, err := resource.Lookup(ctx, r.client, scope)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return nil
		}
		result.Found = true
		result.DN = existing[0].DN

		if err := r.client.Remove(ctx, existing...); err != nil {
			return err
		}

		for _, mo := range existing {
			remaining, err := r.client.ResolveDN(ctx, mo.DN)
			if err != nil {
				return err
			}
			if remaining != nil {
				return NewRemoteError("confirm", "", mo.DN, fmt.Errorf("%s still present after removal", mo.DN))
			}
		}

		result.Changed = true
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// Observe reports whether the resource exists, without changing anything.
func (r *Reconciler) Observe(ctx context.Context, resource Resource) (Result, error) {
	if err := resource.Validate(); err != nil {
		return Result{}, err
	}

	defer r.lock()()

	scope, err := resource.Scope(ctx, r.client)
	if err != nil || scope == nil {
		return Result{}, err
	}

	existing, err := resource.Lookup(ctx, r.client, scope)
	if err != nil {
		return Result{}, err
	}
	if len(existing) == 0 {
		return Result{}, nil
	}

	roots, err := resource.Plan(scope, existing)
	if err != nil {
		return Result{}, err
	}
	// Partially present resources are reported as found only when complete.
	return Result{Found: len(roots) == 0, DN: existing[0].DN}, nil
}
