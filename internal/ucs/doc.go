/*
Package ucs provides Cisco UCS Manager operations for the Terraform UCS provider
and the ucsctl playbook runner.

The package implements a small reconciliation engine over the UCS Manager XML API.
UCS Manager exposes its configuration as a tree of managed objects (MOs), each
addressed by a distinguished name such as "org-root/org-HR/ip-pool-DC03".

# Architecture Overview

The package is organized into four layers:

  - SessionRegistry: authenticated sessions keyed by endpoint identity
  - Tree addressing: DN composition (Resolve, OrgDN) and child filters (ChildFilter)
  - Protocol: the primitives ResolveDN, QueryChildren, QueryClass, Stage, Commit and Remove
  - Reconciler: the present/absent skeleton shared by every resource kind

# Sessions

A SessionRegistry authenticates once per endpoint (aaaLogin) and hands the same
Session to every later caller with the same host or connection name. There is no
eviction, expiry or re-authentication; the registry is owned by its creator, which
may log all sessions out with Close when it is done.

Reconciliations that share a Session are serialized on that Session. The engine
assumes a single writer per endpoint and performs no optimistic concurrency checks.

# Reconciliation

Every resource kind (IPPoolSpec, LANConnPolicySpec, SANConnPolicySpec,
VSANPortAssignmentSpec, ServiceProfileTemplateSpec) implements Resource. The
Reconciler resolves the scope container, checks for existing objects by name,
stages the complete subtree in memory and commits it in a single configConfMos
request, which UCS Manager applies atomically. Only existence is reconciled; the
properties of an existing object are never compared with the desired state.

# Error Handling

All failures are reported as *UCSError with one of the kinds:

  - KindInvalidArgument: malformed descriptors or names, never sent remotely
  - KindConnection: aaaLogin failed
  - KindRemote: a primitive failed after the session was established
  - KindNotFound: used internally; absence is normally control flow

Use IsInvalidArgument, IsConnectionError, IsRemoteError and KindOf to inspect errors.
*/
package ucs
