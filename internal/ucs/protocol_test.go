package ucs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
	"github.com/isometry/terraform-provider-ucs/internal/ucs/ucstest"
)

func newSession(t *testing.T, opts ...ucstest.Option) (*ucstest.Server, *ucs.SessionRegistry, *ucs.Session) {
	t.Helper()
	srv := ucstest.NewServer(t, opts...)
	registry := newRegistry(t)
	session, err := registry.Acquire(t.Context(), srv.Config())
	require.NoError(t, err)
	return srv, registry, session
}

func TestSession_ResolveDN(t *testing.T) {
	_, _, session := newSession(t)

	root, err := session.ResolveDN(t.Context(), ucs.RootOrgDN)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, ucs.ClassOrg, root.ClassID)
	assert.Equal(t, "root", root.Name())

	missing, err := session.ResolveDN(t.Context(), "org-root/ip-pool-nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = session.ResolveDN(t.Context(), "")
	assert.True(t, ucs.IsInvalidArgument(err))
}

func TestSession_QueryChildren(t *testing.T) {
	srv, _, session := newSession(t)
	srv.AddObject(ucs.ClassIPPool, "org-root/ip-pool-DC01", ucs.Properties{"name": "DC01"})
	srv.AddObject(ucs.ClassIPPool, "org-root/ip-pool-DC02", ucs.Properties{"name": "DC02"})
	hr := srv.AddOrg(ucs.RootOrgDN, "HR")
	srv.AddObject(ucs.ClassIPPool, hr.Child("ip-pool-DC01"), ucs.Properties{"name": "DC01"})

	root, err := session.ResolveDN(t.Context(), ucs.RootOrgDN)
	require.NoError(t, err)

	all, err := session.QueryChildren(t.Context(), root, ucs.ClassIPPool, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ucs.DN("org-root/ip-pool-DC01"), all[0].DN)
	assert.Same(t, root, all[0].Parent())

	filter, err := ucs.ChildFilter("DC02")
	require.NoError(t, err)
	named, err := session.QueryChildren(t.Context(), root, ucs.ClassIPPool, filter)
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "DC02", named[0].Name())

	none, err := session.QueryChildren(t.Context(), root, ucs.ClassLANConnPolicy, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	orgs, err := session.QueryClass(t.Context(), ucs.ClassOrg, nil)
	require.NoError(t, err)
	assert.Len(t, orgs, 2)
}

func TestSession_CommitAndRemove(t *testing.T) {
	srv, _, session := newSession(t)

	root, err := session.ResolveDN(t.Context(), ucs.RootOrgDN)
	require.NoError(t, err)

	pool, err := ucs.Stage(root, ucs.ClassIPPool, ucs.Properties{"name": "DC03"})
	require.NoError(t, err)
	_, err = ucs.Stage(pool, ucs.ClassIPBlock, ucs.Properties{"from": "10.10.0.1", "to": "10.10.0.100"})
	require.NoError(t, err)

	committed, err := session.Commit(t.Context(), pool)
	require.NoError(t, err)
	require.Len(t, committed, 1)
	assert.Equal(t, pool.DN, committed[0].DN)
	assert.True(t, srv.Exists("org-root/ip-pool-DC03/block-10.10.0.1-10.10.0.100"))

	// Committing the same subtree again conflicts.
	_, err = session.Commit(t.Context(), pool)
	require.Error(t, err)
	assert.True(t, ucs.IsRemoteError(err))
	assert.True(t, ucs.IsConflictError(err))

	// Only staged objects can be committed.
	_, err = session.Commit(t.Context(), root)
	assert.True(t, ucs.IsInvalidArgument(err))
	_, err = session.Commit(t.Context())
	assert.True(t, ucs.IsInvalidArgument(err))

	existing, err := session.ResolveDN(t.Context(), pool.DN)
	require.NoError(t, err)
	require.NoError(t, session.Remove(t.Context(), existing))
	assert.False(t, srv.Exists(pool.DN))
	assert.Zero(t, srv.Count(ucs.ClassIPBlock))

	err = session.Remove(t.Context(), existing)
	assert.True(t, ucs.IsNotFoundError(err))
}

func TestSession_RemoteErrorKeepsSession(t *testing.T) {
	srv, registry, session := newSession(t)
	srv.FailNext(ucs.MethodResolveDN, ucs.CodeUnauthorizedWrite, "Permission denied")

	_, err := session.ResolveDN(t.Context(), ucs.RootOrgDN)
	require.Error(t, err)
	assert.True(t, ucs.IsRemoteError(err))

	var ucsErr *ucs.UCSError
	require.ErrorAs(t, err, &ucsErr)
	assert.Equal(t, ucs.CodeUnauthorizedWrite, ucsErr.Code)
	assert.Equal(t, ucs.ErrorCategoryPermission, ucsErr.Category)
	assert.Equal(t, string(ucs.RootOrgDN), ucsErr.DN)

	// The session stays cached and usable.
	again, err := registry.Acquire(t.Context(), srv.Config())
	require.NoError(t, err)
	assert.Same(t, session, again)

	root, err := session.ResolveDN(t.Context(), ucs.RootOrgDN)
	require.NoError(t, err)
	assert.NotNil(t, root)
	assert.Equal(t, 1, srv.Logins())
}
