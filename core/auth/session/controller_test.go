package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaacT30/airport-console/errors"
)

// fakeAuth scripts the auth service and counts calls.
type fakeAuth struct {
	grant    *Grant
	loginErr error
	me       *Identity
	meErr    error
	meCalls  int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*Grant, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.grant, nil
}

func (f *fakeAuth) Register(ctx context.Context, reg Registration) (*Grant, error) {
	return f.Login(ctx, reg.Username, reg.Password)
}

func (f *fakeAuth) Me(ctx context.Context) (*Identity, error) {
	f.meCalls++
	return f.me, f.meErr
}

func newController(t *testing.T, auth AuthClient) (*Controller, Store) {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return NewController(store, auth), store
}

func TestLoginPopulatesStore(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{grant: &Grant{
		Access:  "acc",
		Refresh: "ref",
		User:    &Identity{Username: "ana", IsStaff: true},
	}}
	ctrl, store := newController(t, auth)

	identity, err := ctrl.Login(ctx, "ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ana", identity.Username)

	access, _ := store.AccessToken(ctx)
	refresh, _ := store.RefreshToken(ctx)
	cached, _ := store.Identity(ctx)
	assert.Equal(t, "acc", access)
	assert.Equal(t, "ref", refresh)
	require.NotNil(t, cached)
	assert.Equal(t, "ana", cached.Username)
	assert.Zero(t, auth.meCalls, "identity in the grant means no extra fetch")
}

func TestLoginFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{loginErr: errors.Unauthorized("bad credentials")}
	ctrl, store := newController(t, auth)

	_, err := ctrl.Login(ctx, "ana", "wrong")
	require.Error(t, err)

	access, _ := store.AccessToken(ctx)
	assert.Empty(t, access)
}

func TestLoginFetchesIdentityWhenGrantOmitsIt(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{
		grant: &Grant{Access: "acc", Refresh: "ref"},
		me:    &Identity{Username: "ana"},
	}
	ctrl, store := newController(t, auth)

	identity, err := ctrl.Login(ctx, "ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ana", identity.Username)
	assert.Equal(t, 1, auth.meCalls)

	cached, _ := store.Identity(ctx)
	require.NotNil(t, cached)
}

func TestRegisterAutoAuthenticates(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{grant: &Grant{
		Access:  "acc",
		Refresh: "ref",
		User:    &Identity{Username: "new"},
	}}
	ctrl, store := newController(t, auth)

	identity, err := ctrl.Register(ctx, Registration{Username: "new", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "new", identity.Username)

	access, _ := store.AccessToken(ctx)
	assert.Equal(t, "acc", access)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{grant: &Grant{Access: "acc", Refresh: "ref", User: &Identity{Username: "ana"}}}
	ctrl, store := newController(t, auth)

	_, err := ctrl.Login(ctx, "ana", "secret")
	require.NoError(t, err)

	ctrl.Logout(ctx)
	ctrl.Logout(ctx)

	access, _ := store.AccessToken(ctx)
	refresh, _ := store.RefreshToken(ctx)
	identity, _ := store.Identity(ctx)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Nil(t, identity)
}

func TestHydratePrefersCachedIdentity(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{grant: &Grant{Access: "acc", Refresh: "ref", User: &Identity{Username: "ana"}}}
	ctrl, _ := newController(t, auth)

	_, err := ctrl.Login(ctx, "ana", "secret")
	require.NoError(t, err)

	identity, err := ctrl.Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana", identity.Username)
	assert.Zero(t, auth.meCalls, "cached identity short-circuits the fetch")
}

func TestHydrateWithoutTokenReturnsNil(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newController(t, &fakeAuth{})

	identity, err := ctrl.Hydrate(ctx)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestHydrateFetchesWhenCacheEmpty(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{me: &Identity{Username: "ana"}}
	ctrl, store := newController(t, auth)

	require.NoError(t, store.SetTokenPair(ctx, "acc", "ref"))

	identity, err := ctrl.Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana", identity.Username)
	assert.Equal(t, 1, auth.meCalls)

	cached, _ := store.Identity(ctx)
	require.NotNil(t, cached, "fetched identity should be cached")
}

func TestHydrateFetchFailureLogsOut(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{meErr: errors.Unauthorized("token rejected")}
	ctrl, store := newController(t, auth)

	require.NoError(t, store.SetTokenPair(ctx, "acc", "ref"))

	_, err := ctrl.Hydrate(ctx)
	require.Error(t, err)

	access, _ := store.AccessToken(ctx)
	refresh, _ := store.RefreshToken(ctx)
	assert.Empty(t, access, "invalid session must be cleared, not retried")
	assert.Empty(t, refresh)
}

func TestRoleFollowsCachedIdentity(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{grant: &Grant{Access: "a", Refresh: "r", User: &Identity{Role: "operador"}}}
	ctrl, store := newController(t, auth)

	assert.Equal(t, Role(""), ctrl.Role(ctx))

	_, err := ctrl.Login(ctx, "op", "pw")
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, ctrl.Role(ctx))

	require.NoError(t, store.SetIdentity(ctx, &Identity{IsStaff: true}))
	assert.Equal(t, RoleAdmin, ctrl.Role(ctx))
}

func TestInvalidateNotifiesListeners(t *testing.T) {
	ctrl, _ := newController(t, &fakeAuth{})

	var fired int
	ctrl.OnInvalidated(func() { fired++ })
	ctrl.OnInvalidated(func() { fired++ })

	ctrl.Invalidate()
	assert.Equal(t, 2, fired)
}
