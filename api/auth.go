package api

import (
	"context"

	"github.com/IsaacT30/airport-console/core/auth/session"
	"github.com/IsaacT30/airport-console/core/rest"
)

// Auth service paths.
const (
	LoginPath    = "/api/token/"
	RefreshPath  = "/api/token/refresh/"
	RegisterPath = "/api/register/"
	MePath       = "/api/users/me/"
)

// Auth exchanges credentials for tokens against the auth service and
// fetches the authenticated profile. It satisfies session.AuthClient.
type Auth struct {
	client *rest.Client
}

// NewAuth wraps a rest client pointed at the auth service.
func NewAuth(client *rest.Client) *Auth {
	return &Auth{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login obtains a token pair for the given credentials. Some backends
// return the profile inline with the tokens; when they do it is carried
// on the grant so callers can skip the profile fetch.
func (a *Auth) Login(ctx context.Context, username, password string) (*session.Grant, error) {
	grant := new(session.Grant)
	resp, err := a.client.Post(LoginPath, loginRequest{Username: username, Password: password},
		rest.WithContext(ctx), rest.WithResponse(grant), rest.WithoutRenewal())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return grant, nil
}

// Register creates an account and, when the backend issues tokens in the
// same response, returns them on the grant for immediate adoption.
func (a *Auth) Register(ctx context.Context, reg session.Registration) (*session.Grant, error) {
	grant := new(session.Grant)
	resp, err := a.client.Post(RegisterPath, reg,
		rest.WithContext(ctx), rest.WithResponse(grant), rest.WithoutRenewal())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return grant, nil
}

// Me fetches the authenticated user's profile.
func (a *Auth) Me(ctx context.Context) (*session.Identity, error) {
	identity := new(session.Identity)
	resp, err := a.client.Get(MePath, rest.WithContext(ctx), rest.WithResponse(identity))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return identity, nil
}

var _ session.AuthClient = (*Auth)(nil)
