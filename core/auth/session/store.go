package session

import "context"

// Storage keys. Fixed and stable: credentials written by one version of the
// console must be readable by the next.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyIdentity     = "identity"
)

// Store persists the session's three entries: access token, refresh token
// and cached identity. Absence is an empty/nil result, never an error; the
// error returns report real storage failures only.
//
// The access and refresh tokens are written together by SetTokenPair after a
// successful authentication exchange; a renewal exchange replaces only the
// access token via SetAccessToken. Clear removes all three entries.
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	Identity(ctx context.Context) (*Identity, error)

	SetTokenPair(ctx context.Context, access, refresh string) error
	SetAccessToken(ctx context.Context, access string) error
	SetIdentity(ctx context.Context, identity *Identity) error

	Clear(ctx context.Context) error
}
