package session

import (
	"context"
	"slices"
	"sync"

	"github.com/IsaacT30/airport-console/log"
	"github.com/IsaacT30/airport-console/metrics"
)

// AuthClient is the slice of the auth service the controller needs.
type AuthClient interface {
	// Login exchanges credentials for a token pair and, when the backend
	// includes it, the identity.
	Login(ctx context.Context, username, password string) (*Grant, error)

	// Register creates an account; the response shape matches Login.
	Register(ctx context.Context, reg Registration) (*Grant, error)

	// Me fetches the current identity using the stored access token.
	Me(ctx context.Context) (*Identity, error)
}

// Controller orchestrates the session lifecycle over a Store and the auth
// service: login, registration, logout, and hydration at startup.
type Controller struct {
	store  Store
	auth   AuthClient
	logger *log.Logger
	stats  *metrics.Metrics

	mu        sync.Mutex
	listeners []func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.stats = m
	}
}

// NewController creates a session controller.
func NewController(store Store, auth AuthClient, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		auth:   auth,
		logger: log.G,
		stats:  metrics.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store exposes the credential store backing this controller.
func (c *Controller) Store() Store { return c.store }

// Login authenticates and populates the store. On failure the store is left
// untouched and the backend's error is returned unmodified.
func (c *Controller) Login(ctx context.Context, username, password string) (*Identity, error) {
	grant, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.adopt(ctx, grant)
}

// Register creates an account and, like Login, authenticates it.
func (c *Controller) Register(ctx context.Context, reg Registration) (*Identity, error) {
	grant, err := c.auth.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return c.adopt(ctx, grant)
}

// adopt stores a fresh grant: the token pair first, then the identity,
// fetched from the backend when the grant does not carry it.
func (c *Controller) adopt(ctx context.Context, grant *Grant) (*Identity, error) {
	if err := c.store.SetTokenPair(ctx, grant.Access, grant.Refresh); err != nil {
		return nil, err
	}

	identity := grant.User
	if identity == nil {
		fetched, err := c.auth.Me(ctx)
		if err != nil {
			// A session whose identity cannot be established is not kept.
			c.Logout(ctx)
			return nil, err
		}
		identity = fetched
	}

	if err := c.store.SetIdentity(ctx, identity); err != nil {
		return nil, err
	}

	c.stats.SetSessionActive(true)
	c.logger.Info().Str("username", identity.Username).Msg("session established")
	return identity, nil
}

// Logout unconditionally clears the store. It never fails: storage errors
// are logged and swallowed, and calling it on an empty store is a no-op.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear credential store")
	}
	c.stats.SetSessionActive(false)
}

// Hydrate restores the session at startup. With no access token present it
// returns (nil, nil). With a token it prefers the cached identity and only
// asks the backend when the cache is empty; an identity that cannot be
// fetched despite a present token means the session is invalid, so the
// whole store is cleared rather than retried.
func (c *Controller) Hydrate(ctx context.Context) (*Identity, error) {
	access, err := c.store.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if access == "" {
		return nil, nil
	}

	identity, err := c.store.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		c.stats.SetSessionActive(true)
		return identity, nil
	}

	identity, err = c.auth.Me(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("session hydration failed, logging out")
		c.Logout(ctx)
		return nil, err
	}

	if err := c.store.SetIdentity(ctx, identity); err != nil {
		return nil, err
	}
	c.stats.SetSessionActive(true)
	return identity, nil
}

// Role resolves the current role from the cached identity. Recomputed on
// every call so it follows the latest cache.
func (c *Controller) Role(ctx context.Context) Role {
	identity, err := c.store.Identity(ctx)
	if err != nil {
		return ""
	}
	return ResolveRole(identity)
}

// OnInvalidated registers a listener for session invalidation. Listeners
// run synchronously from Invalidate.
func (c *Controller) OnInvalidated(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Invalidate reports that the session was destroyed outside the controller
// (a failed renewal). The store is already cleared by then; this notifies
// listeners so the presentation layer can react.
func (c *Controller) Invalidate() {
	c.stats.SetSessionActive(false)
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
