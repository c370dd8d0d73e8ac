package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/IsaacT30/airport-console/errors"
	"github.com/IsaacT30/airport-console/log"
	"github.com/IsaacT30/airport-console/metrics"
)

// Renewer exchanges the stored refresh token for a new access token. Its
// failure is always terminal: the credential store is cleared and the
// invalidation listeners fire, so the caller's user must authenticate again.
//
// The exchange uses a plain HTTP client; renewal requests are never
// themselves intercepted by the renewal protocol.
type Renewer struct {
	endpoint   string
	creds      Credentials
	httpClient *http.Client
	dedupe     bool
	group      singleflight.Group
	logger     *log.Logger
	stats      *metrics.Metrics

	mu        sync.Mutex
	listeners []func()
}

// RenewerOption configures a Renewer.
type RenewerOption func(*Renewer)

// WithRenewerHTTPClient sets the client used for the exchange request.
func WithRenewerHTTPClient(client *http.Client) RenewerOption {
	return func(r *Renewer) {
		r.httpClient = client
	}
}

// WithDeduplication shares one in-flight exchange between concurrent
// renewals. Leave it off unless the backend rotates refresh tokens on use;
// without rotation concurrent exchanges are merely redundant, with rotation
// they would invalidate each other's refresh token.
func WithDeduplication(enabled bool) RenewerOption {
	return func(r *Renewer) {
		r.dedupe = enabled
	}
}

// WithRenewerLogger sets the renewer's logger.
func WithRenewerLogger(logger *log.Logger) RenewerOption {
	return func(r *Renewer) {
		r.logger = logger
	}
}

// WithRenewerMetrics sets the metrics sink.
func WithRenewerMetrics(m *metrics.Metrics) RenewerOption {
	return func(r *Renewer) {
		r.stats = m
	}
}

// NewRenewer creates a Renewer posting to the given renewal endpoint.
func NewRenewer(endpoint string, creds Credentials, opts ...RenewerOption) *Renewer {
	r := &Renewer{
		endpoint:   endpoint,
		creds:      creds,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log.G,
		stats:      metrics.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnInvalidated registers a listener for terminal renewal failure.
func (r *Renewer) OnInvalidated(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Renew performs one renewal exchange and stores the new access token. The
// refresh token is left untouched. On any failure the session is destroyed
// and the returned error matches errors.ErrSessionInvalid.
func (r *Renewer) Renew(ctx context.Context) (string, error) {
	if !r.dedupe {
		return r.renew(ctx)
	}
	access, err, _ := r.group.Do("renew", func() (any, error) {
		return r.renew(ctx)
	})
	if err != nil {
		return "", err
	}
	return access.(string), nil
}

func (r *Renewer) renew(ctx context.Context) (string, error) {
	refresh, err := r.creds.RefreshToken(ctx)
	if err != nil {
		return "", errors.Internal("read refresh token: %v", err)
	}
	if refresh == "" {
		return "", r.invalidate(ctx, errors.Unauthorized("no refresh token present"))
	}

	access, err := r.exchange(ctx, refresh)
	if err != nil {
		return "", r.invalidate(ctx, err)
	}

	if err := r.creds.SetAccessToken(ctx, access); err != nil {
		return "", errors.Internal("store renewed access token: %v", err)
	}

	r.stats.ObserveRenewal(metrics.RenewalRenewed)
	r.logger.Debug().Msg("access token renewed")
	return access, nil
}

// exchange posts the refresh token to the renewal endpoint.
func (r *Renewer) exchange(ctx context.Context, refresh string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Normalize(resp.StatusCode, body)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Access == "" {
		return "", errors.Unauthorized("renewal response carried no access token")
	}
	return result.Access, nil
}

// invalidate destroys the session: the whole store is cleared and listeners
// are told. Returns the terminal error for the caller to propagate.
func (r *Renewer) invalidate(ctx context.Context, cause error) error {
	if err := r.creds.Clear(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("failed to clear credential store")
	}
	r.stats.ObserveRenewal(metrics.RenewalFailed)
	r.logger.Warn().Err(cause).Msg("session invalidated: token renewal failed")

	r.mu.Lock()
	listeners := make([]func(), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}

	return errors.ErrSessionInvalid.WithCause(cause)
}
