// Package rest is the authenticated JSON client for the airport backends.
// It attaches the stored bearer token to every request and drives the
// renewal protocol: one token renewal and one retry per request that fails
// with an authorization error, nothing more.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/IsaacT30/airport-console/errors"
	"github.com/IsaacT30/airport-console/log"
	"github.com/IsaacT30/airport-console/metrics"
)

// Credentials is the slice of the session store the client reads and the
// renewer writes. Implemented by session.Store.
type Credentials interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, access string) error
	Clear(ctx context.Context) error
}

// Client talks to one backend service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	service    string
	creds      Credentials
	renewer    *Renewer
	logger     *log.Logger
	stats      *metrics.Metrics
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithCredentials makes the client attach the stored access token as a
// bearer credential on every request.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

// WithRenewer enables the renewal protocol for authorization failures.
func WithRenewer(r *Renewer) Option {
	return func(c *Client) {
		c.renewer = r
	}
}

// WithService labels the client's log entries and metrics.
func WithService(name string) Option {
	return func(c *Client) {
		c.service = name
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.stats = m
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		service:    "backend",
		logger:     log.G,
		stats:      metrics.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption holds options for an individual request.
type RequestOption struct {
	ctx      context.Context
	header   map[string]string
	query    url.Values
	response any
	noRenew  bool
}

// WithContext sets the request's context.
func WithContext(ctx context.Context) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.ctx = ctx
	}
}

// WithHeader adds headers to the request.
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.header, header)
	}
}

// WithQuery sets query parameters.
func WithQuery(query url.Values) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.query = query
	}
}

// WithResponse sets the target the response body is unmarshalled into.
func WithResponse(response any) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.response = response
	}
}

// WithoutRenewal exempts the request from the renewal protocol. Credential
// exchanges use it: a 401 from a login endpoint means the credentials were
// rejected, not that the access token went stale.
func WithoutRenewal() func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.noRenew = true
	}
}

func newRequestOption() *RequestOption {
	return &RequestOption{
		ctx:    context.Background(),
		header: map[string]string{"Content-Type": "application/json"},
	}
}

// Request sends one request and runs the full protocol on it: bearer
// decoration, the single renewal-and-retry on an authorization failure,
// error normalization, and JSON decoding. The returned response's body is
// already consumed; use WithResponse to capture it.
func (c *Client) Request(method, path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	opt := newRequestOption()
	for _, o := range opts {
		o(opt)
	}

	payload, err := encodeBody(body)
	if err != nil {
		return nil, errors.Internal("encode request body: %v", err)
	}

	target, err := c.url(path, opt.query)
	if err != nil {
		return nil, errors.Internal("build url: %v", err)
	}
	requestID := uuid.NewString()

	resp, err := c.send(opt.ctx, method, target, payload, opt.header, requestID)
	if err != nil {
		return nil, c.transportError(opt.ctx, err)
	}

	// The renewal protocol intercepts exactly one signal: an authorization
	// rejection on a request that has not been retried yet. The resend below
	// is structurally the only retry, so a second 401 falls through to the
	// normal error path.
	if resp.StatusCode == http.StatusUnauthorized && c.renewer != nil && !opt.noRenew {
		drain(resp)
		c.logger.Debug().
			Str("service", c.service).
			Str("request_id", requestID).
			Msg("authorization rejected, attempting token renewal")

		if _, rerr := c.renewer.Renew(opt.ctx); rerr != nil {
			return nil, rerr
		}

		resp, err = c.send(opt.ctx, method, target, payload, opt.header, requestID)
		if err != nil {
			return nil, c.transportError(opt.ctx, err)
		}
	}

	return c.finish(resp, opt.response, method, requestID)
}

// send performs one attempt. The bearer decoration happens here and is pure:
// it reads the current access token and never triggers renewal itself.
func (c *Client) send(ctx context.Context, method, target string, payload []byte, header map[string]string, requestID string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	for k, v := range header {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-ID", requestID)

	if c.creds != nil {
		access, err := c.creds.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		if access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.stats.ObserveRequest(c.service, method, 0)
		return nil, err
	}
	c.stats.ObserveRequest(c.service, method, resp.StatusCode)
	return resp, nil
}

// finish consumes the response: errors are normalized, successes decoded.
func (c *Client) finish(resp *http.Response, dest any, method, requestID string) (*http.Response, error) {
	payload, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, errors.Internal("read response body: %v", err)
	}

	c.logger.Debug().
		Str("service", c.service).
		Str("method", method).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("request completed")

	if resp.StatusCode >= 400 {
		return nil, errors.Normalize(resp.StatusCode, payload)
	}

	if dest != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, dest); err != nil {
			return nil, errors.Internal("decode response: %v", err)
		}
	}

	resp.Body = io.NopCloser(bytes.NewReader(payload))
	return resp, nil
}

// transportError maps network and timeout failures onto the error taxonomy.
// These are connectivity failures, never authorization failures, so they
// can never trigger renewal.
func (c *Client) transportError(ctx context.Context, err error) error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return errors.RequestTimeout("request timed out").WithCause(err)
	}
	if errors.Is(err, context.Canceled) {
		return errors.Wrap(err, errors.UnknownCode, "request canceled")
	}
	return errors.ServiceUnavailable("%s unreachable", c.service).WithCause(err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func (c *Client) url(path string, query url.Values) (string, error) {
	target, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target, nil
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return io.ReadAll(v)
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// Convenience methods for the usual verbs.

// Get performs a GET request.
func (c *Client) Get(path string, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodPost, path, body, opts...)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodPut, path, body, opts...)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(path string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(path string, opts ...func(*RequestOption)) (*http.Response, error) {
	return c.Request(http.MethodDelete, path, nil, opts...)
}
