package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nguyenthanhduc0901/clinic-app/internal/config"
	"github.com/nguyenthanhduc0901/clinic-app/internal/token"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/apierror"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/circuitbreaker"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/metrics"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderSuppressLogout = "X-Suppress-401-Logout"
)

// Client is the single shared request client every resource client goes
// through. It attaches the stored credential to each request, normalizes
// every failure into an APIError, and owns the one global 401 side effect.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tokens  *token.Store
	log     *logger.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker

	// onSessionExpired fires after a non-suppressed 401 cleared the
	// credential. The session layer uses it to flip state and redirect.
	onSessionExpired func()
}

type ClientOption func(*Client)

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithSessionExpiredHook registers the forced-logout callback.
func WithSessionExpiredHook(fn func()) ClientOption {
	return func(c *Client) { c.onSessionExpired = fn }
}

func NewClient(cfg *config.Config, tokens *token.Store, log *logger.Logger, m *metrics.Metrics, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL(), "/"),
		timeout: cfg.Timeout(),
		http:    &http.Client{Timeout: cfg.Timeout() + 5*time.Second},
		tokens:  tokens,
		log:     log.WithComponent("api"),
		metrics: m,
	}

	if cfg.API.RateLimit.Enabled {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.API.RateLimit.RequestsPerSecond), cfg.API.RateLimit.Burst)
	}
	if cfg.API.Breaker.Enabled {
		c.breaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "backend",
			MaxFailures: cfg.API.Breaker.MaxFailures,
			Cooldown:    cfg.API.Breaker.Cooldown,
		})
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// SetSessionExpiredHook wires the forced-logout callback after construction;
// the session layer is built on top of the client and cannot exist yet when
// the client is created.
func (c *Client) SetSessionExpiredHook(fn func()) { c.onSessionExpired = fn }

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}, opts ...Option) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body, out interface{}, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out, opts...)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}, opts ...Option) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	data, err := c.do(ctx, method, path, query, reqBody, opts...)
	if err != nil {
		return err
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// GetBinary fetches a non-JSON payload. A zero-length body is a functional
// failure even though the transport succeeded.
func (c *Client) GetBinary(ctx context.Context, path string, opts ...Option) ([]byte, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil, nil, opts...)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &apierror.EmptyPayloadError{Operation: path}
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, opts ...Option) ([]byte, error) {
	options := requestOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&options)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apierror.Network()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(HeaderRequestID, uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if options.accept != "" {
		req.Header.Set("Accept", options.accept)
	}
	if options.suppressLogout {
		req.Header.Set(HeaderSuppressLogout, "1")
	}

	// Every outgoing request carries the credential when one exists; no
	// call site repeats this.
	if tok := c.tokens.Get(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resource := resourceLabel(path)
	start := time.Now()
	c.metrics.RequestsInFlight.Inc()
	defer func() {
		c.metrics.RequestsInFlight.Dec()
		c.metrics.RequestDuration.WithLabelValues(resource, method).Observe(time.Since(start).Seconds())
	}()

	var resp *http.Response
	doReq := func() error {
		var reqErr error
		resp, reqErr = c.http.Do(req)
		return reqErr
	}

	if c.breaker != nil {
		err = c.breaker.Execute(doReq)
	} else {
		err = doReq()
	}

	if err != nil {
		if !errors.Is(err, circuitbreaker.ErrOpen) {
			c.log.Error(err, "transport failure", "method", method, "path", path)
		}
		c.metrics.RequestsTotal.WithLabelValues(resource, method, "network").Inc()
		return nil, apierror.Network()
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RequestsTotal.WithLabelValues(resource, method, "network").Inc()
		return nil, apierror.Network()
	}

	c.metrics.RequestsTotal.WithLabelValues(resource, method, statusClass(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized && !options.suppressLogout {
			c.tokens.Clear()
			c.metrics.SessionExpirations.Inc()
			if c.onSessionExpired != nil {
				c.onSessionExpired()
			}
		}
		apiErr := apierror.Normalize(resp.StatusCode, data)
		c.log.Debug("request failed", "method", method, "path", path, "status", resp.StatusCode, "code", apiErr.ErrorCode)
		return nil, apiErr
	}

	return data, nil
}

// resourceLabel keeps metric cardinality bounded: the first meaningful path
// segment, with numeric IDs excluded by construction.
func resourceLabel(path string) string {
	for _, segment := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if segment == "" || segment == "me" {
			continue
		}
		return segment
	}
	return "me"
}

func statusClass(code int) string {
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
