// Package client provides the HTTP client used to talk to npm-compatible
// registries: JSON reads and writes with credentials, retrying idempotent
// reads, and a per-host circuit breaker.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenk/backoff"
)

const defaultUserAgent = "disttag"

// Auth holds the credentials attached to a single request. A token wins
// over basic credentials.
type Auth struct {
	Token    string
	Username string
	Password string
}

// Header returns the Authorization header value, or "" for anonymous access.
func (a Auth) Header() string {
	if a.Token != "" {
		return "Bearer " + a.Token
	}
	if a.Username != "" || a.Password != "" {
		raw := a.Username + ":" + a.Password
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
	}
	return ""
}

// Client is an HTTP client with retry logic for registry APIs.
type Client struct {
	http       *http.Client
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	breakers   *breakers
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithMaxRetries sets how many times a failed read is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBaseDelay sets the first backoff interval between read retries.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 2 retries of reads with exponential backoff
// - Retry on 429 and 5xx responses
func DefaultClient() *Client {
	return NewClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newTransport(),
		},
		userAgent:  defaultUserAgent,
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
		breakers:   newBreakers(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithUserAgent returns a copy of the client sending the given User-Agent.
// The copy shares the transport and circuit breakers.
func (c *Client) WithUserAgent(ua string) *Client {
	cp := *c
	cp.userAgent = ua
	return &cp
}

// GetJSON fetches url and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, auth Auth, v any) error {
	body, err := c.GetBody(ctx, url, auth)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

// GetBody fetches url and returns the response body. Rate limited and 5xx
// responses are retried with exponential backoff; nothing else is.
func (c *Client) GetBody(ctx context.Context, url string, auth Auth) ([]byte, error) {
	b := c.newBackOff()
	for {
		body, err := c.do(ctx, http.MethodGet, url, auth, nil)
		if err == nil {
			return body, nil
		}
		if !retryable(err) {
			return nil, err
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// PutJSON sends body as JSON with a PUT request and returns the raw
// response body. Writes are never retried.
func (c *Client) PutJSON(ctx context.Context, url string, auth Auth, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPut, url, auth, payload)
}

func (c *Client) newBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.baseDelay
	exp.MaxInterval = 10 * time.Second
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(max(c.maxRetries, 0)))
}

func retryable(err error) bool {
	if errors.Is(err, errCircuitOpen) {
		return false
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	return errors.Is(err, ErrUpstreamDown)
}

// do runs a single request through the circuit breaker for the URL's host.
// Only upstream failures (transport errors and 5xx) count against the
// breaker.
func (c *Client) do(ctx context.Context, method, url string, auth Auth, payload []byte) ([]byte, error) {
	host := extractHost(url)
	breaker := c.breakers.get(host)
	if !breaker.Ready() {
		return nil, fmt.Errorf("%w for registry %s: %w", errCircuitOpen, host, ErrUpstreamDown)
	}

	var (
		body      []byte
		clientErr error
	)
	err := breaker.Call(func() error {
		var reqErr error
		body, reqErr = c.roundTrip(ctx, method, url, auth, payload)
		if reqErr != nil && !errors.Is(reqErr, ErrUpstreamDown) {
			clientErr = reqErr
			return nil
		}
		return reqErr
	}, 0)
	if err != nil {
		return nil, err
	}
	if clientErr != nil {
		return nil, clientErr
	}
	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, method, url string, auth Auth, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h := auth.Header(); h != "" {
		req.Header.Set("Authorization", h)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %s: %w: %v", method, url, ErrUpstreamDown, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		return body, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return nil, &RateLimitError{RetryAfter: retryAfter}

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &HTTPError{
			Method:     method,
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       string(body),
		}
	}
}
