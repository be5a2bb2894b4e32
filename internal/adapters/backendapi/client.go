// Package backendapi is the REST client for the back-office backend.
//
// Every call goes through the shared http.Client, whose transport is the
// Authorizer. The client itself never touches the session.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single backend call when no http.Client is supplied.
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 4 << 20
)

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the backend REST API. It is safe for concurrent use.
type Client struct {
	base   string
	http   *http.Client
	logger *slog.Logger
}

// NewClient validates the base URL and constructs a Client.
func NewClient(opts ClientOptions) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("backend base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend base URL must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend base URL %q has no host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   hc,
		logger: logger.With("component", "backendapi"),
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.base }

type call struct {
	endpoint string
	method   string
	segments []string
	query    url.Values
	body     any
}

func (c *Client) urlFor(segments []string, query url.Values) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	out := c.base + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		out += "?" + query.Encode()
	}
	return out
}

// send performs the call and returns the decoded envelope. Non-2xx responses and
// envelopes with success=false become *APIError.
func (c *Client) send(ctx context.Context, cl call) (*envelope, error) {
	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", cl.endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(WithEndpoint(ctx, cl.endpoint), cl.method, c.urlFor(cl.segments, cl.query), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", cl.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cl.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", cl.endpoint, err)
	}

	env := &envelope{}
	var decodeErr error
	if len(bytes.TrimSpace(data)) > 0 {
		decodeErr = json.Unmarshal(data, env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr != nil {
			env = &envelope{}
		}
		apiErr := env.apiError(resp.StatusCode)
		c.logger.DebugContext(ctx, "backend call failed",
			"endpoint", cl.endpoint, "status", resp.StatusCode, "code", apiErr.Code)
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s response: %w", cl.endpoint, decodeErr)
	}
	if env.failed() {
		return nil, env.apiError(resp.StatusCode)
	}
	return env, nil
}

// do performs the call and decodes the envelope data into T.
func do[T any](ctx context.Context, c *Client, cl call) (T, *Meta, error) {
	var out T
	env, err := c.send(ctx, cl)
	if err != nil {
		return out, nil, err
	}
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if decodeErr := json.Unmarshal(env.Data, &out); decodeErr != nil {
			return out, nil, fmt.Errorf("decode %s data: %w", cl.endpoint, decodeErr)
		}
	}
	return out, env.Meta, nil
}

// exec performs a call whose response data is not needed.
func (c *Client) exec(ctx context.Context, cl call) error {
	_, err := c.send(ctx, cl)
	return err
}

type endpointKey struct{}

// WithEndpoint tags ctx with a stable endpoint name used for metrics and logs.
func WithEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, endpointKey{}, endpoint)
}

// EndpointFromContext returns the endpoint tag, or "unknown".
func EndpointFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(endpointKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

type requestIDKey struct{}

// WithRequestID tags ctx with the correlation ID sent on backend calls made under it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the correlation ID set by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
