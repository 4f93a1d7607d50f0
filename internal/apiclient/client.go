package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vending-console/pkg/logging"
)

// ResponseHook sees every upstream exchange; err is non-nil when the call failed
type ResponseHook func(req *http.Request, resp *http.Response, err error)

// Observer receives one sample per upstream call, keyed by endpoint rather than item path
type Observer func(method, endpoint string, statusCode int, elapsed time.Duration, err error)

// Client is the single configured client shared by every resource call
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    http.Header
	hooks      []ResponseHook
	observer   Observer
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout of the underlying http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHeader adds a default header sent on every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithResponseHook appends a hook run after every exchange
func WithResponseHook(h ResponseHook) Option {
	return func(c *Client) {
		c.hooks = append(c.hooks, h)
	}
}

// WithObserver sets the per-call observer (metrics)
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client for baseURL. The error log hook is always installed.
func New(baseURL string, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		headers: http.Header{},
		hooks:   []ResponseHook{logFailure},
	}
	c.headers.Set("Content-Type", "application/json")
	c.headers.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List fetches a whole collection into out
func (c *Client) List(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, endpoint, nil, nil, out)
}

// ListQuery fetches endpoint with query parameters into out
func (c *Client) ListQuery(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, endpoint, query, nil, out)
}

// Get fetches a single record into out
func (c *Client) Get(ctx context.Context, endpoint string, id int64, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, ItemPath(endpoint, id), nil, nil, out)
}

// Create posts body to the collection endpoint
func (c *Client) Create(ctx context.Context, endpoint string, body any, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, endpoint, nil, body, out)
}

// Update replaces a single record
func (c *Client) Update(ctx context.Context, endpoint string, id int64, body any, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, ItemPath(endpoint, id), nil, body, out)
}

// Delete removes a single record
func (c *Client) Delete(ctx context.Context, endpoint string, id int64) error {
	return c.do(ctx, http.MethodDelete, endpoint, ItemPath(endpoint, id), nil, nil, nil)
}

// Post sends body to an action path such as stat-daily/generate/
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, body any, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return &FetchError{Method: method, URL: path, Err: err}
	}
	target := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Method: method, URL: target.String(), Err: fmt.Errorf("failed to marshal body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return &FetchError{Method: method, URL: target.String(), Err: err}
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		fe := &FetchError{Method: method, URL: target.String(), Err: err}
		c.finish(req, nil, endpoint, start, fe)
		return fe
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		fe := &FetchError{
			Method:     method,
			URL:        target.String(),
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
		c.finish(req, resp, endpoint, start, fe)
		return fe
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			fe := &FetchError{
				Method: method,
				URL:    target.String(),
				Err:    fmt.Errorf("failed to decode response: %w", err),
			}
			c.finish(req, resp, endpoint, start, fe)
			return fe
		}
	}

	c.finish(req, resp, endpoint, start, nil)
	return nil
}

func (c *Client) finish(req *http.Request, resp *http.Response, endpoint string, start time.Time, err error) {
	for _, hook := range c.hooks {
		hook(req, resp, err)
	}
	if c.observer != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.observer(req.Method, endpoint, status, time.Since(start), err)
	}
}

// logFailure is the uniform error log hook
func logFailure(req *http.Request, resp *http.Response, err error) {
	if err == nil {
		return
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	logging.WithFields(map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
		"status": status,
	}).Errorf("API Error: %v", err)
}
