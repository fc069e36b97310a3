package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"volume-chat/internal/logger"
)

// Client is a thin JSON REST client with common configuration
type Client struct {
	rc         *resty.Client
	useLogging bool
}

// ClientOption configures the API client
type ClientOption func(*Client)

// WithTimeout sets the request timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.rc.SetTimeout(timeout)
	}
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.rc.SetBaseURL(baseURL)
	}
}

// WithHeader sets a default header for all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.rc.SetHeader(key, value)
	}
}

// WithLogging enables request/response debug logging
func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

// NewClient creates a new API client with the given options
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		rc: resty.New().SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one outbound call
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	ctx    context.Context
}

// Response is the buffered result of a successful call
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// NewRequest creates a new request
func NewRequest(method, path string) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Query:  make(map[string]string),
		ctx:    context.Background(),
	}
}

// WithContext sets the context for the request
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// WithQuery adds a query parameter
func (r *Request) WithQuery(key, value string) *Request {
	r.Query[key] = value
	return r
}

// Do executes the request
func (c *Client) Do(req *Request) (*Response, error) {
	if c.useLogging {
		logger.Debug(req.ctx, "HTTP Request", "method", req.Method, "path", req.Path, "query", req.Query)
	}

	start := time.Now()
	resp, err := c.rc.R().
		SetContext(req.ctx).
		SetQueryParams(req.Query).
		Execute(req.Method, req.Path)
	if err != nil {
		if c.useLogging {
			logger.ErrorWithErr(req.ctx, "HTTP request failed", err, "method", req.Method, "path", req.Path)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if c.useLogging {
		logger.Debug(req.ctx, "HTTP Response",
			"method", req.Method,
			"path", req.Path,
			"status", resp.StatusCode(),
			"duration", time.Since(start),
			"bodySize", len(resp.Body()))
	}

	if !resp.IsSuccess() {
		if c.useLogging {
			logger.Warn(req.ctx, "HTTP error response",
				"method", req.Method,
				"path", req.Path,
				"status", resp.StatusCode(),
				"body", resp.String())
		}
		return nil, &StatusError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       resp.String(),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, nil
}

// GET performs a GET request with optional query parameters
func (c *Client) GET(ctx context.Context, path string, query ...map[string]string) (*Response, error) {
	req := NewRequest(http.MethodGet, path).WithContext(ctx)
	if len(query) > 0 {
		for k, v := range query[0] {
			req.WithQuery(k, v)
		}
	}
	return c.Do(req)
}
