package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout applies to each of the connect, read and write phases.
const DefaultTimeout = 30 * time.Second

// redactedParams are query keys and JSON body fields whose values are never
// written to the log.
var redactedParams = []string{"lat", "token", "password"}

// Config holds the per-phase timeouts and logging options of a Client.
// Zero timeouts are replaced by DefaultTimeout.
type Config struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// Verbose logs request lines and response bodies at debug level.
	Verbose bool
}

// Request describes a single GET or form-encoded POST.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Form   url.Values
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Error wraps any failure to obtain a response: I/O errors, timeouts and
// malformed URLs. It is never retried.
type Error struct {
	Cause error
}

func (e *Error) Error() string { return e.Cause.Error() }

func (e *Error) Unwrap() error { return e.Cause }

// Client performs HTTP calls. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	verbose    bool
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultTimeout
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.WriteTimeout + cfg.ReadTimeout,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: tr,
			Timeout:   cfg.ConnectTimeout + cfg.WriteTimeout + cfg.ReadTimeout,
		},
		verbose: cfg.Verbose,
	}
}

// Get issues a GET to rawURL with query merged into any existing query string.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: rawURL, Query: query})
}

// PostForm issues a POST with form as an application/x-www-form-urlencoded body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, URL: rawURL, Form: form})
}

// Do performs req and reads the whole body. Non-2xx statuses are not errors;
// only a failure to complete the exchange returns *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, &Error{Cause: fmt.Errorf("invalid url: %w", err)}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &Error{Cause: fmt.Errorf("invalid url %q: missing scheme or host", req.URL)}
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &Error{Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if c.verbose {
		slog.Debug("http request", "method", method, "url", redact(u))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Cause: fmt.Errorf("failed to read response body: %w", err)}
	}

	if c.verbose {
		slog.Debug("http response", "method", method, "url", redact(u), "status", resp.StatusCode, "body", redactBody(data))
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

func redact(u *url.URL) string {
	q := u.Query()
	changed := false
	for _, k := range redactedParams {
		if q.Has(k) {
			q.Set(k, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	cp := *u
	cp.RawQuery = q.Encode()
	return cp.String()
}

// redactBody masks redactedParams fields of a JSON object body. Other bodies
// are returned as is.
func redactBody(data []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return string(data)
	}
	changed := false
	for _, k := range redactedParams {
		if _, ok := obj[k]; ok {
			obj[k] = json.RawMessage(`"REDACTED"`)
			changed = true
		}
	}
	if !changed {
		return string(data)
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return "<unloggable body>"
	}
	return string(out)
}
