package httpapi

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

	"plexorcist/internal/logging"
)

// DefaultTimeout bounds every request issued through a Requester.
const DefaultTimeout = 10 * time.Second

const maxResponseBytes = 64 << 20

// Doer abstracts http.Client.Do for testing.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Request describes one outbound call.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	// JSON is marshalled as the request body when non-nil.
	JSON any
	// Text is sent as a text/plain body when JSON is nil.
	Text string
	// SecretPath keeps the URL path out of logs, for endpoints such as
	// IFTTT webhooks that carry their key in the path.
	SecretPath bool
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Requester issues HTTP requests with shared defaults.
type Requester struct {
	client  Doer
	timeout time.Duration
	headers map[string]string
	logger  *slog.Logger
}

// Option customizes the requester.
type Option func(*Requester)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client Doer) Option {
	return func(r *Requester) {
		if client != nil {
			r.client = client
		}
	}
}

// WithTimeout overrides the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Requester) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithHeader adds a header sent on every request. Blank values are ignored.
func WithHeader(key, value string) Option {
	return func(r *Requester) {
		if strings.TrimSpace(value) == "" {
			return
		}
		r.headers[key] = value
	}
}

// New constructs a Requester. A nil logger discards failure logs.
func New(logger *slog.Logger, opts ...Option) *Requester {
	r := &Requester{
		timeout: DefaultTimeout,
		headers: map[string]string{},
		logger:  logging.NewComponentLogger(logger, "http"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: r.timeout}
	}
	return r
}

// Do executes req. It returns (nil, false) for build errors, transport
// errors, deadline expiry, and non-2xx statuses; each is logged at WARN.
func (r *Requester) Do(ctx context.Context, req Request) (*Response, bool) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	logger := logging.WithContext(ctx, r.logger).With(
		logging.String("method", method),
		logging.String("url", RedactURL(req.URL, !req.SecretPath)),
	)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	httpReq, err := r.build(ctx, method, req)
	if err != nil {
		redactError(err, !req.SecretPath)
		logging.WarnWithContext(logger, "http request not sent", "http_request_invalid",
			logging.Error(err),
			logging.Hint("check the configured URL"),
			logging.Impact("call skipped"),
		)
		return nil, false
	}

	started := time.Now()
	resp, err := r.client.Do(httpReq)
	if err != nil {
		redactError(err, !req.SecretPath)
		logging.WarnWithContext(logger, "http request failed", "http_request_failed",
			logging.Error(err),
			logging.Duration("elapsed", time.Since(started)),
			logging.Hint("check that the server is reachable"),
			logging.Impact("no result for this call"),
		)
		return nil, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logging.WarnWithContext(logger, "http response unreadable", "http_response_unreadable",
			logging.Error(err),
			logging.Int("status", resp.StatusCode),
			logging.Impact("no result for this call"),
		)
		return nil, false
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.WarnWithContext(logger, "http request rejected", "http_status_error",
			logging.Int("status", resp.StatusCode),
			logging.String("body", snippet(body)),
			logging.Hint(statusHint(resp.StatusCode)),
			logging.Impact("no result for this call"),
		)
		return nil, false
	}
	logger.Debug("http request completed",
		logging.Int("status", resp.StatusCode),
		logging.Int("bytes", len(body)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, true
}

// Get is shorthand for a GET with extra headers.
func (r *Requester) Get(ctx context.Context, url string, header map[string]string) (*Response, bool) {
	return r.Do(ctx, Request{Method: http.MethodGet, URL: url, Header: header})
}

// Delete is shorthand for a DELETE with extra headers.
func (r *Requester) Delete(ctx context.Context, url string, header map[string]string) (*Response, bool) {
	return r.Do(ctx, Request{Method: http.MethodDelete, URL: url, Header: header})
}

// PostJSON is shorthand for a POST with a JSON body.
func (r *Requester) PostJSON(ctx context.Context, url string, payload any, header map[string]string) (*Response, bool) {
	return r.Do(ctx, Request{Method: http.MethodPost, URL: url, JSON: payload, Header: header})
}

func (r *Requester) build(ctx context.Context, method string, req Request) (*http.Request, error) {
	var body io.Reader
	contentType := ""
	switch {
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	case req.Text != "":
		body = strings.NewReader(req.Text)
		contentType = "text/plain; charset=utf-8"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range r.headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Header {
		if strings.TrimSpace(v) == "" {
			continue
		}
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// RedactURL renders raw for logs. Userinfo and the query are always dropped;
// the path is kept only when keepPath is set.
func RedactURL(raw string, keepPath bool) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "(invalid url)"
	}
	out := url.URL{Scheme: u.Scheme, Host: u.Host}
	if keepPath {
		out.Path = u.Path
	}
	return out.String()
}

// redactError rewrites the URL that net/http embeds in *url.Error so the
// logged error matches the logged url field.
func redactError(err error, keepPath bool) {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = RedactURL(urlErr.URL, keepPath)
	}
}

func statusHint(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "check the configured token or API key"
	case status == http.StatusNotFound:
		return "check the library id or item key"
	case status >= 500:
		return "server error; retry later"
	default:
		return "check logs for details"
	}
}

func snippet(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 256 {
		return text[:256] + "..."
	}
	return text
}
