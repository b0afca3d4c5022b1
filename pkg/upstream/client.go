package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/config"
)

// maxErrorBody bounds how much of an upstream error body is captured for
// diagnostics.
const maxErrorBody = 4 << 10

// Request is one upstream attempt's payload: the inbound request reduced
// to the parts that are forwarded. Body is a byte slice rather than a
// reader so the same request can be replayed across failover attempts.
type Request struct {
	// Method is the HTTP method to forward.
	Method string

	// Path is the path and query relative to the upstream base URL.
	Path string

	// Header contains the inbound headers to forward. Authorization is
	// always replaced with the selected account's credential.
	Header http.Header

	// Body is the request payload.
	Body []byte
}

// Response is a buffered upstream response.
type Response struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Header contains the upstream response headers minus hop-by-hop
	// headers.
	Header http.Header

	// Body is the response payload.
	Body []byte
}

// Client forwards requests to the upstream inference API. It owns the
// shared HTTP connection pool; per-attempt credentials come from the
// account passed to Send.
type Client struct {
	baseURL    *url.URL
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an upstream client from configuration.
func NewClient(cfg config.UpstreamConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base URL %q: %w", cfg.BaseURL, err)
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		baseURL: base,
		timeout: cfg.Timeout,
		// The client-level timeout stays unset: per-attempt deadlines
		// come from the context so they compose with the inbound
		// request deadline.
		httpClient: &http.Client{Transport: transport},
		logger:     slog.Default().With("component", "upstream.client"),
	}, nil
}

// Send issues one upstream attempt using the account's credential and
// classifies the result. The returned Outcome is always populated so the
// caller can update account health whether or not the attempt succeeded;
// the Response is non-nil only for success outcomes.
//
// The attempt runs under the per-attempt timeout, further capped by any
// deadline already on ctx.
func (c *Client) Send(ctx context.Context, account accounts.Account, req *Request) (*Response, Outcome) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.resolve(req.Path)

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, target, bytes.NewReader(req.Body))
	if err != nil {
		return nil, Outcome{
			Kind:    OutcomePermanent,
			Account: account.Name,
			Err:     &PermanentError{Account: account.Name, Message: err.Error()},
		}
	}

	copyForwardHeaders(httpReq.Header, req.Header)
	httpReq.Header.Set("Authorization", "Bearer "+account.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("upstream attempt failed",
			"account", account.Name,
			"method", req.Method,
			"path", req.Path,
			"elapsed", time.Since(start),
			"error", err,
		)
		return nil, Outcome{
			Kind:    OutcomeTransient,
			Account: account.Name,
			Err:     &TransientError{Account: account.Name, Cause: err},
		}
	}
	defer resp.Body.Close()

	kind := classify(resp.StatusCode)
	if kind == OutcomeSuccess {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, Outcome{
				Kind:       OutcomeTransient,
				Account:    account.Name,
				StatusCode: resp.StatusCode,
				Err:        &TransientError{Account: account.Name, Cause: err},
			}
		}

		c.logger.Debug("upstream attempt succeeded",
			"account", account.Name,
			"method", req.Method,
			"path", req.Path,
			"status", resp.StatusCode,
			"elapsed", time.Since(start),
		)

		return &Response{
			StatusCode: resp.StatusCode,
			Header:     copyResponseHeaders(resp.Header),
			Body:       body,
		}, Outcome{
			Kind:       OutcomeSuccess,
			Account:    account.Name,
			StatusCode: resp.StatusCode,
		}
	}

	message := readErrorBody(resp.Body)
	outcome := Outcome{
		Kind:       kind,
		Account:    account.Name,
		StatusCode: resp.StatusCode,
	}

	switch kind {
	case OutcomeRateLimited:
		outcome.RetryAfter = parseRetryAfter(resp.Header)
		outcome.Err = &RateLimitError{
			Account:    account.Name,
			RetryAfter: outcome.RetryAfter,
			Message:    message,
		}
	case OutcomeAuthFailure:
		outcome.Err = &AuthError{
			Account:    account.Name,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	case OutcomeTransient:
		outcome.Err = &TransientError{
			Account:    account.Name,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	default:
		outcome.Err = &PermanentError{
			Account:    account.Name,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	c.logger.Debug("upstream attempt classified",
		"account", account.Name,
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"outcome", kind.String(),
		"elapsed", time.Since(start),
	)

	return nil, outcome
}

// resolve joins the request path and query onto the base URL.
func (c *Client) resolve(path string) string {
	base := strings.TrimRight(c.baseURL.String(), "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// hopByHopHeaders are connection-level headers that must not be forwarded
// in either direction.
var hopByHopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// copyForwardHeaders copies inbound headers onto the upstream request,
// dropping hop-by-hop headers and the inbound Authorization (replaced by
// the account credential).
func copyForwardHeaders(dst, src http.Header) {
	for key, vals := range src {
		if hopByHopHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		if http.CanonicalHeaderKey(key) == "Authorization" {
			continue
		}
		for _, v := range vals {
			dst.Add(key, v)
		}
	}
}

// copyResponseHeaders copies upstream response headers, dropping
// hop-by-hop headers.
func copyResponseHeaders(src http.Header) http.Header {
	dst := make(http.Header, len(src))
	for key, vals := range src {
		if hopByHopHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, v := range vals {
			dst.Add(key, v)
		}
	}
	return dst
}

// readErrorBody captures a bounded prefix of an error response body.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
