package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jes-seguranca/jesctl/internal/auth"
)

// latencyWindow is the number of requests averaged by the Monitor.
const latencyWindow = 20

// Client is an HTTP client for the roster and equipment REST API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
	monitor    *Monitor
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the request logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the API rooted at baseURL. No timeout is set:
// callers bound requests through their context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
		monitor:    newMonitor(latencyWindow),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.token != "" {
		hc := *c.httpClient
		hc.Transport = &auth.Transport{Token: c.token, Base: hc.Transport}
		c.httpClient = &hc
		c.log.Debug().Str("token", auth.Mask(c.token)).Msg("bearer auth enabled")
	}
	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Latency returns the moving average request duration.
func (c *Client) Latency() time.Duration { return c.monitor.Average() }

// Requests returns the number of completed requests.
func (c *Client) Requests() int { return c.monitor.Count() }

// do sends one request and returns the response body. Every failure is a
// *NetworkError tagged with op.
func (c *Client) do(ctx context.Context, op, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &NetworkError{Op: op, Err: fmt.Errorf("encoding body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Str("request_id", reqID).Err(err).Msg("request failed")
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	dur := time.Since(start)
	c.monitor.Observe(dur)
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("duration", dur).Str("request_id", reqID).Msg("http_request")
	if err != nil {
		return nil, &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%s", msg)}
	}
	return respBody, nil
}
