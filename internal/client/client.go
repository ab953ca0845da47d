package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
	"github.com/zeroclaw/zeroclaw-ui/internal/version"
	"go.uber.org/zap"
)

const (
	// WebhookPath is appended to the base URL for chat requests
	WebhookPath = "/webhook"

	// HealthPath is appended to the base URL for connection checks
	HealthPath = "/health"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second

	// maxDrain bounds how much of an unwanted body is read before closing.
	maxDrain = 4096
)

// Client is a chat client for one gateway. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string

	mu        sync.Mutex
	baseURL   bounded.Text
	apiKey    *bounded.Text
	connected bool
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc != nil {
			c.httpClient = hc
		}
		return nil
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// HTTP client, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d > 0 {
			c.timeout = d
		}
		return nil
	}
}

// WithAPIKey sets the bearer token sent with chat requests.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		return c.SetAPIKey(key)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// New creates a client for baseURL, e.g. "http://192.168.1.10:8080".
// The client starts disconnected.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := bounded.From(bounded.URLCapacity, baseURL)
	if err != nil {
		return nil, &ClientError{
			Kind:    KindURLTooLong,
			Message: fmt.Sprintf("base URL is %d bytes (max %d)", len(baseURL), bounded.URLCapacity),
			Err:     err,
		}
	}

	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  version.UserAgent("zeroclaw-ui"),
		baseURL:    u,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// SetAPIKey stores key for the Authorization header.
// An oversized key leaves the previous key in place.
func (c *Client) SetAPIKey(key string) error {
	k, err := bounded.From(bounded.APIKeyCapacity, key)
	if err != nil {
		return &ClientError{
			Kind:    KindAPIKeyTooLong,
			Message: fmt.Sprintf("API key is %d bytes (max %d)", len(key), bounded.APIKeyCapacity),
			Err:     err,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = &k
	return nil
}

// ClearAPIKey stops sending the Authorization header.
func (c *Client) ClearAPIKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = nil
}

// HasAPIKey reports whether an API key is configured.
func (c *Client) HasAPIKey() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey != nil
}

// BaseURL returns the gateway base URL.
func (c *Client) BaseURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseURL.String()
}

// IsConnected reports the last known reachability of the gateway.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = connected
}

// endpoint appends path to the base URL within the URL capacity.
func (c *Client) endpoint(path string) (string, error) {
	c.mu.Lock()
	u := c.baseURL.Clone()
	c.mu.Unlock()

	if err := u.Push(path); err != nil {
		return "", &ClientError{
			Kind:    KindURLTooLong,
			Message: fmt.Sprintf("%s URL exceeds %d bytes", path, bounded.URLCapacity),
			Err:     err,
		}
	}
	return u.String(), nil
}

func (c *Client) authorization() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.apiKey == nil {
		return "", false
	}
	return "Bearer " + c.apiKey.String(), true
}

// SendMessage posts text to the webhook and returns the assistant's reply.
//
// Transport failures leave IsConnected unchanged; only CheckConnection marks
// the gateway unreachable. A successful reply marks it connected.
func (c *Client) SendMessage(ctx context.Context, text string) (string, error) {
	endpoint, err := c.endpoint(WebhookPath)
	if err != nil {
		return "", err
	}

	body, err := protocol.EncodeChatRequest(text)
	if err != nil {
		if errors.Is(err, protocol.ErrMessageTooLong) {
			return "", newError(KindMessageTooLong, "message does not fit the request buffer", err)
		}
		return "", newError(KindRequestFailed, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", newError(KindRequestFailed, "failed to create POST request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	auth, hasAuth := c.authorization()
	if hasAuth {
		req.Header.Set("Authorization", auth)
	}

	logging.LogHTTPRequest(http.MethodPost, endpoint, len(body), hasAuth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", ClassifyNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
		logging.Error("HTTP error", zap.String("url", endpoint), zap.Int("status", resp.StatusCode))
		return "", newHTTPError(resp.StatusCode)
	}

	// One byte past capacity tells a full buffer apart from a truncated one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, bounded.ResponseCapacity+1))
	if err != nil {
		return "", &ClientError{
			Kind:      KindReadFailed,
			Message:   "failed to read response body",
			Err:       err,
			Retryable: true,
		}
	}
	logging.LogHTTPResponse(endpoint, resp.StatusCode, len(data))
	logging.LogRawBytes("webhook response", data)

	if len(data) > bounded.ResponseCapacity {
		return "", newError(KindResponseTooLarge,
			fmt.Sprintf("response exceeds %d bytes", bounded.ResponseCapacity), nil)
	}

	decoded, err := protocol.DecodeChatResponse(data)
	if err != nil {
		if errors.Is(err, protocol.ErrInvalidResponse) {
			return "", newError(KindInvalidResponse, "response is not valid UTF-8", err)
		}
		return "", newError(KindParse, "failed to parse response", err)
	}

	if decoded.HasError() {
		msg := decoded.Error.String()
		logging.Error("Server error", zap.String("error", msg))
		return "", &ClientError{Kind: KindServer, Message: msg}
	}
	if !decoded.HasResponse() {
		return "", newError(KindNoResponse, "reply has no response field", nil)
	}

	c.setConnected(true)
	return decoded.Response.String(), nil
}

// CheckConnection probes the health endpoint and records the result.
// It never fails: any error counts as disconnected.
func (c *Client) CheckConnection(ctx context.Context) bool {
	connected := c.probe(ctx)
	c.setConnected(connected)
	return connected
}

func (c *Client) probe(ctx context.Context) bool {
	endpoint, err := c.endpoint(HealthPath)
	if err != nil {
		logging.Warn("Health check skipped", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logging.Warn("Health check failed", zap.Error(err))
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)

	logging.LogHTTPRequest(http.MethodGet, endpoint, 0, false)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Warn("Health check failed", zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	logging.LogHTTPResponse(endpoint, resp.StatusCode, 0)
	return resp.StatusCode == http.StatusOK
}
