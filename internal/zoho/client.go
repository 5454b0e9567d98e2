// Package zoho is the single chokepoint for Zoho Books API traffic. It
// owns OAuth token lifecycle, auth header injection, the one-shot retry
// after a 401, and mapping of upstream failures onto a typed taxonomy.
package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/booksmcp/booksmcp/internal/config"
)

const requestIDHeader = "X-Request-ID"

// RequestRecord describes one completed gateway attempt for the audit
// log.
type RequestRecord struct {
	RequestID  string
	Timestamp  time.Time
	Method     string
	Endpoint   string
	StatusCode int
	ErrorKind  string
	Retried    bool
	LatencyMs  int64
}

// RequestLogger receives a record for every gateway attempt. Implemented
// by the sqlite audit store; nil disables recording.
type RequestLogger interface {
	Record(RequestRecord)
}

// Client issues requests against the Zoho Books API.
type Client struct {
	cfg    *config.Config
	tokens *TokenManager
	client *http.Client
	logger *slog.Logger
	redact *Redactor
	audit  RequestLogger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRequestLogger wires an audit sink for request records.
func WithRequestLogger(rl RequestLogger) Option {
	return func(c *Client) { c.audit = rl }
}

// WithTokenManager substitutes the token manager (tests).
func WithTokenManager(tm *TokenManager) Option {
	return func(c *Client) { c.tokens = tm }
}

// NewClient creates a gateway client over the given configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		tokens: NewTokenManager(cfg, logger),
		client: &http.Client{Timeout: cfg.RequestTimeout},
		logger: logger,
		redact: NewRedactor(cfg.ClientSecret, cfg.RefreshToken),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens exposes the client's token manager.
func (c *Client) Tokens() *TokenManager { return c.tokens }

// Request issues one logical API call and returns the decoded JSON body.
// params and headers may be nil; body (when non-nil) is JSON-encoded.
//
// A 401 on the first attempt triggers a forced token refresh and exactly
// one reissue of the same call; the retry keeps the original request id
// and its failure propagates as-is. All other errors, including
// timeouts, are never retried.
func (c *Client) Request(ctx context.Context, method, endpoint string, params map[string]string, body any, headers map[string]string) (map[string]any, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	if query.Get("organization_id") == "" && c.cfg.OrganizationID != "" {
		query.Set("organization_id", c.cfg.OrganizationID)
	}
	// Tool-facing sort vocabulary becomes Zoho's single-letter codes
	// here and nowhere else.
	switch query.Get("sort_order") {
	case "ascending":
		query.Set("sort_order", "A")
	case "descending":
		query.Set("sort_order", "D")
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	requestID := uuid.NewString()

	// Bounded retry loop: attempt 0, then at most one reissue after a
	// forced refresh on 401.
	for attempt := 0; ; attempt++ {
		force := attempt > 0
		token, err := c.tokens.AccessToken(ctx, force)
		if err != nil {
			c.logger.Error("authentication failed", "request_id", requestID, "error", err)
			return nil, err
		}

		result, status, err := c.do(ctx, method, endpoint, query, payload, headers, token, requestID, attempt > 0)
		if status == http.StatusUnauthorized && attempt == 0 {
			c.logger.Info("received 401, refreshing token and retrying",
				"method", method, "endpoint", endpoint, "request_id", requestID)
			continue
		}
		return result, err
	}
}

// do performs a single HTTP attempt.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload []byte, headers map[string]string, token, requestID string, retried bool) (map[string]any, int, error) {
	fullURL := c.cfg.APIBaseURL + endpoint
	if enc := query.Encode(); enc != "" {
		if strings.Contains(fullURL, "?") {
			fullURL += "&" + enc
		} else {
			fullURL += "?" + enc
		}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, 0, &APIError{Kind: KindRequest, StatusCode: 500, Message: fmt.Sprintf("building request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	for k, v := range headers {
		// Callers may override anything except the auth header.
		if http.CanonicalHeaderKey(k) == "Authorization" {
			continue
		}
		req.Header.Set(k, v)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		message := c.redact.Redact(fmt.Sprintf("request failed: %v", err))
		c.logger.Error("transport failure", "method", method, "endpoint", endpoint,
			"request_id", requestID, "error", message)
		c.record(RequestRecord{
			RequestID: requestID, Timestamp: start, Method: method, Endpoint: endpoint,
			StatusCode: 0, ErrorKind: string(KindRequest), Retried: retried,
			LatencyMs: time.Since(start).Milliseconds(),
		})
		return nil, 0, &APIError{Kind: KindRequest, StatusCode: 500, Message: message}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &APIError{Kind: KindRequest, StatusCode: 500, Message: fmt.Sprintf("reading response: %v", err)}
	}

	record := RequestRecord{
		RequestID: requestID, Timestamp: start, Method: method, Endpoint: endpoint,
		StatusCode: resp.StatusCode, Retried: retried,
		LatencyMs: time.Since(start).Milliseconds(),
	}

	if resp.StatusCode >= 400 {
		apiErr := classify(resp.StatusCode, raw, endpoint)
		apiErr.Message = c.redact.Redact(apiErr.Message)
		record.ErrorKind = string(apiErr.Kind)
		c.record(record)
		c.logger.Warn("api error", "method", method, "endpoint", endpoint,
			"status", resp.StatusCode, "kind", apiErr.Kind, "request_id", requestID)
		return nil, resp.StatusCode, apiErr
	}

	c.record(record)
	c.logger.Debug("api call", "method", method, "endpoint", endpoint,
		"status", resp.StatusCode, "request_id", requestID)

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode == http.StatusNoContent {
			return map[string]any{
				"status":  "success",
				"message": "Operation completed successfully",
			}, resp.StatusCode, nil
		}
		// Non-JSON success body: hand the caller the raw text.
		return map[string]any{"text": string(raw)}, resp.StatusCode, nil
	}
	return result, resp.StatusCode, nil
}

func (c *Client) record(r RequestRecord) {
	if c.audit != nil {
		c.audit.Record(r)
	}
}

// ValidateCredentials verifies the configured credentials end to end:
// required settings present, a forced token refresh succeeds, and the
// configured organization exists in the Zoho Books account.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	if _, err := c.tokens.AccessToken(ctx, true); err != nil {
		return err
	}

	resp, err := c.Request(ctx, http.MethodGet, "/organizations", nil, nil, nil)
	if err != nil {
		return err
	}

	orgs, _ := resp["organizations"].([]any)
	for _, o := range orgs {
		org, _ := o.(map[string]any)
		if fmt.Sprint(org["organization_id"]) == c.cfg.OrganizationID {
			return nil
		}
	}
	return fmt.Errorf("organization %s not found in Zoho Books account", c.cfg.OrganizationID)
}
