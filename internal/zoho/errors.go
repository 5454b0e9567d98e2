package zoho

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorKind tags the classification of an upstream failure.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindRateLimit      ErrorKind = "rate_limit"
	KindNotFound       ErrorKind = "not_found"
	KindRequest        ErrorKind = "request"
)

// Stable codes for authentication failures that never reached Zoho.
const (
	CodeMissingCredentials   = "MISSING_CREDENTIALS"
	CodeInvalidTokenResponse = "INVALID_TOKEN_RESPONSE"
)

// APIError is the single error type raised by the gateway for upstream
// failures. Kind distinguishes the taxonomy; StatusCode carries the
// original HTTP status.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Code       string
	// Resource and ID are set for not_found errors, best-effort
	// extracted from the request path.
	Resource string
	ID       string
	Details  map[string]any
}

func (e *APIError) Error() string {
	id := e.Code
	if id == "" {
		id = fmt.Sprintf("%d", e.StatusCode)
	}
	if e.Kind == KindNotFound && e.Resource != "" {
		return fmt.Sprintf("zoho: %s %s/%s not found: %s", id, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("zoho: %s error %s: %s", e.Kind, id, e.Message)
}

func authError(status int, message, code string) *APIError {
	return &APIError{Kind: KindAuthentication, StatusCode: status, Message: message, Code: code}
}

// IsAuthError reports whether err is an authentication APIError.
func IsAuthError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindAuthentication
}

// IsNotFound reports whether err is a not_found APIError.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindNotFound
}

// IsRateLimit reports whether err is a rate_limit APIError.
func IsRateLimit(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindRateLimit
}

// classify maps an upstream error response to an APIError. The body is
// expected as {"message": ..., "code": ...}; anything else falls back to
// the raw text.
func classify(status int, body []byte, endpoint string) *APIError {
	message, code := parseErrorBody(body, status)

	switch {
	case status == 401:
		return authError(status, message, code)
	case status == 404:
		resource, id := splitResourcePath(endpoint)
		return &APIError{
			Kind:       KindNotFound,
			StatusCode: status,
			Message:    message,
			Code:       code,
			Resource:   resource,
			ID:         id,
		}
	case status == 429:
		return &APIError{Kind: KindRateLimit, StatusCode: status, Message: message, Code: code}
	default:
		return &APIError{Kind: KindRequest, StatusCode: status, Message: message, Code: code}
	}
}

func parseErrorBody(body []byte, status int) (message, code string) {
	var parsed struct {
		Message string          `json:"message"`
		Code    json.RawMessage `json:"code"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message, strings.Trim(string(parsed.Code), `"`)
	}
	if len(body) > 0 {
		return string(body), ""
	}
	return fmt.Sprintf("HTTP error %d", status), ""
}

// splitResourcePath pulls the resource type and id out of an endpoint
// like /expenses/nonexistent. Query strings and nested action segments
// are ignored.
func splitResourcePath(endpoint string) (resource, id string) {
	path := endpoint
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 0 {
		resource = parts[0]
	}
	if len(parts) > 1 {
		id = parts[1]
	}
	return resource, id
}

// oauthTokenPattern matches Zoho OAuth tokens, which always start with a
// numeric client prefix followed by two dot-separated opaque segments.
var oauthTokenPattern = regexp.MustCompile(`\b1000\.[0-9a-fA-F]+\.[0-9a-fA-F]+\b`)

// Redactor removes credential material from strings before they are
// logged or surfaced in error payloads.
type Redactor struct {
	secrets []string
}

// NewRedactor builds a redactor over the given secret values. Empty
// strings are ignored.
func NewRedactor(secrets ...string) *Redactor {
	r := &Redactor{}
	for _, s := range secrets {
		if s != "" {
			r.secrets = append(r.secrets, s)
		}
	}
	return r
}

// Redact masks every known secret and anything that looks like an OAuth
// token in s.
func (r *Redactor) Redact(s string) string {
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return oauthTokenPattern.ReplaceAllString(s, "[REDACTED]")
}
