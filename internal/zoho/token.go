package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/booksmcp/booksmcp/internal/config"
	"github.com/booksmcp/booksmcp/internal/safefile"
)

// expiryBuffer keeps us from sending a token that expires mid-flight.
const expiryBuffer = 60 * time.Second

// maxCacheFileBytes bounds the token cache file read.
const maxCacheFileBytes = 64 * 1024

// cachedToken is the on-disk token cache record.
type cachedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// TokenManager produces currently-valid OAuth access tokens, refreshing
// through the Zoho accounts endpoint when the cached token is absent or
// inside the expiry buffer.
type TokenManager struct {
	cfg    *config.Config
	client *http.Client
	logger *slog.Logger
	redact *Redactor
	now    func() time.Time
}

// NewTokenManager creates a token manager backed by the token cache file
// at cfg.TokenCachePath.
func NewTokenManager(cfg *config.Config, logger *slog.Logger) *TokenManager {
	return &TokenManager{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
		redact: NewRedactor(cfg.ClientSecret, cfg.RefreshToken),
		now:    time.Now,
	}
}

// AccessToken returns a valid access token. With force false, a cached
// token that is still outside the expiry buffer is returned without any
// network call; otherwise a refresh is performed and the result cached.
func (m *TokenManager) AccessToken(ctx context.Context, force bool) (string, error) {
	if !force {
		if cached, ok := m.loadCache(); ok {
			if cached.ExpiresAt > m.now().Add(expiryBuffer).Unix() {
				m.logger.Debug("using cached access token")
				return cached.AccessToken, nil
			}
		}
	}
	return m.refresh(ctx)
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	if m.cfg.RefreshToken == "" || m.cfg.ClientID == "" || m.cfg.ClientSecret == "" {
		return "", authError(401, "missing OAuth credentials", CodeMissingCredentials)
	}

	m.logger.Info("refreshing OAuth token")

	q := url.Values{}
	q.Set("refresh_token", m.cfg.RefreshToken)
	q.Set("client_id", m.cfg.ClientID)
	q.Set("client_secret", m.cfg.ClientSecret)
	q.Set("grant_type", "refresh_token")
	endpoint := fmt.Sprintf("%s/token?%s", m.cfg.AuthBaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", authError(500, fmt.Sprintf("building token request: %v", err), "")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", authError(500, m.redact.Redact(fmt.Sprintf("token request failed: %v", err)), "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", authError(500, fmt.Sprintf("reading token response: %v", err), "")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message, _ := parseErrorBody(body, resp.StatusCode)
		return "", authError(resp.StatusCode, m.redact.Redact(message), "")
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.AccessToken == "" {
		m.logger.Error("unexpected token response", "status", resp.StatusCode)
		return "", authError(401, "invalid token response", CodeInvalidTokenResponse)
	}

	expiresIn := parsed.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}
	token := cachedToken{
		AccessToken: parsed.AccessToken,
		ExpiresAt:   m.now().Unix() + expiresIn,
	}

	// Persistence failure costs at most one extra refresh on the next
	// call; it must not fail this one.
	if err := m.saveCache(token); err != nil {
		m.logger.Warn("failed to persist token cache", "error", err)
	}

	m.logger.Info("OAuth token refreshed", "expires_in", expiresIn)
	return token.AccessToken, nil
}

func (m *TokenManager) loadCache() (cachedToken, bool) {
	var token cachedToken
	data, err := safefile.Read(m.cfg.TokenCachePath, maxCacheFileBytes)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("failed to load token cache", "error", err)
		}
		return token, false
	}
	if err := json.Unmarshal(data, &token); err != nil {
		m.logger.Warn("corrupt token cache, ignoring", "error", err)
		return token, false
	}
	return token, token.AccessToken != ""
}

func (m *TokenManager) saveCache(token cachedToken) error {
	if err := os.MkdirAll(filepath.Dir(m.cfg.TokenCachePath), 0o700); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshaling token: %w", err)
	}
	if err := os.WriteFile(m.cfg.TokenCachePath, data, 0o600); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	return nil
}
