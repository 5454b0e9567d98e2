package zoho

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booksmcp/booksmcp/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newAuthServer returns a fake accounts endpoint and a counter of hits.
func newAuthServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(t *testing.T, authURL string) *config.Config {
	t.Helper()
	return &config.Config{
		ClientID:       "cid",
		ClientSecret:   "csec",
		RefreshToken:   "rtok",
		OrganizationID: "org1",
		AuthBaseURL:    authURL,
		TokenCachePath: filepath.Join(t.TempDir(), "cache", "token_cache.json"),
		RequestTimeout: 5 * time.Second,
	}
}

func writeCache(t *testing.T, path, token string, expiresAt int64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	data, err := json.Marshal(cachedToken{AccessToken: token, ExpiresAt: expiresAt})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestAccessTokenFreshCacheNoNetwork(t *testing.T) {
	srv, calls := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("auth endpoint should not be called")
	})
	cfg := testConfig(t, srv.URL)
	writeCache(t, cfg.TokenCachePath, "cached-tok", time.Now().Add(30*time.Minute).Unix())

	tm := NewTokenManager(cfg, testLogger())
	tok, err := tm.AccessToken(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, "cached-tok", tok)
	assert.EqualValues(t, 0, calls.Load())
}

func TestAccessTokenWithinBufferRefreshes(t *testing.T) {
	srv, calls := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "fresh", "expires_in": 3600})
	})
	cfg := testConfig(t, srv.URL)
	// Expires in 30s: inside the 60s buffer, must refresh.
	writeCache(t, cfg.TokenCachePath, "stale", time.Now().Add(30*time.Second).Unix())

	tm := NewTokenManager(cfg, testLogger())
	tok, err := tm.AccessToken(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, "fresh", tok)
	assert.EqualValues(t, 1, calls.Load())
}

func TestAccessTokenEmptyCacheRefreshes(t *testing.T) {
	srv, calls := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "rtok", r.URL.Query().Get("refresh_token"))
		assert.Equal(t, "cid", r.URL.Query().Get("client_id"))
		assert.Equal(t, "csec", r.URL.Query().Get("client_secret"))
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok1", "expires_in": 3600})
	})
	cfg := testConfig(t, srv.URL)

	tm := NewTokenManager(cfg, testLogger())
	tok, err := tm.AccessToken(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, "tok1", tok)
	assert.EqualValues(t, 1, calls.Load())

	// Cache file now holds the token with its absolute expiry.
	data, err := os.ReadFile(cfg.TokenCachePath)
	require.NoError(t, err)
	var cached cachedToken
	require.NoError(t, json.Unmarshal(data, &cached))
	assert.Equal(t, "tok1", cached.AccessToken)
	assert.InDelta(t, time.Now().Unix()+3600, cached.ExpiresAt, 5)

	// Second call within the same second hits the cache, no auth POST.
	tok, err = tm.AccessToken(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "tok1", tok)
	assert.EqualValues(t, 1, calls.Load())
}

func TestAccessTokenForceAlwaysRefreshes(t *testing.T) {
	srv, calls := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "forced", "expires_in": 3600})
	})
	cfg := testConfig(t, srv.URL)
	writeCache(t, cfg.TokenCachePath, "still-good", time.Now().Add(time.Hour).Unix())

	tm := NewTokenManager(cfg, testLogger())
	tok, err := tm.AccessToken(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, "forced", tok)
	assert.EqualValues(t, 1, calls.Load())
}

func TestAccessTokenDefaultExpiry(t *testing.T) {
	srv, _ := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok"})
	})
	cfg := testConfig(t, srv.URL)

	tm := NewTokenManager(cfg, testLogger())
	_, err := tm.AccessToken(context.Background(), false)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.TokenCachePath)
	require.NoError(t, err)
	var cached cachedToken
	require.NoError(t, json.Unmarshal(data, &cached))
	assert.InDelta(t, time.Now().Unix()+3600, cached.ExpiresAt, 5)
}

func TestAccessTokenMissingCredentials(t *testing.T) {
	srv, calls := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {})
	cfg := testConfig(t, srv.URL)
	cfg.ClientSecret = ""

	tm := NewTokenManager(cfg, testLogger())
	_, err := tm.AccessToken(context.Background(), false)

	require.Error(t, err)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindAuthentication, ae.Kind)
	assert.Equal(t, CodeMissingCredentials, ae.Code)
	assert.EqualValues(t, 0, calls.Load(), "must fail before any network call")
}

func TestAccessTokenInvalidTokenResponse(t *testing.T) {
	srv, _ := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "invalid_code"})
	})
	cfg := testConfig(t, srv.URL)

	tm := NewTokenManager(cfg, testLogger())
	_, err := tm.AccessToken(context.Background(), false)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, CodeInvalidTokenResponse, ae.Code)
}

func TestAccessTokenUpstreamFailure(t *testing.T) {
	srv, _ := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"message": "invalid refresh token"})
	})
	cfg := testConfig(t, srv.URL)

	tm := NewTokenManager(cfg, testLogger())
	_, err := tm.AccessToken(context.Background(), false)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindAuthentication, ae.Kind)
	assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
	assert.Contains(t, ae.Message, "invalid refresh token")
}

func TestAccessTokenTransportFailure(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	tm := NewTokenManager(cfg, testLogger())
	_, err := tm.AccessToken(context.Background(), false)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindAuthentication, ae.Kind)
	assert.Equal(t, 500, ae.StatusCode)
}

func TestAccessTokenPersistFailureStillReturnsToken(t *testing.T) {
	srv, _ := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	cfg := testConfig(t, srv.URL)
	// Make the cache path unwritable by pointing it at a directory.
	cfg.TokenCachePath = t.TempDir()

	tm := NewTokenManager(cfg, testLogger())
	tok, err := tm.AccessToken(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestAccessTokenCorruptCacheRefreshes(t *testing.T) {
	srv, calls := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	cfg := testConfig(t, srv.URL)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.TokenCachePath), 0o700))
	require.NoError(t, os.WriteFile(cfg.TokenCachePath, []byte("not json"), 0o600))

	tm := NewTokenManager(cfg, testLogger())
	tok, err := tm.AccessToken(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	assert.EqualValues(t, 1, calls.Load())
}
