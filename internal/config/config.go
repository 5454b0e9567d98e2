// Package config loads the booksmcp configuration from an optional YAML
// file plus environment variable overrides. The resulting Config is
// constructed once at process start and passed by reference; nothing
// mutates it afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs: OAuth credentials, region
// routing, and runtime knobs.
type Config struct {
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	RefreshToken   string `yaml:"refresh_token"`
	OrganizationID string `yaml:"organization_id"`

	Region      string `yaml:"region"`
	APIBaseURL  string `yaml:"api_base_url"`
	AuthBaseURL string `yaml:"auth_base_url"`

	TokenCachePath string        `yaml:"token_cache_path"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxRetries is informational; authentication retries are hard-capped
	// at one regardless of this value.
	MaxRetries int    `yaml:"max_retries"`
	LogLevel   string `yaml:"log_level"`
	AuditDB    string `yaml:"audit_db"`
}

// regionDomains maps Zoho region codes to accounts domain suffixes.
var regionDomains = map[string]string{
	"US": "com",
	"EU": "eu",
	"IN": "in",
	"AU": "com.au",
	"JP": "jp",
	"CN": "com.cn",
	"CA": "ca",
}

// Domain returns the accounts domain suffix for a region code.
// Unknown regions fall back to "com".
func Domain(region string) string {
	if d, ok := regionDomains[strings.ToUpper(region)]; ok {
		return d
	}
	return "com"
}

// DefaultDir returns the canonical per-user state directory
// (~/.booksmcp). There is no legacy fallback search.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".booksmcp"
	}
	return filepath.Join(home, ".booksmcp")
}

// DefaultPath returns the canonical config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads the config file at path (if it exists), applies environment
// overrides, and fills in defaults. A missing file is not an error: the
// whole config can come from the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.ClientID, "ZOHO_CLIENT_ID")
	setString(&c.ClientSecret, "ZOHO_CLIENT_SECRET")
	setString(&c.RefreshToken, "ZOHO_REFRESH_TOKEN")
	setString(&c.OrganizationID, "ZOHO_ORGANIZATION_ID")
	setString(&c.Region, "ZOHO_REGION")
	setString(&c.APIBaseURL, "ZOHO_API_BASE_URL")
	setString(&c.AuthBaseURL, "ZOHO_AUTH_BASE_URL")
	setString(&c.TokenCachePath, "TOKEN_CACHE_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.AuditDB, "AUDIT_DB")

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxRetries = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = "US"
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://www.zohoapis.com/books/v3"
	}
	if c.AuthBaseURL == "" {
		c.AuthBaseURL = fmt.Sprintf("https://accounts.zoho.%s/oauth/v2", Domain(c.Region))
	}
	if c.TokenCachePath == "" {
		c.TokenCachePath = filepath.Join(DefaultDir(), "token_cache.json")
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that all required credentials are present. Missing
// credentials are a fatal configuration error, not something to recover
// from at request time.
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.RefreshToken == "" {
		missing = append(missing, "refresh_token")
	}
	if c.OrganizationID == "" {
		missing = append(missing, "organization_id")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// Save writes the config to a YAML file at path, creating the parent
// directory if needed. Written 0600 since it holds credentials.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ConfigurationError reports required settings that are absent.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required settings: %s (set them in %s or the environment)",
		strings.Join(e.Missing, ", "), DefaultPath())
}
