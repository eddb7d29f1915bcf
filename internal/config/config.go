// Package config loads decisiond configuration from a TOML file with
// environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration decodes TOML strings like "10m" via time.ParseDuration.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(b []byte) error {
	parsed, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default values applied when the file omits a setting.
const (
	DefaultHTTPHost = "0.0.0.0"
	DefaultHTTPPort = 8080

	DefaultGmailPollInterval = 10 * time.Minute
	DefaultDrivePollInterval = 15 * time.Minute
	DefaultGmailMaxResults   = 50
)

// Config is the full service configuration.
type Config struct {
	DataDir string `toml:"data_dir"`

	HTTP      HTTPConfig      `toml:"http"`
	Log       LogConfig       `toml:"log"`
	Anthropic AnthropicConfig `toml:"anthropic"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Gmail     GmailConfig     `toml:"gmail"`
	Drive     DriveConfig     `toml:"drive"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// AnthropicConfig configures the completion service.
type AnthropicConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// EmbeddingConfig configures the optional local embedding model.
type EmbeddingConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// GmailConfig configures the mailbox poller. Either a service account
// or a refresh-token credential set enables it.
type GmailConfig struct {
	ClientID           string   `toml:"client_id"`
	ClientSecret       string   `toml:"client_secret"`
	RefreshToken       string   `toml:"refresh_token"`
	ServiceAccountJSON string   `toml:"service_account_json"` // base64-encoded
	LabelFilter        string   `toml:"label_filter"`
	PollInterval       Duration `toml:"poll_interval"`
	MaxResultsPerPoll  int64    `toml:"max_results_per_poll"`
}

// DriveConfig configures the cloud-folder poller.
type DriveConfig struct {
	ServiceAccountJSON string   `toml:"service_account_json"` // base64-encoded
	PollInterval       Duration `toml:"poll_interval"`
}

// Load reads configuration from path. A missing file is not an error;
// defaults plus environment overrides apply. Secrets can always be
// supplied via environment variables so they stay out of the file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Host: DefaultHTTPHost, Port: DefaultHTTPPort},
		Gmail: GmailConfig{
			PollInterval:      Duration(DefaultGmailPollInterval),
			MaxResultsPerPoll: DefaultGmailMaxResults,
		},
		Drive: DriveConfig{PollInterval: Duration(DefaultDrivePollInterval)},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	setIfEnv(&c.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setIfEnv(&c.Gmail.ClientID, "GMAIL_CLIENT_ID")
	setIfEnv(&c.Gmail.ClientSecret, "GMAIL_CLIENT_SECRET")
	setIfEnv(&c.Gmail.RefreshToken, "GMAIL_REFRESH_TOKEN")
	setIfEnv(&c.Gmail.ServiceAccountJSON, "GMAIL_SERVICE_ACCOUNT_JSON")
	setIfEnv(&c.Drive.ServiceAccountJSON, "DRIVE_SERVICE_ACCOUNT_JSON")
	setIfEnv(&c.Embedding.BaseURL, "EMBEDDING_BASE_URL")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// IsGmailConfigured reports whether the mailbox poller has credentials.
func (c *Config) IsGmailConfigured() bool {
	if c.Gmail.ServiceAccountJSON != "" {
		return true
	}
	return c.Gmail.ClientID != "" && c.Gmail.ClientSecret != "" && c.Gmail.RefreshToken != ""
}

// IsDriveConfigured reports whether the cloud-folder poller has credentials.
func (c *Config) IsDriveConfigured() bool {
	return c.Drive.ServiceAccountJSON != ""
}
