package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Credentials CredentialsConfig `toml:"credentials"`
	Scrobble    ScrobbleConfig    `toml:"scrobble"`
}

// ServerConfig contains HTTP server settings for the webhook listener.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	AniList AniListConfig `toml:"anilist"`
}

// AniListConfig contains AniList API client credentials.
type AniListConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// ScrobbleConfig contains reconciliation tuning and per-user policy defaults.
type ScrobbleConfig struct {
	DebounceSeconds       int            `toml:"debounce_seconds"`
	RequestTimeoutSeconds int            `toml:"request_timeout_seconds"`
	Defaults              PolicyDefaults `toml:"defaults"`
}

// PolicyDefaults holds sync policy values applied to accounts created
// without explicit settings.
type PolicyDefaults struct {
	ScrobblePercentage int  `toml:"scrobble_percentage"`
	MinLengthMinutes   int  `toml:"min_length_minutes"`
	ScrobbleMovies     bool `toml:"scrobble_movies"`
	ScrobbleShows      bool `toml:"scrobble_shows"`
	ScrobbleRewatches  bool `toml:"scrobble_rewatches"`
}

// DebounceInterval returns the debounce window as a [time.Duration].
func (s ScrobbleConfig) DebounceInterval() time.Duration {
	return time.Duration(s.DebounceSeconds) * time.Second
}

// RequestTimeout returns the per-request remote call timeout as a [time.Duration].
func (s ScrobbleConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidInput)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
