package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// YouTubeAPIKeyEnv overrides [YouTubeConfig.APIKey] when set.
const YouTubeAPIKeyEnv = "ECHOPLAY_YOUTUBE_API_KEY"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Store       StoreConfig       `toml:"store"`
	Logging     LoggingConfig     `toml:"logging"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Google  GoogleConfig  `toml:"google"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// GoogleConfig contains the OAuth2 client used for sign-in.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// YouTubeConfig contains YouTube Data API settings used by search.
type YouTubeConfig struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	MaxResults        int     `toml:"max_results"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port pair the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects the document store backing the session.
type StoreConfig struct {
	Mode               string `toml:"mode"`
	RemoteURL          string `toml:"remote_url"`
	SoftPlaylistWrites bool   `toml:"soft_playlist_writes"`
	RecentLimit        int    `toml:"recent_limit"`
}

// Store modes
const (
	StoreModeLocal  = "local"
	StoreModeRemote = "remote"
)

// LoggingConfig controls the log level and the file the TUI logs to.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LogLevel parses the configured level, falling back to info.
func (l LoggingConfig) LogLevel() log.Level {
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// Validate checks the fields the application cannot run without.
func (c *Config) Validate() error {
	switch c.Store.Mode {
	case StoreModeLocal:
	case StoreModeRemote:
		if c.Store.RemoteURL == "" {
			return fmt.Errorf("%w: store.remote_url is required in remote mode", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.mode %q", ErrInvalidConfig, c.Store.Mode)
	}

	if c.Store.RecentLimit <= 0 {
		return fmt.Errorf("%w: store.recent_limit must be positive", ErrInvalidConfig)
	}
	if c.Credentials.YouTube.MaxResults <= 0 || c.Credentials.YouTube.MaxResults > 50 {
		return fmt.Errorf("%w: credentials.youtube.max_results must be between 1 and 50", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv(YouTubeAPIKeyEnv); key != "" {
		c.Credentials.YouTube.APIKey = key
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
