package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./echoplay.db" {
			t.Errorf("expected database path ./echoplay.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.YouTube.MaxResults != 5 {
			t.Errorf("expected 5 search results, got %d", config.Credentials.YouTube.MaxResults)
		}

		if config.Store.Mode != StoreModeLocal {
			t.Errorf("expected local store mode, got %s", config.Store.Mode)
		}

		if config.Store.RecentLimit != 10 {
			t.Errorf("expected recent limit 10, got %d", config.Store.RecentLimit)
		}

		if !config.Store.SoftPlaylistWrites {
			t.Error("expected soft playlist writes by default")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[credentials.google]
client_id = "test_client_id"
client_secret = "test_secret"

[credentials.youtube]
api_key = "test_api_key"

[store]
mode = "remote"
remote_url = "http://music.local:3000"
soft_playlist_writes = false

[logging]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.Credentials.Google.ClientID != "test_client_id" {
			t.Errorf("expected google client_id test_client_id, got %s", config.Credentials.Google.ClientID)
		}

		if config.Store.SoftPlaylistWrites {
			t.Error("expected soft playlist writes to be disabled")
		}

		if config.Credentials.YouTube.MaxResults != 5 {
			t.Errorf("expected unspecified max_results to keep default, got %d", config.Credentials.YouTube.MaxResults)
		}

		if config.Logging.LogLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", config.Logging.LogLevel())
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "unknown mode", mutate: func(c *Config) { c.Store.Mode = "cloud" }},
			{name: "remote without url", mutate: func(c *Config) { c.Store.Mode = StoreModeRemote; c.Store.RemoteURL = "" }},
			{name: "zero recent limit", mutate: func(c *Config) { c.Store.RecentLimit = 0 }},
			{name: "too many results", mutate: func(c *Config) { c.Credentials.YouTube.MaxResults = 51 }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("API key from environment", func(t *testing.T) {
		t.Setenv(YouTubeAPIKeyEnv, "from-env")
		if got := DefaultConfig().Credentials.YouTube.APIKey; got != "from-env" {
			t.Errorf("expected env api key, got %s", got)
		}
	})

	t.Run("LogLevel fallback", func(t *testing.T) {
		if got := (LoggingConfig{Level: "loud"}).LogLevel(); got != log.InfoLevel {
			t.Errorf("expected info fallback, got %v", got)
		}
	})
}
