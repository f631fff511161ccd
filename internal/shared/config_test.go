package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Backend.BaseURL == "" {
			t.Error("expected default backend base URL")
		}
		if config.Database.Path == "" {
			t.Error("expected default database path")
		}
		if config.Sync.DebounceMS <= 0 {
			t.Error("expected default debounce interval")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		content := `
[backend]
base_url = "http://example.com:9000"

[database]
path = ":memory:"

[sync]
debounce_ms = 100
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backend.BaseURL != "http://example.com:9000" {
			t.Errorf("expected custom base URL, got %s", config.Backend.BaseURL)
		}
		if config.Sync.DebounceInterval() != 100*time.Millisecond {
			t.Errorf("expected 100ms debounce, got %v", config.Sync.DebounceInterval())
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("DebounceInterval Fallback", func(t *testing.T) {
		s := SyncConfig{DebounceMS: 0}
		if s.DebounceInterval() != 250*time.Millisecond {
			t.Errorf("expected 250ms fallback, got %v", s.DebounceInterval())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected config file to exist: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when config file already exists")
		}
	})
}
