package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "playlists.db" {
			t.Errorf("expected database path playlists.db, got %s", config.Database.Path)
		}

		if config.Database.MaxOpenConns != 4 {
			t.Errorf("expected 4 max open conns, got %d", config.Database.MaxOpenConns)
		}

		if config.Catalog.Path != "media_index.db" {
			t.Errorf("expected catalog path media_index.db, got %s", config.Catalog.Path)
		}

		if config.Export.Directory != "playlists" {
			t.Errorf("expected export directory playlists, got %s", config.Export.Directory)
		}

		if config.Settings.Path != "settings.toml" {
			t.Errorf("expected settings path settings.toml, got %s", config.Settings.Path)
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

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		// Refuses to clobber an existing file.
		if err := CreateConfigFile(configPath); err == nil {
			t.Error("expected error creating config over existing file")
		}
	})

	t.Run("LoadConfigMissingFile", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfigPartial", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		partial := "[database]\npath = \"custom.db\"\n"
		if err := os.WriteFile(configPath, []byte(partial), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Database.Path != "custom.db" {
			t.Errorf("expected custom.db, got %s", config.Database.Path)
		}
	})
}
