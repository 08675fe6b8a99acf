package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSettings(t *testing.T) {
	t.Run("MissingFileDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")

		settings, err := OpenSettings(path)
		if err != nil {
			t.Fatalf("failed to open settings: %v", err)
		}

		if settings.IsMigrationCompleted() || settings.IsMigrationSkipped() {
			t.Error("expected clean flags for fresh settings")
		}
		if !settings.NeedsMigration() {
			t.Error("expected fresh settings to need migration")
		}
	})

	t.Run("CompletedPersists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")

		settings, _ := OpenSettings(path)
		if err := settings.SetMigrationCompleted(); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		reopened, err := OpenSettings(path)
		if err != nil {
			t.Fatalf("failed to reopen settings: %v", err)
		}
		if !reopened.IsMigrationCompleted() {
			t.Error("expected completed flag to survive reopen")
		}
		if reopened.NeedsMigration() {
			t.Error("completed settings should not need migration")
		}
	})

	t.Run("SkippedPersists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")

		settings, _ := OpenSettings(path)
		if err := settings.SetMigrationSkipped(); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		reopened, err := OpenSettings(path)
		if err != nil {
			t.Fatalf("failed to reopen settings: %v", err)
		}
		if !reopened.IsMigrationSkipped() {
			t.Error("expected skipped flag to survive reopen")
		}
		if reopened.NeedsMigration() {
			t.Error("skipped settings should not need migration")
		}
	})

	t.Run("FileIsTOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")

		settings, _ := OpenSettings(path)
		settings.SetMigrationCompleted()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read settings file: %v", err)
		}
		if !strings.Contains(string(data), "playlist_migration_completed = true") {
			t.Errorf("unexpected settings file contents: %s", data)
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")
		os.WriteFile(path, []byte("not [valid\ttoml"), 0644)

		if _, err := OpenSettings(path); err == nil {
			t.Error("expected error for malformed settings file")
		}
	})
}
