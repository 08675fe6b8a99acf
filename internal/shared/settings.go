package shared

import (
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

// Settings is a small writable key-value store persisted as a TOML file.
//
// It holds process-wide flags that must survive restarts but do not belong in
// the playlist database, most importantly the one-shot migration markers.
// Writes rewrite the whole file; the data set is a handful of booleans.
type Settings struct {
	mu   sync.Mutex
	path string
	data settingsData
}

type settingsData struct {
	PlaylistMigrationCompleted bool `toml:"playlist_migration_completed"`
	PlaylistMigrationSkipped   bool `toml:"playlist_migration_skipped"`
}

// OpenSettings loads settings from path, returning defaults if the file does
// not exist yet. The file is created on first Save.
func OpenSettings(path string) (*Settings, error) {
	s := &Settings{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return s, nil
}

// IsMigrationCompleted reports whether the legacy playlist migration already ran.
func (s *Settings) IsMigrationCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.PlaylistMigrationCompleted
}

// SetMigrationCompleted marks the legacy playlist migration as done. Sticky.
func (s *Settings) SetMigrationCompleted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.PlaylistMigrationCompleted = true
	return s.save()
}

// IsMigrationSkipped reports whether the user opted out of the migration.
func (s *Settings) IsMigrationSkipped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.PlaylistMigrationSkipped
}

// SetMigrationSkipped marks the legacy playlist migration as declined. Sticky.
func (s *Settings) SetMigrationSkipped() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.PlaylistMigrationSkipped = true
	return s.save()
}

// NeedsMigration reports whether the migration state machine should run at
// all: neither terminal flag has been set.
func (s *Settings) NeedsMigration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.data.PlaylistMigrationCompleted && !s.data.PlaylistMigrationSkipped
}

func (s *Settings) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
