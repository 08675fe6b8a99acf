// Package migration imports playlists from the legacy shared store into the
// internal playlist store, exactly once.
//
// The one-shot run is a small state machine:
//
//	not started → evaluating → (skipped | importing → completed)
//
// Terminal states are sticky, persisted as settings flags and checked before
// any future run. A per-playlist failure never aborts the run; it is counted
// and the remaining playlists are attempted.
package migration

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/treblfm/playlistkit/internal/legacy"
	"github.com/treblfm/playlistkit/internal/shared"
)

// State identifies where a migration run ended up.
type State int

const (
	NotStarted State = iota
	Evaluating
	Skipped
	Importing
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Evaluating:
		return "evaluating"
	case Skipped:
		return "skipped"
	case Importing:
		return "importing"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

// Store is the slice of the playlist store the migration writes through,
// the same API normal operation uses.
type Store interface {
	IsEmpty() (bool, error)
	CreatePlaylist(name string) (int64, error)
	AddSongsToPlaylist(playlistID int64, audioIDs []int64) (int, error)
	FindDuplicateNames(names []string) ([]string, error)
}

// Flags is the persisted terminal-state marker pair. Both are sticky: once
// set they never revert.
type Flags interface {
	IsMigrationCompleted() bool
	SetMigrationCompleted() error
	IsMigrationSkipped() bool
	SetMigrationSkipped() error
}

// Report summarizes one migration or selective-import run.
type Report struct {
	RunID         string // Process-unique id for log correlation
	State         State  // Terminal state this run reached or found
	Evaluated     int    // Legacy playlists seen
	Imported      int    // Playlists created in the internal store
	Failed        int    // Playlists whose creation failed (skipped, not fatal)
	SongsImported int    // Membership rows written across all playlists
}

// Migrator runs the legacy import against a store, source, and flag set.
type Migrator struct {
	store  Store
	source legacy.Source
	flags  Flags
	logger *log.Logger
}

// NewMigrator creates a Migrator. A nil logger falls back to the default.
func NewMigrator(store Store, source legacy.Source, flags Flags, logger *log.Logger) *Migrator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Migrator{store: store, source: source, flags: flags, logger: logger}
}

// Run executes the one-shot migration state machine.
//
// Already-terminal flags make this a no-op. Otherwise the run evaluates:
// a non-empty store or an empty legacy source completes vacuously; anything
// else imports every legacy playlist, then marks completed regardless of
// individual failures.
func (m *Migrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: shared.GenerateID()}
	logger := shared.WithLogger(m.logger, "run_id", report.RunID)

	if m.flags.IsMigrationCompleted() {
		report.State = Completed
		return report, nil
	}
	if m.flags.IsMigrationSkipped() {
		report.State = Skipped
		return report, nil
	}

	report.State = Evaluating

	empty, err := m.store.IsEmpty()
	if err != nil {
		return report, fmt.Errorf("failed to check store state: %w", err)
	}
	if !empty {
		// Store already set up; nothing to pull over.
		if err := m.flags.SetMigrationCompleted(); err != nil {
			return report, err
		}
		report.State = Completed
		logger.Info("store not empty, marking migration completed")
		return report, nil
	}

	playlists, err := m.source.GetAllPlaylists(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to enumerate legacy playlists: %w", err)
	}
	report.Evaluated = len(playlists)

	if len(playlists) == 0 {
		if err := m.flags.SetMigrationCompleted(); err != nil {
			return report, err
		}
		report.State = Completed
		logger.Info("no legacy playlists, marking migration completed")
		return report, nil
	}

	report.State = Importing
	logger.Info("importing legacy playlists", "count", len(playlists))

	for _, playlist := range playlists {
		songs, err := m.importOne(ctx, playlist)
		if err != nil {
			report.Failed++
			logger.Warn("skipping legacy playlist", "name", playlist.Name, "err", err)
			continue
		}
		report.Imported++
		report.SongsImported += songs
	}

	if err := m.flags.SetMigrationCompleted(); err != nil {
		return report, err
	}
	report.State = Completed
	logger.Info("migration completed",
		"imported", report.Imported, "failed", report.Failed, "songs", report.SongsImported)

	return report, nil
}

// Skip marks the migration as declined by the user. Sticky; there is no
// automatic retry of a skipped migration.
func (m *Migrator) Skip() error {
	return m.flags.SetMigrationSkipped()
}

// ImportSelected runs the per-playlist import for an explicit subset of
// legacy playlist ids, driven by the user rather than startup. It never
// touches the completed/skipped flags. Unknown ids are counted as failures.
func (m *Migrator) ImportSelected(ctx context.Context, ids []int64) (*Report, error) {
	report := &Report{RunID: shared.GenerateID(), State: Importing}
	logger := shared.WithLogger(m.logger, "run_id", report.RunID)

	for _, id := range ids {
		playlist, err := m.source.GetPlaylist(ctx, id)
		if err != nil {
			return report, fmt.Errorf("failed to look up legacy playlist %d: %w", id, err)
		}
		if playlist == nil {
			report.Failed++
			continue
		}
		report.Evaluated++

		songs, err := m.importOne(ctx, *playlist)
		if err != nil {
			report.Failed++
			logger.Warn("skipping legacy playlist", "name", playlist.Name, "err", err)
			continue
		}
		report.Imported++
		report.SongsImported += songs
	}

	report.State = Completed
	return report, nil
}

// importOne creates the internal playlist and copies the legacy song
// references over in their original order, positions assigned from 0.
func (m *Migrator) importOne(ctx context.Context, playlist legacy.Playlist) (int, error) {
	id, err := m.store.CreatePlaylist(playlist.Name)
	if err != nil {
		return 0, err
	}

	refs, err := m.source.GetPlaylistSongs(ctx, playlist.ID)
	if err != nil {
		return 0, err
	}
	if len(refs) == 0 {
		return 0, nil
	}

	return m.store.AddSongsToPlaylist(id, refs)
}

// FindDuplicateNames reports which of the given legacy playlists share a
// name with an existing internal playlist. The import itself never
// deduplicates; this exists so callers can warn first.
func (m *Migrator) FindDuplicateNames(playlists []legacy.Playlist) ([]string, error) {
	names := make([]string, len(playlists))
	for i, playlist := range playlists {
		names[i] = playlist.Name
	}
	return m.store.FindDuplicateNames(names)
}
