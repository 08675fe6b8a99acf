// package tasks orchestrates playlist export operations over the store and
// loader, with real-time progress reporting.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers; a nil or full channel never blocks the work.
package tasks

import (
	"context"
	"fmt"

	"github.com/treblfm/playlistkit/internal/loader"
	"github.com/treblfm/playlistkit/internal/models"
	"github.com/treblfm/playlistkit/internal/store"
)

// Engine defines playlist export operations.
type Engine interface {
	// ExportOne writes a single playlist to an M3U file in outputDir.
	ExportOne(ctx context.Context, playlistID int64, outputDir string) (*PlaylistExportResult, error)

	// ExportAll exports every playlist in the store concurrently.
	ExportAll(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error)
}

// ExportEngine implements [Engine] over the playlist store and loader.
type ExportEngine struct {
	store  *store.PlaylistStore
	loader *loader.PlaylistSongLoader
}

// NewExportEngine creates an ExportEngine with the provided store and loader.
func NewExportEngine(s *store.PlaylistStore, l *loader.PlaylistSongLoader) *ExportEngine {
	return &ExportEngine{store: s, loader: l}
}

// PlaylistExportJob is a resolved playlist queued for file writing.
type PlaylistExportJob struct {
	Playlist models.Playlist
	Songs    []models.ResolvedSong
}

// PlaylistExportResult describes one playlist's export outcome.
type PlaylistExportResult struct {
	PlaylistID   int64
	PlaylistName string
	Success      bool
	File         string // Written file path, empty on failure
	SongCount    int    // Resolved songs written
	Error        error
}

// sendProgress delivers an update without ever blocking the operation.
func (e *ExportEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}

// resolvePlaylist loads a playlist row and its resolved song list.
func (e *ExportEngine) resolvePlaylist(ctx context.Context, playlistID int64) (*PlaylistExportJob, error) {
	playlist, err := e.store.GetPlaylist(playlistID)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, fmt.Errorf("no playlist with id %d", playlistID)
	}

	songs, err := e.loader.GetPlaylistSongList(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &PlaylistExportJob{Playlist: *playlist, Songs: songs}, nil
}
