// Package loader materializes a playlist's current, ordered, resolved song
// list by joining stored membership rows against the live media catalog.
//
// References the catalog no longer resolves are dropped from the result, not
// surfaced as errors and not removed from the store; they reappear if the
// catalog re-indexes the file. Results are never cached because catalog state
// can change between calls.
package loader

import (
	"context"

	"github.com/treblfm/playlistkit/internal/catalog"
	"github.com/treblfm/playlistkit/internal/models"
	"github.com/treblfm/playlistkit/internal/store"
)

// PlaylistSongLoader joins the playlist store's ordered references with
// catalog metadata.
type PlaylistSongLoader struct {
	store   *store.PlaylistStore
	gateway catalog.Gateway
}

// NewPlaylistSongLoader creates a loader over the given store and gateway.
func NewPlaylistSongLoader(s *store.PlaylistStore, g catalog.Gateway) *PlaylistSongLoader {
	return &PlaylistSongLoader{store: s, gateway: g}
}

// GetPlaylistSongList returns the playlist's resolved songs in persisted
// position order, skipping references the catalog no longer knows.
//
// The catalog is queried once per call with the distinct reference set; an
// empty playlist short-circuits without touching the gateway.
func (l *PlaylistSongLoader) GetPlaylistSongList(ctx context.Context, playlistID int64) ([]models.ResolvedSong, error) {
	entries, err := l.store.GetPlaylistSongs(playlistID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.ResolvedSong{}, nil
	}

	seen := make(map[int64]bool, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if !seen[entry.AudioID] {
			seen[entry.AudioID] = true
			ids = append(ids, entry.AudioID)
		}
	}

	resolved, err := l.gateway.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	songs := make([]models.ResolvedSong, 0, len(entries))
	for _, entry := range entries {
		song, ok := resolved[entry.AudioID]
		if !ok {
			// File no longer exists in the catalog; keep the row, skip it here.
			continue
		}
		songs = append(songs, models.ResolvedSong{
			Song:         song,
			PlaylistID:   playlistID,
			IDInPlaylist: entry.ID,
		})
	}

	return songs, nil
}
