// Package legacy reads the system's old shared playlist store, consumed only
// by the one-shot migration and the selective import flow.
package legacy

import (
	"context"
)

// Playlist is a playlist as reported by the legacy source. The ID belongs to
// the legacy store and means nothing to the internal one.
type Playlist struct {
	ID        int64
	Name      string
	SongCount int
}

// Source enumerates legacy playlists and their ordered song references.
//
// Read-only. An unreadable source reports no playlists rather than erroring,
// the same leniency the catalog gateway applies: migration treats "nothing
// to import" and "cannot read the legacy store" identically.
type Source interface {
	// GetAllPlaylists returns every legacy playlist.
	GetAllPlaylists(ctx context.Context) ([]Playlist, error)

	// GetPlaylist returns a legacy playlist by id, nil when absent.
	GetPlaylist(ctx context.Context, id int64) (*Playlist, error)

	// GetPlaylistSongs returns a legacy playlist's song references in their
	// original play order.
	GetPlaylistSongs(ctx context.Context, id int64) ([]int64, error)
}
