// package models defines the data model for the internal playlist store
package models

import "time"

// Playlist is a named, user-visible collection of song references.
//
// The ID is assigned by the store on creation and never changes; the name may
// change via rename. The store permits duplicate names, callers that want
// unique names check first.
type Playlist struct {
	ID         int64
	Name       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// PlaylistSong is one membership row: a song reference's presence in one
// playlist at one position.
//
// ID is the row's own identity (the "id in playlist" handle the UI selects
// and removes by), distinct from AudioID, which is the referenced song's
// identity in the external media catalog. Position is a zero-based dense
// rank among the playlist's rows.
type PlaylistSong struct {
	ID         int64
	PlaylistID int64
	AudioID    int64
	Position   int
	AddedAt    time.Time
}

// Song is the metadata the media catalog holds for one song reference.
// Duration is in milliseconds, matching the catalog's own unit.
type Song struct {
	ID           int64
	Title        string
	TrackNumber  int
	Year         int
	Duration     int64
	Path         string
	DateModified time.Time
	AlbumID      int64
	AlbumName    string
	ArtistID     int64
	ArtistName   string
}

// ResolvedSong is the ephemeral join of a membership row with its current
// catalog metadata, produced by the loader and never persisted.
//
// IDInPlaylist carries the membership row's identity so the UI can issue
// remove-by-row-id without a second lookup.
type ResolvedSong struct {
	Song
	PlaylistID   int64
	IDInPlaylist int64
}
