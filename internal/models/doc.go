// Package models defines domain entities shared across the playlist store,
// loader, and migration layers.
//
// The package contains two categories of types:
//
// 1. Persistent rows owned by the internal store:
//   - [Playlist] : named collection with created/modified timestamps
//   - [PlaylistSong] : one (playlist, song reference, position) membership row
//
// 2. Ephemeral catalog joins, never persisted here:
//   - [Song] : metadata held by the external media catalog for one reference
//   - [ResolvedSong] : a membership row joined with its current [Song]
//
// Song references (audio ids) are owned and assigned by the external media
// catalog; this store only records them. A reference with no current catalog
// row is routine, not an error: the loader drops it from resolved results
// while the store keeps the row so it can reappear after a rescan.
package models
