// Package store implements SQLite persistence for playlists and their
// ordered song-reference membership rows.
//
// [PlaylistStore] is the only writer of this state. Multi-row mutations
// (batch add, reorder, batch remove, multi-delete) run in single
// transactions so concurrent readers observe all-or-nothing results.
// Cascade delete of membership rows is enforced by the schema's foreign key.
//
// Invariants maintained here:
//   - a (playlist, song reference) pair appears at most once; duplicate adds
//     are no-ops reported as false, never errors
//   - positions within one playlist are a dense zero-based rank reproducing
//     exactly the user-visible order; reorder renumbers only rows whose
//     position changed
//   - every mutation refreshes the playlist's modified timestamp
package store
