package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/treblfm/playlistkit/internal/models"
)

// PlaylistStore is the sole reader and writer of playlist and membership
// persistent state.
//
// All operations are synchronous. Expected conditions (missing id, duplicate
// membership, empty playlist) surface as booleans, counts, or nil results;
// errors are reserved for storage faults, which callers treat as fatal.
type PlaylistStore struct {
	db *sql.DB
}

// NewPlaylistStore creates a new PlaylistStore with the given database connection
func NewPlaylistStore(db *sql.DB) *PlaylistStore {
	return &PlaylistStore{db: db}
}

// CreatePlaylist inserts a new playlist and returns its store-assigned id.
// Returns -1 with an error only on a storage fault. Name uniqueness is not
// enforced here; callers that want it check existence first.
func (s *PlaylistStore) CreatePlaylist(name string) (int64, error) {
	now := time.Now().UnixMilli()

	result, err := s.db.Exec(
		"INSERT INTO playlists (name, created_at, modified_at) VALUES (?, ?, ?)",
		name, now, now,
	)
	if err != nil {
		return -1, fmt.Errorf("failed to insert playlist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return -1, fmt.Errorf("failed to get playlist id: %w", err)
	}

	return id, nil
}

// GetAllPlaylists retrieves every playlist ordered by name ascending.
func (s *PlaylistStore) GetAllPlaylists() ([]models.Playlist, error) {
	rows, err := s.db.Query(
		"SELECT id, name, created_at, modified_at FROM playlists ORDER BY name ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// GetPlaylist retrieves a playlist by id. Returns nil (no error) when absent.
func (s *PlaylistStore) GetPlaylist(id int64) (*models.Playlist, error) {
	return s.getPlaylist("SELECT id, name, created_at, modified_at FROM playlists WHERE id = ?", id)
}

// GetPlaylistByName retrieves the first playlist with the given name.
// Returns nil (no error) when absent.
func (s *PlaylistStore) GetPlaylistByName(name string) (*models.Playlist, error) {
	return s.getPlaylist("SELECT id, name, created_at, modified_at FROM playlists WHERE name = ? LIMIT 1", name)
}

func (s *PlaylistStore) getPlaylist(query string, arg any) (*models.Playlist, error) {
	row := s.db.QueryRow(query, arg)

	var (
		id         int64
		name       string
		createdAt  int64
		modifiedAt int64
	)
	err := row.Scan(&id, &name, &createdAt, &modifiedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return &models.Playlist{
		ID:         id,
		Name:       name,
		CreatedAt:  time.UnixMilli(createdAt),
		ModifiedAt: time.UnixMilli(modifiedAt),
	}, nil
}

// DoesPlaylistExist reports whether a playlist with the given id exists.
func (s *PlaylistStore) DoesPlaylistExist(id int64) (bool, error) {
	playlist, err := s.GetPlaylist(id)
	if err != nil {
		return false, err
	}
	return playlist != nil, nil
}

// DoesPlaylistExistByName reports whether any playlist has the given name.
func (s *PlaylistStore) DoesPlaylistExistByName(name string) (bool, error) {
	playlist, err := s.GetPlaylistByName(name)
	if err != nil {
		return false, err
	}
	return playlist != nil, nil
}

// FindDuplicateNames returns the subset of names that already exist in the
// store, preserving input order. Used by the selective import flow to warn
// before creating same-named playlists.
func (s *PlaylistStore) FindDuplicateNames(names []string) ([]string, error) {
	var duplicates []string
	for _, name := range names {
		exists, err := s.DoesPlaylistExistByName(name)
		if err != nil {
			return nil, err
		}
		if exists {
			duplicates = append(duplicates, name)
		}
	}
	return duplicates, nil
}

// RenamePlaylist updates a playlist's name and modified timestamp.
// Renaming an absent id is a silent no-op.
func (s *PlaylistStore) RenamePlaylist(id int64, newName string) error {
	_, err := s.db.Exec(
		"UPDATE playlists SET name = ?, modified_at = ? WHERE id = ?",
		newName, time.Now().UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}
	return nil
}

// DeletePlaylist removes a playlist; its membership rows cascade-delete.
// Deleting an absent id is a silent no-op.
func (s *PlaylistStore) DeletePlaylist(id int64) error {
	_, err := s.db.Exec("DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return nil
}

// DeletePlaylists removes multiple playlists in one transaction.
func (s *PlaylistStore) DeletePlaylists(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.Exec("DELETE FROM playlists WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete playlist %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// IsEmpty reports whether the store holds zero playlists. Gates migration.
func (s *PlaylistStore) IsEmpty() (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM playlists").Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count playlists: %w", err)
	}
	return count == 0, nil
}

// AddSongToPlaylist appends a song reference to a playlist.
//
// Returns false without mutating when the reference is already present (or
// when a concurrent insert wins the uniqueness race). The new row takes the
// next position after the current maximum.
func (s *PlaylistStore) AddSongToPlaylist(playlistID, audioID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	present, err := containsSong(tx, playlistID, audioID)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}

	next, err := nextPosition(tx, playlistID)
	if err != nil {
		return false, err
	}

	now := time.Now().UnixMilli()
	_, err = tx.Exec(
		"INSERT INTO playlist_songs (playlist_id, audio_id, song_order, added_at) VALUES (?, ?, ?, ?)",
		playlistID, audioID, next, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert playlist song: %w", err)
	}

	if err := touchPlaylist(tx, playlistID, now); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit insert: %w", err)
	}
	return true, nil
}

// AddSongsToPlaylist appends a batch of song references, skipping duplicates
// within the batch and references already present. Returns the count
// actually inserted.
//
// The starting position is computed once so the surviving refs land at
// consecutive positions in input order.
func (s *PlaylistStore) AddSongsToPlaylist(playlistID int64, audioIDs []int64) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	next, err := nextPosition(tx, playlistID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UnixMilli()
	added := 0
	seen := make(map[int64]bool, len(audioIDs))

	for _, audioID := range audioIDs {
		if seen[audioID] {
			continue
		}
		seen[audioID] = true

		present, err := containsSong(tx, playlistID, audioID)
		if err != nil {
			return 0, err
		}
		if present {
			continue
		}

		_, err = tx.Exec(
			"INSERT INTO playlist_songs (playlist_id, audio_id, song_order, added_at) VALUES (?, ?, ?, ?)",
			playlistID, audioID, next, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return 0, fmt.Errorf("failed to insert playlist song: %w", err)
		}
		next++
		added++
	}

	if added > 0 {
		if err := touchPlaylist(tx, playlistID, now); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return added, nil
}

// GetPlaylistSongs retrieves a playlist's membership rows ordered by position.
// An absent or empty playlist yields an empty slice; no distinction is made.
func (s *PlaylistStore) GetPlaylistSongs(playlistID int64) ([]models.PlaylistSong, error) {
	rows, err := s.db.Query(
		"SELECT id, playlist_id, audio_id, song_order, added_at FROM playlist_songs WHERE playlist_id = ? ORDER BY song_order ASC",
		playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	var songs []models.PlaylistSong
	for rows.Next() {
		song, err := scanPlaylistSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// GetPlaylistSongCount returns the number of membership rows, 0 when absent.
func (s *PlaylistStore) GetPlaylistSongCount(playlistID int64) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = ?", playlistID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count playlist songs: %w", err)
	}
	return count, nil
}

// DoesPlaylistContainSong reports whether a playlist holds the given song reference.
func (s *PlaylistStore) DoesPlaylistContainSong(playlistID, audioID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM playlist_songs WHERE playlist_id = ? AND audio_id = ?)",
		playlistID, audioID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check playlist membership: %w", err)
	}
	return exists, nil
}

// RemoveSongFromPlaylist removes a membership row by its song reference.
// Removing an absent reference is a silent no-op.
func (s *PlaylistStore) RemoveSongFromPlaylist(playlistID, audioID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"DELETE FROM playlist_songs WHERE playlist_id = ? AND audio_id = ?",
		playlistID, audioID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove playlist song: %w", err)
	}

	if err := renumberSongs(tx, playlistID); err != nil {
		return err
	}

	if err := touchPlaylist(tx, playlistID, time.Now().UnixMilli()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit removal: %w", err)
	}
	return nil
}

// RemoveSongFromPlaylistByID removes a membership row by its own identity,
// used when the UI works with displayed rows rather than song references.
func (s *PlaylistStore) RemoveSongFromPlaylistByID(playlistID, idInPlaylist int64) error {
	return s.RemoveSongsFromPlaylist(playlistID, []int64{idInPlaylist})
}

// RemoveSongsFromPlaylist removes a batch of membership rows by identity in
// one transaction. Absent ids are silent no-ops.
func (s *PlaylistStore) RemoveSongsFromPlaylist(playlistID int64, idsInPlaylist []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range idsInPlaylist {
		_, err := tx.Exec(
			"DELETE FROM playlist_songs WHERE id = ? AND playlist_id = ?",
			id, playlistID,
		)
		if err != nil {
			return fmt.Errorf("failed to remove playlist song %d: %w", id, err)
		}
	}

	if err := renumberSongs(tx, playlistID); err != nil {
		return err
	}

	if err := touchPlaylist(tx, playlistID, time.Now().UnixMilli()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit removal: %w", err)
	}
	return nil
}

// MoveSong moves the row at fromPosition to toPosition, shifting everything
// strictly between them by one slot (remove-then-insert list semantics).
//
// Returns false without mutating when either position is out of range.
// Equal positions succeed trivially with zero writes. Only rows whose
// position actually changed are rewritten.
func (s *PlaylistStore) MoveSong(playlistID int64, fromPosition, toPosition int) (bool, error) {
	if fromPosition == toPosition {
		return true, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		"SELECT id, playlist_id, audio_id, song_order, added_at FROM playlist_songs WHERE playlist_id = ? ORDER BY song_order ASC",
		playlistID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to query playlist songs: %w", err)
	}

	var songs []models.PlaylistSong
	for rows.Next() {
		song, err := scanPlaylistSong(rows)
		if err != nil {
			rows.Close()
			return false, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return false, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	if fromPosition < 0 || fromPosition >= len(songs) ||
		toPosition < 0 || toPosition >= len(songs) {
		return false, nil
	}

	moved := songs[fromPosition]
	songs = append(songs[:fromPosition], songs[fromPosition+1:]...)
	songs = append(songs[:toPosition], append([]models.PlaylistSong{moved}, songs[toPosition:]...)...)

	for i, song := range songs {
		if song.Position != i {
			_, err := tx.Exec("UPDATE playlist_songs SET song_order = ? WHERE id = ?", i, song.ID)
			if err != nil {
				return false, fmt.Errorf("failed to update song order: %w", err)
			}
		}
	}

	if err := touchPlaylist(tx, playlistID, time.Now().UnixMilli()); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit move: %w", err)
	}
	return true, nil
}

// renumberSongs rewrites positions to the dense rank [0, count) after a
// removal, writing only rows whose position drifted.
func renumberSongs(tx *sql.Tx, playlistID int64) error {
	rows, err := tx.Query(
		"SELECT id, song_order FROM playlist_songs WHERE playlist_id = ? ORDER BY song_order ASC",
		playlistID,
	)
	if err != nil {
		return fmt.Errorf("failed to query playlist songs: %w", err)
	}

	type rowOrder struct {
		id       int64
		position int
	}
	var orders []rowOrder
	for rows.Next() {
		var ro rowOrder
		if err := rows.Scan(&ro.id, &ro.position); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan song order: %w", err)
		}
		orders = append(orders, ro)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for i, ro := range orders {
		if ro.position != i {
			if _, err := tx.Exec("UPDATE playlist_songs SET song_order = ? WHERE id = ?", i, ro.id); err != nil {
				return fmt.Errorf("failed to update song order: %w", err)
			}
		}
	}
	return nil
}

// nextPosition returns one past the maximum position among a playlist's rows,
// or 0 for an empty playlist.
func nextPosition(tx *sql.Tx, playlistID int64) (int, error) {
	var max int
	err := tx.QueryRow(
		"SELECT COALESCE(MAX(song_order), -1) FROM playlist_songs WHERE playlist_id = ?",
		playlistID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max song order: %w", err)
	}
	return max + 1, nil
}

func containsSong(tx *sql.Tx, playlistID, audioID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM playlist_songs WHERE playlist_id = ? AND audio_id = ?)",
		playlistID, audioID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check playlist membership: %w", err)
	}
	return exists, nil
}

func touchPlaylist(tx *sql.Tx, playlistID, modifiedAt int64) error {
	_, err := tx.Exec("UPDATE playlists SET modified_at = ? WHERE id = ?", modifiedAt, playlistID)
	if err != nil {
		return fmt.Errorf("failed to update playlist modified time: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

func scanPlaylist(rows *sql.Rows) (models.Playlist, error) {
	var (
		id         int64
		name       string
		createdAt  int64
		modifiedAt int64
	)
	if err := rows.Scan(&id, &name, &createdAt, &modifiedAt); err != nil {
		return models.Playlist{}, fmt.Errorf("failed to scan playlist: %w", err)
	}
	return models.Playlist{
		ID:         id,
		Name:       name,
		CreatedAt:  time.UnixMilli(createdAt),
		ModifiedAt: time.UnixMilli(modifiedAt),
	}, nil
}

func scanPlaylistSong(rows *sql.Rows) (models.PlaylistSong, error) {
	var (
		id         int64
		playlistID int64
		audioID    int64
		position   int
		addedAt    int64
	)
	if err := rows.Scan(&id, &playlistID, &audioID, &position, &addedAt); err != nil {
		return models.PlaylistSong{}, fmt.Errorf("failed to scan playlist song: %w", err)
	}
	return models.PlaylistSong{
		ID:         id,
		PlaylistID: playlistID,
		AudioID:    audioID,
		Position:   position,
		AddedAt:    time.UnixMilli(addedAt),
	}, nil
}
