package legacy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/treblfm/playlistkit/internal/shared"
)

// MediaDB implements [Source] against the shared media index's legacy
// playlist tables (audio_playlists, audio_playlists_map).
type MediaDB struct {
	db *sql.DB
}

// NewMediaDB creates a MediaDB over an already-open connection.
func NewMediaDB(db *sql.DB) *MediaDB {
	return &MediaDB{db: db}
}

// OpenMediaDB opens the legacy playlist database at the given path.
func OpenMediaDB(path string) (*MediaDB, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrLegacyUnavailable, err)
	}
	return &MediaDB{db: db}, nil
}

// Close releases the underlying database connection.
func (m *MediaDB) Close() error {
	return m.db.Close()
}

// GetAllPlaylists returns every legacy playlist with its song count.
// An unreadable store reports no playlists.
func (m *MediaDB) GetAllPlaylists(ctx context.Context) ([]Playlist, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT p.id, p.name, COUNT(s.id)
		FROM audio_playlists p
		LEFT JOIN audio_playlists_map s ON s.playlist_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.name ASC
	`)
	if err != nil {
		return []Playlist{}, nil
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.SongCount); err != nil {
			return nil, fmt.Errorf("failed to scan legacy playlist: %w", err)
		}
		playlists = append(playlists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// GetPlaylist returns a legacy playlist by id, nil when absent.
func (m *MediaDB) GetPlaylist(ctx context.Context, id int64) (*Playlist, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, COUNT(s.id)
		FROM audio_playlists p
		LEFT JOIN audio_playlists_map s ON s.playlist_id = p.id
		WHERE p.id = ?
		GROUP BY p.id, p.name
	`, id)

	var p Playlist
	err := row.Scan(&p.ID, &p.Name, &p.SongCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan legacy playlist: %w", err)
	}

	return &p, nil
}

// GetPlaylistSongs returns a legacy playlist's song references ordered by
// play order.
func (m *MediaDB) GetPlaylistSongs(ctx context.Context, id int64) ([]int64, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT audio_id FROM audio_playlists_map
		WHERE playlist_id = ?
		ORDER BY play_order ASC
	`, id)
	if err != nil {
		return []int64{}, nil
	}
	defer rows.Close()

	var audioIDs []int64
	for rows.Next() {
		var audioID int64
		if err := rows.Scan(&audioID); err != nil {
			return nil, fmt.Errorf("failed to scan legacy song reference: %w", err)
		}
		audioIDs = append(audioIDs, audioID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return audioIDs, nil
}
