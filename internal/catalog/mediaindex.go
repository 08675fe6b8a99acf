package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/treblfm/playlistkit/internal/models"
	"github.com/treblfm/playlistkit/internal/shared"
)

// MediaIndex implements [Gateway] against the device's shared media index,
// a SQLite database this module reads but does not own.
//
// Query failures (index missing, unreadable, schema torn down mid-rescan)
// resolve to an empty map, matching the gateway contract.
type MediaIndex struct {
	db *sql.DB
}

// NewMediaIndex creates a MediaIndex over an already-open connection.
func NewMediaIndex(db *sql.DB) *MediaIndex {
	return &MediaIndex{db: db}
}

// OpenMediaIndex opens the media index database at the given path.
func OpenMediaIndex(path string) (*MediaIndex, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}
	return &MediaIndex{db: db}, nil
}

// Close releases the underlying database connection.
func (m *MediaIndex) Close() error {
	return m.db.Close()
}

// Resolve fetches metadata for the given song references with a single
// IN (...) query. References with no index row are absent from the result.
func (m *MediaIndex) Resolve(ctx context.Context, ids []int64) (map[int64]models.Song, error) {
	songs := make(map[int64]models.Song, len(ids))
	if len(ids) == 0 {
		return songs, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, title, track, year, duration, path, date_modified, album_id, album, artist_id, artist
		FROM audio
		WHERE id IN (%s)
	`, strings.Join(placeholders, ","))

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		// Catalog gone or unreadable: resolve nothing, fail nobody.
		return songs, nil
	}
	defer rows.Close()

	for rows.Next() {
		var (
			song         models.Song
			dateModified int64
		)
		err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.TrackNumber,
			&song.Year,
			&song.Duration,
			&song.Path,
			&dateModified,
			&song.AlbumID,
			&song.AlbumName,
			&song.ArtistID,
			&song.ArtistName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog song: %w", err)
		}
		song.DateModified = time.UnixMilli(dateModified)
		songs[song.ID] = song
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}
