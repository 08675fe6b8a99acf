package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/treblfm/playlistkit/internal/shared"
)

// setupIndexDB builds an in-memory media index with a handful of audio rows.
func setupIndexDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	schema := `
		CREATE TABLE audio (
			id INTEGER PRIMARY KEY,
			title TEXT,
			track INTEGER,
			year INTEGER,
			duration INTEGER,
			path TEXT,
			date_modified INTEGER,
			album_id INTEGER,
			album TEXT,
			artist_id INTEGER,
			artist TEXT
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create audio table: %v", err)
	}

	rows := [][]any{
		{int64(1), "Intro", 1, 2020, int64(120000), "/music/intro.mp3", int64(1600000000000), int64(5), "Debut", int64(9), "The Band"},
		{int64(2), "Outro", 9, 2020, int64(95000), "/music/outro.mp3", int64(1600000000000), int64(5), "Debut", int64(9), "The Band"},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			"INSERT INTO audio (id, title, track, year, duration, path, date_modified, album_id, album, artist_id, artist) VALUES (?,?,?,?,?,?,?,?,?,?,?)",
			r...,
		); err != nil {
			db.Close()
			t.Fatalf("failed to insert audio row: %v", err)
		}
	}

	return db
}

func TestMediaIndexResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("ResolvesKnownIDs", func(t *testing.T) {
		db := setupIndexDB(t)
		defer db.Close()

		idx := NewMediaIndex(db)
		songs, err := idx.Resolve(ctx, []int64{1, 2})
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}
		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}

		intro := songs[1]
		if intro.Title != "Intro" || intro.ArtistName != "The Band" || intro.AlbumName != "Debut" {
			t.Errorf("unexpected song: %+v", intro)
		}
		if intro.Duration != 120000 {
			t.Errorf("expected duration 120000, got %d", intro.Duration)
		}
		if intro.DateModified.IsZero() {
			t.Error("expected date modified to be set")
		}
	})

	t.Run("MissingIDsAbsent", func(t *testing.T) {
		db := setupIndexDB(t)
		defer db.Close()

		idx := NewMediaIndex(db)
		songs, err := idx.Resolve(ctx, []int64{1, 404})
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}
		if len(songs) != 1 {
			t.Fatalf("expected 1 song, got %d", len(songs))
		}
		if _, ok := songs[404]; ok {
			t.Error("expected id 404 to be absent")
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		db := setupIndexDB(t)
		defer db.Close()

		idx := NewMediaIndex(db)
		songs, err := idx.Resolve(ctx, nil)
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected empty result, got %d", len(songs))
		}
	})

	t.Run("MissingTableResolvesEmpty", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create test database: %v", err)
		}
		defer db.Close()

		idx := NewMediaIndex(db)
		songs, err := idx.Resolve(ctx, []int64{1})
		if err != nil {
			t.Fatalf("expected graceful degradation, got %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected empty result, got %d", len(songs))
		}
	})

	t.Run("Unavailable", func(t *testing.T) {
		songs, err := Unavailable{}.Resolve(ctx, []int64{1, 2, 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected empty result, got %d", len(songs))
		}
	})
}
