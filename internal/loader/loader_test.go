package loader

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/treblfm/playlistkit/internal/models"
	"github.com/treblfm/playlistkit/internal/shared"
	"github.com/treblfm/playlistkit/internal/store"
)

// fakeGateway resolves from an in-memory map and counts calls.
type fakeGateway struct {
	songs map[int64]models.Song
	calls int
}

func (f *fakeGateway) Resolve(ctx context.Context, ids []int64) (map[int64]models.Song, error) {
	f.calls++
	result := make(map[int64]models.Song, len(ids))
	for _, id := range ids {
		if song, ok := f.songs[id]; ok {
			result[id] = song
		}
	}
	return result, nil
}

func song(id int64, title string) models.Song {
	return models.Song{
		ID:       id,
		Title:    title,
		Duration: 180000,
		Path:     fmt.Sprintf("/music/%s.mp3", title),
	}
}

func setupTestStore(t *testing.T) (*store.PlaylistStore, *sql.DB) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	return store.NewPlaylistStore(db), db
}

func TestGetPlaylistSongList(t *testing.T) {
	ctx := context.Background()

	t.Run("ResolvesInPositionOrder", func(t *testing.T) {
		s, db := setupTestStore(t)
		defer db.Close()

		id, _ := s.CreatePlaylist("Queue")
		s.AddSongsToPlaylist(id, []int64{30, 10, 20})

		gateway := &fakeGateway{songs: map[int64]models.Song{
			10: song(10, "ten"),
			20: song(20, "twenty"),
			30: song(30, "thirty"),
		}}
		l := NewPlaylistSongLoader(s, gateway)

		songs, err := l.GetPlaylistSongList(ctx, id)
		if err != nil {
			t.Fatalf("failed to load songs: %v", err)
		}

		want := []string{"thirty", "ten", "twenty"}
		if len(songs) != len(want) {
			t.Fatalf("expected %d songs, got %d", len(want), len(songs))
		}
		for i, title := range want {
			if songs[i].Title != title {
				t.Errorf("index %d: expected %q, got %q", i, title, songs[i].Title)
			}
			if songs[i].PlaylistID != id {
				t.Errorf("index %d: expected playlist id %d, got %d", i, id, songs[i].PlaylistID)
			}
			if songs[i].IDInPlaylist == 0 {
				t.Errorf("index %d: expected membership row id to be set", i)
			}
		}

		if gateway.calls != 1 {
			t.Errorf("expected a single catalog call, got %d", gateway.calls)
		}
	})

	t.Run("DropsUnresolvedKeepsRows", func(t *testing.T) {
		s, db := setupTestStore(t)
		defer db.Close()

		id, _ := s.CreatePlaylist("Queue")
		s.AddSongsToPlaylist(id, []int64{10, 20, 30})

		// 20 has vanished from the catalog.
		gateway := &fakeGateway{songs: map[int64]models.Song{
			10: song(10, "ten"),
			30: song(30, "thirty"),
		}}
		l := NewPlaylistSongLoader(s, gateway)

		songs, err := l.GetPlaylistSongList(ctx, id)
		if err != nil {
			t.Fatalf("failed to load songs: %v", err)
		}
		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Title != "ten" || songs[1].Title != "thirty" {
			t.Errorf("expected remaining songs in order, got %q %q", songs[0].Title, songs[1].Title)
		}

		// Unresolved reference stays in the store.
		count, _ := s.GetPlaylistSongCount(id)
		if count != 3 {
			t.Errorf("expected 3 stored rows, got %d", count)
		}
	})

	t.Run("EmptyPlaylistSkipsCatalog", func(t *testing.T) {
		s, db := setupTestStore(t)
		defer db.Close()

		id, _ := s.CreatePlaylist("Empty")

		gateway := &fakeGateway{}
		l := NewPlaylistSongLoader(s, gateway)

		songs, err := l.GetPlaylistSongList(ctx, id)
		if err != nil {
			t.Fatalf("failed to load songs: %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected no songs, got %d", len(songs))
		}
		if gateway.calls != 0 {
			t.Errorf("expected no catalog calls, got %d", gateway.calls)
		}
	})

	t.Run("UnavailableCatalogYieldsEmpty", func(t *testing.T) {
		s, db := setupTestStore(t)
		defer db.Close()

		id, _ := s.CreatePlaylist("Queue")
		s.AddSongsToPlaylist(id, []int64{10, 20})

		l := NewPlaylistSongLoader(s, &fakeGateway{})
		songs, err := l.GetPlaylistSongList(ctx, id)
		if err != nil {
			t.Fatalf("failed to load songs: %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected no songs, got %d", len(songs))
		}
	})

	t.Run("ReorderWithUnresolvedGap", func(t *testing.T) {
		s, db := setupTestStore(t)
		defer db.Close()

		id, _ := s.CreatePlaylist("Road Trip")
		s.AddSongsToPlaylist(id, []int64{101, 102, 103})

		// 102 has no catalog record.
		gateway := &fakeGateway{songs: map[int64]models.Song{
			101: song(101, "one-oh-one"),
			103: song(103, "one-oh-three"),
		}}
		l := NewPlaylistSongLoader(s, gateway)

		songs, err := l.GetPlaylistSongList(ctx, id)
		if err != nil {
			t.Fatalf("failed to load songs: %v", err)
		}
		if len(songs) != 2 || songs[0].ID != 101 || songs[1].ID != 103 {
			t.Fatalf("expected [101 103], got %+v", songs)
		}

		// Reorder acts on the full membership list, gap included.
		if moved, err := s.MoveSong(id, 2, 0); err != nil || !moved {
			t.Fatalf("failed to move song: %v %v", moved, err)
		}

		songs, err = l.GetPlaylistSongList(ctx, id)
		if err != nil {
			t.Fatalf("failed to reload songs: %v", err)
		}
		if len(songs) != 2 || songs[0].ID != 103 || songs[1].ID != 101 {
			t.Errorf("expected [103 101] after move, got %+v", songs)
		}

		count, _ := s.GetPlaylistSongCount(id)
		if count != 3 {
			t.Errorf("expected 3 stored rows, got %d", count)
		}
	})

	t.Run("ReflectsStoreReorder", func(t *testing.T) {
		s, db := setupTestStore(t)
		defer db.Close()

		id, _ := s.CreatePlaylist("Queue")
		s.AddSongsToPlaylist(id, []int64{10, 20, 30})

		gateway := &fakeGateway{songs: map[int64]models.Song{
			10: song(10, "ten"),
			20: song(20, "twenty"),
			30: song(30, "thirty"),
		}}
		l := NewPlaylistSongLoader(s, gateway)

		if moved, err := s.MoveSong(id, 2, 0); err != nil || !moved {
			t.Fatalf("failed to move song: %v %v", moved, err)
		}

		songs, err := l.GetPlaylistSongList(ctx, id)
		if err != nil {
			t.Fatalf("failed to load songs: %v", err)
		}

		want := []string{"thirty", "ten", "twenty"}
		for i, title := range want {
			if songs[i].Title != title {
				t.Errorf("index %d: expected %q, got %q", i, title, songs[i].Title)
			}
		}
	})
}
