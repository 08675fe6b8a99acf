package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/treblfm/playlistkit/internal/models"
)

func resolved(title, artist, path string, duration int64) models.ResolvedSong {
	return models.ResolvedSong{
		Song: models.Song{
			Title:      title,
			ArtistName: artist,
			Path:       path,
			Duration:   duration,
		},
	}
}

func TestExportToM3U(t *testing.T) {
	t.Run("ExactOutput", func(t *testing.T) {
		songs := []models.ResolvedSong{
			resolved("Intro", "The Band", "/music/intro.mp3", 120000),
			resolved("Outro", "The Band", "/music/outro.mp3", 95000),
		}

		got := string(ExportToM3U(songs))
		want := "#EXTM3U\n" +
			"#EXTINF:120000,The Band - Intro\n" +
			"/music/intro.mp3\n" +
			"#EXTINF:95000,The Band - Outro\n" +
			"/music/outro.mp3"

		if got != want {
			t.Errorf("unexpected M3U output:\ngot:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("EmptyPlaylist", func(t *testing.T) {
		got := string(ExportToM3U(nil))
		if got != M3UHeader {
			t.Errorf("expected bare header, got %q", got)
		}
	})
}

func TestExportToText(t *testing.T) {
	songs := []models.ResolvedSong{
		resolved("Intro", "The Band", "/music/intro.mp3", 120000),
	}

	got := string(ExportToText("Morning", songs))
	if !strings.Contains(got, "Playlist: Morning") {
		t.Errorf("expected playlist name, got %q", got)
	}
	if !strings.Contains(got, "Songs: 1") {
		t.Errorf("expected song count, got %q", got)
	}
	if !strings.Contains(got, "1. The Band - Intro") {
		t.Errorf("expected numbered entry, got %q", got)
	}
}

func TestWriteM3U(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "exports")

	songs := []models.ResolvedSong{
		resolved("Intro", "The Band", "/music/intro.mp3", 120000),
	}

	path, err := WriteM3U(dir, "Morning", songs)
	if err != nil {
		t.Fatalf("failed to write M3U: %v", err)
	}
	if filepath.Base(path) != "Morning.m3u" {
		t.Errorf("unexpected file name: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read M3U file: %v", err)
	}
	if !strings.HasPrefix(string(data), M3UHeader) {
		t.Errorf("expected M3U header, got %q", data)
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")

	if err := WriteManifest(map[string]int{"exports": 2}, path); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	if !strings.Contains(string(data), `"exports": 2`) {
		t.Errorf("unexpected manifest contents: %s", data)
	}
}
