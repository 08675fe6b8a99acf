// package formatter renders resolved playlists to portable output formats (M3U, plain text)
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/treblfm/playlistkit/internal/models"
	"github.com/treblfm/playlistkit/internal/shared"
)

// M3U format constants.
const (
	M3UHeader    = "#EXTM3U"
	M3UEntry     = "#EXTINF:"
	M3UExtension = "m3u"
)

// ExportToM3U renders songs to the extended M3U format: a header line, then
// per song an EXTINF line (duration, "artist - title") followed by the raw
// file path.
func ExportToM3U(songs []models.ResolvedSong) []byte {
	var buf bytes.Buffer

	buf.WriteString(M3UHeader)
	for _, song := range songs {
		buf.WriteString("\n")
		buf.WriteString(fmt.Sprintf("%s%d,%s - %s", M3UEntry, song.Duration, song.ArtistName, song.Title))
		buf.WriteString("\n")
		buf.WriteString(song.Path)
	}

	return buf.Bytes()
}

// ExportToText renders songs to a numbered plain text listing.
func ExportToText(name string, songs []models.ResolvedSong) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", name))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.ArtistName, song.Title))
	}

	return buf.Bytes()
}

// WriteM3U writes a playlist's M3U rendering to dir/<name>.m3u, creating the
// directory if needed, and returns the written path.
func WriteM3U(dir, name string, songs []models.ResolvedSong) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s", name, M3UExtension))
	if err := os.WriteFile(path, ExportToM3U(songs), 0644); err != nil {
		return "", fmt.Errorf("failed to write M3U file: %w", err)
	}

	return path, nil
}

// WriteManifest writes a JSON summary of a bulk export next to the exported
// files and returns nil on success.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
