package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/treblfm/playlistkit/internal/legacy"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [legacy.Playlist] to implement [list.Item], carrying the
// picker's selection state and whether the name already exists internally.
type playlistItem struct {
	playlist  legacy.Playlist
	selected  bool
	duplicate bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }

func (i playlistItem) Title() string {
	marker := "[ ]"
	if i.selected {
		marker = "[x]"
	}
	return fmt.Sprintf("%s %s", marker, i.playlist.Name)
}

func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d songs", i.playlist.SongCount)
	if i.duplicate {
		desc = fmt.Sprintf("%s • name already exists", desc)
	}
	return desc
}
