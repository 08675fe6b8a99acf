// Package ui implements the interactive picker for importing legacy
// playlists selectively.
//
// The picker lists every playlist the legacy source reports, lets the user
// toggle a subset, confirms, then drives [migration.Migrator.ImportSelected]
// and shows the outcome. Playlists whose names already exist internally are
// flagged but not blocked; the store permits duplicate names.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/treblfm/playlistkit/internal/legacy"
	"github.com/treblfm/playlistkit/internal/migration"
)

// ViewState represents the current view in the picker.
type ViewState int

const (
	PickView ViewState = iota
	ConfirmView
	ImportView
	ResultView
)

// Model represents the import picker state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       legacy.Source
	migrator     *migration.Migrator
	width        int
	height       int
	playlistList list.Model
	listReady    bool
	report       *migration.Report
	err          error
	help         help.Model
	keys         keyMap
}

type playlistsFetchedMsg struct {
	items []playlistItem
	err   error
}

type importCompleteMsg struct {
	report *migration.Report
	err    error
}

// NewModel creates a picker model over the given legacy source and migrator.
func NewModel(ctx context.Context, source legacy.Source, migrator *migration.Migrator) *Model {
	return &Model{
		ctx:      ctx,
		view:     PickView,
		source:   source,
		migrator: migrator,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the picker by fetching legacy playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PickView:
			return m.handlePickKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			items[i] = item
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Legacy Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		return m, nil

	case importCompleteMsg:
		m.report = msg.report
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PickView:
		return m.renderPick()
	case ConfirmView:
		return m.renderConfirm()
	case ImportView:
		return styles.title.Render("Importing playlists...")
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			item.selected = !item.selected
			return m, m.playlistList.SetItem(m.playlistList.Index(), item)
		}
	case "a":
		var cmds []tea.Cmd
		for i, it := range m.playlistList.Items() {
			if item, ok := it.(playlistItem); ok {
				item.selected = !item.selected
				cmds = append(cmds, m.playlistList.SetItem(i, item))
			}
		}
		return m, tea.Batch(cmds...)
	case "enter":
		if len(m.selectedIDs()) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = PickView
		return m, nil
	case "y":
		m.view = ImportView
		return m, m.startImport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.listReady || m.view != PickView {
		return m, nil
	}
	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.source.GetAllPlaylists(m.ctx)
		if err != nil {
			return playlistsFetchedMsg{err: err}
		}

		duplicates, err := m.migrator.FindDuplicateNames(playlists)
		if err != nil {
			return playlistsFetchedMsg{err: err}
		}
		dupSet := make(map[string]bool, len(duplicates))
		for _, name := range duplicates {
			dupSet[name] = true
		}

		items := make([]playlistItem, len(playlists))
		for i, playlist := range playlists {
			items[i] = playlistItem{playlist: playlist, duplicate: dupSet[playlist.Name]}
		}
		return playlistsFetchedMsg{items: items}
	}
}

func (m *Model) selectedIDs() []int64 {
	var ids []int64
	for _, it := range m.playlistList.Items() {
		if item, ok := it.(playlistItem); ok && item.selected {
			ids = append(ids, item.playlist.ID)
		}
	}
	return ids
}

func (m *Model) startImport() tea.Cmd {
	ids := m.selectedIDs()
	return func() tea.Msg {
		report, err := m.migrator.ImportSelected(m.ctx, ids)
		return importCompleteMsg{report: report, err: err}
	}
}

func (m *Model) renderPick() string {
	if !m.listReady {
		return styles.help.Render("Loading legacy playlists...")
	}
	helpKeys := []key.Binding{m.keys.toggle, m.keys.all, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	ids := m.selectedIDs()
	title := styles.title.Render(fmt.Sprintf("Import %d playlist(s)?", len(ids)))

	var dupes int
	for _, it := range m.playlistList.Items() {
		if item, ok := it.(playlistItem); ok && item.selected && item.duplicate {
			dupes++
		}
	}
	info := ""
	if dupes > 0 {
		info = styles.warn.Render(fmt.Sprintf("\n%d of them share a name with an existing playlist.", dupes))
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Import failed: %v\n\nPress q to quit", m.err))
	}

	if m.report == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Import Complete")
	info := fmt.Sprintf(
		"\nImported: %d playlists (%d songs)\nFailed: %d",
		m.report.Imported,
		m.report.SongsImported,
		m.report.Failed,
	)

	helpKeys := []key.Binding{m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
}
