package main

import (
	"context"
	"fmt"

	"github.com/treblfm/playlistkit/internal/loader"
	"github.com/treblfm/playlistkit/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates a playlist, reusing an existing one with the same name.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	s, err := r.ensureStore()
	if err != nil {
		return err
	}

	existing, err := s.GetPlaylistByName(name)
	if err != nil {
		return fmt.Errorf("failed to look up playlist: %w", err)
	}
	if existing != nil {
		r.logger.Info("playlist already exists", "name", name, "id", existing.ID)
		return r.writePlain("playlist %q already exists (id %d)\n", name, existing.ID)
	}

	id, err := s.CreatePlaylist(name)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return r.writePlain("created playlist %q (id %d)\n", name, id)
}

// PlaylistList prints every playlist with its song count.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	s, err := r.ensureStore()
	if err != nil {
		return err
	}

	playlists, err := s.GetAllPlaylists()
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	if len(playlists) == 0 {
		return r.writePlain("no playlists\n")
	}

	for _, p := range playlists {
		count, err := s.GetPlaylistSongCount(p.ID)
		if err != nil {
			return fmt.Errorf("failed to count songs: %w", err)
		}
		r.writePlain("%4d  %-40s %d songs\n", p.ID, p.Name, count)
	}
	return nil
}

// PlaylistRename renames a playlist by id.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	id := int64(cmd.Int("id"))
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: new playlist name is required", shared.ErrMissingArgument)
	}

	s, err := r.ensureStore()
	if err != nil {
		return err
	}

	exists, err := s.DoesPlaylistExist(id)
	if err != nil {
		return fmt.Errorf("failed to look up playlist: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", shared.ErrPlaylistNotFound, id)
	}

	if err := s.RenamePlaylist(id, name); err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}

	return r.writePlain("renamed playlist %d to %q\n", id, name)
}

// PlaylistDelete deletes one or more playlists by id.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	ids, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one playlist id is required", shared.ErrMissingArgument)
	}

	s, err := r.ensureStore()
	if err != nil {
		return err
	}

	if err := s.DeletePlaylists(ids); err != nil {
		return fmt.Errorf("failed to delete playlists: %w", err)
	}

	return r.writePlain("deleted %d playlist(s)\n", len(ids))
}

// PlaylistShow prints a playlist's songs in play order, resolved against
// the catalog.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id := int64(cmd.Int("id"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	s, err := r.ensureStore()
	if err != nil {
		return err
	}

	playlist, err := s.GetPlaylist(id)
	if err != nil {
		return fmt.Errorf("failed to look up playlist: %w", err)
	}
	if playlist == nil {
		return fmt.Errorf("%w: id %d", shared.ErrPlaylistNotFound, id)
	}

	l := loader.NewPlaylistSongLoader(s, r.ensureGateway())
	songs, err := l.GetPlaylistSongList(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load playlist songs: %w", err)
	}

	if useJSON {
		return r.writeJSON(songs, pretty)
	}

	r.writePlain("%s (%d songs)\n", playlist.Name, len(songs))
	for i, song := range songs {
		r.writePlain("%4d  %s - %s\n", i+1, song.ArtistName, song.Title)
	}
	return nil
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage playlists",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "list",
				Usage: "List playlists with song counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Playlist id",
						Required: true,
					},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:   "delete",
				Usage:  "Delete playlists by id",
				Action: r.PlaylistDelete,
			},
			{
				Name:  "show",
				Usage: "Show a playlist's songs in play order",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Playlist id",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistShow,
			},
		},
	}
}
