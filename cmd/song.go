package main

import (
	"context"
	"fmt"

	"github.com/treblfm/playlistkit/internal/shared"
	"github.com/urfave/cli/v3"
)

// SongAdd appends songs to a playlist, skipping ones it already contains.
func (r *Runner) SongAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := int64(cmd.Int("playlist"))
	audioIDs, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(audioIDs) == 0 {
		return fmt.Errorf("%w: at least one song id is required", shared.ErrMissingArgument)
	}

	s, err := r.ensureStore()
	if err != nil {
		return err
	}

	exists, err := s.DoesPlaylistExist(playlistID)
	if err != nil {
		return fmt.Errorf("failed to look up playlist: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", shared.ErrPlaylistNotFound, playlistID)
	}

	added, err := s.AddSongsToPlaylist(playlistID, audioIDs)
	if err != nil {
		return fmt.Errorf("failed to add songs: %w", err)
	}

	skipped := len(audioIDs) - added
	if skipped > 0 {
		return r.writePlain("added %d song(s), skipped %d duplicate(s)\n", added, skipped)
	}
	return r.writePlain("added %d song(s)\n", added)
}

// SongRemove removes songs from a playlist by catalog id, or by playlist
// row id with --by-row.
func (r *Runner) SongRemove(ctx context.Context, cmd *cli.Command) error {
	playlistID := int64(cmd.Int("playlist"))
	byRow := cmd.Bool("by-row")
	ids, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one song id is required", shared.ErrMissingArgument)
	}

	s, err := r.ensureStore()
	if err != nil {
		return err
	}

	if byRow {
		if err := s.RemoveSongsFromPlaylist(playlistID, ids); err != nil {
			return fmt.Errorf("failed to remove songs: %w", err)
		}
	} else {
		for _, audioID := range ids {
			if err := s.RemoveSongFromPlaylist(playlistID, audioID); err != nil {
				return fmt.Errorf("failed to remove song %d: %w", audioID, err)
			}
		}
	}

	return r.writePlain("removed %d song(s)\n", len(ids))
}

// SongMove moves a song from one position to another within a playlist.
func (r *Runner) SongMove(ctx context.Context, cmd *cli.Command) error {
	playlistID := int64(cmd.Int("playlist"))
	from := cmd.Int("from")
	to := cmd.Int("to")

	s, err := r.ensureStore()
	if err != nil {
		return err
	}

	moved, err := s.MoveSong(playlistID, from, to)
	if err != nil {
		return fmt.Errorf("failed to move song: %w", err)
	}
	if !moved {
		return fmt.Errorf("%w: positions %d and %d are out of range", shared.ErrInvalidArgument, from, to)
	}

	return r.writePlain("moved song from position %d to %d\n", from, to)
}

func songCommand(r *Runner) *cli.Command {
	playlistFlag := func() *cli.IntFlag {
		return &cli.IntFlag{
			Name:     "playlist",
			Aliases:  []string{"p"},
			Usage:    "Playlist id",
			Required: true,
		}
	}

	return &cli.Command{
		Name:  "song",
		Usage: "Manage songs within a playlist",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Append songs to a playlist by catalog id",
				Flags:  []cli.Flag{playlistFlag()},
				Action: r.SongAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove songs from a playlist",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.BoolFlag{
						Name:  "by-row",
						Usage: "Treat arguments as playlist row ids instead of catalog ids",
					},
				},
				Action: r.SongRemove,
			},
			{
				Name:  "move",
				Usage: "Move a song between positions",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.IntFlag{
						Name:     "from",
						Usage:    "Current position (zero-based)",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "to",
						Usage:    "Target position (zero-based)",
						Required: true,
					},
				},
				Action: r.SongMove,
			},
		},
	}
}
