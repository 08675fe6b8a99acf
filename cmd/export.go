package main

import (
	"context"
	"fmt"

	"github.com/treblfm/playlistkit/internal/shared"
	"github.com/treblfm/playlistkit/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes playlists to M3U files.
//
// With --id it exports a single playlist; with --all it exports every
// playlist concurrently and writes a JSON manifest beside the files.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	id := int64(cmd.Int("id"))
	all := cmd.Bool("all")
	outputDir := cmd.String("output")
	workers := cmd.Int("workers")
	rateLimit := cmd.Int("rate")

	if all == (id != 0) {
		return fmt.Errorf("%w: exactly one of --id or --all is required", shared.ErrInvalidFlag)
	}

	if outputDir == "" {
		outputDir = r.config.Export.Directory
	}

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	if !all {
		result, err := engine.ExportOne(ctx, id, outputDir)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return r.writePlain("exported %q (%d songs) to %s\n", result.PlaylistName, result.SongCount, result.File)
	}

	prog := make(chan tasks.ProgressUpdate)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.ExportAll(ctx, prog, tasks.BulkExportOpts{
		OutputDir:  outputDir,
		NumWorkers: workers,
		RateLimit:  float64(rateLimit),
	})
	close(prog)
	<-done
	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}

	r.writePlain("exported %d of %d playlist(s) to %s\n",
		result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("%d export(s) failed, see %s\n", result.FailedExports, result.ManifestPath)
	}
	return nil
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists to M3U files",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "id",
				Usage: "Playlist id to export",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Export every playlist",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent file writers",
				Value: 5,
			},
			&cli.IntFlag{
				Name:  "rate",
				Usage: "Catalog resolutions per second",
				Value: 5,
			},
		},
		Action: r.Export,
	}
}
