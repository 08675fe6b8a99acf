package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/treblfm/playlistkit/internal/migration"
	"github.com/treblfm/playlistkit/internal/shared"
	"github.com/treblfm/playlistkit/internal/ui"
	"github.com/urfave/cli/v3"
)

// Import migrates playlists from the legacy shared database.
//
// Without flags it runs the full one-shot migration. --skip marks the
// migration as declined without importing anything, and --pick opens an
// interactive picker for selective import.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	skip := cmd.Bool("skip")
	pick := cmd.Bool("pick")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if skip && pick {
		return fmt.Errorf("%w: cannot combine --skip and --pick", shared.ErrInvalidFlag)
	}

	settings, err := r.ensureSettings()
	if err != nil {
		return err
	}

	if !pick && !settings.NeedsMigration() {
		return r.writePlain("migration already completed or skipped\n")
	}

	migrator, err := r.ensureMigrator()
	if err != nil {
		return err
	}

	if skip {
		if err := migrator.Skip(); err != nil {
			return fmt.Errorf("failed to record skip: %w", err)
		}
		return r.writePlain("migration skipped\n")
	}

	if pick {
		return r.runPicker(ctx)
	}

	report, err := migrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if useJSON {
		return r.writeJSON(report, pretty)
	}
	return r.writeReport(report)
}

// runPicker launches the interactive selective import UI.
func (r *Runner) runPicker(ctx context.Context) error {
	source, err := r.ensureSource()
	if err != nil {
		return err
	}

	migrator, err := r.ensureMigrator()
	if err != nil {
		return err
	}

	// Logs would corrupt the alternate screen, silence them for the
	// lifetime of the program.
	r.logger.SetOutput(io.Discard)

	model := ui.NewModel(ctx, source, migrator)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running picker: %w", err)
	}
	return nil
}

func (r *Runner) writeReport(report *migration.Report) error {
	r.writePlain("migration %s: %s\n", report.RunID, report.State)
	r.writePlain("  playlists evaluated: %d\n", report.Evaluated)
	r.writePlain("  playlists imported:  %d\n", report.Imported)
	r.writePlain("  playlists failed:    %d\n", report.Failed)
	r.writePlain("  songs imported:      %d\n", report.SongsImported)
	return nil
}

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import playlists from the legacy shared database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip",
				Usage: "Decline the migration permanently",
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "Interactively pick playlists to import",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the migration report as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Import,
	}
}
