package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/treblfm/playlistkit/internal/catalog"
	"github.com/treblfm/playlistkit/internal/legacy"
	"github.com/treblfm/playlistkit/internal/loader"
	"github.com/treblfm/playlistkit/internal/migration"
	"github.com/treblfm/playlistkit/internal/shared"
	"github.com/treblfm/playlistkit/internal/store"
	"github.com/treblfm/playlistkit/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies not injected through RunnerOpts are opened lazily from the
// config on first use, so commands that never touch the catalog or the
// legacy database never open them.
type Runner struct {
	config   *shared.Config
	logger   *log.Logger
	output   io.Writer
	db       *sql.DB
	store    *store.PlaylistStore
	gateway  catalog.Gateway
	source   legacy.Source
	settings *shared.Settings
	engine   *tasks.ExportEngine

	mediaIndex *catalog.MediaIndex
	mediaDB    *legacy.MediaDB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Logger   *log.Logger
	Output   io.Writer
	DB       *sql.DB
	Gateway  catalog.Gateway
	Source   legacy.Source
	Settings *shared.Settings
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:   opts.Config,
		logger:   opts.Logger,
		output:   opts.Output,
		db:       opts.DB,
		gateway:  opts.Gateway,
		source:   opts.Source,
		settings: opts.Settings,
	}
	if r.db != nil {
		r.store = store.NewPlaylistStore(r.db)
	}
	return r
}

// Close releases every database handle the Runner opened.
func (r *Runner) Close() {
	if r.mediaIndex != nil {
		r.mediaIndex.Close()
	}
	if r.mediaDB != nil {
		r.mediaDB.Close()
	}
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistCommand, songCommand, importCommand, exportCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureStore opens the playlist database from the config when no handle
// was injected.
func (r *Runner) ensureStore() (*store.PlaylistStore, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.store = store.NewPlaylistStore(db)
	return r.store, nil
}

// ensureGateway returns the configured catalog gateway, falling back to
// an unavailable gateway when no catalog path is set or the index cannot
// be opened.
func (r *Runner) ensureGateway() catalog.Gateway {
	if r.gateway != nil {
		return r.gateway
	}

	if r.config.Catalog.Path == "" {
		r.logger.Warn("no catalog configured, songs will not resolve")
		r.gateway = catalog.Unavailable{}
		return r.gateway
	}

	idx, err := catalog.OpenMediaIndex(r.config.Catalog.Path)
	if err != nil {
		r.logger.Warn("failed to open catalog, songs will not resolve", "path", r.config.Catalog.Path, "error", err)
		r.gateway = catalog.Unavailable{}
		return r.gateway
	}

	r.mediaIndex = idx
	r.gateway = idx
	return r.gateway
}

// ensureSource opens the legacy playlist database from the config.
func (r *Runner) ensureSource() (legacy.Source, error) {
	if r.source != nil {
		return r.source, nil
	}

	if r.config.Legacy.Path == "" {
		return nil, fmt.Errorf("%w: legacy.path not set in config", shared.ErrLegacyUnavailable)
	}

	mdb, err := legacy.OpenMediaDB(r.config.Legacy.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrLegacyUnavailable, err)
	}

	r.mediaDB = mdb
	r.source = mdb
	return r.source, nil
}

// ensureSettings opens the writable settings file from the config.
func (r *Runner) ensureSettings() (*shared.Settings, error) {
	if r.settings != nil {
		return r.settings, nil
	}

	settings, err := shared.OpenSettings(r.config.Settings.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}

	r.settings = settings
	return r.settings, nil
}

// ensureEngine wires the export engine over the store and loader.
func (r *Runner) ensureEngine() (*tasks.ExportEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	s, err := r.ensureStore()
	if err != nil {
		return nil, err
	}

	l := loader.NewPlaylistSongLoader(s, r.ensureGateway())
	r.engine = tasks.NewExportEngine(s, l)
	return r.engine, nil
}

// ensureMigrator builds the migrator over the store, legacy source, and
// settings flags.
func (r *Runner) ensureMigrator() (*migration.Migrator, error) {
	s, err := r.ensureStore()
	if err != nil {
		return nil, err
	}

	source, err := r.ensureSource()
	if err != nil {
		return nil, err
	}

	settings, err := r.ensureSettings()
	if err != nil {
		return nil, err
	}

	return migration.NewMigrator(s, source, settings, r.logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// parseIDs converts positional arguments into int64 identifiers.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a numeric id", shared.ErrInvalidArgument, arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
