package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/treblfm/playlistkit/internal/formatter"
	"github.com/treblfm/playlistkit/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	OutputDir  string  // Base output directory (default: playlist_export_{epoch})
	NumWorkers int     // Concurrent file writers (default: 5)
	RateLimit  float64 // Playlist resolutions per second against the catalog (default: 5)
}

// BulkExportResult contains aggregate data from a full export run.
type BulkExportResult struct {
	ManifestID        string                 `json:"manifest_id"`
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"manifest_path"`
	Results           []PlaylistExportResult `json:"-"`
}

// manifestEntry is the JSON-safe projection of a PlaylistExportResult.
type manifestEntry struct {
	PlaylistID   int64  `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	Success      bool   `json:"success"`
	File         string `json:"file,omitempty"`
	SongCount    int    `json:"song_count"`
	Error        string `json:"error,omitempty"`
}

type manifest struct {
	BulkExportResult
	Entries []manifestEntry `json:"entries"`
}

// ExportOne writes a single playlist to an M3U file in outputDir.
func (e *ExportEngine) ExportOne(ctx context.Context, playlistID int64, outputDir string) (*PlaylistExportResult, error) {
	job, err := e.resolvePlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	path, err := formatter.WriteM3U(outputDir, job.Playlist.Name, job.Songs)
	if err != nil {
		return nil, err
	}

	return &PlaylistExportResult{
		PlaylistID:   job.Playlist.ID,
		PlaylistName: job.Playlist.Name,
		Success:      true,
		File:         path,
		SongCount:    len(job.Songs),
	}, nil
}

// ExportAll exports every playlist in the store to M3U files concurrently.
//
// A worker pool writes files while a rate-limited feeder resolves playlists
// against the catalog. Partial failures are isolated per playlist, and a
// JSON manifest summarizing the run is written into the output directory.
func (e *ExportEngine) ExportAll(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	playlists, err := e.store.GetAllPlaylists()
	if err != nil {
		return nil, err
	}
	e.sendProgress(prog, loadPlaylistsUpdate(0, len(playlists)))

	result := &BulkExportResult{
		ManifestID:      shared.GenerateID(),
		TotalPlaylists:  len(playlists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(playlists)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PlaylistExportJob, len(playlists))
	results := make(chan PlaylistExportResult, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts.OutputDir)
	}

	go func() {
		defer close(jobs)
		for i, playlist := range playlists {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, resolvingSongsUpdate(i+1, len(playlists), playlist.Name))

			songs, err := e.loader.GetPlaylistSongList(ctx, playlist.ID)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistID:   playlist.ID,
					PlaylistName: playlist.Name,
					Success:      false,
					Error:        fmt.Errorf("failed to resolve playlist: %w", err),
				}
				continue
			}

			jobs <- PlaylistExportJob{Playlist: playlist, Songs: songs}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(playlists), res.PlaylistName, res.SongCount))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(playlists), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	result.ManifestPath = manifestPath
	if err := formatter.WriteManifest(buildManifest(result), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	return result, nil
}

// exportWorker is a worker goroutine that writes playlist files from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PlaylistExportJob,
	results chan<- PlaylistExportResult,
	outputDir string,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := PlaylistExportResult{
			PlaylistID:   job.Playlist.ID,
			PlaylistName: job.Playlist.Name,
			SongCount:    len(job.Songs),
		}

		path, err := formatter.WriteM3U(outputDir, job.Playlist.Name, job.Songs)
		if err != nil {
			res.Error = fmt.Errorf("M3U export failed: %w", err)
		} else {
			res.Success = true
			res.File = path
		}

		results <- res
	}
}

func buildManifest(result *BulkExportResult) manifest {
	m := manifest{BulkExportResult: *result}
	m.Entries = make([]manifestEntry, len(result.Results))
	for i, res := range result.Results {
		entry := manifestEntry{
			PlaylistID:   res.PlaylistID,
			PlaylistName: res.PlaylistName,
			Success:      res.Success,
			File:         res.File,
			SongCount:    res.SongCount,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		m.Entries[i] = entry
	}
	return m
}
