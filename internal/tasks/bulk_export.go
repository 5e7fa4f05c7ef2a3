package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/echoplay/internal/formatter"
	"github.com/desertthunder/echoplay/internal/shared"
)

// LikedID selects the liked songs in [Engine.BulkExport].
const LikedID = "liked"

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format (default: json)
	OutputDir  string           // Base output directory (default: echoplay_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 5, max: 10)
	RateLimit  float64          // Dispatches per second (default: 5)
	Covers     bool             // Download cover images for markdown exports
	Client     *http.Client     // Client used for cover downloads
}

// ExportJob is one collection queued for export.
type ExportJob struct {
	Index      int
	Collection formatter.Collection
}

// ExportResult is the outcome of one [ExportJob].
type ExportResult struct {
	Index  int
	ID     string
	Name   string
	Tracks int
	Files  []string
	Error  error
}

// Success reports whether the export wrote its files.
func (r ExportResult) Success() bool { return r.Error == nil }

// BulkExportResult summarizes [Engine.BulkExport].
type BulkExportResult struct {
	Total             int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []ExportResult
}

// BulkExport exports the collections named by ids: [LikedID] or playlist ids.
// An empty ids exports the liked songs and every playlist.
//
// A rate-limited dispatcher resolves collections from the store and feeds a
// worker pool. Unknown ids fail individually; the manifest records every outcome.
func (e *Engine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.store.User() == nil {
		return nil, shared.ErrNotAuthenticated
	}

	if len(ids) == 0 {
		ids = append(ids, LikedID)
		for _, p := range e.store.Playlists() {
			ids = append(ids, p.ID)
		}
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("echoplay_export_%d", time.Now().Unix())
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

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Total:           len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan ExportJob, len(ids))
	results := make(chan ExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if ctx.Err() != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			c, ok := e.collection(id)
			if !ok {
				results <- ExportResult{
					Index: i,
					ID:    id,
					Name:  fmt.Sprintf("Unknown (%s)", id),
					Error: fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id),
				}
				continue
			}

			jobs <- ExportJob{Index: i, Collection: c}
			e.sendProgress(prog, exportingUpdate(i+1, len(ids), c.Name))
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

		if res.Success() {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Name, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Name, res.Error))
		}
	}
	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].Index < result.Results[j].Index })

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(manifest(result, opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// collection resolves id against the store.
func (e *Engine) collection(id string) (formatter.Collection, bool) {
	if id == LikedID {
		return formatter.LikedCollection(e.store.Liked()), true
	}
	p, ok := e.store.Playlist(id)
	if !ok {
		return formatter.Collection{}, false
	}
	return formatter.PlaylistCollection(p), true
}

func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ExportJob,
	results chan<- ExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			results <- ExportResult{Index: job.Index, ID: job.Collection.ID, Name: job.Collection.Name, Error: ctx.Err()}
			continue
		}
		results <- exportCollection(ctx, job, opts)
	}
}

func exportCollection(ctx context.Context, j ExportJob, opts BulkExportOpts) ExportResult {
	res := ExportResult{
		Index:  j.Index,
		ID:     j.Collection.ID,
		Name:   j.Collection.Name,
		Tracks: len(j.Collection.Tracks),
		Files:  []string{},
	}

	written, err := formatter.Write(ctx, j.Collection, formatter.WriteOptions{
		Format: opts.Format,
		Dir:    opts.OutputDir,
		Cover:  opts.Covers,
		Client: opts.Client,
	})
	if err != nil {
		res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return res
	}
	res.Files = written.Files
	return res
}

func manifest(r *BulkExportResult, format formatter.Format) formatter.Manifest {
	m := formatter.Manifest{
		Format:      format,
		Directory:   r.OutputDirectory,
		ExportedAt:  time.Now().UTC(),
		Total:       r.Total,
		Successful:  r.SuccessfulExports,
		Failed:      r.FailedExports,
		Collections: make([]formatter.ManifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{ID: res.ID, Name: res.Name, Tracks: res.Tracks, Success: res.Success(), Files: res.Files}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		m.Collections = append(m.Collections, entry)
	}
	return m
}
