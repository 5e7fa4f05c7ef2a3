package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/formatter"
	"github.com/desertthunder/echoplay/internal/tasks"
)

// Export writes the liked songs and playlists named by the arguments, or all of them, with a worker pool.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if _, err := r.session(ctx); err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Covers:     cmd.Bool("covers"),
		Client:     r.httpClient,
	}
	r.logger.Info("starting export", "format", format, "workers", opts.NumWorkers)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Phase == tasks.ExportCollection {
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, cmd.Args().Slice(), opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.Total)
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d collections:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success() {
				r.writePlain("  - %s: %v\n", res.ID, res.Error)
			}
		}
	}
	return nil
}
