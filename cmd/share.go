package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/shared"
)

// ShareCreate snapshots the liked songs into a share code.
func (r *Runner) ShareCreate(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.session(ctx); err != nil {
		return err
	}

	id, err := r.store.CreateShare(ctx)
	r.printNotices()
	if err != nil {
		return err
	}

	if cmd.Bool("copy") {
		if err := r.clipboard(id); err != nil {
			r.logger.Warn("failed to copy share id", "error", err)
		} else {
			r.writePlain("✓ Copied to clipboard\n")
		}
	}
	return nil
}

// ShareReceive adds the songs of a share code to the liked songs.
func (r *Runner) ShareReceive(ctx context.Context, cmd *cli.Command) error {
	code := cmd.StringArg("code")
	if code == "" {
		return fmt.Errorf("%w: share code", shared.ErrMissingArgument)
	}

	return r.mutate(ctx, func(ctx context.Context) error {
		added, err := r.store.ImportShare(ctx, code)
		if err != nil {
			return err
		}
		r.writePlain("Added %d new songs\n", added)
		return nil
	})
}
