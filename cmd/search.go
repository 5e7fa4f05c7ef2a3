package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/playback"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Search prints the normalized YouTube results for the query arguments.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	r.logger.Debug("searching", "query", query, "backend", r.search().Name())
	tracks, err := r.search().Search(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	r.writeTracks(tracks)
	return nil
}

// Play opens a song in the browser player and records it as recently played when signed in.
//
// The argument is matched against the library by video id first, then searched.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))

	signedIn := true
	if _, err := r.session(ctx); errors.Is(err, shared.ErrNotAuthenticated) {
		signedIn = false
	} else if err != nil {
		return err
	}

	track, err := r.resolveTrack(ctx, query)
	if err != nil {
		return err
	}

	if signedIn {
		if err := r.store.SelectTrack(track); err != nil {
			return err
		}
		if err := r.engine.Persist(ctx, nil); err != nil {
			r.logger.Warn("failed to record play", "video", track.VideoID, "error", err)
		}
	}

	owner := playback.NewOwner(
		playback.WithTarget(playback.ModeFullScreen, playback.NewBrowserTarget(r.openBrowser)),
		playback.WithLogger(r.logger),
	)
	owner.SetMode(playback.ModeFullScreen)
	if err := owner.Load(track, playback.ContextHome, false); err != nil {
		return err
	}
	if start := cmd.Int("start"); start > 0 {
		owner.Seek(float64(start))
	}
	if err := owner.Play(); err != nil {
		return fmt.Errorf("failed to open player: %w", err)
	}

	r.writePlain("♪ %s - %s [%s]\n", track.Artist, track.Title, shared.FormatDuration(track.Duration))
	return nil
}
