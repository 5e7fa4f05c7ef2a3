package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/formatter"
	"github.com/desertthunder/echoplay/internal/library"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// LikedList prints the liked songs, optionally fuzzy filtered.
func (r *Runner) LikedList(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.session(ctx); err != nil {
		return err
	}

	tracks := library.Filter(r.store.Liked(), cmd.String("filter"))
	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlainHeader(fmt.Sprintf("Liked Songs (%d)", len(tracks)))
	r.writeTracks(tracks)
	return nil
}

// LikedAdd likes a song found by video id or search query.
func (r *Runner) LikedAdd(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	return r.mutate(ctx, func(ctx context.Context) error {
		track, err := r.resolveTrack(ctx, query)
		if err != nil {
			return err
		}
		if r.store.IsLiked(track.VideoID) {
			r.writePlain("• %s - %s is already liked\n", track.Artist, track.Title)
			return nil
		}
		r.store.ToggleLike(track, false)
		r.writePlain("✓ Liked %s - %s\n", track.Artist, track.Title)
		return nil
	})
}

// LikedRemove unlikes a song.
func (r *Runner) LikedRemove(ctx context.Context, cmd *cli.Command) error {
	videoID := cmd.StringArg("video-id")
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}
	return r.mutate(ctx, func(ctx context.Context) error {
		liked := r.store.Liked()
		i := models.IndexOf(liked, videoID)
		if i < 0 {
			return fmt.Errorf("%w: %s is not liked", shared.ErrInvalidArgument, videoID)
		}
		r.store.ToggleLike(liked[i], true)
		r.writePlain("✓ Removed %s - %s from liked songs\n", liked[i].Artist, liked[i].Title)
		return nil
	})
}

// LikedMove reorders the liked songs. Positions are 1-based.
func (r *Runner) LikedMove(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() != 2 {
		return fmt.Errorf("%w: expected <from> <to>", shared.ErrMissingArgument)
	}
	from, err := position(args.Get(0))
	if err != nil {
		return err
	}
	to, err := position(args.Get(1))
	if err != nil {
		return err
	}

	return r.mutate(ctx, func(ctx context.Context) error {
		if !r.store.ReorderLiked(from, to) {
			return fmt.Errorf("%w: positions must be between 1 and %d", shared.ErrInvalidArgument, len(r.store.Liked()))
		}
		r.writePlain("✓ Moved song %d to %d\n", from+1, to+1)
		return nil
	})
}

func position(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a position", shared.ErrInvalidArgument, s)
	}
	return n - 1, nil
}

// LikedExport writes the liked songs in the requested format.
func (r *Runner) LikedExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if _, err := r.session(ctx); err != nil {
		return err
	}

	res, err := formatter.Write(ctx, formatter.LikedCollection(r.store.Liked()), formatter.WriteOptions{
		Format: format,
		Dir:    cmd.String("output"),
		Cover:  cmd.Bool("cover"),
		Client: r.httpClient,
	})
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		r.logger.Warn(w)
	}
	for _, f := range res.Files {
		r.writePlain("✓ %s\n", f)
	}
	return nil
}

// RecentList prints the recently played songs, newest first.
func (r *Runner) RecentList(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.session(ctx); err != nil {
		return err
	}

	tracks := r.store.Recent()
	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlainHeader(fmt.Sprintf("Recently Played (%d)", len(tracks)))
	r.writeTracks(tracks)
	return nil
}

// RecentDelete removes a song from recently played.
func (r *Runner) RecentDelete(ctx context.Context, cmd *cli.Command) error {
	videoID := cmd.StringArg("video-id")
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}
	if _, err := r.session(ctx); err != nil {
		return err
	}

	err := r.store.DeleteRecentlyPlayed(ctx, videoID)
	r.printNotices()
	return err
}
