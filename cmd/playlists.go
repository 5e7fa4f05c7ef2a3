package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// PlaylistList prints the signed-in user's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.session(ctx); err != nil {
		return err
	}

	playlists := r.store.Playlists()
	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	if len(playlists) == 0 {
		r.writePlain("(no playlists)\n")
	}
	for _, p := range playlists {
		r.writePlain("%-24s %s (%d songs)\n", p.ID, p.Name, len(p.Songs))
	}
	return nil
}

// PlaylistShow prints one playlist and its songs.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.session(ctx); err != nil {
		return err
	}

	p, err := r.playlist(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(p, true)
	}

	r.writePlainHeader(p.Name)
	if p.Description != "" {
		r.writePlain("%s\n\n", p.Description)
	}
	r.writeTracks(p.Songs)
	return nil
}

func (r *Runner) playlist(id string) (models.Playlist, error) {
	if id == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	p, ok := r.store.Playlist(id)
	if !ok {
		return models.Playlist{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return p, nil
}

// PlaylistCreate creates a playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	return r.mutate(ctx, func(ctx context.Context) error {
		id, err := r.store.CreatePlaylist(ctx, cmd.StringArg("name"), cmd.String("description"))
		if err != nil {
			return err
		}
		if id != "" {
			r.writePlain("%s\n", id)
		}
		return nil
	})
}

// PlaylistAdd adds a song, found by video id or search query, to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() < 2 {
		return fmt.Errorf("%w: expected <playlist-id> <video-id|query>", shared.ErrMissingArgument)
	}
	playlistID := args.First()
	query := strings.Join(args.Tail(), " ")

	return r.mutate(ctx, func(ctx context.Context) error {
		track, err := r.resolveTrack(ctx, query)
		if err != nil {
			return err
		}
		return r.store.AddToPlaylist(ctx, playlistID, track)
	})
}

// PlaylistRemove removes a song from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() != 2 {
		return fmt.Errorf("%w: expected <playlist-id> <video-id>", shared.ErrMissingArgument)
	}

	return r.mutate(ctx, func(ctx context.Context) error {
		if _, err := r.playlist(args.Get(0)); err != nil {
			return err
		}
		return r.store.RemoveFromPlaylist(ctx, args.Get(0), args.Get(1))
	})
}

// PlaylistUpdate renames a playlist or changes its description. Omitted flags keep their values.
func (r *Runner) PlaylistUpdate(ctx context.Context, cmd *cli.Command) error {
	return r.mutate(ctx, func(ctx context.Context) error {
		p, err := r.playlist(cmd.StringArg("id"))
		if err != nil {
			return err
		}

		update := models.PlaylistUpdate{Name: p.Name, Description: p.Description}
		if cmd.IsSet("name") {
			update.Name = cmd.String("name")
		}
		if cmd.IsSet("description") {
			update.Description = cmd.String("description")
		}
		return r.store.UpdatePlaylist(ctx, p.ID, update)
	})
}

// PlaylistDelete deletes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	return r.mutate(ctx, func(ctx context.Context) error {
		p, err := r.playlist(cmd.StringArg("id"))
		if err != nil {
			return err
		}
		return r.store.DeletePlaylist(ctx, p.ID)
	})
}
