// Package gateway translates collection store operations into document store reads and writes.
//
// Liked songs and recently played live as two fields of a per-user document; each save merges one
// field and leaves the other alone, and reading a missing document yields an empty list. Playlists
// are separate documents, and shares are write-once snapshots addressed by a 10 character code.
//
// Two implementations exist: [Local] talks to SQLite through the repositories package, and
// [Remote] talks to an `echoplay serve` instance over HTTP.
//
// Playlist creation and song addition can run in soft mode, where a failed write is logged at
// warn level and reported to the caller as success.
package gateway

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Gateway is the document store surface used by the collections store.
type Gateway interface {
	FetchLikedSongs(ctx context.Context, userID string) ([]models.Track, error)
	SaveLikedSongs(ctx context.Context, userID string, tracks []models.Track) error
	FetchRecentlyPlayed(ctx context.Context, userID string) ([]models.Track, error)
	SaveRecentlyPlayed(ctx context.Context, userID string, tracks []models.Track) error
	RemoveRecentlyPlayed(ctx context.Context, userID, videoID string) error

	// CreatePlaylist returns the new playlist id. In soft mode a failed write returns "" and no error.
	CreatePlaylist(ctx context.Context, userID, name, description string) (string, error)
	FetchUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error)
	// AddSongToPlaylist appends track unless the playlist already holds its video id.
	// In soft mode a failed write is logged and reported as success.
	AddSongToPlaylist(ctx context.Context, playlistID string, track models.Track) error
	RemoveSongFromPlaylist(ctx context.Context, playlistID, videoID string) error
	UpdatePlaylist(ctx context.Context, playlistID string, update models.PlaylistUpdate) error
	DeletePlaylist(ctx context.Context, playlistID string) error

	// CreateShare stores an immutable snapshot of songs and returns its share code.
	CreateShare(ctx context.Context, ownerID string, songs []models.Track) (string, error)
	// GetShare fails with [shared.ErrShareNotFound] for unknown codes.
	GetShare(ctx context.Context, shareID string) (*models.Share, error)
}

// Options configures gateway behavior shared by both implementations.
type Options struct {
	SoftPlaylistWrites bool
	Logger             *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// soften reports err as success when soft playlist writes are enabled.
func (o Options) soften(op string, err error, kv ...any) error {
	if err == nil || !o.SoftPlaylistWrites {
		return err
	}
	o.logger().Warn("playlist write failed, reporting success", append([]any{"op", op, "error", err}, kv...)...)
	return nil
}

// validatePlaylistInput mirrors the checks made before any write is attempted.
func validatePlaylistInput(userID, name string) error {
	if userID == "" {
		return shared.ErrNotAuthenticated
	}
	if strings.TrimSpace(name) == "" {
		return shared.ErrInvalidInput
	}
	return nil
}
