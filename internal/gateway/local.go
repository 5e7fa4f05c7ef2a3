package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/repositories"
	"github.com/desertthunder/echoplay/internal/shared"
)

var _ Gateway = (*Local)(nil)

// Local implements [Gateway] on the SQLite repositories.
type Local struct {
	library   *repositories.LibraryRepository
	playlists *repositories.PlaylistRepository
	shares    *repositories.ShareRepository
	opts      Options
}

// NewLocal creates a gateway over db. Migrations must already be applied.
func NewLocal(db *sql.DB, opts Options) *Local {
	return &Local{
		library:   repositories.NewLibraryRepository(db),
		playlists: repositories.NewPlaylistRepository(db),
		shares:    repositories.NewShareRepository(db),
		opts:      opts,
	}
}

func (l *Local) FetchLikedSongs(ctx context.Context, userID string) ([]models.Track, error) {
	return l.library.FetchLiked(ctx, userID)
}

func (l *Local) SaveLikedSongs(ctx context.Context, userID string, tracks []models.Track) error {
	return l.library.SaveLiked(ctx, userID, tracks)
}

func (l *Local) FetchRecentlyPlayed(ctx context.Context, userID string) ([]models.Track, error) {
	return l.library.FetchRecent(ctx, userID)
}

func (l *Local) SaveRecentlyPlayed(ctx context.Context, userID string, tracks []models.Track) error {
	return l.library.SaveRecent(ctx, userID, tracks)
}

func (l *Local) RemoveRecentlyPlayed(ctx context.Context, userID, videoID string) error {
	return l.library.RemoveRecent(ctx, userID, videoID)
}

func (l *Local) CreatePlaylist(ctx context.Context, userID, name, description string) (string, error) {
	if err := validatePlaylistInput(userID, name); err != nil {
		return "", fmt.Errorf("%w: user id and playlist name are required", err)
	}

	playlist := models.NewPlaylist(userID, name, description)
	if err := l.playlists.Create(ctx, &playlist); err != nil {
		return "", l.opts.soften("create_playlist", err, "user", userID, "name", playlist.Name)
	}
	l.opts.logger().Debug("playlist created", "id", playlist.ID, "user", userID)
	return playlist.ID, nil
}

func (l *Local) FetchUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	found, err := l.playlists.List(ctx, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	playlists := make([]models.Playlist, 0, len(found))
	for _, p := range found {
		playlists = append(playlists, *p)
	}
	return playlists, nil
}

func (l *Local) AddSongToPlaylist(ctx context.Context, playlistID string, track models.Track) error {
	if !track.Valid() {
		return shared.ErrInvalidTrack
	}
	err := l.playlists.AddSong(ctx, playlistID, track)
	return l.opts.soften("add_song", err, "playlist", playlistID, "video", track.VideoID)
}

func (l *Local) RemoveSongFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	return l.playlists.RemoveSong(ctx, playlistID, videoID)
}

func (l *Local) UpdatePlaylist(ctx context.Context, playlistID string, update models.PlaylistUpdate) error {
	return l.playlists.Update(ctx, playlistID, update)
}

func (l *Local) DeletePlaylist(ctx context.Context, playlistID string) error {
	return l.playlists.Delete(ctx, playlistID)
}

func (l *Local) CreateShare(ctx context.Context, ownerID string, songs []models.Track) (string, error) {
	id, err := shared.GenerateShareID()
	if err != nil {
		return "", err
	}

	share := models.Share{ID: id, OwnerID: ownerID, Songs: models.Clone(songs), CreatedAt: time.Now().UTC()}
	if err := l.shares.Create(ctx, share); err != nil {
		return "", err
	}
	return id, nil
}

func (l *Local) GetShare(ctx context.Context, shareID string) (*models.Share, error) {
	return l.shares.Get(ctx, shareID)
}
