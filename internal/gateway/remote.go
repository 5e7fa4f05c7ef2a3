package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/services"
	"github.com/desertthunder/echoplay/internal/shared"
)

var _ Gateway = (*Remote)(nil)

// Remote implements [Gateway] against the HTTP API served by `echoplay serve`.
type Remote struct {
	api  *services.APIService
	opts Options
}

// NewRemote creates a gateway that sends every operation to api.
func NewRemote(api *services.APIService, opts Options) *Remote {
	return &Remote{api: api, opts: opts}
}

// Paths of the document store API.
func userPath(userID, rest string) string {
	return "/api/users/" + url.PathEscape(userID) + rest
}

func playlistPath(playlistID, rest string) string {
	return "/api/playlists/" + url.PathEscape(playlistID) + rest
}

// call sends a request and decodes a 2xx JSON body into out when out is non-nil.
//
// A 404 is mapped to notFound so callers can match sentinel errors across the wire.
func (r *Remote) call(ctx context.Context, method, path string, payload, out any, notFound error) error {
	resp, err := r.api.Do(ctx, method, path, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		switch {
		case resp.StatusCode == http.StatusNotFound && notFound != nil:
			return fmt.Errorf("%w: %s", notFound, resp.ErrorMessage())
		case resp.StatusCode == http.StatusBadRequest:
			return fmt.Errorf("%w: %s", shared.ErrInvalidInput, resp.ErrorMessage())
		default:
			return fmt.Errorf("%w: %s %s: status %d: %s", shared.ErrAPIRequest, method, path, resp.StatusCode, resp.ErrorMessage())
		}
	}

	if out != nil {
		return resp.Decode(out)
	}
	return nil
}

func (r *Remote) fetchTracks(ctx context.Context, path string) ([]models.Track, error) {
	var tracks []models.Track
	if err := r.call(ctx, http.MethodGet, path, nil, &tracks, nil); err != nil {
		return nil, err
	}
	return models.Clone(tracks), nil
}

func (r *Remote) FetchLikedSongs(ctx context.Context, userID string) ([]models.Track, error) {
	return r.fetchTracks(ctx, userPath(userID, "/liked"))
}

func (r *Remote) SaveLikedSongs(ctx context.Context, userID string, tracks []models.Track) error {
	return r.call(ctx, http.MethodPut, userPath(userID, "/liked"), models.Clone(tracks), nil, nil)
}

func (r *Remote) FetchRecentlyPlayed(ctx context.Context, userID string) ([]models.Track, error) {
	return r.fetchTracks(ctx, userPath(userID, "/recent"))
}

func (r *Remote) SaveRecentlyPlayed(ctx context.Context, userID string, tracks []models.Track) error {
	return r.call(ctx, http.MethodPut, userPath(userID, "/recent"), models.Clone(tracks), nil, nil)
}

func (r *Remote) RemoveRecentlyPlayed(ctx context.Context, userID, videoID string) error {
	return r.call(ctx, http.MethodDelete, userPath(userID, "/recent/"+url.PathEscape(videoID)), nil, nil, nil)
}

// CreatePlaylistRequest is the body of POST /api/playlists.
type CreatePlaylistRequest struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatedResponse carries the id of a created document.
type CreatedResponse struct {
	ID string `json:"id"`
}

func (r *Remote) CreatePlaylist(ctx context.Context, userID, name, description string) (string, error) {
	if err := validatePlaylistInput(userID, name); err != nil {
		return "", fmt.Errorf("%w: user id and playlist name are required", err)
	}

	var created CreatedResponse
	err := r.call(ctx, http.MethodPost, "/api/playlists", CreatePlaylistRequest{
		UserID: userID, Name: name, Description: description,
	}, &created, nil)
	if err != nil {
		return "", r.opts.soften("create_playlist", err, "user", userID, "name", name)
	}
	return created.ID, nil
}

func (r *Remote) FetchUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := r.call(ctx, http.MethodGet, userPath(userID, "/playlists"), nil, &playlists, nil); err != nil {
		return nil, err
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	for i := range playlists {
		playlists[i].Songs = models.Clone(playlists[i].Songs)
	}
	return playlists, nil
}

func (r *Remote) AddSongToPlaylist(ctx context.Context, playlistID string, track models.Track) error {
	if !track.Valid() {
		return shared.ErrInvalidTrack
	}
	err := r.call(ctx, http.MethodPost, playlistPath(playlistID, "/songs"), track, nil, shared.ErrPlaylistNotFound)
	return r.opts.soften("add_song", err, "playlist", playlistID, "video", track.VideoID)
}

func (r *Remote) RemoveSongFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	return r.call(ctx, http.MethodDelete, playlistPath(playlistID, "/songs/"+url.PathEscape(videoID)), nil, nil, shared.ErrPlaylistNotFound)
}

func (r *Remote) UpdatePlaylist(ctx context.Context, playlistID string, update models.PlaylistUpdate) error {
	return r.call(ctx, http.MethodPatch, playlistPath(playlistID, ""), update, nil, shared.ErrPlaylistNotFound)
}

func (r *Remote) DeletePlaylist(ctx context.Context, playlistID string) error {
	return r.call(ctx, http.MethodDelete, playlistPath(playlistID, ""), nil, nil, shared.ErrPlaylistNotFound)
}

// CreateShareRequest is the body of POST /api/shares.
type CreateShareRequest struct {
	OwnerID string         `json:"ownerId"`
	Songs   []models.Track `json:"songs"`
}

func (r *Remote) CreateShare(ctx context.Context, ownerID string, songs []models.Track) (string, error) {
	var created CreatedResponse
	if err := r.call(ctx, http.MethodPost, "/api/shares", CreateShareRequest{OwnerID: ownerID, Songs: models.Clone(songs)}, &created, nil); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", errors.New("server returned an empty share id")
	}
	return created.ID, nil
}

func (r *Remote) GetShare(ctx context.Context, shareID string) (*models.Share, error) {
	var share models.Share
	if err := r.call(ctx, http.MethodGet, "/api/shares/"+url.PathEscape(shareID), nil, &share, shared.ErrShareNotFound); err != nil {
		return nil, err
	}
	share.Songs = models.Clone(share.Songs)
	return &share, nil
}
