package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Playlists returns a copy of the user's playlists.
func (s *Store) Playlists() []models.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePlaylists(s.playlists)
}

// Playlist returns the playlist with id.
func (s *Store) Playlist(id string) (models.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.playlistIndex(id); i >= 0 {
		return s.playlists[i].Clone(), true
	}
	return models.Playlist{}, false
}

func (s *Store) playlistIndex(id string) int {
	for i, p := range s.playlists {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// RefreshPlaylists re-fetches the user's playlists. On failure the current list is kept.
func (s *Store) RefreshPlaylists(ctx context.Context) error {
	user := s.User()
	if user == nil {
		return shared.ErrNotAuthenticated
	}

	playlists, err := s.gw.FetchUserPlaylists(ctx, user.ID())
	if err != nil {
		s.logger.Error("failed to fetch playlists", "user", user.ID(), "error", err)
		return err
	}

	s.mu.Lock()
	s.playlists = clonePlaylists(playlists)
	s.mu.Unlock()
	return nil
}

// CreatePlaylist creates a playlist for the signed-in user and refreshes the list once the write is acknowledged.
//
// The returned id is empty when the gateway absorbed a failed write.
func (s *Store) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	user := s.User()
	if user == nil {
		s.notify(NoticeError, "You must be signed in to create playlists.")
		return "", shared.ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		s.notify(NoticeError, "Please enter a playlist name.")
		return "", fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	id, err := s.gw.CreatePlaylist(ctx, user.ID(), name, strings.TrimSpace(description))
	if err != nil {
		s.notify(NoticeError, "Failed to create playlist.")
		return "", err
	}

	s.refreshAfterWrite(ctx)
	s.notify(NoticeSuccess, "Playlist created successfully!")
	return id, nil
}

// AddToPlaylist appends track to a playlist unless it is already there.
func (s *Store) AddToPlaylist(ctx context.Context, playlistID string, track models.Track) error {
	if !track.Valid() {
		return shared.ErrInvalidTrack
	}

	playlist, ok := s.Playlist(playlistID)
	if !ok {
		s.notify(NoticeError, "Playlist not found.")
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	if models.Contains(playlist.Songs, track.VideoID) {
		s.notify(NoticeError, "Song already exists in this playlist.")
		return shared.ErrDuplicateTrack
	}

	if err := s.gw.AddSongToPlaylist(ctx, playlistID, track); err != nil {
		s.notify(NoticeError, "Failed to add song to playlist.")
		return err
	}

	s.refreshAfterWrite(ctx)
	s.notify(NoticeSuccess, fmt.Sprintf("Added to %q", playlist.Name))
	return nil
}

// RemoveFromPlaylist removes videoID from a playlist after the gateway acknowledges the write.
func (s *Store) RemoveFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	if err := s.gw.RemoveSongFromPlaylist(ctx, playlistID, videoID); err != nil {
		s.logger.Error("failed to remove song from playlist", "playlist", playlistID, "video", videoID, "error", err)
		s.notify(NoticeError, "Failed to remove song from playlist.")
		return err
	}

	s.mu.Lock()
	if i := s.playlistIndex(playlistID); i >= 0 {
		s.playlists[i].Songs = models.Without(s.playlists[i].Songs, videoID)
	}
	s.mu.Unlock()

	s.refreshAfterWrite(ctx)
	s.notify(NoticeSuccess, "Song removed from playlist!")
	return nil
}

// UpdatePlaylist renames a playlist or changes its description.
func (s *Store) UpdatePlaylist(ctx context.Context, playlistID string, update models.PlaylistUpdate) error {
	update.Name = strings.TrimSpace(update.Name)
	update.Description = strings.TrimSpace(update.Description)
	if err := update.Validate(); err != nil {
		s.notify(NoticeError, "Please enter a playlist name.")
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	if err := s.gw.UpdatePlaylist(ctx, playlistID, update); err != nil {
		s.logger.Error("failed to update playlist", "playlist", playlistID, "error", err)
		s.notify(NoticeError, "Failed to update playlist.")
		return err
	}

	s.mu.Lock()
	if i := s.playlistIndex(playlistID); i >= 0 {
		s.playlists[i].Name = update.Name
		s.playlists[i].Description = update.Description
	}
	s.mu.Unlock()

	s.refreshAfterWrite(ctx)
	s.notify(NoticeSuccess, "Playlist updated successfully!")
	return nil
}

// DeletePlaylist deletes a playlist after the gateway acknowledges the write.
func (s *Store) DeletePlaylist(ctx context.Context, playlistID string) error {
	if err := s.gw.DeletePlaylist(ctx, playlistID); err != nil {
		s.logger.Error("failed to delete playlist", "playlist", playlistID, "error", err)
		s.notify(NoticeError, "Failed to delete playlist.")
		return err
	}

	s.mu.Lock()
	if i := s.playlistIndex(playlistID); i >= 0 {
		s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
	}
	s.mu.Unlock()

	s.refreshAfterWrite(ctx)
	s.notify(NoticeSuccess, "Playlist deleted successfully!")
	return nil
}

// PrevInPlaylist selects the song before the current one in a playlist.
func (s *Store) PrevInPlaylist(playlistID string) (models.Track, bool) {
	return s.stepPlaylist(playlistID, -1)
}

// NextInPlaylist selects the song after the current one in a playlist.
func (s *Store) NextInPlaylist(playlistID string) (models.Track, bool) {
	return s.stepPlaylist(playlistID, 1)
}

func (s *Store) stepPlaylist(playlistID string, delta int) (models.Track, bool) {
	s.mu.RLock()
	i := s.playlistIndex(playlistID)
	if i < 0 {
		s.mu.RUnlock()
		return models.Track{}, false
	}
	next, ok := step(s.playlists[i].Songs, s.current, delta)
	s.mu.RUnlock()

	if !ok {
		return models.Track{}, false
	}
	if err := s.SelectTrack(next); err != nil {
		return models.Track{}, false
	}
	return next, true
}

// refreshAfterWrite re-fetches playlists once a write has been acknowledged.
// A failed refresh keeps the locally updated list.
func (s *Store) refreshAfterWrite(ctx context.Context) {
	if err := s.RefreshPlaylists(ctx); err != nil {
		s.logger.Warn("playlist refresh after write failed", "error", err)
	}
}

func clonePlaylists(in []models.Playlist) []models.Playlist {
	out := make([]models.Playlist, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
