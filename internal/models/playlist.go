package models

import (
	"fmt"
	"strings"
	"time"
)

// Playlist is a named, user-owned, ordered collection of tracks.
type Playlist struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Songs       []Track   `json:"songs"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewPlaylist builds a playlist owned by userID with trimmed name and description and no songs.
func NewPlaylist(userID, name, description string) Playlist {
	now := time.Now().UTC()
	return Playlist{
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Songs:       []Track{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks the fields required to persist the playlist.
func (p Playlist) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("playlist user id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}

// Clone returns a deep copy of the playlist.
func (p Playlist) Clone() Playlist {
	p.Songs = Clone(p.Songs)
	return p
}

// PlaylistUpdate carries the editable playlist fields.
type PlaylistUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks that the update leaves the playlist with a name.
func (u PlaylistUpdate) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}
