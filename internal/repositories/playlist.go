package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// PlaylistRepository stores one document per playlist with soft delete support.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistColumns = "id, user_id, name, description, songs, created_at, updated_at"

// Create inserts a new playlist with a generated ID and sequence, setting playlist.ID.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	songs, err := encodeTracks(playlist.Songs)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO playlists (id, sequence, user_id, name, description, songs, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sequence, playlist.UserID, playlist.Name, playlist.Description, songs, playlist.CreatedAt, playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}
	playlist.ID = id
	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(ctx context.Context, id string) (*models.Playlist, error) {
	return r.get(ctx, r.db, id)
}

func (r *PlaylistRepository) get(ctx context.Context, q querier, id string) (*models.Playlist, error) {
	row := q.QueryRowContext(ctx, "SELECT "+playlistColumns+" FROM playlists WHERE id = ? AND deleted_at IS NULL", id)
	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return playlist, err
}

// List retrieves playlists matching the given criteria ("user_id"), oldest first.
func (r *PlaylistRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Playlist, error) {
	query := "SELECT " + playlistColumns + " FROM playlists WHERE deleted_at IS NULL"
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return playlists, nil
}

// Update changes the name and description of a playlist.
func (r *PlaylistRepository) Update(ctx context.Context, id string, update models.PlaylistUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE playlists SET name = ?, description = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		update.Name, update.Description, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return checkAffected(result, shared.ErrPlaylistNotFound, id)
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return checkAffected(result, shared.ErrPlaylistNotFound, id)
}

// AddSong appends track to the playlist unless a song with the same video id is already present.
func (r *PlaylistRepository) AddSong(ctx context.Context, id string, track models.Track) error {
	return r.mutateSongs(ctx, id, func(songs []models.Track) []models.Track {
		if models.Contains(songs, track.VideoID) {
			return songs
		}
		return append(songs, track)
	})
}

// RemoveSong removes every entry for videoID from the playlist.
func (r *PlaylistRepository) RemoveSong(ctx context.Context, id, videoID string) error {
	return r.mutateSongs(ctx, id, func(songs []models.Track) []models.Track {
		return models.Without(songs, videoID)
	})
}

// mutateSongs applies fn to the song list inside a transaction.
func (r *PlaylistRepository) mutateSongs(ctx context.Context, id string, fn func([]models.Track) []models.Track) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	playlist, err := r.get(ctx, tx, id)
	if err != nil {
		return err
	}

	songs, err := encodeTracks(fn(playlist.Songs))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE playlists SET songs = ?, updated_at = ? WHERE id = ?", songs, time.Now().UTC(), id,
	); err != nil {
		return fmt.Errorf("failed to update playlist songs: %w", err)
	}
	return tx.Commit()
}

func scanPlaylist(s scanner) (*models.Playlist, error) {
	var (
		p     models.Playlist
		songs sql.NullString
	)

	if err := s.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &songs, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	tracks, err := decodeTracks(songs)
	if err != nil {
		return nil, err
	}
	p.Songs = tracks
	return &p, nil
}
