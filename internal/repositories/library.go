package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/echoplay/internal/models"
)

// Library document fields
const (
	FieldLikedSongs     = "liked_songs"
	FieldRecentlyPlayed = "recently_played"
)

// LibraryRepository stores the per-user document holding the liked and recently played collections.
//
// Each save merges a single field into the document and leaves the other untouched.
type LibraryRepository struct {
	db *sql.DB
}

// NewLibraryRepository creates a new [LibraryRepository] with the given database connection
func NewLibraryRepository(db *sql.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// Fetch returns one collection for userID. A missing document yields an empty list.
func (r *LibraryRepository) Fetch(ctx context.Context, userID, field string) ([]models.Track, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}

	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT %s FROM user_documents WHERE user_id = ?", field), userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Track{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	return decodeTracks(raw)
}

// Save replaces one collection in the document for userID, creating the document if needed.
func (r *LibraryRepository) Save(ctx context.Context, userID, field string, tracks []models.Track) error {
	if err := checkField(field); err != nil {
		return err
	}

	encoded, err := encodeTracks(tracks)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO user_documents (user_id, %[1]s, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET %[1]s = excluded.%[1]s, updated_at = excluded.updated_at
	`, field)
	if _, err := r.db.ExecContext(ctx, query, userID, encoded, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save %s: %w", field, err)
	}
	return nil
}

// FetchLiked returns the liked songs for userID.
func (r *LibraryRepository) FetchLiked(ctx context.Context, userID string) ([]models.Track, error) {
	return r.Fetch(ctx, userID, FieldLikedSongs)
}

// SaveLiked merges the liked songs into the document for userID.
func (r *LibraryRepository) SaveLiked(ctx context.Context, userID string, tracks []models.Track) error {
	return r.Save(ctx, userID, FieldLikedSongs, tracks)
}

// FetchRecent returns the recently played songs for userID.
func (r *LibraryRepository) FetchRecent(ctx context.Context, userID string) ([]models.Track, error) {
	return r.Fetch(ctx, userID, FieldRecentlyPlayed)
}

// SaveRecent merges the recently played songs into the document for userID.
func (r *LibraryRepository) SaveRecent(ctx context.Context, userID string, tracks []models.Track) error {
	return r.Save(ctx, userID, FieldRecentlyPlayed, tracks)
}

// RemoveRecent drops videoID from the recently played list of userID.
func (r *LibraryRepository) RemoveRecent(ctx context.Context, userID, videoID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw sql.NullString
	err = tx.QueryRowContext(ctx, "SELECT recently_played FROM user_documents WHERE user_id = ?", userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read recently_played: %w", err)
	}

	tracks, err := decodeTracks(raw)
	if err != nil {
		return err
	}
	encoded, err := encodeTracks(models.Without(tracks, videoID))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE user_documents SET recently_played = ?, updated_at = ? WHERE user_id = ?",
		encoded, time.Now().UTC(), userID,
	); err != nil {
		return fmt.Errorf("failed to save recently_played: %w", err)
	}
	return tx.Commit()
}

func checkField(field string) error {
	switch field {
	case FieldLikedSongs, FieldRecentlyPlayed:
		return nil
	default:
		return fmt.Errorf("unknown library field %q", field)
	}
}
