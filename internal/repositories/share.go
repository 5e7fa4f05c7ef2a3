package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// ShareRepository stores write-once liked-songs snapshots keyed by share code.
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a new [ShareRepository] with the given database connection
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create stores share under share.ID. Collisions are not checked beyond the primary key.
func (r *ShareRepository) Create(ctx context.Context, share models.Share) error {
	if share.ID == "" || share.OwnerID == "" {
		return fmt.Errorf("%w: share id and owner are required", shared.ErrInvalidInput)
	}

	songs, err := encodeTracks(share.Songs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO shares (id, owner_id, songs, created_at) VALUES (?, ?, ?, ?)",
		share.ID, share.OwnerID, songs, share.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert share: %w", err)
	}
	return nil
}

// Get returns the share stored under id, or [shared.ErrShareNotFound].
func (r *ShareRepository) Get(ctx context.Context, id string) (*models.Share, error) {
	var (
		share models.Share
		songs sql.NullString
	)

	err := r.db.QueryRowContext(ctx, "SELECT id, owner_id, songs, created_at FROM shares WHERE id = ?", id).
		Scan(&share.ID, &share.OwnerID, &songs, &share.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrShareNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query share: %w", err)
	}

	if share.Songs, err = decodeTracks(songs); err != nil {
		return nil, err
	}
	return &share, nil
}
