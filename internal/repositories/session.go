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

// SessionRepository persists sign-ins.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, user_id, provider, access_token, refresh_token, expires_at, created_at, deleted_at"

// Create inserts a session with a generated ID.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	session.SetID(shared.GenerateID())

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, provider, access_token, refresh_token, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID(), session.UserID(), session.Provider(), session.AccessToken(), session.RefreshToken(),
		session.ExpiresAt(), session.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get retrieves a live session by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ? AND deleted_at IS NULL", id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	return session, err
}

// Current returns the most recent live session.
func (r *SessionRepository) Current(ctx context.Context) (*models.Session, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT 1")
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSessionNotFound
	}
	return session, err
}

// Delete ends a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE sessions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return checkAffected(result, shared.ErrSessionNotFound, id)
}

// DeleteAll ends every live session, returning how many were ended.
func (r *SessionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "UPDATE sessions SET deleted_at = ? WHERE deleted_at IS NULL", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	return result.RowsAffected()
}

// List returns live sessions, optionally filtered by "user_id".
func (r *SessionRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE deleted_at IS NULL"
	args := []any{}
	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return sessions, nil
}

func scanSession(s scanner) (*models.Session, error) {
	var (
		id, userID, provider, access, refresh string
		expiresAt, deletedAt                  sql.NullTime
		createdAt                             time.Time
	)

	if err := s.Scan(&id, &userID, &provider, &access, &refresh, &expiresAt, &createdAt, &deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session := models.NewSession(userID, provider)
	session.SetID(id)
	session.SetCreatedAt(createdAt)
	session.SetTokens(access, refresh, time.Time{})
	if expiresAt.Valid {
		session.SetExpiresAt(&expiresAt.Time)
	}
	if deletedAt.Valid {
		session.SetDeletedAt(&deletedAt.Time)
	}
	return session, nil
}
