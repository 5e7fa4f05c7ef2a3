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

// UserRepository implements [models.Repository] for [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, sequence, email, name, provider, created_at, updated_at, deleted_at"

// Create inserts a user under its provider-assigned id.
//
// Signing in again with the same identity refreshes the name and email and restores a deleted row.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var sequence int
	err = tx.QueryRowContext(ctx, "SELECT sequence FROM users WHERE id = ?", user.ID()).Scan(&sequence)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if sequence, err = NextSequence(ctx, tx, "users"); err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, sequence, email, name, provider, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			user.ID(), sequence, user.Email(), user.Name(), user.Provider(), user.CreatedAt(), user.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to query user: %w", err)
	default:
		now := time.Now().UTC()
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET email = ?, name = ?, updated_at = ?, deleted_at = NULL WHERE id = ?`,
			user.Email(), user.Name(), now, user.ID(),
		)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		user.SetUpdatedAt(now)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	user.SetSequence(sequence)
	user.SetDeletedAt(nil)
	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? AND deleted_at IS NULL", id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}
	return user, err
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE users SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(result, shared.ErrUserNotFound, id)
}

// List retrieves all users matching the given criteria ("provider", "email"), excluding soft-deleted users
func (r *UserRepository) List(ctx context.Context, criteria map[string]any) ([]*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE deleted_at IS NULL"
	args := []any{}

	if provider, ok := criteria["provider"].(string); ok && provider != "" {
		query += " AND provider = ?"
		args = append(args, provider)
	}
	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return users, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	var (
		id, email, name, provider string
		sequence                  int
		createdAt, updatedAt      time.Time
		deletedAt                 sql.NullTime
	)

	if err := s.Scan(&id, &sequence, &email, &name, &provider, &createdAt, &updatedAt, &deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := models.NewUser(id, name, email, provider)
	user.SetSequence(sequence)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}
	return user, nil
}
