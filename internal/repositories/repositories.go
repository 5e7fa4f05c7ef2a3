package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/echoplay/internal/models"
)

// querier is satisfied by both [sql.DB] and [sql.Tx].
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NextSequence increments and returns the next sequence number for the given table.
//
// Pass a [sql.Tx] to make the increment part of a larger write.
func NextSequence(ctx context.Context, q querier, table string) (int, error) {
	sequenceTable := table + "_sequence"

	if _, err := q.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := q.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}

// encodeTracks serializes a collection, writing an empty array for nil.
func encodeTracks(tracks []models.Track) (string, error) {
	data, err := json.Marshal(models.Clone(tracks))
	if err != nil {
		return "", fmt.Errorf("failed to encode tracks: %w", err)
	}
	return string(data), nil
}

// decodeTracks parses a stored collection; NULL and empty columns decode to an empty list.
func decodeTracks(raw sql.NullString) ([]models.Track, error) {
	if !raw.Valid || raw.String == "" {
		return []models.Track{}, nil
	}
	var tracks []models.Track
	if err := json.Unmarshal([]byte(raw.String), &tracks); err != nil {
		return nil, fmt.Errorf("failed to decode tracks: %w", err)
	}
	return models.Clone(tracks), nil
}

// checkAffected turns a zero-row write into notFound.
func checkAffected(result sql.Result, notFound error, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
