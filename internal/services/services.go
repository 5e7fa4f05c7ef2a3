// package services defines interface Searcher for finding playable tracks
package services

import (
	"context"

	"github.com/desertthunder/echoplay/internal/models"
)

// Searcher finds tracks for a free-text query.
type Searcher interface {
	// Search returns up to the configured number of normalized tracks for query.
	// An empty query yields no results and no error.
	Search(ctx context.Context, query string) ([]models.Track, error)

	// Name returns the name of the search backend
	Name() string
}
