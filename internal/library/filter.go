package library

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/desertthunder/echoplay/internal/models"
)

type trackSource []models.Track

func (s trackSource) String(i int) string { return s[i].Title + " " + s[i].Artist }
func (s trackSource) Len() int            { return len(s) }

// Filter returns the tracks whose title and artist fuzzily match query, best match first.
// A blank query returns a copy of tracks in their original order.
func Filter(tracks []models.Track, query string) []models.Track {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Clone(tracks)
	}

	matches := fuzzy.FindFrom(query, trackSource(tracks))
	out := make([]models.Track, len(matches))
	for i, m := range matches {
		out[i] = tracks[m.Index]
	}
	return out
}
