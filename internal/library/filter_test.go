package library

import (
	"testing"

	"github.com/desertthunder/echoplay/internal/models"
	tu "github.com/desertthunder/echoplay/internal/testing"
)

func TestFilter(t *testing.T) {
	tracks := []models.Track{
		{VideoID: "1", Title: "Bohemian Rhapsody", Artist: "Queen"},
		{VideoID: "2", Title: "Hey Jude", Artist: "The Beatles"},
		{VideoID: "3", Title: "Under Pressure", Artist: "Queen"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"blank keeps order", "  ", []string{"1", "2", "3"}},
		{"matches artist", "queen", []string{"1", "3"}},
		{"matches title", "jude", []string{"2"}},
		{"fuzzy", "bhrhp", []string{"1"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tracks, tt.query)
			if tt.name == "matches artist" {
				if len(got) != 2 || models.Contains(got, "2") {
					t.Errorf("expected both Queen songs, got %v", tu.IDs(got))
				}
				return
			}
			tu.AssertIDs(t, got, tt.want...)
		})
	}
}
