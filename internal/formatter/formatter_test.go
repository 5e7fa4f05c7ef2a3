package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
	tu "github.com/desertthunder/echoplay/internal/testing"
)

func testCollection() Collection {
	p := models.NewPlaylist("user-1", "Road Trip", "Songs for the drive")
	p.ID = "pl-1"
	p.Songs = tu.Tracks("aaa", "bbb")
	p.Songs[1].Duration = 3725
	return PlaylistCollection(p)
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testCollection())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Video ID,Title,Artist,Duration,URL") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "aaa,Song AAA,Artist AAA,180,https://www.youtube.com/watch?v=aaa") {
			t.Errorf("CSV missing first track row, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 3 {
			t.Errorf("expected 3 lines, got %d", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testCollection(), "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Road Trip",
			"![Cover](cover.jpg)",
			"**Description**: Songs for the drive",
			"**Tracks**: 2",
			"1. [Artist AAA - Song AAA](https://www.youtube.com/watch?v=aaa) [3:00]",
			"2. [Artist BBB - Song BBB](https://www.youtube.com/watch?v=bbb) [1:02:05]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown without cover", func(t *testing.T) {
		data, _ := ExportToMarkdown(LikedCollection(nil), "")
		if strings.Contains(string(data), "![Cover]") {
			t.Errorf("expected no cover image, got: %s", data)
		}
		if !strings.Contains(string(data), "# Liked Songs") {
			t.Errorf("expected liked title, got: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testCollection())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Road Trip") {
			t.Errorf("Text missing playlist name")
		}
		if !strings.Contains(output, "2. Artist BBB - Song BBB") {
			t.Errorf("Text missing numbered track, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testCollection())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded Collection
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.ID != "pl-1" || len(decoded.Tracks) != 2 {
			t.Errorf("unexpected decoded collection: %+v", decoded)
		}
	})

	t.Run("collections copy their tracks", func(t *testing.T) {
		tracks := tu.Tracks("a")
		c := LikedCollection(tracks)
		tracks[0].Title = "changed"
		if c.Tracks[0].Title == "changed" {
			t.Error("collection shares its backing array with the caller")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"text", FormatText, false},
		{"txt", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		c    Collection
		want string
	}{
		{"id wins", Collection{ID: "pl-1", Name: "x"}, "pl-1"},
		{"falls back to name", Collection{Name: "My Mix!"}, "My_Mix_"},
		{"empty", Collection{}, "collection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.c); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDownloadImage(t *testing.T) {
	t.Run("empty URL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), nil, ""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg"))
		}))
		defer srv.Close()

		data, err := DownloadImage(context.Background(), srv.Client(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "jpeg" {
			t.Errorf("expected jpeg, got %q", data)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		if _, err := DownloadImage(context.Background(), srv.Client(), srv.URL); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("read failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       &tu.FCloser{},
		}, nil)}

		if _, err := DownloadImage(context.Background(), client, "http://example.invalid/img.jpg"); err == nil {
			t.Error("expected read error")
		}
	})
}

func TestWriters(t *testing.T) {
	ctx := context.Background()

	t.Run("json", func(t *testing.T) {
		dir := t.TempDir()
		result, err := Write(ctx, testCollection(), WriteOptions{Format: FormatJSON, Dir: dir})
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		path := filepath.Join(dir, "pl-1.json")
		tu.AssertFileExists(t, path)
		if len(result.Files) != 1 || result.Files[0] != path {
			t.Errorf("unexpected files: %v", result.Files)
		}
	})

	t.Run("csv", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := Write(ctx, testCollection(), WriteOptions{Format: FormatCSV, Dir: dir}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "pl-1_tracks.csv"))

		meta := tu.MustReadFile(t, filepath.Join(dir, "pl-1_metadata.json"))
		if !strings.Contains(meta, `"name": "Road Trip"`) {
			t.Errorf("metadata missing name: %s", meta)
		}
	})

	t.Run("text", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := Write(ctx, testCollection(), WriteOptions{Format: FormatText, Dir: dir}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "pl-1_tracks.txt"))
	})

	t.Run("markdown with cover", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg"))
		}))
		defer srv.Close()

		c := testCollection()
		c.Tracks[0].ImageURL = srv.URL + "/cover.jpg"

		dir := t.TempDir()
		result, err := Write(ctx, c, WriteOptions{Format: FormatMarkdown, Dir: dir, Cover: true, Client: srv.Client()})
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		readme := tu.MustReadFile(t, filepath.Join(dir, "pl-1", "README.md"))
		if !strings.Contains(readme, "![Cover](cover.jpg)") {
			t.Errorf("README missing cover: %s", readme)
		}
		if result.CoverImage != filepath.Join(dir, "pl-1", "cover.jpg") {
			t.Errorf("unexpected cover path %q", result.CoverImage)
		}
	})

	t.Run("markdown cover failure is a warning", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		c := testCollection()
		c.Tracks[0].ImageURL = srv.URL

		dir := t.TempDir()
		result, err := Write(ctx, c, WriteOptions{Format: FormatMarkdown, Dir: dir, Cover: true, Client: srv.Client()})
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("expected one warning, got %v", result.Warnings)
		}
		readme := tu.MustReadFile(t, filepath.Join(dir, "pl-1", "README.md"))
		if strings.Contains(readme, "![Cover]") {
			t.Error("README should not reference a missing cover")
		}
	})

	t.Run("manifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		m := Manifest{Format: FormatCSV, Total: 2, Successful: 1, Failed: 1, Collections: []ManifestEntry{
			{ID: "liked", Name: "Liked Songs", Tracks: 3, Success: true},
			{ID: "pl-1", Name: "Road Trip", Error: "boom"},
		}}
		if err := WriteManifest(m, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		var decoded Manifest
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &decoded); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if decoded.Failed != 1 || decoded.Collections[1].Error != "boom" {
			t.Errorf("unexpected manifest: %+v", decoded)
		}
	})
}
