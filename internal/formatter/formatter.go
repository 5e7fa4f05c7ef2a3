// package formatter exports track collections to CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat accepts a format name or a common alias ("md", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
	}
}

// Collection is a named list of tracks: the liked songs or a playlist.
type Collection struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tracks      []models.Track `json:"tracks"`
	ExportedAt  time.Time      `json:"exportedAt"`
}

// LikedCollection wraps the liked songs.
func LikedCollection(tracks []models.Track) Collection {
	return Collection{ID: "liked", Name: "Liked Songs", Tracks: models.Clone(tracks), ExportedAt: time.Now().UTC()}
}

// PlaylistCollection wraps a playlist.
func PlaylistCollection(p models.Playlist) Collection {
	return Collection{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Tracks:      models.Clone(p.Songs),
		ExportedAt:  time.Now().UTC(),
	}
}

// Cover returns the thumbnail of the first track that has one.
func (c Collection) Cover() string {
	for _, t := range c.Tracks {
		if t.ImageURL != "" {
			return t.ImageURL
		}
	}
	return ""
}

// ExportToCSV writes one row per track with columns: Video ID, Title, Artist, Duration, URL
func ExportToCSV(c Collection) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Video ID", "Title", "Artist", "Duration", "URL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range c.Tracks {
		record := []string{track.VideoID, track.Title, track.Artist, strconv.Itoa(track.Duration), track.WatchURL()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders c as a Markdown document, with imageFilename as the cover when set.
func ExportToMarkdown(c Collection, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", c.Name)
	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}
	if c.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", c.Description)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(c.Tracks))

	buf.WriteString("## Tracks\n\n")
	for i, track := range c.Tracks {
		fmt.Fprintf(&buf, "%d. [%s - %s](%s)", i+1, track.Artist, track.Title, track.WatchURL())
		if track.Duration > 0 {
			fmt.Fprintf(&buf, " [%s]", shared.FormatDuration(track.Duration))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// ExportToText renders c as a numbered list.
func ExportToText(c Collection) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", c.Name)
	if c.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", c.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(c.Tracks))

	for i, track := range c.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
	}
	return buf.Bytes(), nil
}

// ExportToJSON renders c with two-space indentation.
func ExportToJSON(c Collection) ([]byte, error) {
	return shared.MarshalJSON(c)
}

// Export renders c in format.
func Export(c Collection, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(c)
	case FormatMarkdown:
		return ExportToMarkdown(c, "")
	case FormatText:
		return ExportToText(c)
	default:
		return ExportToJSON(c)
	}
}

// DownloadImage fetches url with client, or a client with a 30 second timeout when nil.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// WriteOptions controls [Write].
type WriteOptions struct {
	Format Format
	// Dir receives the files; it is created when missing.
	Dir string
	// Cover downloads the first thumbnail next to Markdown exports.
	Cover  bool
	Client *http.Client
}

// WriteResult lists the files [Write] created.
type WriteResult struct {
	Files      []string
	CoverImage string
	Warnings   []string
}

// Write exports c into opts.Dir:
//
//   - json: {id}.json
//   - csv: {id}_tracks.csv and {id}_metadata.json
//   - markdown: {id}/README.md, plus {id}/cover.jpg when a cover is requested
//   - txt: {id}_tracks.txt
func Write(ctx context.Context, c Collection, opts WriteOptions) (*WriteResult, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Join(opts.Dir, Filename(c))
	result := &WriteResult{Files: []string{}}

	switch opts.Format {
	case FormatCSV:
		data, err := ExportToCSV(c)
		if err != nil {
			return nil, err
		}
		meta := c
		meta.Tracks = nil
		metaJSON, err := shared.MarshalJSON(meta)
		if err != nil {
			return nil, err
		}
		if err := writeFile(result, base+"_tracks.csv", data); err != nil {
			return nil, err
		}
		if err := writeFile(result, base+"_metadata.json", metaJSON); err != nil {
			return nil, err
		}

	case FormatMarkdown:
		if err := os.MkdirAll(base, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}

		var cover string
		if opts.Cover && c.Cover() != "" {
			img, err := DownloadImage(ctx, opts.Client, c.Cover())
			if err != nil {
				result.Warnings = append(result.Warnings, err.Error())
			} else if err := writeFile(result, filepath.Join(base, "cover.jpg"), img); err != nil {
				result.Warnings = append(result.Warnings, err.Error())
			} else {
				cover = "cover.jpg"
				result.CoverImage = filepath.Join(base, cover)
			}
		}

		data, err := ExportToMarkdown(c, cover)
		if err != nil {
			return nil, err
		}
		if err := writeFile(result, filepath.Join(base, "README.md"), data); err != nil {
			return nil, err
		}

	case FormatText:
		data, err := ExportToText(c)
		if err != nil {
			return nil, err
		}
		if err := writeFile(result, base+"_tracks.txt", data); err != nil {
			return nil, err
		}

	default:
		data, err := ExportToJSON(c)
		if err != nil {
			return nil, err
		}
		if err := writeFile(result, base+".json", data); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func writeFile(result *WriteResult, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	result.Files = append(result.Files, path)
	return nil
}

// Filename derives a filesystem-safe base name for c.
func Filename(c Collection) string {
	name := c.ID
	if name == "" {
		name = c.Name
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		return "collection"
	}
	return name
}

// ManifestEntry records the outcome of one collection export.
type ManifestEntry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Tracks  int      `json:"tracks"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Manifest summarizes a bulk export.
type Manifest struct {
	Format      Format          `json:"format"`
	Directory   string          `json:"directory"`
	ExportedAt  time.Time       `json:"exportedAt"`
	Total       int             `json:"total"`
	Successful  int             `json:"successful"`
	Failed      int             `json:"failed"`
	Collections []ManifestEntry `json:"collections"`
}

// WriteManifest writes m as JSON to path.
func WriteManifest(m Manifest, path string) error {
	data, err := shared.MarshalJSON(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
