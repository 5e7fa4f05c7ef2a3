package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

const ellipsis = "…"

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// pad right-pads s with spaces to width cells, truncating first when needed.
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// trackLine renders one row of a track list: marker, title, artist, duration.
func trackLine(t models.Track, width int, selected, liked, playing bool) string {
	marker := "  "
	switch {
	case playing:
		marker = "♪ "
	case selected:
		marker = "› "
	}
	heart := " "
	if liked {
		heart = "♥"
	}

	dur := "--:--"
	if t.Duration > 0 {
		dur = shared.FormatDuration(t.Duration)
	}

	avail := width - runewidth.StringWidth(marker) - runewidth.StringWidth(dur) - 4
	if avail < 10 {
		avail = 10
	}
	titleWidth := avail * 3 / 5
	artistWidth := avail - titleWidth

	line := fmt.Sprintf("%s%s %s %s %s", marker, heart, pad(t.Title, titleWidth), pad(t.Artist, artistWidth), dur)
	if selected {
		return styles.selected.Render(line)
	}
	return line
}

// playlistLine renders one row of the playlist list.
func playlistLine(p models.Playlist, width int, selected bool) string {
	marker := "  "
	if selected {
		marker = "› "
	}
	desc := fmt.Sprintf("%d songs", len(p.Songs))
	if p.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, p.Description)
	}
	line := marker + truncate(p.Name+"  ·  "+desc, width-2)
	if selected {
		return styles.selected.Render(line)
	}
	return line
}

// window returns the [start, end) range of a list of n rows that keeps cursor visible in height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

// progressBar renders played/duration as a bar of width cells.
func progressBar(played, duration float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if duration > 0 {
		filled = int(played / duration * float64(width))
	}
	filled = max(0, min(filled, width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}
