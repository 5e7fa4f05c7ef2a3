package services

import (
	"regexp"
	"strings"
)

// Fallbacks used when the heuristics leave nothing behind.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
)

var (
	titleNoise = []*regexp.Regexp{
		regexp.MustCompile(`\(.*?\)`),
		regexp.MustCompile(`\[.*?\]`),
		regexp.MustCompile(`(?i)official\s*video`),
		regexp.MustCompile(`(?i)title\s*song`),
		regexp.MustCompile(`(?i)full\s*video`),
		regexp.MustCompile(`(?i)lyric\s*video`),
		regexp.MustCompile(`(?i)audio`),
		regexp.MustCompile(`\|.*$`),
	}

	channelNoise = []*regexp.Regexp{
		regexp.MustCompile(`(?i)vevo`),
		regexp.MustCompile(`(?i)-\s*topic`),
	}

	spaces = regexp.MustCompile(`\s+`)
)

// CleanTitle strips bracketed segments, promotional phrases and anything after a pipe.
func CleanTitle(title string) string {
	for _, re := range titleNoise {
		title = re.ReplaceAllString(title, "")
	}
	return strings.TrimSpace(spaces.ReplaceAllString(title, " "))
}

// CleanChannel strips uploader suffixes such as "VEVO" and "- Topic".
func CleanChannel(channel string) string {
	for _, re := range channelNoise {
		channel = re.ReplaceAllString(channel, "")
	}
	return strings.TrimSpace(channel)
}

// ParseSongAndArtist returns the display title and artist for a search result.
//
// The raw title is used when cleanup empties it, then [UnknownTitle]; an empty channel becomes [UnknownArtist].
func ParseSongAndArtist(rawTitle, channel string) (string, string) {
	song := CleanTitle(rawTitle)
	if song == "" {
		song = strings.TrimSpace(rawTitle)
	}
	if song == "" {
		song = UnknownTitle
	}

	artist := CleanChannel(channel)
	if artist == "" {
		artist = UnknownArtist
	}
	return song, artist
}
