package models

import "slices"

// Track is a single playable song identified by its YouTube video id.
//
// Two tracks are the same song when their VideoID matches.
type Track struct {
	VideoID  string `json:"videoId"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	ImageURL string `json:"imageUrl"`
	Duration int    `json:"duration,omitempty"` // seconds, zero when unknown
}

// Valid reports whether the track can be selected for playback.
func (t Track) Valid() bool {
	return t.VideoID != ""
}

// Is reports whether t and o refer to the same video.
func (t Track) Is(o Track) bool {
	return t.VideoID == o.VideoID
}

// WatchURL returns the YouTube watch page for the track.
func (t Track) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + t.VideoID
}

// IndexOf returns the position of videoID in tracks, or -1.
func IndexOf(tracks []Track, videoID string) int {
	return slices.IndexFunc(tracks, func(t Track) bool { return t.VideoID == videoID })
}

// Contains reports whether tracks holds videoID.
func Contains(tracks []Track, videoID string) bool {
	return IndexOf(tracks, videoID) >= 0
}

// Without returns a copy of tracks with every entry for videoID removed.
func Without(tracks []Track, videoID string) []Track {
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.VideoID != videoID {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a copy of tracks that never aliases the input, and never returns nil.
func Clone(tracks []Track) []Track {
	out := make([]Track, len(tracks))
	copy(out, tracks)
	return out
}
