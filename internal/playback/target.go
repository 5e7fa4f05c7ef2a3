package playback

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// EmbedBaseURL is the YouTube embed player endpoint.
const EmbedBaseURL = "https://www.youtube.com/embed/"

// Target renders the owner's track. Implementations receive commands only; the owner keeps the state.
type Target interface {
	Name() string
	Load(track models.Track) error
	Play() error
	Pause() error
	SeekTo(seconds float64) error
}

// MemoryTarget is a headless target that records the commands it receives.
// It backs the audio-only and panel modes, whose output is drawn from [State].
type MemoryTarget struct {
	mu       sync.Mutex
	name     string
	track    *models.Track
	playing  bool
	position float64
}

func NewMemoryTarget(name string) *MemoryTarget {
	return &MemoryTarget{name: name}
}

func (t *MemoryTarget) Name() string { return t.name }

func (t *MemoryTarget) Load(track models.Track) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.track = &track
	t.playing = false
	t.position = 0
	return nil
}

func (t *MemoryTarget) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.track == nil {
		return shared.ErrNoTrack
	}
	t.playing = true
	return nil
}

func (t *MemoryTarget) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playing = false
	return nil
}

func (t *MemoryTarget) SeekTo(seconds float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = seconds
	return nil
}

// Playing reports whether the target was last told to play.
func (t *MemoryTarget) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// Position returns the last seek position.
func (t *MemoryTarget) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// Track returns the loaded track's video id, or "".
func (t *MemoryTarget) Track() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.track == nil {
		return ""
	}
	return t.track.VideoID
}

// BrowserTarget plays through the YouTube embed player in the system browser.
//
// The browser cannot be driven once opened, so Play opens the embed at the last seek position
// and Pause only marks the target idle.
type BrowserTarget struct {
	mu       sync.Mutex
	open     func(string) error
	track    *models.Track
	position float64
	opened   string
}

// NewBrowserTarget creates a target that opens urls with open, or [shared.OpenBrowser] when nil.
func NewBrowserTarget(open func(string) error) *BrowserTarget {
	if open == nil {
		open = shared.OpenBrowser
	}
	return &BrowserTarget{open: open}
}

func (t *BrowserTarget) Name() string { return "fullscreen" }

func (t *BrowserTarget) Load(track models.Track) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.track = &track
	t.position = 0
	return nil
}

func (t *BrowserTarget) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.track == nil {
		return shared.ErrNoTrack
	}

	u := EmbedURL(t.track.VideoID, int(t.position))
	if u == t.opened {
		return nil
	}
	if err := t.open(u); err != nil {
		return fmt.Errorf("failed to open player: %w", err)
	}
	t.opened = u
	return nil
}

func (t *BrowserTarget) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opened = ""
	return nil
}

func (t *BrowserTarget) SeekTo(seconds float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = seconds
	return nil
}

// EmbedURL builds an autoplaying embed url for videoID starting at start seconds.
func EmbedURL(videoID string, start int) string {
	q := url.Values{}
	q.Set("autoplay", "1")
	if start > 0 {
		q.Set("start", strconv.Itoa(start))
	}
	return EmbedBaseURL + url.PathEscape(videoID) + "?" + q.Encode()
}
