// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Track builds a track whose fields derive from id.
func Track(id string) models.Track {
	return models.Track{
		VideoID:  id,
		Title:    "Song " + strings.ToUpper(id),
		Artist:   "Artist " + strings.ToUpper(id),
		ImageURL: "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
		Duration: 180,
	}
}

// Tracks builds one track per id.
func Tracks(ids ...string) []models.Track {
	out := make([]models.Track, len(ids))
	for i, id := range ids {
		out[i] = Track(id)
	}
	return out
}

// IDs returns the video ids of tracks, in order.
func IDs(tracks []models.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.VideoID
	}
	return out
}

// AssertIDs fails the test when tracks do not hold exactly want, in order.
func AssertIDs(t *testing.T, tracks []models.Track, want ...string) {
	t.Helper()
	got := IDs(tracks)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// MockGateway is an in-memory gateway.Gateway.
//
// Set Errs[method] to make that method fail.
type MockGateway struct {
	mu        sync.Mutex
	Liked     map[string][]models.Track
	Recent    map[string][]models.Track
	Playlists map[string]*models.Playlist
	Shares    map[string]*models.Share
	Errs      map[string]error
	Calls     []string
	nextID    int
}

// NewMockGateway creates an empty MockGateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Liked:     map[string][]models.Track{},
		Recent:    map[string][]models.Track{},
		Playlists: map[string]*models.Playlist{},
		Shares:    map[string]*models.Share{},
		Errs:      map[string]error{},
	}
}

// Called reports how many times method was invoked.
func (m *MockGateway) Called(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *MockGateway) record(method string) error {
	m.Calls = append(m.Calls, method)
	return m.Errs[method]
}

func (m *MockGateway) FetchLikedSongs(ctx context.Context, userID string) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FetchLikedSongs"); err != nil {
		return nil, err
	}
	return models.Clone(m.Liked[userID]), nil
}

func (m *MockGateway) SaveLikedSongs(ctx context.Context, userID string, tracks []models.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SaveLikedSongs"); err != nil {
		return err
	}
	m.Liked[userID] = models.Clone(tracks)
	return nil
}

func (m *MockGateway) FetchRecentlyPlayed(ctx context.Context, userID string) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FetchRecentlyPlayed"); err != nil {
		return nil, err
	}
	return models.Clone(m.Recent[userID]), nil
}

func (m *MockGateway) SaveRecentlyPlayed(ctx context.Context, userID string, tracks []models.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SaveRecentlyPlayed"); err != nil {
		return err
	}
	m.Recent[userID] = models.Clone(tracks)
	return nil
}

func (m *MockGateway) RemoveRecentlyPlayed(ctx context.Context, userID, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RemoveRecentlyPlayed"); err != nil {
		return err
	}
	m.Recent[userID] = models.Without(m.Recent[userID], videoID)
	return nil
}

func (m *MockGateway) CreatePlaylist(ctx context.Context, userID, name, description string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreatePlaylist"); err != nil {
		return "", err
	}
	m.nextID++
	p := models.NewPlaylist(userID, name, description)
	p.ID = fmt.Sprintf("pl-%d", m.nextID)
	p.CreatedAt = p.CreatedAt.Add(time.Duration(m.nextID))
	m.Playlists[p.ID] = &p
	return p.ID, nil
}

func (m *MockGateway) FetchUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FetchUserPlaylists"); err != nil {
		return nil, err
	}
	out := []models.Playlist{}
	for i := 1; i <= m.nextID; i++ {
		if p, ok := m.Playlists[fmt.Sprintf("pl-%d", i)]; ok && p.UserID == userID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (m *MockGateway) playlist(id string) (*models.Playlist, error) {
	p, ok := m.Playlists[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return p, nil
}

func (m *MockGateway) AddSongToPlaylist(ctx context.Context, playlistID string, track models.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AddSongToPlaylist"); err != nil {
		return err
	}
	p, err := m.playlist(playlistID)
	if err != nil {
		return err
	}
	if !models.Contains(p.Songs, track.VideoID) {
		p.Songs = append(p.Songs, track)
	}
	return nil
}

func (m *MockGateway) RemoveSongFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RemoveSongFromPlaylist"); err != nil {
		return err
	}
	p, err := m.playlist(playlistID)
	if err != nil {
		return err
	}
	p.Songs = models.Without(p.Songs, videoID)
	return nil
}

func (m *MockGateway) UpdatePlaylist(ctx context.Context, playlistID string, update models.PlaylistUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdatePlaylist"); err != nil {
		return err
	}
	p, err := m.playlist(playlistID)
	if err != nil {
		return err
	}
	p.Name, p.Description = update.Name, update.Description
	return nil
}

func (m *MockGateway) DeletePlaylist(ctx context.Context, playlistID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeletePlaylist"); err != nil {
		return err
	}
	if _, err := m.playlist(playlistID); err != nil {
		return err
	}
	delete(m.Playlists, playlistID)
	return nil
}

func (m *MockGateway) CreateShare(ctx context.Context, ownerID string, songs []models.Track) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateShare"); err != nil {
		return "", err
	}
	id := fmt.Sprintf("share%05d", len(m.Shares)+1)
	m.Shares[id] = &models.Share{ID: id, OwnerID: ownerID, Songs: models.Clone(songs), CreatedAt: time.Now()}
	return id, nil
}

func (m *MockGateway) GetShare(ctx context.Context, shareID string) (*models.Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetShare"); err != nil {
		return nil, err
	}
	s, ok := m.Shares[shareID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrShareNotFound, shareID)
	}
	c := *s
	c.Songs = models.Clone(s.Songs)
	return &c, nil
}

// MockSearcher returns canned results for services.Searcher.
type MockSearcher struct {
	Results map[string][]models.Track
	Err     error
	Queries []string
}

func (m *MockSearcher) Search(ctx context.Context, query string) ([]models.Track, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return models.Clone(m.Results[query]), nil
}

func (m *MockSearcher) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
