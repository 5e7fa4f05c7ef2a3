package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/echoplay/internal/gateway"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// DefaultRecentLimit caps the recently played list.
const DefaultRecentLimit = 10

// Store is the session state container. All methods are safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	gw          gateway.Gateway
	logger      *log.Logger
	notices     chan<- Notice
	recentLimit int

	user      *models.User
	current   *models.Track
	liked     []models.Track
	recent    []models.Track
	playlists []models.Playlist
}

// Option configures a [Store].
type Option func(*Store)

// WithRecentLimit overrides [DefaultRecentLimit].
func WithRecentLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithLogger sets the logger for gateway failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithNotices publishes user-facing notices on ch.
func WithNotices(ch chan<- Notice) Option {
	return func(s *Store) { s.notices = ch }
}

// New creates an empty store backed by gw.
func New(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:          gw,
		logger:      log.Default(),
		recentLimit: DefaultRecentLimit,
		liked:       []models.Track{},
		recent:      []models.Track{},
		playlists:   []models.Playlist{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State is a deep copy of the store contents.
type State struct {
	User      *models.User
	Current   *models.Track
	Liked     []models.Track
	Recent    []models.Track
	Playlists []models.Playlist
}

// Snapshot returns a copy of the current state that the caller may keep.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		User:      s.user,
		Liked:     models.Clone(s.liked),
		Recent:    models.Clone(s.recent),
		Playlists: clonePlaylists(s.playlists),
	}
	if s.current != nil {
		c := *s.current
		st.Current = &c
	}
	return st
}

// User returns the signed-in user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Current returns the selected track.
func (s *Store) Current() (models.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Track{}, false
	}
	return *s.current, true
}

// Liked returns a copy of the liked songs.
func (s *Store) Liked() []models.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Clone(s.liked)
}

// Recent returns a copy of the recently played songs, newest first.
func (s *Store) Recent() []models.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Clone(s.recent)
}

// SetUser switches the signed-in user. Switching to a different user drops
// the previous user's collections and current track.
func (s *Store) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && (user == nil || s.user.ID() != user.ID()) {
		s.liked, s.recent, s.playlists = nil, nil, nil
		s.current = nil
	}
	s.user = user
}

// LoadLiked replaces the liked songs with the persisted document.
// The in-memory list is kept when the fetch fails.
func (s *Store) LoadLiked(ctx context.Context) error {
	user := s.User()
	if user == nil {
		return shared.ErrNotAuthenticated
	}
	liked, err := s.gw.FetchLikedSongs(ctx, user.ID())
	if err != nil {
		s.logger.Error("failed to fetch liked songs", "user", user.ID(), "error", err)
		return fmt.Errorf("liked songs: %w", err)
	}
	s.mu.Lock()
	s.liked = dedupe(liked)
	s.mu.Unlock()
	return nil
}

// LoadRecent replaces recently played with the persisted document, capped to the recent limit.
func (s *Store) LoadRecent(ctx context.Context) error {
	user := s.User()
	if user == nil {
		return shared.ErrNotAuthenticated
	}
	recent, err := s.gw.FetchRecentlyPlayed(ctx, user.ID())
	if err != nil {
		s.logger.Error("failed to fetch recently played", "user", user.ID(), "error", err)
		return fmt.Errorf("recently played: %w", err)
	}
	s.mu.Lock()
	s.recent = capped(dedupe(recent), s.recentLimit)
	s.mu.Unlock()
	return nil
}

// Load signs user in to the store and fetches liked songs, recently played
// and playlists. Each part loads independently; failures are joined.
func (s *Store) Load(ctx context.Context, user *models.User) error {
	if user == nil {
		return shared.ErrNotAuthenticated
	}
	s.SetUser(user)

	err := errors.Join(s.LoadLiked(ctx), s.LoadRecent(ctx))
	if perr := s.RefreshPlaylists(ctx); perr != nil {
		err = errors.Join(err, fmt.Errorf("playlists: %w", perr))
	}

	if err != nil {
		s.notify(NoticeError, "Some of your library could not be loaded.")
		return err
	}
	return nil
}

// Persist saves liked songs and recently played as two independent writes.
// It is a no-op when nobody is signed in.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	user := s.user
	liked := models.Clone(s.liked)
	recent := models.Clone(s.recent)
	s.mu.RUnlock()

	if user == nil {
		return nil
	}

	var errs []error
	if err := s.gw.SaveLikedSongs(ctx, user.ID(), liked); err != nil {
		s.logger.Error("failed to save liked songs", "user", user.ID(), "error", err)
		errs = append(errs, fmt.Errorf("liked songs: %w", err))
	}
	if err := s.gw.SaveRecentlyPlayed(ctx, user.ID(), recent); err != nil {
		s.logger.Error("failed to save recently played", "user", user.ID(), "error", err)
		errs = append(errs, fmt.Errorf("recently played: %w", err))
	}
	return errors.Join(errs...)
}

// Clear drops the user and every collection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.current = nil
	s.liked = []models.Track{}
	s.recent = []models.Track{}
	s.playlists = []models.Playlist{}
}

// SelectTrack makes track current and pushes it onto recently played.
func (s *Store) SelectTrack(track models.Track) error {
	if !track.Valid() {
		s.notify(NoticeError, "This song cannot be played: it has no video id.")
		return shared.ErrInvalidTrack
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := track
	s.current = &t
	s.recent = capped(append([]models.Track{track}, models.Without(s.recent, track.VideoID)...), s.recentLimit)
	return nil
}

// IsLiked reports whether videoID is in the liked list.
func (s *Store) IsLiked(videoID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Contains(s.liked, videoID)
}

// ToggleLike removes track when currentlyLiked, otherwise prepends it. It returns the new liked state.
func (s *Store) ToggleLike(track models.Track, currentlyLiked bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if currentlyLiked {
		s.liked = models.Without(s.liked, track.VideoID)
		return false
	}
	s.liked = append([]models.Track{track}, models.Without(s.liked, track.VideoID)...)
	return true
}

// Like toggles track based on whether it is liked now.
func (s *Store) Like(track models.Track) bool {
	return s.ToggleLike(track, s.IsLiked(track.VideoID))
}

// ReorderLiked moves the song at from to to. Out of range indexes leave the list unchanged.
func (s *Store) ReorderLiked(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.liked)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}

	moved := s.liked[from]
	s.liked = slices.Delete(s.liked, from, from+1)
	s.liked = slices.Insert(s.liked, to, moved)
	return true
}

// PrevLiked selects the liked song before the current one.
func (s *Store) PrevLiked() (models.Track, bool) {
	return s.stepLiked(-1)
}

// NextLiked selects the liked song after the current one.
func (s *Store) NextLiked() (models.Track, bool) {
	return s.stepLiked(1)
}

func (s *Store) stepLiked(delta int) (models.Track, bool) {
	s.mu.RLock()
	next, ok := step(s.liked, s.current, delta)
	s.mu.RUnlock()

	if !ok {
		return models.Track{}, false
	}
	if err := s.SelectTrack(next); err != nil {
		return models.Track{}, false
	}
	return next, true
}

// step finds current in tracks and returns the neighbour at delta, if in bounds.
func step(tracks []models.Track, current *models.Track, delta int) (models.Track, bool) {
	if current == nil {
		return models.Track{}, false
	}
	idx := models.IndexOf(tracks, current.VideoID)
	if idx < 0 {
		return models.Track{}, false
	}
	target := idx + delta
	if target < 0 || target >= len(tracks) {
		return models.Track{}, false
	}
	return tracks[target], true
}

// DeleteRecentlyPlayed removes videoID locally, then asks the gateway to remove it.
//
// A gateway failure is reported as a notice and returned; the local removal is kept.
func (s *Store) DeleteRecentlyPlayed(ctx context.Context, videoID string) error {
	s.mu.Lock()
	user := s.user
	if user == nil {
		s.mu.Unlock()
		s.notify(NoticeError, "You must be signed in to delete songs.")
		return shared.ErrNotAuthenticated
	}
	s.recent = models.Without(s.recent, videoID)
	s.mu.Unlock()

	if err := s.gw.RemoveRecentlyPlayed(ctx, user.ID(), videoID); err != nil {
		s.logger.Error("failed to remove recently played", "video", videoID, "error", err)
		s.notify(NoticeError, "Failed to delete song.")
		return err
	}
	s.notify(NoticeSuccess, "Song removed from recently played.")
	return nil
}

// CreateShare snapshots the liked songs and returns the share code.
func (s *Store) CreateShare(ctx context.Context) (string, error) {
	s.mu.RLock()
	user := s.user
	liked := models.Clone(s.liked)
	s.mu.RUnlock()

	if user == nil {
		s.notify(NoticeError, "You must be signed in to share songs.")
		return "", shared.ErrNotAuthenticated
	}
	if len(liked) == 0 {
		s.notify(NoticeError, "You have no liked songs to share.")
		return "", shared.ErrNothingToShare
	}

	id, err := s.gw.CreateShare(ctx, user.ID(), liked)
	if err != nil {
		s.logger.Error("failed to create share", "error", err)
		s.notify(NoticeError, "Failed to create share.")
		return "", err
	}
	s.notify(NoticeSuccess, "Share ID created: "+id)
	return id, nil
}

// ImportShare appends the songs of a share that are not already liked and returns how many were added.
func (s *Store) ImportShare(ctx context.Context, shareID string) (int, error) {
	shareID = strings.TrimSpace(shareID)
	if shareID == "" {
		s.notify(NoticeError, "Please enter a valid Share ID.")
		return 0, fmt.Errorf("%w: share id is required", shared.ErrInvalidInput)
	}

	share, err := s.gw.GetShare(ctx, shareID)
	if err != nil {
		s.logger.Error("failed to import share", "share", shareID, "error", err)
		s.notify(NoticeError, "Failed to import songs.")
		return 0, err
	}
	if len(share.Songs) == 0 {
		s.notify(NoticeError, "No songs found for this Share ID.")
		return 0, shared.ErrShareEmpty
	}

	s.mu.Lock()
	added := 0
	for _, t := range share.Songs {
		if !t.Valid() || models.Contains(s.liked, t.VideoID) {
			continue
		}
		s.liked = append(s.liked, t)
		added++
	}
	s.mu.Unlock()

	s.notify(NoticeSuccess, "Songs imported successfully!")
	return added, nil
}

// dedupe keeps the first entry for each video id.
func dedupe(tracks []models.Track) []models.Track {
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if !models.Contains(out, t.VideoID) {
			out = append(out, t)
		}
	}
	return out
}

func capped(tracks []models.Track, limit int) []models.Track {
	if len(tracks) > limit {
		return tracks[:limit]
	}
	return tracks
}
