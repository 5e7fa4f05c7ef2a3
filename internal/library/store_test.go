package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
	tu "github.com/desertthunder/echoplay/internal/testing"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *tu.MockGateway, chan Notice) {
	t.Helper()
	gw := tu.NewMockGateway()
	notices := make(chan Notice, 16)
	opts = append([]Option{WithLogger(log.New(io.Discard)), WithNotices(notices)}, opts...)
	return New(gw, opts...), gw, notices
}

func signedIn(t *testing.T, s *Store) *models.User {
	t.Helper()
	user := models.NewUser("u1", "Ada", "", models.ProviderLocal)
	if err := s.Load(context.Background(), user); err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	return user
}

func lastNotice(t *testing.T, ch chan Notice) Notice {
	t.Helper()
	var n Notice
	found := false
	for {
		select {
		case n = <-ch:
			found = true
		default:
			if !found {
				t.Fatal("expected a notice")
			}
			return n
		}
	}
}

func TestSelectTrack(t *testing.T) {
	t.Run("sets current and pushes recent", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		if err := s.SelectTrack(tu.Track("a")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.SelectTrack(tu.Track("b")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		current, ok := s.Current()
		if !ok || current.VideoID != "b" {
			t.Errorf("expected current b, got %v", current)
		}
		tu.AssertIDs(t, s.Recent(), "b", "a")
	})

	t.Run("reselecting moves to front without duplicates", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		for _, id := range []string{"a", "b", "c", "a"} {
			s.SelectTrack(tu.Track(id))
		}
		tu.AssertIDs(t, s.Recent(), "a", "c", "b")
	})

	t.Run("recent is capped at ten and unique", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		for i := range 25 {
			s.SelectTrack(tu.Track(fmt.Sprintf("v%d", i%13)))
		}

		recent := s.Recent()
		if len(recent) > DefaultRecentLimit {
			t.Fatalf("expected at most %d entries, got %d", DefaultRecentLimit, len(recent))
		}
		seen := map[string]bool{}
		for _, tr := range recent {
			if seen[tr.VideoID] {
				t.Fatalf("duplicate %s in %v", tr.VideoID, tu.IDs(recent))
			}
			seen[tr.VideoID] = true
		}
		if recent[0].VideoID != "v11" {
			t.Errorf("expected newest first, got %s", recent[0].VideoID)
		}
	})

	t.Run("custom limit", func(t *testing.T) {
		s, _, _ := newTestStore(t, WithRecentLimit(2))
		for _, id := range []string{"a", "b", "c"} {
			s.SelectTrack(tu.Track(id))
		}
		tu.AssertIDs(t, s.Recent(), "c", "b")
	})

	t.Run("missing video id is rejected", func(t *testing.T) {
		s, _, notices := newTestStore(t)
		s.SelectTrack(tu.Track("a"))

		err := s.SelectTrack(models.Track{Title: "broken"})
		if !errors.Is(err, shared.ErrInvalidTrack) {
			t.Fatalf("expected ErrInvalidTrack, got %v", err)
		}
		if current, _ := s.Current(); current.VideoID != "a" {
			t.Errorf("current should be unchanged, got %v", current)
		}
		tu.AssertIDs(t, s.Recent(), "a")
		if n := lastNotice(t, notices); n.Level != NoticeError {
			t.Errorf("expected error notice, got %v", n)
		}
	})
}

func TestToggleLike(t *testing.T) {
	t.Run("prepends when not liked", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.ToggleLike(tu.Track("a"), false)
		liked := s.ToggleLike(tu.Track("b"), false)
		if !liked {
			t.Error("expected liked state")
		}
		tu.AssertIDs(t, s.Liked(), "b", "a")
	})

	t.Run("two toggles restore the list", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		for _, id := range []string{"c", "b", "a"} {
			s.ToggleLike(tu.Track(id), false)
		}
		before := tu.IDs(s.Liked())

		track := tu.Track("x")
		s.ToggleLike(track, s.IsLiked(track.VideoID))
		s.ToggleLike(track, s.IsLiked(track.VideoID))

		tu.AssertIDs(t, s.Liked(), before...)
	})

	t.Run("Like flips based on membership", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		if !s.Like(tu.Track("a")) {
			t.Error("first Like should like")
		}
		if s.Like(tu.Track("a")) {
			t.Error("second Like should unlike")
		}
		if len(s.Liked()) != 0 {
			t.Errorf("expected empty liked, got %v", tu.IDs(s.Liked()))
		}
	})

	t.Run("stale flag never duplicates", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.ToggleLike(tu.Track("a"), false)
		s.ToggleLike(tu.Track("a"), false)
		tu.AssertIDs(t, s.Liked(), "a")
	})
}

func TestReorderLiked(t *testing.T) {
	setup := func(t *testing.T) *Store {
		s, _, _ := newTestStore(t)
		for _, id := range []string{"c", "b", "a"} {
			s.ToggleLike(tu.Track(id), false)
		}
		return s
	}

	tc := []struct {
		name     string
		from, to int
		want     []string
		moved    bool
	}{
		{name: "forward", from: 0, to: 2, want: []string{"b", "c", "a"}, moved: true},
		{name: "backward", from: 2, to: 0, want: []string{"c", "a", "b"}, moved: true},
		{name: "destination out of range", from: 0, to: 5, want: []string{"a", "b", "c"}},
		{name: "negative destination", from: 1, to: -1, want: []string{"a", "b", "c"}},
		{name: "source out of range", from: 3, to: 0, want: []string{"a", "b", "c"}},
		{name: "same index", from: 1, to: 1, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			s := setup(t)
			if moved := s.ReorderLiked(tt.from, tt.to); moved != tt.moved {
				t.Errorf("moved = %v, want %v", moved, tt.moved)
			}
			tu.AssertIDs(t, s.Liked(), tt.want...)
		})
	}
}

func TestPrevNextLiked(t *testing.T) {
	setup := func(t *testing.T, current string) *Store {
		s, _, _ := newTestStore(t)
		for _, id := range []string{"c", "b", "a"} {
			s.ToggleLike(tu.Track(id), false)
		}
		if current != "" {
			s.SelectTrack(tu.Track(current))
		}
		return s
	}

	t.Run("next from middle", func(t *testing.T) {
		s := setup(t, "b")
		next, ok := s.NextLiked()
		if !ok || next.VideoID != "c" {
			t.Errorf("expected c, got %v %v", next.VideoID, ok)
		}
		if current, _ := s.Current(); current.VideoID != "c" {
			t.Errorf("expected current c, got %s", current.VideoID)
		}
	})

	t.Run("prev from middle", func(t *testing.T) {
		s := setup(t, "b")
		prev, ok := s.PrevLiked()
		if !ok || prev.VideoID != "a" {
			t.Errorf("expected a, got %v %v", prev.VideoID, ok)
		}
	})

	t.Run("prev at first is a no-op", func(t *testing.T) {
		s := setup(t, "a")
		if _, ok := s.PrevLiked(); ok {
			t.Error("expected no movement")
		}
		if current, _ := s.Current(); current.VideoID != "a" {
			t.Errorf("expected current a, got %s", current.VideoID)
		}
	})

	t.Run("next at last is a no-op", func(t *testing.T) {
		s := setup(t, "c")
		if _, ok := s.NextLiked(); ok {
			t.Error("expected no movement")
		}
	})

	t.Run("current not liked", func(t *testing.T) {
		s := setup(t, "z")
		if _, ok := s.NextLiked(); ok {
			t.Error("expected no movement")
		}
		if current, _ := s.Current(); current.VideoID != "z" {
			t.Errorf("expected current z, got %s", current.VideoID)
		}
	})

	t.Run("no current", func(t *testing.T) {
		s := setup(t, "")
		if _, ok := s.NextLiked(); ok {
			t.Error("expected no movement")
		}
	})

	t.Run("moving pushes recent", func(t *testing.T) {
		s := setup(t, "a")
		s.NextLiked()
		tu.AssertIDs(t, s.Recent(), "b", "a")
	})
}

func TestLoadPersistClear(t *testing.T) {
	ctx := context.Background()

	t.Run("Load fetches collections", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		gw.Liked["u1"] = tu.Tracks("a", "b", "a")
		gw.Recent["u1"] = tu.Tracks("r1")
		gw.CreatePlaylist(ctx, "u1", "Mine", "")
		gw.CreatePlaylist(ctx, "u2", "Theirs", "")

		signedIn(t, s)

		tu.AssertIDs(t, s.Liked(), "a", "b")
		tu.AssertIDs(t, s.Recent(), "r1")
		if ps := s.Playlists(); len(ps) != 1 || ps[0].Name != "Mine" {
			t.Errorf("expected only the user's playlist, got %+v", ps)
		}
	})

	t.Run("Load without document yields empty collections", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		signedIn(t, s)
		if len(s.Liked()) != 0 || len(s.Recent()) != 0 {
			t.Error("expected empty collections")
		}
	})

	t.Run("Load continues past a failed fetch", func(t *testing.T) {
		s, gw, notices := newTestStore(t)
		gw.Recent["u1"] = tu.Tracks("r1")
		gw.Errs["FetchLikedSongs"] = errors.New("unavailable")

		err := s.Load(ctx, models.NewUser("u1", "Ada", "", models.ProviderLocal))
		if err == nil {
			t.Fatal("expected load error")
		}
		tu.AssertIDs(t, s.Recent(), "r1")
		if s.User() == nil {
			t.Error("user should be signed in despite fetch error")
		}
		if n := lastNotice(t, notices); n.Level != NoticeError {
			t.Errorf("expected error notice, got %v", n)
		}
	})

	t.Run("Load requires a user", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		if err := s.Load(ctx, nil); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Persist writes both collections", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		signedIn(t, s)
		s.ToggleLike(tu.Track("a"), false)
		s.SelectTrack(tu.Track("b"))

		if err := s.Persist(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertIDs(t, gw.Liked["u1"], "a")
		tu.AssertIDs(t, gw.Recent["u1"], "b")
	})

	t.Run("Persist writes are independent", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		signedIn(t, s)
		s.SelectTrack(tu.Track("b"))
		gw.Errs["SaveLikedSongs"] = errors.New("denied")

		if err := s.Persist(ctx); err == nil {
			t.Fatal("expected error")
		}
		tu.AssertIDs(t, gw.Recent["u1"], "b")
	})

	t.Run("Persist signed out is a no-op", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		s.ToggleLike(tu.Track("a"), false)
		if err := s.Persist(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gw.Called("SaveLikedSongs") != 0 {
			t.Error("nothing should be saved while signed out")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		signedIn(t, s)
		s.SelectTrack(tu.Track("a"))
		s.ToggleLike(tu.Track("a"), false)

		s.Clear()
		st := s.Snapshot()
		if st.User != nil || st.Current != nil || len(st.Liked) != 0 || len(st.Recent) != 0 || len(st.Playlists) != 0 {
			t.Errorf("expected empty state, got %+v", st)
		}
	})

	t.Run("Snapshot is a copy", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.ToggleLike(tu.Track("a"), false)
		st := s.Snapshot()
		st.Liked[0].VideoID = "mutated"
		tu.AssertIDs(t, s.Liked(), "a")
	})
}

func TestDeleteRecentlyPlayed(t *testing.T) {
	ctx := context.Background()

	t.Run("removes locally and remotely", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		signedIn(t, s)
		s.SelectTrack(tu.Track("a"))
		s.SelectTrack(tu.Track("b"))
		s.Persist(ctx)

		if err := s.DeleteRecentlyPlayed(ctx, "a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertIDs(t, s.Recent(), "b")
		tu.AssertIDs(t, gw.Recent["u1"], "b")
	})

	t.Run("remote failure keeps local removal", func(t *testing.T) {
		s, gw, notices := newTestStore(t)
		signedIn(t, s)
		s.SelectTrack(tu.Track("a"))
		gw.Errs["RemoveRecentlyPlayed"] = errors.New("offline")

		if err := s.DeleteRecentlyPlayed(ctx, "a"); err == nil {
			t.Fatal("expected error")
		}
		if len(s.Recent()) != 0 {
			t.Errorf("local removal should be kept, got %v", tu.IDs(s.Recent()))
		}
		if n := lastNotice(t, notices); n.Level != NoticeError {
			t.Errorf("expected error notice, got %v", n)
		}
	})

	t.Run("requires sign in", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		s.SelectTrack(tu.Track("a"))

		if err := s.DeleteRecentlyPlayed(ctx, "a"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if gw.Called("RemoveRecentlyPlayed") != 0 {
			t.Error("gateway should not be called")
		}
		tu.AssertIDs(t, s.Recent(), "a")
	})
}

func TestShares(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateShare", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		signedIn(t, s)
		s.ToggleLike(tu.Track("a"), false)

		id, err := s.CreateShare(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if share := gw.Shares[id]; share == nil || share.OwnerID != "u1" {
			t.Errorf("unexpected share %+v", share)
		}
	})

	t.Run("CreateShare with nothing liked", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		signedIn(t, s)
		if _, err := s.CreateShare(ctx); !errors.Is(err, shared.ErrNothingToShare) {
			t.Errorf("expected ErrNothingToShare, got %v", err)
		}
	})

	t.Run("CreateShare signed out", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.ToggleLike(tu.Track("a"), false)
		if _, err := s.CreateShare(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("ImportShare appends unseen songs", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		gw.Shares["abcdefghij"] = &models.Share{ID: "abcdefghij", Songs: tu.Tracks("b", "c", "d")}
		s.ToggleLike(tu.Track("b"), false)
		s.ToggleLike(tu.Track("a"), false)

		added, err := s.ImportShare(ctx, "  abcdefghij ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added != 2 {
			t.Errorf("expected 2 added, got %d", added)
		}
		tu.AssertIDs(t, s.Liked(), "a", "b", "c", "d")
	})

	t.Run("ImportShare empty id", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		if _, err := s.ImportShare(ctx, "   "); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if gw.Called("GetShare") != 0 {
			t.Error("gateway should not be called")
		}
	})

	t.Run("ImportShare unknown id", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		if _, err := s.ImportShare(ctx, "nope"); !errors.Is(err, shared.ErrShareNotFound) {
			t.Errorf("expected ErrShareNotFound, got %v", err)
		}
	})

	t.Run("ImportShare empty share", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		gw.Shares["empty00000"] = &models.Share{ID: "empty00000"}
		if _, err := s.ImportShare(ctx, "empty00000"); !errors.Is(err, shared.ErrShareEmpty) {
			t.Errorf("expected ErrShareEmpty, got %v", err)
		}
	})
}

func TestNoticesNeverBlock(t *testing.T) {
	gw := tu.NewMockGateway()
	notices := make(chan Notice)
	s := New(gw, WithNotices(notices), WithLogger(log.New(io.Discard)))

	done := make(chan struct{})
	go func() {
		s.SelectTrack(models.Track{})
		close(done)
	}()
	<-done
}

func TestSetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("same user keeps state", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		gw.Liked["u1"] = tu.Tracks("a")
		user := signedIn(t, s)
		s.SelectTrack(tu.Track("x"))

		s.SetUser(user)
		tu.AssertIDs(t, s.Liked(), "a")
		if _, ok := s.Current(); !ok {
			t.Error("expected current track to survive")
		}
	})

	t.Run("different user drops state", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		gw.Liked["u1"] = tu.Tracks("a")
		signedIn(t, s)

		s.SetUser(models.NewUser("u2", "Grace", "", models.ProviderLocal))
		if len(s.Liked()) != 0 {
			t.Errorf("expected empty liked songs, got %v", tu.IDs(s.Liked()))
		}
		if _, ok := s.Current(); ok {
			t.Error("expected no current track")
		}
	})

	t.Run("LoadLiked keeps list on failure", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		gw.Liked["u1"] = tu.Tracks("a", "b")
		signedIn(t, s)
		gw.Errs["FetchLikedSongs"] = errors.New("unavailable")

		if err := s.LoadLiked(ctx); err == nil {
			t.Fatal("expected error")
		}
		tu.AssertIDs(t, s.Liked(), "a", "b")
	})

	t.Run("LoadRecent requires a user", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		if err := s.LoadRecent(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
