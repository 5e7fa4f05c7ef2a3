package library

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
	tu "github.com/desertthunder/echoplay/internal/testing"
)

func TestPlaylists(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatePlaylist refreshes after write", func(t *testing.T) {
		s, gw, notices := newTestStore(t)
		signedIn(t, s)

		id, err := s.CreatePlaylist(ctx, "  Road Trip ", " summer ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		p, ok := s.Playlist(id)
		if !ok {
			t.Fatalf("playlist %s should be loaded", id)
		}
		if p.Name != "Road Trip" || p.Description != "summer" {
			t.Errorf("unexpected playlist %+v", p)
		}
		if gw.Called("FetchUserPlaylists") != 2 {
			t.Errorf("expected a refresh after the write, got %d fetches", gw.Called("FetchUserPlaylists"))
		}
		if n := lastNotice(t, notices); n.Level != NoticeSuccess {
			t.Errorf("expected success notice, got %v", n)
		}
	})

	t.Run("CreatePlaylist validation", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		if _, err := s.CreatePlaylist(ctx, "Mix", ""); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}

		signedIn(t, s)
		if _, err := s.CreatePlaylist(ctx, "   ", ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if gw.Called("CreatePlaylist") != 0 {
			t.Error("gateway should not be called for invalid input")
		}
	})

	t.Run("AddToPlaylist", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		signedIn(t, s)
		id, _ := s.CreatePlaylist(ctx, "Mix", "")

		if err := s.AddToPlaylist(ctx, id, tu.Track("a")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, _ := s.Playlist(id)
		tu.AssertIDs(t, p.Songs, "a")
		tu.AssertIDs(t, gw.Playlists[id].Songs, "a")
	})

	t.Run("AddToPlaylist duplicate", func(t *testing.T) {
		s, gw, notices := newTestStore(t)
		signedIn(t, s)
		id, _ := s.CreatePlaylist(ctx, "Mix", "")
		s.AddToPlaylist(ctx, id, tu.Track("a"))
		calls := gw.Called("AddSongToPlaylist")

		if err := s.AddToPlaylist(ctx, id, tu.Track("a")); !errors.Is(err, shared.ErrDuplicateTrack) {
			t.Fatalf("expected ErrDuplicateTrack, got %v", err)
		}
		if gw.Called("AddSongToPlaylist") != calls {
			t.Error("duplicate should not reach the gateway")
		}
		if n := lastNotice(t, notices); n.Message != "Song already exists in this playlist." {
			t.Errorf("unexpected notice %v", n)
		}
	})

	t.Run("AddToPlaylist unknown playlist", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		signedIn(t, s)
		if err := s.AddToPlaylist(ctx, "missing", tu.Track("a")); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("RemoveFromPlaylist", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		signedIn(t, s)
		id, _ := s.CreatePlaylist(ctx, "Mix", "")
		s.AddToPlaylist(ctx, id, tu.Track("a"))
		s.AddToPlaylist(ctx, id, tu.Track("b"))

		if err := s.RemoveFromPlaylist(ctx, id, "a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, _ := s.Playlist(id)
		tu.AssertIDs(t, p.Songs, "b")
	})

	t.Run("RemoveFromPlaylist failure keeps songs", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		signedIn(t, s)
		id, _ := s.CreatePlaylist(ctx, "Mix", "")
		s.AddToPlaylist(ctx, id, tu.Track("a"))
		gw.Errs["RemoveSongFromPlaylist"] = errors.New("denied")

		if err := s.RemoveFromPlaylist(ctx, id, "a"); err == nil {
			t.Fatal("expected error")
		}
		p, _ := s.Playlist(id)
		tu.AssertIDs(t, p.Songs, "a")
	})

	t.Run("UpdatePlaylist", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		signedIn(t, s)
		id, _ := s.CreatePlaylist(ctx, "Mix", "")

		if err := s.UpdatePlaylist(ctx, id, models.PlaylistUpdate{Name: " Focus ", Description: "deep"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, _ := s.Playlist(id)
		if p.Name != "Focus" || p.Description != "deep" {
			t.Errorf("unexpected playlist %+v", p)
		}

		if err := s.UpdatePlaylist(ctx, id, models.PlaylistUpdate{Name: " "}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		signedIn(t, s)
		id, _ := s.CreatePlaylist(ctx, "Mix", "")
		s.CreatePlaylist(ctx, "Keep", "")

		if err := s.DeletePlaylist(ctx, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := s.Playlist(id); ok {
			t.Error("playlist should be gone")
		}
		if len(s.Playlists()) != 1 {
			t.Errorf("expected 1 playlist, got %d", len(s.Playlists()))
		}
	})

	t.Run("RefreshPlaylists failure keeps list", func(t *testing.T) {
		s, gw, _ := newTestStore(t)
		signedIn(t, s)
		s.CreatePlaylist(ctx, "Mix", "")
		gw.Errs["FetchUserPlaylists"] = errors.New("offline")

		if err := s.RefreshPlaylists(ctx); err == nil {
			t.Fatal("expected error")
		}
		if len(s.Playlists()) != 1 {
			t.Error("existing playlists should be kept")
		}
	})

	t.Run("Prev and next in playlist", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		signedIn(t, s)
		id, _ := s.CreatePlaylist(ctx, "Mix", "")
		for _, v := range []string{"a", "b", "c"} {
			s.AddToPlaylist(ctx, id, tu.Track(v))
		}
		s.SelectTrack(tu.Track("b"))

		if next, ok := s.NextInPlaylist(id); !ok || next.VideoID != "c" {
			t.Errorf("expected c, got %v %v", next.VideoID, ok)
		}
		if _, ok := s.NextInPlaylist(id); ok {
			t.Error("expected no-op at end")
		}
		if prev, ok := s.PrevInPlaylist(id); !ok || prev.VideoID != "b" {
			t.Errorf("expected b, got %v %v", prev.VideoID, ok)
		}
		if _, ok := s.NextInPlaylist("missing"); ok {
			t.Error("unknown playlist should be a no-op")
		}
	})
}
