package tasks

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/echoplay/internal/library"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
	tu "github.com/desertthunder/echoplay/internal/testing"
)

func newTestEngine(t *testing.T) (*Engine, *library.Store, *tu.MockGateway) {
	t.Helper()
	gw := tu.NewMockGateway()
	store := library.New(gw, library.WithLogger(log.New(io.Discard)))
	return NewEngine(store), store, gw
}

func testUser() *models.User {
	return models.NewUser("u1", "Ada", "", models.ProviderLocal)
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var out []ProgressUpdate
	for {
		select {
		case u := <-ch:
			out = append(out, u)
		default:
			return out
		}
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads every collection", func(t *testing.T) {
		e, store, gw := newTestEngine(t)
		gw.Liked["u1"] = tu.Tracks("a", "b")
		gw.Recent["u1"] = tu.Tracks("r")
		gw.CreatePlaylist(ctx, "u1", "Mine", "")

		progress := make(chan ProgressUpdate, 16)
		result, err := e.Load(ctx, progress, testUser())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Liked != 2 || result.Recent != 1 || result.Playlists != 1 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if len(result.Errors) != 0 || result.Err() != nil {
			t.Errorf("expected no errors, got %v", result.Errors)
		}
		if store.User() == nil || store.User().ID() != "u1" {
			t.Error("expected store to be signed in")
		}

		updates := drain(progress)
		if len(updates) != 6 {
			t.Fatalf("expected 6 updates, got %d", len(updates))
		}
		if updates[0].Phase != FetchLiked || updates[5].Phase != FetchPlaylists {
			t.Errorf("unexpected phase order: %v, %v", updates[0].Phase, updates[5].Phase)
		}
		if updates[1].Message != "Loaded 2 liked songs" {
			t.Errorf("unexpected message %q", updates[1].Message)
		}
	})

	t.Run("failed step does not stop the rest", func(t *testing.T) {
		e, _, gw := newTestEngine(t)
		gw.Recent["u1"] = tu.Tracks("r")
		gw.Errs["FetchLikedSongs"] = errors.New("unavailable")

		result, err := e.Load(ctx, nil, testUser())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Errors) != 1 || result.Errors[0].Phase != FetchLiked {
			t.Fatalf("expected one liked failure, got %+v", result.Errors)
		}
		if result.Recent != 1 {
			t.Errorf("expected recent to load, got %d", result.Recent)
		}
		if result.Err() == nil {
			t.Error("expected joined error")
		}
	})

	t.Run("requires a user", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		if _, err := e.Load(ctx, nil, nil); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		e, _, gw := newTestEngine(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := e.Load(cctx, nil, testUser()); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if gw.Called("FetchLikedSongs") != 0 {
			t.Error("expected no fetches after cancellation")
		}
	})

	t.Run("full progress channel never blocks", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		progress := make(chan ProgressUpdate)
		if _, err := e.Load(ctx, progress, testUser()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPersist(t *testing.T) {
	ctx := context.Background()

	t.Run("saves the library", func(t *testing.T) {
		e, store, gw := newTestEngine(t)
		if _, err := e.Load(ctx, nil, testUser()); err != nil {
			t.Fatal(err)
		}
		store.Like(tu.Track("a"))

		if err := e.Persist(ctx, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertIDs(t, gw.Liked["u1"], "a")
	})

	t.Run("wraps gateway failures", func(t *testing.T) {
		e, _, gw := newTestEngine(t)
		e.Load(ctx, nil, testUser())
		gw.Errs["SaveLikedSongs"] = errors.New("disk full")

		if err := e.Persist(ctx, nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("requires a user", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		if err := e.Persist(ctx, nil); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{FetchLiked, "fetch_liked"},
		{FetchHistory, "fetch_history"},
		{FetchPlaylists, "fetch_playlists"},
		{SaveLibrary, "save_library"},
		{ExportCollection, "export_collection"},
		{Phase(99), ""},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
