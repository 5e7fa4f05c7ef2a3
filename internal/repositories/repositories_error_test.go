package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

func TestUserRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			err := NewUserRepository(db).Create(ctx, models.NewUser("", "Ada", "", models.ProviderLocal))
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if err := NewUserRepository(db).Create(ctx, models.NewUser("u1", "Ada", "", models.ProviderLocal)); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewUserRepository(db).Get(ctx, "nonexistent-id")
			if !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("AlreadyDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			if err := repo.Create(ctx, models.NewUser("u1", "Ada", "", models.ProviderLocal)); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
			if err := repo.Delete(ctx, "u1"); err != nil {
				t.Fatalf("failed to delete user: %v", err)
			}
			if err := repo.Delete(ctx, "u1"); !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
		})
	})
}

func TestSessionRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewSessionRepository(db).Create(ctx, models.NewSession("ghost", models.ProviderLocal)); err == nil {
			t.Fatal("expected foreign key error for unknown user")
		}
	})

	t.Run("NoCurrent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if _, err := NewSessionRepository(db).Current(ctx); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestLibraryRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownField", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if _, err := NewLibraryRepository(db).Fetch(ctx, "u1", "playlists; DROP TABLE users"); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("CorruptDocument", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if _, err := db.Exec("INSERT INTO user_documents (user_id, liked_songs, updated_at) VALUES ('u1', 'not json', CURRENT_TIMESTAMP)"); err != nil {
			t.Fatalf("failed to seed document: %v", err)
		}
		if _, err := NewLibraryRepository(db).FetchLiked(ctx, "u1"); err == nil {
			t.Fatal("expected decode error")
		}
	})
}

func TestPlaylistRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	tc := []struct {
		name string
		run  func(*PlaylistRepository) error
	}{
		{name: "Get", run: func(r *PlaylistRepository) error { _, err := r.Get(ctx, "missing"); return err }},
		{name: "Update", run: func(r *PlaylistRepository) error {
			return r.Update(ctx, "missing", models.PlaylistUpdate{Name: "x"})
		}},
		{name: "Delete", run: func(r *PlaylistRepository) error { return r.Delete(ctx, "missing") }},
		{name: "AddSong", run: func(r *PlaylistRepository) error { return r.AddSong(ctx, "missing", track("a")) }},
		{name: "RemoveSong", run: func(r *PlaylistRepository) error { return r.RemoveSong(ctx, "missing", "a") }},
	}

	for _, tt := range tc {
		t.Run(tt.name+"NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if err := tt.run(NewPlaylistRepository(db)); !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
			}
		})
	}

	t.Run("CreateValidation", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		p := models.NewPlaylist("u1", "  ", "")
		if err := NewPlaylistRepository(db).Create(ctx, &p); !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("UpdateValidation", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewPlaylistRepository(db).Update(ctx, "any", models.PlaylistUpdate{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestShareRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewShareRepository(db).Get(ctx, "unknown123")
		if !errors.Is(err, shared.ErrShareNotFound) {
			t.Fatalf("expected ErrShareNotFound, got %v", err)
		}
	})

	t.Run("WriteOnce", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewShareRepository(db)
		share := models.Share{ID: "abcdefghij", OwnerID: "u1", Songs: []models.Track{track("a")}}
		if err := repo.Create(ctx, share); err != nil {
			t.Fatalf("failed to create share: %v", err)
		}
		if err := repo.Create(ctx, share); err == nil {
			t.Fatal("expected error when overwriting a share")
		}
	})

	t.Run("MissingOwner", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewShareRepository(db).Create(ctx, models.Share{ID: "abcdefghij"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
