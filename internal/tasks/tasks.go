package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/echoplay/internal/library"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// StepResult records the outcome of one load step.
type StepResult struct {
	Phase Phase
	Count int
	Error error
}

// LoadResult summarizes [Engine.Load].
type LoadResult struct {
	User      *models.User
	Liked     int
	Recent    int
	Playlists int
	Errors    []StepResult
}

// Err joins the errors of every failed step.
func (r *LoadResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e.Error
	}
	return errors.Join(errs...)
}

// Engine drives library operations against a [library.Store].
type Engine struct {
	store *library.Store
}

// NewEngine creates an Engine for store.
func NewEngine(store *library.Store) *Engine {
	return &Engine{store: store}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type loadStep struct {
	phase Phase
	what  string
	load  func(context.Context) error
	count func() int
}

// Load signs user in to the store and loads each collection as its own step.
//
// The returned error is non-nil only when user is nil; failed steps are
// reported in [LoadResult.Errors].
func (e *Engine) Load(ctx context.Context, progress chan<- ProgressUpdate, user *models.User) (*LoadResult, error) {
	if user == nil {
		return nil, shared.ErrNotAuthenticated
	}
	e.store.SetUser(user)

	steps := []loadStep{
		{FetchLiked, "liked songs", e.store.LoadLiked, func() int { return len(e.store.Liked()) }},
		{FetchHistory, "recently played", e.store.LoadRecent, func() int { return len(e.store.Recent()) }},
		{FetchPlaylists, "playlists", e.store.RefreshPlaylists, func() int { return len(e.store.Playlists()) }},
	}

	result := &LoadResult{User: user}
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, fetchUpdate(s.phase, i+1, len(steps), s.what))
		if err := s.load(ctx); err != nil {
			result.Errors = append(result.Errors, StepResult{Phase: s.phase, Error: err})
			e.sendProgress(progress, fetchFailedUpdate(s.phase, i+1, len(steps), s.what, err))
			continue
		}

		n := s.count()
		switch s.phase {
		case FetchLiked:
			result.Liked = n
		case FetchHistory:
			result.Recent = n
		case FetchPlaylists:
			result.Playlists = n
		}
		e.sendProgress(progress, fetchedUpdate(s.phase, i+1, len(steps), s.what, n))
	}
	return result, nil
}

// Persist saves liked songs and recently played for the signed-in user.
func (e *Engine) Persist(ctx context.Context, progress chan<- ProgressUpdate) error {
	if e.store.User() == nil {
		return shared.ErrNotAuthenticated
	}
	e.sendProgress(progress, saveUpdate())
	if err := e.store.Persist(ctx); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}
	return nil
}
