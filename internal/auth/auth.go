package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/repositories"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Service tracks the signed-in user.
type Service struct {
	mu        sync.RWMutex
	users     *repositories.UserRepository
	sessions  *repositories.SessionRepository
	logger    *log.Logger
	current   *models.User
	session   *models.Session
	listeners map[int]func(*models.User)
	nextID    int
}

// NewService creates a service persisting users and sessions in db.
func NewService(db *sql.DB, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		users:     repositories.NewUserRepository(db),
		sessions:  repositories.NewSessionRepository(db),
		logger:    logger,
		listeners: map[int]func(*models.User){},
	}
}

// CurrentUser returns the signed-in user, or nil.
func (s *Service) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnAuthStateChange registers fn and returns a function that removes it.
func (s *Service) OnAuthStateChange(fn func(*models.User)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Service) emit(user *models.User) {
	s.mu.RLock()
	fns := make([]func(*models.User), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(user)
	}
}

// SignIn authenticates with p, stores the user and a new session, and notifies listeners.
// Any existing session is ended first.
func (s *Service) SignIn(ctx context.Context, p Provider) (*models.User, error) {
	identity, err := p.Authenticate(ctx)
	if err != nil {
		s.logger.Error("sign-in failed", "provider", p.Name(), "error", err)
		if errors.Is(err, shared.ErrAuthFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	if identity == nil || identity.User == nil {
		return nil, fmt.Errorf("%w: provider returned no user", shared.ErrAuthFailed)
	}

	user := identity.User
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if _, err := s.sessions.DeleteAll(ctx); err != nil {
		s.logger.Warn("failed to end previous sessions", "error", err)
	}

	session := models.NewSession(user.ID(), p.Name())
	if t := identity.Token; t != nil {
		session.SetTokens(t.AccessToken, t.RefreshToken, t.Expiry)
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.current = user
	s.session = session
	s.mu.Unlock()

	s.logger.Info("signed in", "user", user.ID(), "provider", p.Name())
	s.emit(user)
	return user, nil
}

// Restore signs in the user of the most recent session, if any.
func (s *Service) Restore(ctx context.Context) (*models.User, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			return nil, shared.ErrNotAuthenticated
		}
		return nil, err
	}

	user, err := s.users.Get(ctx, session.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	s.mu.Lock()
	s.current = user
	s.session = session
	s.mu.Unlock()

	s.logger.Debug("restored session", "user", user.ID(), "provider", session.Provider())
	s.emit(user)
	return user, nil
}

// Session returns the active session record, or nil.
func (s *Service) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SignOut ends every stored session and notifies listeners with a nil user.
func (s *Service) SignOut(ctx context.Context) error {
	n, err := s.sessions.DeleteAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = nil
	s.session = nil
	s.mu.Unlock()

	s.logger.Info("signed out", "sessions", n)
	s.emit(nil)
	return nil
}
