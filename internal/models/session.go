package models

import (
	"fmt"
	"time"
)

// Session records a sign-in so later invocations can restore the user.
type Session struct {
	id           string
	userID       string
	provider     string
	accessToken  string
	refreshToken string
	expiresAt    *time.Time
	createdAt    time.Time
	deletedAt    *time.Time
}

// NewSession creates a session for userID.
func NewSession(userID, provider string) *Session {
	return &Session{userID: userID, provider: provider, createdAt: time.Now().UTC()}
}

func (s *Session) ID() string            { return s.id }
func (s *Session) UserID() string        { return s.userID }
func (s *Session) Provider() string      { return s.provider }
func (s *Session) AccessToken() string   { return s.accessToken }
func (s *Session) RefreshToken() string  { return s.refreshToken }
func (s *Session) ExpiresAt() *time.Time { return s.expiresAt }
func (s *Session) CreatedAt() time.Time  { return s.createdAt }
func (s *Session) UpdatedAt() time.Time  { return s.createdAt } // sessions are never updated
func (s *Session) DeletedAt() *time.Time { return s.deletedAt }

func (s *Session) SetID(id string)           { s.id = id }
func (s *Session) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *Session) SetDeletedAt(t *time.Time) { s.deletedAt = t }
func (s *Session) SetExpiresAt(t *time.Time) { s.expiresAt = t }

// SetTokens stores the OAuth2 tokens issued at sign-in.
func (s *Session) SetTokens(access, refresh string, expiry time.Time) {
	s.accessToken = access
	s.refreshToken = refresh
	if !expiry.IsZero() {
		s.expiresAt = &expiry
	}
}

// Expired reports whether the access token is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return s.expiresAt != nil && now.After(*s.expiresAt)
}

// Validate checks if the session's data is valid.
func (s *Session) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("session user id is required")
	}
	if s.provider == "" {
		return fmt.Errorf("session provider is required")
	}
	return nil
}
