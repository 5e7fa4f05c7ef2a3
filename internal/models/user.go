package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Auth providers
const (
	ProviderGoogle = "google"
	ProviderLocal  = "local"
)

// User is the identity returned by an auth provider.
//
// The id is owned by the provider; echoplay only records it.
type User struct {
	id        string
	sequence  int
	email     string
	name      string
	provider  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewUser creates a user with the provider-assigned id.
func NewUser(id, name, email, provider string) *User {
	now := time.Now().UTC()
	return &User{id: id, name: name, email: email, provider: provider, createdAt: now, updatedAt: now}
}

func (u *User) ID() string            { return u.id }
func (u *User) Sequence() int         { return u.sequence }
func (u *User) Email() string         { return u.email }
func (u *User) Name() string          { return u.name }
func (u *User) Provider() string      { return u.provider }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) DeletedAt() *time.Time { return u.deletedAt }

func (u *User) SetSequence(s int)         { u.sequence = s }
func (u *User) SetName(name string)       { u.name = name }
func (u *User) SetEmail(email string)     { u.email = email }
func (u *User) SetCreatedAt(t time.Time)  { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)  { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time) { u.deletedAt = t }

// DisplayName returns the name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.name != "" {
		return u.name
	}
	return u.email
}

// Validate checks if the user's data is valid.
func (u *User) Validate() error {
	if u.id == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.name) == "" && u.email == "" {
		return fmt.Errorf("user name or email is required")
	}
	switch u.provider {
	case ProviderGoogle, ProviderLocal:
	default:
		return fmt.Errorf("unknown auth provider %q", u.provider)
	}
	return nil
}

type userJSON struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	Provider    string `json:"provider"`
}

// MarshalJSON exposes the identity fields of the user.
func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{ID: u.id, DisplayName: u.DisplayName(), Email: u.email, Provider: u.provider})
}
