package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Identity is what a provider returns on a successful sign-in.
type Identity struct {
	User  *models.User
	Token *oauth2.Token
}

// Provider authenticates a user.
type Provider interface {
	Name() string
	Authenticate(ctx context.Context) (*Identity, error)
}

// LocalProvider signs in a named identity without a remote service.
// The same name always maps to the same user id.
type LocalProvider struct {
	name string
}

func NewLocalProvider(name string) *LocalProvider {
	return &LocalProvider{name: strings.TrimSpace(name)}
}

func (p *LocalProvider) Name() string { return models.ProviderLocal }

func (p *LocalProvider) Authenticate(ctx context.Context) (*Identity, error) {
	if p.name == "" {
		return nil, fmt.Errorf("%w: a name is required", shared.ErrAuthFailed)
	}
	user := models.NewUser(shared.LocalUserID(p.name), p.name, "", models.ProviderLocal)
	return &Identity{User: user}, nil
}
