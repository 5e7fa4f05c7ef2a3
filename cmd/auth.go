package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/auth"
	"github.com/desertthunder/echoplay/internal/shared"
)

// AuthLogin signs in with Google, or as a named local user with --local.
//
// Signing in ends any previous session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(); err != nil {
		return err
	}

	var provider auth.Provider
	if name := cmd.String("local"); name != "" {
		provider = auth.NewLocalProvider(name)
	} else {
		google, err := auth.NewGoogleProvider(r.cfg().Credentials.Google,
			auth.WithBrowser(r.openBrowser),
			auth.WithPrompt(r.output),
			auth.WithProviderLogger(r.logger),
		)
		if err != nil {
			return fmt.Errorf("%w (or use --local <name>)", err)
		}
		provider = google
	}

	user, err := r.auth.SignIn(ctx, provider)
	if err != nil {
		return err
	}

	r.writePlain("✓ Signed in as %s (%s)\n", user.DisplayName(), user.Provider())
	return nil
}

// AuthLogout ends the current session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(); err != nil {
		return err
	}
	if err := r.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	r.writePlain("✓ Signed out\n")
	return nil
}

// AuthStatus prints the signed-in user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(); err != nil {
		return err
	}

	user, err := r.auth.Restore(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		if cmd.Bool("json") {
			return r.writeJSON(map[string]any{"signed_in": false}, true)
		}
		r.writePlain("Not signed in\n")
		return nil
	} else if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"signed_in": true, "user": user}, true)
	}

	r.writePlainHeader("Signed in")
	r.writePlain("Name:     %s\n", user.DisplayName())
	if user.Email() != "" {
		r.writePlain("Email:    %s\n", user.Email())
	}
	r.writePlain("Provider: %s\n", user.Provider())
	if s := r.auth.Session(); s != nil {
		r.writePlain("Since:    %s\n", s.CreatedAt().Format("2006-01-02 15:04"))
	}
	return nil
}
