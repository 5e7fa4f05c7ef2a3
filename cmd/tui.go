package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/playback"
	"github.com/desertthunder/echoplay/internal/shared"
	"github.com/desertthunder/echoplay/internal/ui"
)

// TUI launches the interactive player for the signed-in user.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, f, err := shared.NewFileLogger(r.cfg().Logging.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()
	fileLogger.SetLevel(r.cfg().Logging.LogLevel())
	r.logger = fileLogger

	user, err := r.session(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("starting tui", "user", user.ID())

	player := playback.NewOwner(
		playback.WithTarget(playback.ModeFullScreen, playback.NewBrowserTarget(r.openBrowser)),
		playback.WithQueue(r.store),
		playback.WithLogger(r.logger),
	)
	model := ui.NewModel(ctx, ui.Deps{
		Store:     r.store,
		Searcher:  r.search(),
		Player:    player,
		Notices:   r.notices,
		Clipboard: r.clipboard,
		Logger:    r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if err := r.engine.Persist(ctx, nil); err != nil {
		r.logger.Error("failed to save library on exit", "error", err)
	}
	return nil
}
