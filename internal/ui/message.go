package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/echoplay/internal/library"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/playback"
)

const (
	tickInterval  = time.Second
	toastDuration = 3 * time.Second
	seekStep      = 10.0
)

type searchResultsMsg struct {
	query  string
	tracks []models.Track
	err    error
}

type noticeMsg library.Notice

type playbackMsg playback.State

type tickMsg time.Time

type clearToastMsg struct{ seq int }

type shareCreatedMsg struct {
	id  string
	err error
}

type shareImportedMsg struct {
	added int
	err   error
}

// writeDoneMsg reports a finished store write; the store has already raised its own notice.
type writeDoneMsg struct {
	op  string
	err error
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func clearToast(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })
}
