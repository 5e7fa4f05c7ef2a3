package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/echoplay/internal/models"
)

func (m *Model) closeDialog() {
	for i := range m.form {
		m.form[i].Blur()
	}
	m.receive.Blur()
	m.dialog = NoDialog
	m.pending = nil
	m.editingID = ""
	m.alert = ""
}

// openForm opens the create or edit playlist form, prefilled from p when editing.
func (m *Model) openForm(d Dialog, p *models.Playlist) tea.Cmd {
	m.form[0].Reset()
	m.form[1].Reset()
	m.editingID = ""
	if p != nil {
		m.editingID = p.ID
		m.form[0].SetValue(p.Name)
		m.form[1].SetValue(p.Description)
		m.form[0].CursorEnd()
	}
	m.form[1].Blur()
	m.formFocus = 0
	m.dialog = d
	return m.form[0].Focus()
}

func (m *Model) openShare() tea.Cmd {
	m.shareID, m.shareErr, m.copied = "", nil, false
	m.dialog = ShareDialog
	return func() tea.Msg {
		id, err := m.store.CreateShare(m.ctx)
		return shareCreatedMsg{id: id, err: err}
	}
}

func (m *Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.closeDialog()
		return m, nil
	}

	switch m.dialog {
	case CreateDialog, EditDialog:
		return m.updateForm(msg)
	case AddToDialog:
		return m.updateAddTo(msg)
	case ShareDialog:
		if key.Matches(msg, m.keys.copy) && m.shareID != "" {
			if err := m.copy(m.shareID); err != nil {
				m.shareErr = err
			} else {
				m.copied = true
			}
		} else if key.Matches(msg, m.keys.enter) {
			m.closeDialog()
		}
	case ReceiveDialog:
		if key.Matches(msg, m.keys.enter) {
			id := strings.TrimSpace(m.receive.Value())
			if id == "" {
				return m, nil
			}
			m.receiveErr = nil
			return m, func() tea.Msg {
				added, err := m.store.ImportShare(m.ctx, id)
				return shareImportedMsg{added: added, err: err}
			}
		}
		var cmd tea.Cmd
		m.receive, cmd = m.receive.Update(msg)
		return m, cmd
	case HelpDialog, AlertDialog:
		if key.Matches(msg, m.keys.enter) || key.Matches(msg, m.keys.help) || key.Matches(msg, m.keys.quit) {
			m.closeDialog()
		}
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.form[m.formFocus].Blur()
		m.formFocus = 1 - m.formFocus
		return m, m.form[m.formFocus].Focus()
	case "enter":
		return m, m.submitForm()
	}
	var cmd tea.Cmd
	m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	return m, cmd
}

// submitForm creates or updates a playlist. A new playlist also receives the
// pending track when the form was opened from the add-to-playlist dialog.
func (m *Model) submitForm() tea.Cmd {
	name := strings.TrimSpace(m.form[0].Value())
	desc := strings.TrimSpace(m.form[1].Value())
	if name == "" {
		return nil
	}

	editing, pending := m.editingID, m.pending
	m.closeDialog()

	if editing != "" {
		return func() tea.Msg {
			err := m.store.UpdatePlaylist(m.ctx, editing, models.PlaylistUpdate{Name: name, Description: desc})
			return writeDoneMsg{op: "update_playlist", err: err}
		}
	}
	return func() tea.Msg {
		id, err := m.store.CreatePlaylist(m.ctx, name, desc)
		if err == nil && id != "" && pending != nil {
			err = m.store.AddToPlaylist(m.ctx, id, *pending)
		}
		return writeDoneMsg{op: "create_playlist", err: err}
	}
}

func (m *Model) updateAddTo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	playlists := m.store.Playlists()
	switch {
	case key.Matches(msg, m.keys.up):
		m.addCursor = max(0, m.addCursor-1)
	case key.Matches(msg, m.keys.down):
		m.addCursor = max(0, min(m.addCursor+1, len(playlists)-1))
	case key.Matches(msg, m.keys.create):
		pending := m.pending
		cmd := m.openForm(CreateDialog, nil)
		m.pending = pending
		return m, cmd
	case key.Matches(msg, m.keys.enter):
		if m.pending == nil || m.addCursor >= len(playlists) {
			return m, nil
		}
		id, track := playlists[m.addCursor].ID, *m.pending
		m.closeDialog()
		return m, func() tea.Msg {
			return writeDoneMsg{op: "add_song", err: m.store.AddToPlaylist(m.ctx, id, track)}
		}
	}
	return m, nil
}
