package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/desertthunder/echoplay/internal/library"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/playback"
	"github.com/desertthunder/echoplay/internal/shared"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 8
)

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// View renders the active panel, the now playing bar and any open dialog.
func (m *Model) View() string {
	width, _ := m.size()

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.renderPanel(width),
	)
	if m.player != nil && m.playing.Mode == playback.ModePanel && m.playing.Current != nil {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderVideoPanel())
	}

	if m.dialog != NoDialog {
		dialog := styles.dialog.Render(m.renderDialog(width))
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.dim.Render(ansi.Strip(body)),
			lipgloss.PlaceHorizontal(width, lipgloss.Center, dialog),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		"",
		m.renderNowPlaying(width),
		m.renderStatus(),
	)
}

func (m *Model) renderTabs() string {
	var tabs []string
	for _, p := range []Panel{HomePanel, LikedPanel, PlaylistsPanel} {
		label := fmt.Sprintf("%d %s", int(p)+1, p)
		if p == m.panel {
			tabs = append(tabs, styles.activeTab.Render(label))
		} else {
			tabs = append(tabs, styles.tab.Render(label))
		}
	}
	user := "not signed in"
	if u := m.store.User(); u != nil {
		user = u.DisplayName()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, "  ", styles.help.Render(user))...) + "\n"
}

func (m *Model) renderPanel(width int) string {
	switch m.panel {
	case LikedPanel:
		return m.renderLiked(width)
	case PlaylistsPanel:
		if m.openList != "" {
			return m.renderPlaylistDetail(width)
		}
		return m.renderPlaylists(width)
	default:
		return m.renderHome(width)
	}
}

func (m *Model) renderTrackList(tracks []models.Track, cursor, width int) string {
	_, height := m.size()
	start, end := window(len(tracks), cursor, height-chromeHeight-2)

	var current string
	if t, ok := m.store.Current(); ok {
		current = t.VideoID
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := tracks[i]
		lines = append(lines, trackLine(t, width, i == cursor, m.store.IsLiked(t.VideoID), t.VideoID == current))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHome(width int) string {
	var b strings.Builder

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(styles.help.Render("Searching..."))
	case m.searchErr != nil:
		b.WriteString(styles.err.Render("Search failed. Please try again."))
	case len(m.results) > 0:
		b.WriteString(styles.title.Render(fmt.Sprintf("Results for %q", m.search.Value())))
		b.WriteString("\n")
		b.WriteString(m.renderTrackList(m.results, m.cursors[HomePanel], width))
	default:
		b.WriteString(styles.title.Render("Recently Played"))
		b.WriteString("\n")
		recent := m.store.Recent()
		if len(recent) == 0 {
			b.WriteString(styles.help.Render("Nothing played yet. Press / to search."))
		} else {
			b.WriteString(m.renderTrackList(recent, m.cursors[HomePanel], width))
		}
	}
	return b.String()
}

func (m *Model) renderLiked(width int) string {
	var b strings.Builder
	liked := m.store.Liked()
	b.WriteString(styles.title.Render(fmt.Sprintf("Liked Songs (%d)", len(liked))))
	b.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	tracks := library.Filter(liked, m.filter.Value())
	if len(tracks) == 0 {
		if len(liked) == 0 {
			b.WriteString(styles.help.Render("No liked songs yet. Press l on any song to like it."))
		} else {
			b.WriteString(styles.help.Render("No songs match the filter."))
		}
		return b.String()
	}
	b.WriteString(m.renderTrackList(tracks, m.cursors[LikedPanel], width))
	return b.String()
}

func (m *Model) renderPlaylists(width int) string {
	var b strings.Builder
	playlists := m.store.Playlists()
	b.WriteString(styles.title.Render("Playlists"))
	b.WriteString("\n")

	if len(playlists) == 0 {
		b.WriteString(styles.help.Render("No playlists yet. Press n to create one."))
		return b.String()
	}

	_, height := m.size()
	start, end := window(len(playlists), m.cursors[PlaylistsPanel], height-chromeHeight-2)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, playlistLine(playlists[i], width, i == m.cursors[PlaylistsPanel]))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (m *Model) renderPlaylistDetail(width int) string {
	p, ok := m.store.Playlist(m.openList)
	if !ok {
		return styles.err.Render("This playlist no longer exists. Press esc to go back.")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(p.Name))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(styles.help.Render(truncate(p.Description, width)))
		b.WriteString("\n\n")
	}
	if len(p.Songs) == 0 {
		b.WriteString(styles.help.Render("This playlist is empty. Press a on any song to add it."))
		return b.String()
	}
	b.WriteString(m.renderTrackList(p.Songs, m.detail, width))
	return b.String()
}

func (m *Model) renderVideoPanel() string {
	t := m.playing.Current
	lines := []string{
		styles.title.Render("Now Playing"),
		truncate(t.Title, 30),
		styles.help.Render(truncate(t.Artist, 30)),
		"",
		styles.help.Render(truncate(playback.EmbedURL(t.VideoID, int(m.playing.PlayedSeconds)), 30)),
	}
	return styles.dialog.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderNowPlaying(width int) string {
	st := m.playing
	if st.Current == nil {
		return styles.help.Render("Nothing playing")
	}

	icon := "⏸"
	if st.IsPlaying {
		icon = "▶"
	}
	elapsed := shared.FormatDuration(int(st.PlayedSeconds))
	total := shared.FormatDuration(int(st.Duration))

	head := fmt.Sprintf("%s %s - %s", icon, st.Current.Title, st.Current.Artist)
	meta := fmt.Sprintf(" [%s]", st.Mode)
	head = truncate(head, width-len(meta)) + styles.help.Render(meta)

	times := fmt.Sprintf(" %s / %s", elapsed, total)
	bar := styles.bar.Render(progressBar(st.PlayedSeconds, st.Duration, width-len(times)-1))
	return head + "\n" + bar + times
}

func (m *Model) renderStatus() string {
	if m.toast != nil {
		switch m.toast.Level {
		case library.NoticeError:
			return styles.err.Render(m.toast.Message)
		case library.NoticeSuccess:
			return styles.ok.Render(m.toast.Message)
		default:
			return styles.warn.Render(m.toast.Message)
		}
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) renderDialog(width int) string {
	switch m.dialog {
	case CreateDialog, EditDialog:
		title := "New Playlist"
		if m.dialog == EditDialog {
			title = "Edit Playlist"
		}
		return strings.Join([]string{
			styles.title.Render(title),
			m.form[0].View(),
			m.form[1].View(),
			"",
			styles.help.Render("tab switch field • enter save • esc cancel"),
		}, "\n")

	case AddToDialog:
		lines := []string{styles.title.Render("Add to Playlist")}
		if m.pending != nil {
			lines = append(lines, truncate(m.pending.Title+" - "+m.pending.Artist, width/2), "")
		}
		playlists := m.store.Playlists()
		if len(playlists) == 0 {
			lines = append(lines, styles.help.Render("You have no playlists yet."))
		}
		for i, p := range playlists {
			lines = append(lines, playlistLine(p, width/2, i == m.addCursor))
		}
		lines = append(lines, "", styles.help.Render("enter add • n new playlist • esc cancel"))
		return strings.Join(lines, "\n")

	case ShareDialog:
		lines := []string{styles.title.Render("Share Liked Songs")}
		switch {
		case m.shareErr != nil:
			lines = append(lines, styles.err.Render(m.shareErr.Error()))
		case m.shareID == "":
			lines = append(lines, styles.help.Render("Creating share..."))
		default:
			lines = append(lines, "Share ID: "+styles.ok.Render(m.shareID))
			if m.copied {
				lines = append(lines, styles.ok.Render("Copied to clipboard"))
			}
			lines = append(lines, "", styles.help.Render("c copy • enter close"))
		}
		return strings.Join(lines, "\n")

	case ReceiveDialog:
		lines := []string{styles.title.Render("Receive Shared Songs"), m.receive.View()}
		if m.receiveErr != nil {
			lines = append(lines, styles.err.Render(m.receiveErr.Error()))
		}
		lines = append(lines, "", styles.help.Render("enter import • esc cancel"))
		return strings.Join(lines, "\n")

	case AlertDialog:
		return strings.Join([]string{
			styles.err.Render("Cannot play"),
			m.alert,
			"",
			styles.help.Render("enter ok"),
		}, "\n")

	case HelpDialog:
		m.help.ShowAll = true
		view := m.help.View(m.keys)
		m.help.ShowAll = false
		return styles.title.Render("Keys") + "\n" + view
	}
	return ""
}
