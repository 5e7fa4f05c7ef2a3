package ui

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/echoplay/internal/library"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/playback"
	"github.com/desertthunder/echoplay/internal/services"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Panel is one of the mutually exclusive main views.
type Panel int

const (
	HomePanel Panel = iota
	LikedPanel
	PlaylistsPanel
)

func (p Panel) String() string {
	switch p {
	case LikedPanel:
		return "Liked"
	case PlaylistsPanel:
		return "Playlists"
	default:
		return "Home"
	}
}

// Dialog is an overlay opened on top of the active panel.
type Dialog int

const (
	NoDialog Dialog = iota
	CreateDialog
	EditDialog
	AddToDialog
	ShareDialog
	ReceiveDialog
	HelpDialog
	AlertDialog
)

// Deps carries the collaborators of a [Model].
type Deps struct {
	Store    *library.Store
	Searcher services.Searcher
	Player   *playback.Owner
	Notices  <-chan library.Notice
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	Logger    *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	store    *library.Store
	searcher services.Searcher
	player   *playback.Owner
	notices  <-chan library.Notice
	copy     func(string) error
	logger   *log.Logger

	states      <-chan playback.State
	unsubscribe func()

	width  int
	height int
	keys   keyMap
	help   help.Model

	panel    Panel
	dialog   Dialog
	cursors  [3]int
	openList string // playlist shown in detail, "" for the list
	detail   int

	search    textinput.Model
	searching bool
	results   []models.Track
	searchErr error
	loading   bool

	filter    textinput.Model
	filtering bool

	form      [2]textinput.Model
	formFocus int
	editingID string
	pending   *models.Track

	addCursor int

	shareID    string
	shareErr   error
	copied     bool
	receive    textinput.Model
	receiveErr error

	alert string

	playing  playback.State
	toast    *library.Notice
	toastSeq int
}

// NewModel creates the TUI model.
func NewModel(ctx context.Context, deps Deps) *Model {
	search := textinput.New()
	search.Placeholder = "Search songs..."
	search.CharLimit = 200

	filter := textinput.New()
	filter.Placeholder = "Filter liked songs..."

	name := textinput.New()
	name.Placeholder = "Playlist name"
	name.CharLimit = 100
	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 300

	receive := textinput.New()
	receive.Placeholder = "Share ID"
	receive.CharLimit = 64

	copyFn := deps.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := &Model{
		ctx:      ctx,
		store:    deps.Store,
		searcher: deps.Searcher,
		player:   deps.Player,
		notices:  deps.Notices,
		copy:     copyFn,
		logger:   logger,
		keys:     newKeyMap(),
		help:     help.New(),
		search:   search,
		filter:   filter,
		form:     [2]textinput.Model{name, desc},
		receive:  receive,
	}
	if m.player != nil {
		m.states, m.unsubscribe = m.player.Subscribe()
		m.playing = m.player.State()
	}
	return m
}

// Panel returns the active panel.
func (m *Model) Panel() Panel { return m.panel }

// Dialog returns the open dialog.
func (m *Model) Dialog() Dialog { return m.dialog }

// Init starts the playback clock and the notice and playback listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForNotice(), m.waitForPlayback())
}

func (m *Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-m.notices
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func (m *Model) waitForPlayback() tea.Cmd {
	if m.states == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-m.states
		if !ok {
			return nil
		}
		return playbackMsg(st)
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.player != nil {
			m.player.Tick(tickInterval)
		}
		return m, tick()

	case playbackMsg:
		m.playing = playback.State(msg)
		return m, m.waitForPlayback()

	case noticeMsg:
		n := library.Notice(msg)
		m.toast = &n
		m.toastSeq++
		return m, tea.Batch(m.waitForNotice(), clearToast(m.toastSeq))

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case searchResultsMsg:
		m.loading = false
		if msg.query != m.search.Value() {
			return m, nil
		}
		m.results, m.searchErr = msg.tracks, msg.err
		m.cursors[HomePanel] = 0
		return m, nil

	case shareCreatedMsg:
		m.shareID, m.shareErr = msg.id, msg.err
		return m, nil

	case shareImportedMsg:
		if msg.err != nil {
			m.receiveErr = msg.err
			return m, nil
		}
		m.closeDialog()
		return m, m.persist()

	case writeDoneMsg:
		if msg.err != nil {
			m.logger.Debug("store write failed", "op", msg.op, "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.forceQuit) {
		return m, m.quit()
	}
	if m.dialog != NoDialog {
		return m.updateDialog(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}
	if m.filtering {
		return m.updateFilter(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.help):
		m.dialog = HelpDialog
	case key.Matches(msg, m.keys.nextPanel):
		m.SetPanel((m.panel + 1) % 3)
	case key.Matches(msg, m.keys.home):
		m.SetPanel(HomePanel)
	case key.Matches(msg, m.keys.liked):
		m.SetPanel(LikedPanel)
	case key.Matches(msg, m.keys.playlists):
		m.SetPanel(PlaylistsPanel)
	case key.Matches(msg, m.keys.up):
		m.move(-1)
	case key.Matches(msg, m.keys.down):
		m.move(1)
	case key.Matches(msg, m.keys.enter):
		return m, m.activate()
	case key.Matches(msg, m.keys.back):
		m.back()
	case key.Matches(msg, m.keys.search):
		return m, m.startInput()
	case key.Matches(msg, m.keys.toggle):
		m.togglePlay()
	case key.Matches(msg, m.keys.next):
		m.step(1)
	case key.Matches(msg, m.keys.prev):
		m.step(-1)
	case key.Matches(msg, m.keys.seekFwd):
		m.seek(seekStep)
	case key.Matches(msg, m.keys.seekBack):
		m.seek(-seekStep)
	case key.Matches(msg, m.keys.mode):
		m.cycleMode()
	case key.Matches(msg, m.keys.like):
		return m, m.toggleLike()
	case key.Matches(msg, m.keys.moveUp):
		return m, m.reorder(-1)
	case key.Matches(msg, m.keys.moveDown):
		return m, m.reorder(1)
	case key.Matches(msg, m.keys.addTo):
		if t, ok := m.selectedTrack(); ok {
			m.pending = &t
			m.addCursor = 0
			m.dialog = AddToDialog
		}
	case key.Matches(msg, m.keys.create):
		return m, m.openForm(CreateDialog, nil)
	case key.Matches(msg, m.keys.edit):
		if p, ok := m.selectedPlaylist(); ok {
			return m, m.openForm(EditDialog, &p)
		}
	case key.Matches(msg, m.keys.remove):
		return m, m.removeSelected()
	case key.Matches(msg, m.keys.share):
		return m, m.openShare()
	case key.Matches(msg, m.keys.receive):
		m.receive.Reset()
		m.receiveErr = nil
		m.dialog = ReceiveDialog
		return m, m.receive.Focus()
	}
	return m, nil
}

// SetPanel switches the active panel and leaves any playlist detail view.
func (m *Model) SetPanel(p Panel) {
	m.panel = p
	m.openList = ""
	m.detail = 0
}

func (m *Model) quit() tea.Cmd {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	return tea.Sequence(m.persist(), tea.Quit)
}

// persist saves liked songs and recently played in the background.
func (m *Model) persist() tea.Cmd {
	return func() tea.Msg {
		return writeDoneMsg{op: "persist", err: m.store.Persist(m.ctx)}
	}
}

// tracks returns the track list of the active panel as displayed.
func (m *Model) tracks() []models.Track {
	switch m.panel {
	case HomePanel:
		if len(m.results) > 0 {
			return m.results
		}
		return m.store.Recent()
	case LikedPanel:
		return library.Filter(m.store.Liked(), m.filter.Value())
	case PlaylistsPanel:
		if p, ok := m.store.Playlist(m.openList); ok {
			return p.Songs
		}
	}
	return nil
}

func (m *Model) cursor() *int {
	if m.panel == PlaylistsPanel && m.openList != "" {
		return &m.detail
	}
	return &m.cursors[m.panel]
}

func (m *Model) rows() int {
	if m.panel == PlaylistsPanel && m.openList == "" {
		return len(m.store.Playlists())
	}
	return len(m.tracks())
}

func (m *Model) move(delta int) {
	c := m.cursor()
	n := m.rows()
	if n == 0 {
		*c = 0
		return
	}
	*c = max(0, min(*c+delta, n-1))
}

func (m *Model) selectedTrack() (models.Track, bool) {
	tracks := m.tracks()
	c := *m.cursor()
	if c < 0 || c >= len(tracks) {
		return models.Track{}, false
	}
	return tracks[c], true
}

func (m *Model) selectedPlaylist() (models.Playlist, bool) {
	if m.panel != PlaylistsPanel {
		return models.Playlist{}, false
	}
	if m.openList != "" {
		return m.store.Playlist(m.openList)
	}
	ps := m.store.Playlists()
	c := m.cursors[PlaylistsPanel]
	if c < 0 || c >= len(ps) {
		return models.Playlist{}, false
	}
	return ps[c], true
}

func (m *Model) playbackContext() playback.Context {
	switch m.panel {
	case LikedPanel:
		return playback.ContextLiked
	case PlaylistsPanel:
		return playback.ContextPlaylist
	default:
		return playback.ContextHome
	}
}

// activate opens the selected playlist or plays the selected track.
func (m *Model) activate() tea.Cmd {
	if m.panel == PlaylistsPanel && m.openList == "" {
		if p, ok := m.selectedPlaylist(); ok {
			m.openList = p.ID
			m.detail = 0
		}
		return nil
	}
	t, ok := m.selectedTrack()
	if !ok {
		return nil
	}
	return m.play(t, m.playbackContext())
}

func (m *Model) play(t models.Track, ctx playback.Context) tea.Cmd {
	if err := m.store.SelectTrack(t); err != nil {
		if errors.Is(err, shared.ErrInvalidTrack) {
			m.alert = "This song cannot be played: it has no video id."
			m.dialog = AlertDialog
		}
		return nil
	}
	if m.player != nil {
		if err := m.player.Load(t, ctx, true); err != nil {
			m.logger.Error("failed to load track", "video", t.VideoID, "error", err)
		}
	}
	return m.persist()
}

func (m *Model) back() {
	switch {
	case m.panel == PlaylistsPanel && m.openList != "":
		m.openList = ""
	case m.panel == HomePanel && len(m.results) > 0:
		m.results, m.searchErr = nil, nil
		m.search.Reset()
		m.cursors[HomePanel] = 0
	case m.panel == LikedPanel && m.filter.Value() != "":
		m.filter.Reset()
		m.cursors[LikedPanel] = 0
	}
}

func (m *Model) startInput() tea.Cmd {
	switch m.panel {
	case HomePanel:
		m.searching = true
		return m.search.Focus()
	case LikedPanel:
		m.filtering = true
		return m.filter.Focus()
	}
	return nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.searching = false
		m.search.Blur()
		return m, m.runSearch(m.search.Value())
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) runSearch(query string) tea.Cmd {
	if m.searcher == nil {
		return nil
	}
	m.loading = true
	return func() tea.Msg {
		tracks, err := m.searcher.Search(m.ctx, query)
		return searchResultsMsg{query: query, tracks: tracks, err: err}
	}
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) || key.Matches(msg, m.keys.enter) {
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursors[LikedPanel] = 0
	return m, cmd
}

func (m *Model) togglePlay() {
	if m.player == nil {
		return
	}
	if _, err := m.player.Toggle(); err != nil && !errors.Is(err, shared.ErrNoTrack) {
		m.logger.Error("failed to toggle playback", "error", err)
	}
}

func (m *Model) seek(delta float64) {
	if m.player == nil {
		return
	}
	m.player.Seek(m.player.State().PlayedSeconds + delta)
}

func (m *Model) cycleMode() {
	if m.player == nil {
		return
	}
	m.player.SetMode((m.player.State().Mode + 1) % 3)
}

// step plays the neighbour of the current track within the collection it was started from.
func (m *Model) step(delta int) {
	if m.player == nil {
		return
	}
	st := m.player.State()

	var (
		next models.Track
		ok   bool
	)
	switch st.Context {
	case playback.ContextLiked:
		if delta > 0 {
			next, ok = m.store.NextLiked()
		} else {
			next, ok = m.store.PrevLiked()
		}
	case playback.ContextPlaylist:
		if m.openList == "" {
			return
		}
		if delta > 0 {
			next, ok = m.store.NextInPlaylist(m.openList)
		} else {
			next, ok = m.store.PrevInPlaylist(m.openList)
		}
	}
	if ok {
		m.player.Load(next, st.Context, true)
	}
}

// toggleLike flips the like state of the selected track, or of the current one
// when nothing is selected.
func (m *Model) toggleLike() tea.Cmd {
	t, ok := m.selectedTrack()
	if !ok {
		cur, has := m.store.Current()
		if !has {
			return nil
		}
		t = cur
	}
	m.store.ToggleLike(t, m.store.IsLiked(t.VideoID))
	if m.panel == LikedPanel {
		m.move(0)
	}
	return m.persist()
}

func (m *Model) reorder(delta int) tea.Cmd {
	if m.panel != LikedPanel || m.filter.Value() != "" {
		return nil
	}
	from := m.cursors[LikedPanel]
	if !m.store.ReorderLiked(from, from+delta) {
		return nil
	}
	m.cursors[LikedPanel] = from + delta
	return m.persist()
}

// removeSelected removes the selected row from its collection.
func (m *Model) removeSelected() tea.Cmd {
	switch {
	case m.panel == HomePanel && len(m.results) == 0:
		t, ok := m.selectedTrack()
		if !ok {
			return nil
		}
		m.move(0)
		return func() tea.Msg {
			return writeDoneMsg{op: "delete_recent", err: m.store.DeleteRecentlyPlayed(m.ctx, t.VideoID)}
		}
	case m.panel == LikedPanel:
		t, ok := m.selectedTrack()
		if !ok {
			return nil
		}
		m.store.ToggleLike(t, true)
		m.move(0)
		return m.persist()
	case m.panel == PlaylistsPanel && m.openList != "":
		t, ok := m.selectedTrack()
		if !ok {
			return nil
		}
		id := m.openList
		return func() tea.Msg {
			return writeDoneMsg{op: "remove_song", err: m.store.RemoveFromPlaylist(m.ctx, id, t.VideoID)}
		}
	case m.panel == PlaylistsPanel:
		p, ok := m.selectedPlaylist()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			return writeDoneMsg{op: "delete_playlist", err: m.store.DeletePlaylist(m.ctx, p.ID)}
		}
	}
	return nil
}
