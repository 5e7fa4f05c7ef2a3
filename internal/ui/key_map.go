package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	nextPanel key.Binding
	home      key.Binding
	liked     key.Binding
	playlists key.Binding
	search    key.Binding
	toggle    key.Binding
	next      key.Binding
	prev      key.Binding
	seekFwd   key.Binding
	seekBack  key.Binding
	mode      key.Binding
	like      key.Binding
	addTo     key.Binding
	create    key.Binding
	edit      key.Binding
	remove    key.Binding
	moveUp    key.Binding
	moveDown  key.Binding
	share     key.Binding
	receive   key.Binding
	copy      key.Binding
	help      key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/open")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		nextPanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		home:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
		liked:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "liked")),
		playlists: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "playlists")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search/filter")),
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:      key.NewBinding(key.WithKeys("ctrl+n", "."), key.WithHelp(".", "next")),
		prev:      key.NewBinding(key.WithKeys("ctrl+p", ","), key.WithHelp(",", "previous")),
		seekFwd:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+10s")),
		seekBack:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-10s")),
		mode:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "video mode")),
		like:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		addTo:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to playlist")),
		create:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit playlist")),
		remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		moveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		moveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		share:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share liked")),
		receive:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "receive share")),
		copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextPanel, k.search, k.toggle, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back, k.nextPanel, k.search},
		{k.toggle, k.next, k.prev, k.seekFwd, k.seekBack, k.mode},
		{k.like, k.addTo, k.create, k.edit, k.remove, k.moveUp, k.moveDown},
		{k.share, k.receive, k.help, k.quit},
	}
}
