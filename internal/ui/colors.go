package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF5555", "#FFA500", "#626262")

// Palette is a small stylesheet built from named [lipgloss.Style] fields
type Palette struct {
	title     lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	warn      lipgloss.Style
	help      lipgloss.Style
	dim       lipgloss.Style
	selected  lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	dialog    lipgloss.Style
	bar       lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:     NewBold(t).MarginBottom(1),
		ok:        NewBold(s),
		err:       NewBold(e),
		warn:      NewStyle(w),
		help:      NewEm(h),
		dim:       NewStyle(h).Faint(true),
		selected:  NewBold(t).PaddingLeft(1),
		tab:       NewStyle(h).Padding(0, 2),
		activeTab: NewBold("#FFFFFF").Background(lipgloss.Color(t)).Padding(0, 2),
		dialog:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(1, 2),
		bar:       NewStyle(s),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
