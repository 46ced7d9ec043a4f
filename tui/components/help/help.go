// Package help renders the editor's key bindings, as a one-line hint or as
// a scrollable overlay grouped by section.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/richedit/tui/keymap"
	"github.com/grovetools/richedit/tui/theme"
)

// Model is an embeddable help component.
type Model struct {
	Keys     keymap.KeyMap
	ShowAll  bool
	Width    int
	Height   int
	Theme    *theme.Theme
	Title    string
	viewport viewport.Model
}

// New creates a help model for keys.
func New(keys keymap.KeyMap) Model {
	vp := viewport.New(0, 0)
	// Mouse wheel events belong to the editor surface.
	vp.MouseWheelEnabled = false
	return Model{
		Keys:     keys,
		Theme:    theme.DefaultTheme,
		Title:    "richedit keys",
		viewport: vp,
	}
}

// Update handles resizing and, while the overlay is open, scrolling and
// closing it.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if !m.ShowAll {
			return m, nil
		}
		if key.Matches(msg, m.Keys.Help) || key.Matches(msg, m.Keys.Quit) || msg.Type == tea.KeyEsc {
			m.Toggle()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the overlay when open, otherwise the one-line hint.
func (m Model) View() string {
	if !m.ShowAll {
		return m.viewShort()
	}
	content := m.viewport.View()
	if m.viewport.TotalLineCount() > m.viewport.Height {
		indicator := "↕ more"
		if m.viewport.AtTop() {
			indicator = "↓ more"
		} else if m.viewport.AtBottom() {
			indicator = "↑ more"
		}
		style := m.Theme.Muted.Align(lipgloss.Right).Width(m.viewport.Width)
		content = lipgloss.JoinVertical(lipgloss.Right, content, style.Render(indicator))
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewShort() string {
	var pairs []string
	for _, b := range m.Keys.ShortHelp() {
		if !b.Enabled() || b.Help().Key == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s %s", m.Theme.Accent.Render(b.Help().Key), m.Theme.Muted.Render(b.Help().Desc)))
	}
	return strings.Join(pairs, m.Theme.Muted.Render(" • "))
}

// Toggle opens or closes the overlay.
func (m *Model) Toggle() {
	m.ShowAll = !m.ShowAll
	if m.ShowAll {
		m.setContent()
		m.viewport.GotoTop()
	}
}

// SetSize sets the area the overlay centers in.
func (m *Model) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	if m.ShowAll {
		m.setContent()
	}
}

func (m *Model) setContent() {
	const (
		verticalMargin   = 4
		horizontalMargin = 4
		gutter           = 4
	)
	var blocks []string
	for _, s := range m.Keys.Sections() {
		if !s.IsEmpty() {
			blocks = append(blocks, m.renderSection(s))
		}
	}
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.Theme.Colors.Orange).
		MarginBottom(1).
		Align(lipgloss.Center)

	body := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	if lipgloss.Height(body) > m.Height-verticalMargin-1 && len(blocks) > 1 {
		twoCol := columns(blocks, 2, gutter)
		if lipgloss.Width(twoCol) <= m.Width-horizontalMargin {
			body = twoCol
		}
	}
	content := lipgloss.JoinVertical(lipgloss.Center, titleStyle.Width(lipgloss.Width(body)).Render(m.Title), body)

	m.viewport.SetContent(content)
	m.viewport.Width = lipgloss.Width(content)
	m.viewport.Height = max(1, m.Height-verticalMargin-1)
}

// columns distributes blocks over n columns, each block going to the
// shortest column so far.
func columns(blocks []string, n, gutter int) string {
	cols := make([][]string, n)
	heights := make([]int, n)
	for _, b := range blocks {
		shortest := 0
		for i := 1; i < n; i++ {
			if heights[i] < heights[shortest] {
				shortest = i
			}
		}
		cols[shortest] = append(cols[shortest], b)
		heights[shortest] += lipgloss.Height(b)
	}
	parts := make([]string, 0, 2*n-1)
	for i, c := range cols {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", gutter))
		}
		parts = append(parts, lipgloss.JoinVertical(lipgloss.Left, c...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSection(s keymap.Section) string {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(m.Theme.Colors.Blue)
	descStyle := m.Theme.Muted.Italic(true)

	table := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, b := range s.Enabled() {
		table = table.Row(keyStyle.Render(strings.Join(b.Keys(), "/")), descStyle.Render(b.Help().Desc))
	}

	title := lipgloss.NewStyle().
		Foreground(m.Theme.Colors.Orange).
		Italic(true).
		Render(sectionIcon(s.Name) + " " + s.Name)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.Colors.Border).
		Padding(0, 1)
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, table.String()))
}

func sectionIcon(name string) string {
	switch name {
	case keymap.SectionMenu:
		return theme.Icon("text")
	case keymap.SectionFormat:
		return theme.Icon("bold")
	case keymap.SectionSelection:
		return theme.Icon("highlight")
	default:
		return theme.IconInfo
	}
}
