package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/richedit/config"
)

// KeyMap holds the editor TUI's bindings. Plain typing, arrows and
// backspace go straight to the document and are not listed here.
type KeyMap struct {
	// Slash menu, active only while the menu is open
	MenuUp     key.Binding
	MenuDown   key.Binding
	MenuSelect key.Binding
	MenuClose  key.Binding

	// Formatting, applied to the selection like toolbar buttons
	Bold        key.Binding
	Italic      key.Binding
	Underline   key.Binding
	Link        key.Binding
	Heading1    key.Binding
	Heading2    key.Binding
	Heading3    key.Binding
	BulletList  key.Binding
	OrderedList key.Binding
	Quote       key.Binding

	SelectAll key.Binding

	// System
	Save    key.Binding
	Reload  key.Binding
	Preview key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// Default returns the built-in bindings.
func Default() KeyMap {
	return KeyMap{
		MenuUp: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("up", "previous command"),
		),
		MenuDown: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "next command"),
		),
		MenuSelect: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter", "run command"),
		),
		MenuClose: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu"),
		),

		Bold: key.NewBinding(
			key.WithKeys("alt+b"),
			key.WithHelp("M-b", "bold"),
		),
		Italic: key.NewBinding(
			key.WithKeys("alt+i"),
			key.WithHelp("M-i", "italic"),
		),
		Underline: key.NewBinding(
			key.WithKeys("alt+u"),
			key.WithHelp("M-u", "underline"),
		),
		Link: key.NewBinding(
			key.WithKeys("alt+k"),
			key.WithHelp("M-k", "link"),
		),
		Heading1: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("M-1", "heading 1"),
		),
		Heading2: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("M-2", "heading 2"),
		),
		Heading3: key.NewBinding(
			key.WithKeys("alt+3"),
			key.WithHelp("M-3", "heading 3"),
		),
		BulletList: key.NewBinding(
			key.WithKeys("alt+l"),
			key.WithHelp("M-l", "bullet list"),
		),
		OrderedList: key.NewBinding(
			key.WithKeys("alt+o"),
			key.WithHelp("M-o", "ordered list"),
		),
		Quote: key.NewBinding(
			key.WithKeys("alt+q"),
			key.WithHelp("M-q", "blockquote"),
		),

		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "select all"),
		),

		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "reload"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "markdown preview"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-q", "quit"),
		),
	}
}

// Load returns the default bindings with the overrides from cfg applied.
func Load(cfg *config.Config) KeyMap {
	km := Default()
	if cfg != nil {
		ApplyOverrides(&km, cfg.Keybindings)
	}
	return km
}

// FormatAction returns the toolbar action bound to msg.
func (k KeyMap) FormatAction(msg tea.KeyMsg) (string, bool) {
	for _, b := range []struct {
		binding key.Binding
		action  string
	}{
		{k.Bold, "bold"},
		{k.Italic, "italic"},
		{k.Underline, "underline"},
		{k.Link, "link"},
		{k.Heading1, "h1"},
		{k.Heading2, "h2"},
		{k.Heading3, "h3"},
		{k.BulletList, "bullet"},
		{k.OrderedList, "ordered"},
		{k.Quote, "blockquote"},
	} {
		if key.Matches(msg, b.binding) {
			return b.action, true
		}
	}
	return "", false
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Preview, k.Help, k.Quit}
}

// Sections returns every binding grouped for the help overlay.
func (k KeyMap) Sections() []Section {
	return []Section{
		NewSection(SectionMenu, k.MenuUp, k.MenuDown, k.MenuSelect, k.MenuClose),
		NewSection(SectionFormat, k.Bold, k.Italic, k.Underline, k.Link,
			k.Heading1, k.Heading2, k.Heading3, k.BulletList, k.OrderedList, k.Quote),
		NewSection(SectionSelection, k.SelectAll),
		NewSection(SectionSystem, k.Save, k.Reload, k.Preview, k.Help, k.Quit),
	}
}

// FullHelp returns the sections as columns, each led by a header binding.
func (k KeyMap) FullHelp() [][]key.Binding {
	sections := k.Sections()
	result := make([][]key.Binding, len(sections))
	for i, s := range sections {
		header := key.NewBinding(key.WithKeys(""), key.WithHelp("", s.Name))
		result[i] = append([]key.Binding{header}, s.Bindings...)
	}
	return result
}
