package keymap

import "github.com/charmbracelet/bubbles/key"

// Section names, in display order.
const (
	SectionMenu      = "Slash menu"
	SectionFormat    = "Format"
	SectionSelection = "Selection"
	SectionSystem    = "System"
)

// Section is a named group of bindings shown together in help.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// Sectioned is implemented by keymaps that group their bindings.
type Sectioned interface {
	Sections() []Section
}

// NewSection groups bindings under name.
func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

// Enabled returns the bindings that are currently active.
func (s Section) Enabled() []key.Binding {
	out := make([]key.Binding, 0, len(s.Bindings))
	for _, b := range s.Bindings {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

// IsEmpty reports whether no binding in s is active.
func (s Section) IsEmpty() bool {
	for _, b := range s.Bindings {
		if b.Enabled() {
			return false
		}
	}
	return true
}
