package richtext

import (
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/popup"
	"github.com/grovetools/richedit/slashmenu"
	"github.com/grovetools/richedit/toolbar"
)

// MenuView is what a renderer needs to draw the slash menu.
type MenuView struct {
	Open      bool              `json:"open"`
	Query     string            `json:"query"`
	Selected  int               `json:"selected"`
	Anchor    editor.Point      `json:"anchor"`
	Placement popup.Placement   `json:"placement"`
	Groups    []slashmenu.Group `json:"groups,omitempty"`
	Empty     bool              `json:"empty"`
}

// ToolbarView is what a renderer needs to draw the floating toolbar.
type ToolbarView struct {
	Visible   bool             `json:"visible"`
	Position  editor.Point     `json:"position"`
	Placement popup.Placement  `json:"placement"`
	Buttons   []toolbar.Button `json:"buttons,omitempty"`
}

// View is a snapshot of both popups.
type View struct {
	Menu    MenuView    `json:"menu"`
	Toolbar ToolbarView `json:"toolbar"`
}

// View captures the current popup state.
func (e *Editor) View() View {
	var v View
	ms := e.menu.State()
	v.Menu = MenuView{Open: ms.Open, Query: ms.Query, Selected: ms.Selected, Anchor: ms.Anchor, Placement: ms.Placement}
	if ms.Open {
		v.Menu.Groups = e.menu.Groups()
		v.Menu.Empty = e.menu.Empty()
	}
	ts := e.toolbar.State()
	v.Toolbar = ToolbarView{Visible: ts.Visible, Position: ts.Position, Placement: ts.Placement}
	if ts.Visible {
		v.Toolbar.Buttons = e.toolbar.Buttons()
	}
	return v
}
