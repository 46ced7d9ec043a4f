package cmd

import (
	"encoding/json"

	"github.com/grovetools/richedit/slashmenu"
	"github.com/grovetools/richedit/toolbar"
)

type catalogDoc struct {
	SlashCommands  []slashCommandDoc  `json:"slash_commands"`
	ToolbarActions []toolbarActionDoc `json:"toolbar_actions"`
}

type slashCommandDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Group       string `json:"group"`
	Icon        string `json:"icon"`
}

type toolbarActionDoc struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	NeedsValue bool   `json:"needs_value,omitempty"`
}

// RenderCatalog lists the built-in slash commands and toolbar actions as JSON.
func RenderCatalog() ([]byte, error) {
	var doc catalogDoc
	for _, c := range slashmenu.Catalog() {
		doc.SlashCommands = append(doc.SlashCommands, slashCommandDoc{
			Title:       c.Title,
			Description: c.Description,
			Keywords:    c.Keywords,
			Group:       c.Group,
			Icon:        c.Icon,
		})
	}
	for _, a := range toolbar.Actions() {
		doc.ToolbarActions = append(doc.ToolbarActions, toolbarActionDoc{
			ID:         a.ID,
			Label:      a.Label,
			Icon:       a.Icon,
			NeedsValue: a.NeedsValue,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
