package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/richedit/cli"
	"github.com/grovetools/richedit/logging"
	"github.com/grovetools/richedit/tui"
	"github.com/grovetools/richedit/tui/keymap"
	"github.com/grovetools/richedit/tui/theme"
	"github.com/spf13/cobra"
)

// NewKeymapCmd creates the `keymap` command.
func NewKeymapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keymap",
		Short: "List the editor key bindings with configuration overrides applied",
		Long: `Lists every key binding of the terminal editor. Bindings can be changed
under keybindings: in richedit.yml using the config keys shown here.

Examples:
  # Table of bindings
  richedit keymap

  # Machine-readable export
  richedit keymap --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault(cmd)
			if err != nil {
				return err
			}
			tui.Setup(cfg, false)
			km := keymap.Default()
			unknown := keymap.ApplyOverrides(&km, cfg.Keybindings)
			info := EditorKeymapInfo(km)

			out := cmd.OutOrStdout()
			pretty := logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr())
			for _, name := range unknown {
				pretty.WarnPretty(fmt.Sprintf("keybindings.%s does not name an editor action", name))
			}
			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintln(out, renderKeymap(info))
			return nil
		},
	}
}

// EditorKeymapInfo describes the editor TUI's bindings.
func EditorKeymapInfo(km keymap.KeyMap) keymap.TUIInfo {
	return keymap.MakeTUIInfo(
		"richedit-edit",
		"github.com/grovetools/richedit/tui/editorview",
		"Terminal rich-text editor",
		km,
	)
}

func renderKeymap(info keymap.TUIInfo) string {
	t := theme.DefaultTheme
	tbl := table.New().
		Headers("SECTION", "KEYS", "ACTION", "CONFIG KEY").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.Bold.Padding(0, 1)
			}
			if col == 1 {
				return t.Accent.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, s := range info.Sections {
		for _, b := range s.Bindings {
			if !b.Enabled {
				continue
			}
			tbl.Row(s.Name, strings.Join(b.Keys, ", "), b.Description, b.ConfigKey)
		}
	}
	return tbl.Render()
}
