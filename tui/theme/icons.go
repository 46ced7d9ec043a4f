package theme

import (
	"os"

	"github.com/grovetools/richedit/config"
)

// Nerd Font icons, keyed by the names used in command and action tables.
var nerdIcons = map[string]string{
	"text":         "󰊄", // md-format_text
	"heading1":     "󰉫", // md-format_header_1
	"heading2":     "󰉬", // md-format_header_2
	"heading3":     "󰉭", // md-format_header_3
	"list":         "󰉹", // md-format_list_bulleted
	"list-ordered": "󰉻", // md-format_list_numbered
	"code-block":   "󰅩", // md-code_braces
	"code":         "󰅪", // md-code_tags
	"image":        "󰋩", // md-image
	"rule":         "󰕞", // md-minus
	"quote":        "󰉾", // md-format_quote_close
	"bold":         "󰉠", // md-format_bold
	"italic":       "󰉦", // md-format_italic
	"underline":    "󰉼", // md-format_underline
	"strike":       "󰉽", // md-format_strikethrough
	"link":         "󰌷", // md-link
	"color":        "󰏘", // md-palette
	"highlight":    "󰸱", // md-marker
	"align-left":   "󰉢", // md-format_align_left
	"align-center": "󰉡", // md-format_align_center
	"align-right":  "󰉣", // md-format_align_right
	"success":      "󰄬", // md-check
	"error":        "", // cod-error
	"warning":      "", // fa-warning
	"info":         "󰋼", // md-information
	"running":      "", // fa-refresh
	"bullet":       "", // oct-dot_fill
	"arrow":        "󰁔", // md-arrow_right
}

// ASCII fallbacks for terminals without a Nerd Font.
var asciiIcons = map[string]string{
	"text":         "T",
	"heading1":     "H1",
	"heading2":     "H2",
	"heading3":     "H3",
	"list":         "*",
	"list-ordered": "1.",
	"code-block":   "{}",
	"code":         "<>",
	"image":        "[i]",
	"rule":         "--",
	"quote":        ">",
	"bold":         "B",
	"italic":       "I",
	"underline":    "U",
	"strike":       "S",
	"link":         "@",
	"color":        "#",
	"highlight":    "=",
	"align-left":   "|<",
	"align-center": "><",
	"align-right":  ">|",
	"success":      "[ok]",
	"error":        "[x]",
	"warning":      "[!]",
	"info":         "[i]",
	"running":      "[~]",
	"bullet":       "*",
	"arrow":        "->",
}

var icons = nerdIcons

// Common status icons, resolved from the active icon set.
var (
	IconSuccess string
	IconError   string
	IconWarning string
	IconInfo    string
	IconRunning string
	IconBullet  string
	IconArrow   string
)

func init() {
	useASCII := false

	if env := os.Getenv("RICHEDIT_ICONS"); env != "" {
		useASCII = env == "ascii"
	} else if cfg, err := config.LoadDefault(); err == nil && cfg.Theme.Icons == "ascii" {
		useASCII = true
	}

	UseASCII(useASCII)
}

// UseASCII switches between the Nerd Font and ASCII icon sets.
func UseASCII(ascii bool) {
	icons = nerdIcons
	if ascii {
		icons = asciiIcons
	}

	IconSuccess = icons["success"]
	IconError = icons["error"]
	IconWarning = icons["warning"]
	IconInfo = icons["info"]
	IconRunning = icons["running"]
	IconBullet = icons["bullet"]
	IconArrow = icons["arrow"]
}

// Icon returns the glyph for name, or an empty string if there is none.
func Icon(name string) string {
	return icons[name]
}
