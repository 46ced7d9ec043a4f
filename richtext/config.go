package richtext

import (
	"github.com/grovetools/richedit/config"
	"github.com/grovetools/richedit/editor"
)

// FromConfig maps the editor section of a loaded configuration onto the
// component settings. Zero values keep the component defaults.
func FromConfig(cfg *config.Config) Config {
	out := DefaultConfig()
	if cfg == nil {
		return out
	}
	ec := cfg.Editor
	if ec.SettleDelay > 0 {
		out.Observer.SettleDelay = ec.SettleDelay.Std()
	}
	out.Observer.KeyDeferral = ec.KeyDeferral.Std()
	out.Menu.Offset = ec.MenuOffset
	out.Toolbar.Offset = ec.ToolbarOffset
	if ec.ToolbarWidth > 0 && ec.ToolbarHeight > 0 {
		out.Toolbar.Size = editor.Size{W: ec.ToolbarWidth, H: ec.ToolbarHeight}
	}
	return out
}
