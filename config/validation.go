package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/grovetools/richedit/errors"
)

var (
	themeNames = map[string]bool{"default": true, "light": true, "mono": true}
	iconSets   = map[string]bool{"nerd": true, "ascii": true}
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateEditor(&c.Editor); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid editor configuration")
	}

	if c.Theme.Name != "" && !themeNames[c.Theme.Name] {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("unknown theme: %s", c.Theme.Name)).
			WithDetail("theme", c.Theme.Name)
	}
	if c.Theme.Icons != "" && !iconSets[c.Theme.Icons] {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("unknown icon set: %s", c.Theme.Icons)).
			WithDetail("icons", c.Theme.Icons)
	}

	if c.Bridge.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Bridge.Addr); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("invalid bridge address: %s", c.Bridge.Addr)).
				WithDetail("addr", c.Bridge.Addr)
		}
	}

	for action, keys := range c.Keybindings {
		if strings.TrimSpace(action) == "" {
			return errors.New(errors.ErrCodeConfigValidation, "keybinding action cannot be empty")
		}
		for _, k := range keys {
			if strings.TrimSpace(k) == "" {
				return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("empty key for action '%s'", action)).
					WithDetail("action", action)
			}
		}
	}

	return nil
}

func validateEditor(e *EditorConfig) error {
	if e.SettleDelay < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "settle_delay cannot be negative")
	}
	if e.KeyDeferral < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "key_deferral cannot be negative")
	}
	if e.KeyDeferral > e.SettleDelay {
		return errors.New(errors.ErrCodeInvalidInput, "key_deferral must not exceed settle_delay").
			WithDetail("key_deferral", e.KeyDeferral.String()).
			WithDetail("settle_delay", e.SettleDelay.String())
	}
	if e.MenuOffset < 0 || e.ToolbarOffset < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "offsets cannot be negative")
	}
	if e.ToolbarWidth < 0 || e.ToolbarHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "toolbar size cannot be negative")
	}
	if e.Viewport.Width < 0 || e.Viewport.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport size cannot be negative")
	}
	return nil
}
