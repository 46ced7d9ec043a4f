package config

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written as a Go duration string ("50ms") in
// configuration files.
type Duration time.Duration

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

// JSONSchema describes durations as strings.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     durationPattern,
		Description: "Go duration string, e.g. 50ms",
	}
}

const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// ViewportConfig is the size of the editing surface in cells when it is not
// taken from the terminal.
type ViewportConfig struct {
	Width  int `yaml:"width,omitempty" toml:"width,omitempty" json:"width,omitempty" jsonschema:"description=Viewport width in cells (default: terminal width),minimum=0"`
	Height int `yaml:"height,omitempty" toml:"height,omitempty" json:"height,omitempty" jsonschema:"description=Viewport height in cells (default: terminal height),minimum=0"`
}

// EditorConfig tunes the interaction layer.
type EditorConfig struct {
	SettleDelay   Duration       `yaml:"settle_delay,omitempty" toml:"settle_delay,omitempty" json:"settle_delay,omitempty" jsonschema:"description=Quiet period after a pointer release before the toolbar appears"`
	KeyDeferral   Duration       `yaml:"key_deferral,omitempty" toml:"key_deferral,omitempty" json:"key_deferral,omitempty" jsonschema:"description=Delay before state is re-derived after a key press"`
	MenuOffset    int            `yaml:"menu_offset,omitempty" toml:"menu_offset,omitempty" json:"menu_offset,omitempty" jsonschema:"description=Rows between the caret and the slash menu,minimum=0"`
	ToolbarOffset int            `yaml:"toolbar_offset,omitempty" toml:"toolbar_offset,omitempty" json:"toolbar_offset,omitempty" jsonschema:"description=Rows between the selection and the toolbar,minimum=0"`
	ToolbarWidth  int            `yaml:"toolbar_width,omitempty" toml:"toolbar_width,omitempty" json:"toolbar_width,omitempty" jsonschema:"description=Toolbar width in cells,minimum=0"`
	ToolbarHeight int            `yaml:"toolbar_height,omitempty" toml:"toolbar_height,omitempty" json:"toolbar_height,omitempty" jsonschema:"description=Toolbar height in cells,minimum=0"`
	Viewport      ViewportConfig `yaml:"viewport,omitempty" toml:"viewport,omitempty" json:"viewport,omitempty" jsonschema:"description=Fixed viewport size"`
}

// ThemeConfig selects the TUI look.
type ThemeConfig struct {
	Name  string `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty" jsonschema:"description=Color theme,enum=default,enum=light,enum=mono"`
	Icons string `yaml:"icons,omitempty" toml:"icons,omitempty" json:"icons,omitempty" jsonschema:"description=Icon set,enum=nerd,enum=ascii"`
}

// BridgeConfig configures the websocket bridge.
type BridgeConfig struct {
	Addr string `yaml:"addr,omitempty" toml:"addr,omitempty" json:"addr,omitempty" jsonschema:"description=Listen address for richedit serve (default: 127.0.0.1:7878)"`
}

// KeybindingSectionConfig maps action names to lists of key combinations.
type KeybindingSectionConfig map[string][]string

// Config represents a richedit.yml or richedit.toml file.
type Config struct {
	Version     string                  `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Editor      EditorConfig            `yaml:"editor,omitempty" toml:"editor,omitempty" json:"editor,omitempty" jsonschema:"description=Interaction timing and popup placement"`
	Theme       ThemeConfig             `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty" jsonschema:"description=TUI appearance"`
	Bridge      BridgeConfig            `yaml:"bridge,omitempty" toml:"bridge,omitempty" json:"bridge,omitempty" jsonschema:"description=Websocket bridge settings"`
	Keybindings KeybindingSectionConfig `yaml:"keybindings,omitempty" toml:"keybindings,omitempty" json:"keybindings,omitempty" jsonschema:"description=Key overrides for the editor TUI, by action name"`

	// Extensions captures all other top-level keys, e.g. logging.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`

	// editorKeys records the editor keys present in the source file.
	editorKeys map[string]bool
}

// knownKeys are the top-level keys that are not extensions.
var knownKeys = map[string]bool{
	"version":     true,
	"editor":      true,
	"theme":       true,
	"bridge":      true,
	"keybindings": true,
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Editor.SettleDelay == 0 {
		c.Editor.SettleDelay = Duration(50 * time.Millisecond)
	}
	if c.Editor.ToolbarWidth == 0 {
		c.Editor.ToolbarWidth = 48
	}
	if c.Editor.ToolbarHeight == 0 {
		c.Editor.ToolbarHeight = 3
	}
	if c.Theme.Name == "" {
		c.Theme.Name = "default"
	}
	if c.Theme.Icons == "" {
		c.Theme.Icons = "nerd"
	}
	if c.Bridge.Addr == "" {
		c.Bridge.Addr = "127.0.0.1:7878"
	}
}

// UnmarshalExtension decodes a top-level extension section into target, which
// must be a pointer. A missing key leaves target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// yamlString renders the config for debug output.
func (c *Config) yamlString() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

// ConfigSource identifies the origin of a configuration layer.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceGlobal  ConfigSource = "global"
	SourceProject ConfigSource = "project"
)
