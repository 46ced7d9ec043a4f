package logging

import "github.com/sirupsen/logrus"

// Format presets.
const (
	PresetDefault = "default"
	PresetSimple  = "simple"
	PresetJSON    = "json"
)

// Config is the `logging:` section of richedit.yml. Every field is
// optional; RICHEDIT_LOG_LEVEL and RICHEDIT_LOG_CALLER override the
// matching settings. Values are checked against schema/logging.schema.json
// when the file is loaded.
type Config struct {
	Level        string         `yaml:"level" json:"level,omitempty" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=warning,enum=error,enum=fatal,enum=panic,default=info"`
	ReportCaller bool           `yaml:"report_caller" json:"report_caller,omitempty" jsonschema:"description=Include file and line of the call site"`
	File         FileSinkConfig `yaml:"file" json:"file,omitempty"`
	Format       FormatConfig   `yaml:"format" json:"format,omitempty"`
}

// FileSinkConfig sends logs to a file instead of the per-component file
// under .richedit/logs.
type FileSinkConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled,omitempty"`
	Path    string `yaml:"path" json:"path,omitempty" jsonschema:"description=Log file path; ~ and environment variables are expanded"`
	// Format applies to the file only; stderr keeps Config.Format.
	Format string `yaml:"format,omitempty" json:"format,omitempty" jsonschema:"enum=text,enum=json,default=text"`
}

// FormatConfig controls how records are rendered on stderr.
type FormatConfig struct {
	Preset           string `yaml:"preset" json:"preset,omitempty" jsonschema:"enum=default,enum=simple,enum=json,default=default"`
	DisableTimestamp bool   `yaml:"disable_timestamp" json:"disable_timestamp,omitempty"`
	DisableComponent bool   `yaml:"disable_component" json:"disable_component,omitempty"`
	// StructuredToStderr is auto, always or never. In auto mode records
	// reach stderr only when debugging or when stderr is not a terminal.
	StructuredToStderr string `yaml:"structured_to_stderr" json:"structured_to_stderr,omitempty" jsonschema:"enum=auto,enum=always,enum=never,default=auto"`
}

// formatter returns the stderr formatter for c.
func (c Config) formatter() logrus.Formatter {
	switch c.Format.Preset {
	case PresetJSON:
		return &logrus.JSONFormatter{}
	case PresetSimple:
		return &TextFormatter{Config: FormatConfig{DisableTimestamp: true, DisableComponent: true}}
	default:
		return &TextFormatter{Config: c.Format}
	}
}
