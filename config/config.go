package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/richedit/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched in order in each directory.
var configNames = []string{
	"richedit.yml",
	"richedit.yaml",
	"richedit.toml",
	".richedit.yml",
	".richedit.yaml",
	".richedit.toml",
}

// Load reads, defaults and validates a single configuration file.
func Load(path string) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadDefault loads configuration starting from the working directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging:
// 1. Global config (~/.config/richedit/richedit.yml) - base layer
// 2. Project config found upward from startDir - overrides global
//
// Missing files are not an error; defaults fill whatever is not set.
func LoadFrom(startDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(startDir, logger)
}

// LoadFromWithLogger is LoadFrom with an explicit logger.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	finalConfig := &Config{}

	if globalPath := findGlobalConfig(); globalPath != "" {
		logger.WithField("path", globalPath).Debug("Loading global configuration")
		globalConfig, err := loadRaw(globalPath)
		if err != nil {
			logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
		} else {
			finalConfig = globalConfig
		}
	}

	projectPath, err := FindConfigFile(startDir)
	if err == nil {
		logger.WithField("path", projectPath).Debug("Loading project configuration")
		projectConfig, err := loadRaw(projectPath)
		if err != nil {
			return nil, err
		}
		finalConfig = mergeConfigs(finalConfig, projectConfig)
	} else if !errors.Is(err, errors.ErrCodeConfigNotFound) {
		return nil, err
	}

	cfg, err := finish(finalConfig)
	if err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.Debugf("Merged configuration:\n%s", cfg.yamlString())
	}
	return cfg, nil
}

// LoadFromBytes parses YAML configuration.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := parse(data, ".yml")
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadTOMLFromBytes parses TOML configuration.
func LoadTOMLFromBytes(data []byte) (*Config, error) {
	cfg, err := parse(data, ".toml")
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

func loadRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	cfg, err := parse(data, filepath.Ext(path))
	if err != nil {
		if ee, ok := errors.As(err); ok {
			return nil, ee.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

func parse(data []byte, ext string) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var cfg Config
	if ext == ".toml" {
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		var raw map[string]interface{}
		if err := toml.NewDecoder(bytes.NewReader(expanded)).Decode(&raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		for key, value := range raw {
			if knownKeys[key] {
				continue
			}
			if cfg.Extensions == nil {
				cfg.Extensions = make(map[string]interface{})
			}
			cfg.Extensions[key] = value
		}
		cfg.editorKeys = sectionKeys(raw["editor"])
		return &cfg, nil
	}

	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(expanded, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}
	cfg.editorKeys = sectionKeys(raw["editor"])
	return &cfg, nil
}

// sectionKeys lists the keys a file sets in a section, with nested keys
// joined by dots, so that explicit zero values can be told from absent ones.
func sectionKeys(section interface{}) map[string]bool {
	m, ok := section.(map[string]interface{})
	if !ok {
		return nil
	}
	keys := make(map[string]bool, len(m))
	for key, value := range m {
		keys[key] = true
		for nested := range sectionKeys(value) {
			keys[key+"."+nested] = true
		}
	}
	return keys
}

// finish applies defaults and runs schema and semantic validation.
func finish(cfg *Config) (*Config, error) {
	cfg.SetDefaults()

	if err := validateSchema(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches from startDir up to the filesystem root.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

// GlobalDir returns the richedit directory under the XDG config home.
func GlobalDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "richedit")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "richedit")
	}

	return ""
}

func findGlobalConfig() string {
	dir := GlobalDir()
	if dir == "" {
		return ""
	}
	for _, name := range configNames[:3] {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
