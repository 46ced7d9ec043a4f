package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/richedit/config"
	"github.com/grovetools/richedit/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := newLogger(component, logCfg, defaultLogFile(component))
	loggers[component] = entry
	return entry
}

// Reset drops cached loggers so the next NewLogger call re-reads configuration.
func Reset() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	loggers = make(map[string]*logrus.Entry)
}

func newLogger(component string, logCfg Config, defaultPath string) *logrus.Entry {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("RICHEDIT_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetReportCaller(logCfg.ReportCaller || os.Getenv("RICHEDIT_LOG_CALLER") == "true")
	logger.SetFormatter(logCfg.formatter())

	if shouldLogToStderr(logCfg, level) {
		logger.SetOutput(GetGlobalOutput())
	} else {
		logger.SetOutput(io.Discard)
	}

	path := defaultPath
	if logCfg.File.Enabled && logCfg.File.Path != "" {
		if expanded, err := pathutil.Expand(logCfg.File.Path); err == nil {
			path = expanded
		}
	}
	if path != "" {
		if w, err := openLogFile(path); err == nil {
			logger.AddHook(newFileHook(w, logCfg))
		} else if logCfg.File.Enabled {
			// Only complain about paths the user asked for.
			logger.WithError(err).Warn("Log file unavailable")
		}
	}

	return logger.WithField("component", component)
}

func openLogFile(path string) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

// fileHook copies every record into the log file. The file is always plain
// text or JSON, whatever the stderr preset is.
type fileHook struct {
	mu        sync.Mutex
	w         io.Writer
	formatter logrus.Formatter
}

func newFileHook(w io.Writer, logCfg Config) *fileHook {
	var f logrus.Formatter = &TextFormatter{Config: FormatConfig{
		DisableTimestamp: logCfg.Format.DisableTimestamp,
		DisableComponent: logCfg.Format.DisableComponent,
	}, Plain: true}
	if logCfg.File.Format == "json" || (logCfg.File.Format == "" && logCfg.Format.Preset == PresetJSON) {
		f = &logrus.JSONFormatter{}
	}
	return &fileHook{w: w, formatter: f}
}

func (h *fileHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(line)
	return err
}

// shouldLogToStderr resolves the structured_to_stderr mode. In "auto" mode
// logs reach stderr only when debugging or when stderr is not a terminal.
func shouldLogToStderr(logCfg Config, level logrus.Level) bool {
	switch logCfg.Format.StructuredToStderr {
	case "always":
		return true
	case "never":
		return false
	}
	isDebug := os.Getenv("RICHEDIT_DEBUG") == "1" || level >= logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return isDebug || !isInteractive
}

// LogDir returns the directory default log files are written to.
func LogDir() string {
	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, ".richedit", "logs")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".richedit", "logs")
	}
	return ""
}

// LogFile returns the default log file of component for today.
func LogFile(component string) string {
	return defaultLogFile(component)
}

func defaultLogFile(component string) string {
	dir := LogDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.log", component, time.Now().Format("2006-01-02")))
}
