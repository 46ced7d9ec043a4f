package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/richedit/cli"
	"github.com/grovetools/richedit/logging"
	"github.com/grovetools/richedit/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs [component]",
		Short: "Show richedit log output",
		Long: `Prints the log file of a component (edit, bridge, ...) from .richedit/logs.
Without a component the most recently written log file is used.

Examples:
  # Follow the bridge log
  richedit logs bridge -f

  # Last 50 lines of the newest log as JSON Lines
  richedit logs --tail 50 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogsE,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of the log (default: all)")

	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	path, err := resolveLogFile(args)
	if err != nil {
		return err
	}
	follow, _ := cmd.Flags().GetBool("follow")
	lines, _ := cmd.Flags().GetInt("tail")
	jsonOut := cli.GetOptions(cmd).JSONOutput
	out := cmd.OutOrStdout()

	cli.GetLogger(cmd, "logs").WithField("log_file", path).Debug("Reading log file")

	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	if lines >= 0 {
		last, err := lastLines(path, lines)
		if err != nil {
			return err
		}
		for _, line := range last {
			fmt.Fprintln(out, formatLogLine(line, jsonOut))
		}
		if !follow {
			return nil
		}
		location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:   follow,
		ReOpen:   follow,
		Location: location,
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return fmt.Errorf("failed to tail %s: %w", path, err)
	}
	defer t.Cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		t.Stop()
	}()

	for line := range t.Lines {
		if line.Err != nil {
			return line.Err
		}
		fmt.Fprintln(out, formatLogLine(line.Text, jsonOut))
	}
	return nil
}

// resolveLogFile picks today's file for the named component, or the newest
// file in the log directory.
func resolveLogFile(args []string) (string, error) {
	if len(args) == 1 {
		path := logging.LogFile(args[0])
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("no log for %s today: %w", args[0], err)
		}
		return path, nil
	}
	return findLatestLogFile(logging.LogDir())
}

// findLatestLogFile finds the most recently modified non-empty file in a directory.
// Prefers files with content over empty files.
func findLatestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var latest, latestNonEmpty os.FileInfo
	var latestPath, latestNonEmptyPath string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == nil || info.ModTime().After(latest.ModTime()) {
			latest = info
			latestPath = filepath.Join(dir, entry.Name())
		}
		if info.Size() > 0 && (latestNonEmpty == nil || info.ModTime().After(latestNonEmpty.ModTime())) {
			latestNonEmpty = info
			latestNonEmptyPath = filepath.Join(dir, entry.Name())
		}
	}

	if latestNonEmpty != nil {
		return latestNonEmptyPath, nil
	}
	if latest == nil {
		return "", fmt.Errorf("no log files found in %s", dir)
	}
	return latestPath, nil
}

// lastLines returns the final n lines of the file, or all of them when n is 0.
func lastLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// formatLogLine renders a JSON log record for reading, or passes the line
// through when it is not JSON. With jsonOut every line becomes a JSON record.
func formatLogLine(line string, jsonOut bool) string {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		if jsonOut {
			data, _ := json.Marshal(map[string]interface{}{"raw_line": line})
			return string(data)
		}
		return line
	}
	if jsonOut {
		return line
	}

	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)
	component, _ := logMap["component"].(string)
	if part, ok := logMap["part"].(string); ok {
		component += "/" + part
	}

	parsedTime, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		parsedTime, _ = time.Parse(time.RFC3339, ts)
	}

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = theme.DefaultTheme.Error
	case "warning":
		levelStyle = theme.DefaultTheme.Warning
	case "info":
		levelStyle = theme.DefaultTheme.Info
	default:
		levelStyle = theme.DefaultTheme.Muted
	}

	var keys []string
	for k := range logMap {
		if k != "time" && k != "level" && k != "msg" && k != "component" && k != "part" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", theme.DefaultTheme.Muted.Render(k), logMap[k]))
	}

	return strings.TrimRight(fmt.Sprintf("%s %s %s [%s] %s",
		parsedTime.Format("15:04:05"),
		levelStyle.Render(strings.ToUpper(level)),
		msg,
		theme.DefaultTheme.Muted.Render(component),
		strings.Join(fields, " "),
	), " ")
}
