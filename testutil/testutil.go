// Package testutil holds helpers shared by richedit package tests.
package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// Logger returns a debug-level logger that prints nothing and a hook that
// records every entry for assertions.
func Logger(t *testing.T) (*logrus.Entry, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger), hook
}

// WriteFile writes content to name under dir, creating parent directories,
// and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Messages returns the messages of the entries hook recorded at level or
// more severe.
func Messages(hook *test.Hook, level logrus.Level) []string {
	var msgs []string
	for _, e := range hook.AllEntries() {
		if e.Level <= level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}
