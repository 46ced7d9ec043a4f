package testutil

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerRecords(t *testing.T) {
	log, hook := Logger(t)
	log.Debug("detail")
	log.Warn("careful")
	log.Error("broken")

	assert.Equal(t, []string{"detail", "careful", "broken"}, Messages(hook, logrus.DebugLevel))
	assert.Equal(t, []string{"careful", "broken"}, Messages(hook, logrus.WarnLevel))
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "a/b/c.md", "# C\n")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# C\n", string(data))
}
