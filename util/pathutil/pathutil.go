// Package pathutil resolves user-supplied file paths.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Expand expands a leading ~ and environment variables and returns an
// absolute path.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	path = os.ExpandEnv(path)
	return filepath.Abs(path)
}

// Key returns a stable identity for path, suitable as a map key: absolute,
// with symlinks resolved when the file exists, and lower-cased on
// case-insensitive systems.
func Key(path string) (string, error) {
	abs, err := Expand(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return strings.ToLower(abs), nil
	}
	return abs, nil
}
