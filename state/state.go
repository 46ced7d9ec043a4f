// Package state persists small pieces of editor state between runs, such as
// where the caret was when a file was last closed.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/richedit/util/pathutil"
	"gopkg.in/yaml.v3"
)

// State is the content of the state file.
type State struct {
	// Carets maps a file's path key to the last caret position in it.
	Carets map[string]int `yaml:"carets,omitempty"`
}

// Store reads and writes a state file.
type Store struct {
	path string
}

// Open returns a store backed by path.
func Open(path string) *Store {
	return &Store{path: path}
}

// Default returns the store at .richedit/state.yml in the working directory,
// next to the logs.
func Default() (*Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get current directory: %w", err)
	}
	return Open(filepath.Join(cwd, ".richedit", "state.yml")), nil
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state. A missing file is an empty state.
func (s *Store) Load() (*State, error) {
	st := &State{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return st, nil
}

// Save writes the state, creating the directory if needed.
func (s *Store) Save(st *State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Caret returns the remembered caret position for file.
func (s *Store) Caret(file string) (int, bool, error) {
	key, err := pathutil.Key(file)
	if err != nil {
		return 0, false, err
	}
	st, err := s.Load()
	if err != nil {
		return 0, false, err
	}
	pos, ok := st.Carets[key]
	return pos, ok, nil
}

// SetCaret remembers the caret position for file.
func (s *Store) SetCaret(file string, pos int) error {
	key, err := pathutil.Key(file)
	if err != nil {
		return err
	}
	st, err := s.Load()
	if err != nil {
		return err
	}
	if st.Carets == nil {
		st.Carets = make(map[string]int)
	}
	st.Carets[key] = pos
	return s.Save(st)
}
