package cmd

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/richedit/util/frontmatter"
	"github.com/grovetools/richedit/util/pathutil"
	"github.com/sirupsen/logrus"
)

// document is a markdown file being edited. Frontmatter is kept out of the
// editor and written back on save. The document remembers the content it
// last read or wrote so its own saves are not reported as outside changes.
type document struct {
	path string

	mu    sync.Mutex
	front frontmatter.Document
	last  string
}

func newDocument(path string) (*document, error) {
	abs, err := pathutil.Expand(path)
	if err != nil {
		return nil, err
	}
	return &document{path: filepath.Clean(abs)}, nil
}

// Read returns the markdown body. A missing file reads as empty and is
// created on the first write.
func (d *document) Read() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, err := os.ReadFile(d.path)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	d.last = string(data)
	d.front = frontmatter.Split(d.last)
	return d.front.Body, nil
}

// Write replaces the body, keeping the frontmatter read last.
func (d *document) Write(md string) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	content := d.front.Join(md)
	if err := os.WriteFile(d.path, []byte(content), 0644); err != nil {
		return err
	}
	d.last = content
	return nil
}

// Title returns the frontmatter title, falling back to the file name.
func (d *document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if title := d.front.Title(); title != "" {
		return title
	}
	return filepath.Base(d.path)
}

// changed reads the file and reports whether it differs from what was last
// read or written. It returns the new body.
func (d *document) changed() (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, err := os.ReadFile(d.path)
	if err != nil {
		return "", false, err
	}
	if string(data) == d.last {
		return "", false, nil
	}
	d.last = string(data)
	d.front = frontmatter.Split(d.last)
	return d.front.Body, true, nil
}

// Watch calls onChange with the new content whenever the file changes on
// disk, until ctx is cancelled. The directory is watched so editors that
// save by renaming a temporary file are noticed too.
func (d *document) Watch(ctx context.Context, log *logrus.Entry, onChange func(md string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(d.path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != d.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				md, changed, err := d.changed()
				if err != nil {
					log.WithError(err).Debug("Watched file not readable")
					continue
				}
				if changed {
					log.WithField("path", d.path).Debug("File changed on disk")
					onChange(md)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("File watcher error")
			}
		}
	}()
	return nil
}
