// Package watcher provides debounced file system watching for the
// watch command.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors directories for template changes and reports the
// changed paths, debounced per file.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	extensions []string
	debounce   time.Duration
	changes    chan string
	done       chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Extensions is the set of file extensions (with leading dot) to
	// report.
	Extensions []string

	// DebounceDur is how long a file must stay quiet before its
	// change is reported.
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(extensions []string) Config {
	return Config{
		Extensions:  extensions,
		DebounceDur: 300 * time.Millisecond,
	}
}

// New creates a watcher for the given paths. Directories are watched
// recursively.
func New(cfg Config, paths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher:  fsw,
		extensions: cfg.Extensions,
		debounce:   cfg.DebounceDur,
		changes:    make(chan string, 16),
		done:       make(chan struct{}),
	}

	for _, path := range paths {
		if err := w.add(path); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		// Watch the containing directory; editors replace files on
		// save, which drops per-file watches.
		return w.fsWatcher.Add(filepath.Dir(path))
	}

	return filepath.WalkDir(path, func(p string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if entry.IsDir() {
			if p != path && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(p); err != nil {
				return fmt.Errorf("watching directory %s: %w", p, err)
			}
		}
		return nil
	})
}

// Start begins watching. Returns a channel receiving changed file
// paths.
func (w *Watcher) Start() <-chan string {
	go w.loop()
	return w.changes
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events, debouncing per path.
func (w *Watcher) loop() {
	pending := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}

			path := event.Name
			if timer, exists := pending[path]; exists {
				timer.Stop()
			}
			pending[path] = time.AfterFunc(w.debounce, func() {
				select {
				case w.changes <- path:
				case <-w.done:
				}
			})

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching; callers that need error visibility can
			// wrap the watcher.

		case <-w.done:
			for _, timer := range pending {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether the event is a write or create of a
// watched template file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, e := range w.extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
