// Package instructions maps operating modes to their instruction
// documents and display names.
package instructions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Mode describes one operating mode: the document it injects into the
// conversation and the name shown to users.
type Mode struct {
	File string
	Name string
}

// DefaultModes returns the built-in mode set.
func DefaultModes() map[string]Mode {
	return map[string]Mode{
		"basic":   {File: "frontend.md", Name: "UI Pattern Generator"},
		"full":    {File: "backend.md", Name: "Full Documentation"},
		"backend": {File: "backend.md", Name: "Backend Integration"},
	}
}

// Library resolves mode identifiers to instruction documents, with a
// read-through cache over the docs directory. An unknown mode or an
// unreadable document falls back to the default mode's document; only
// a failure of the default document fails the lookup.
type Library struct {
	docsDir     string
	defaultMode string
	modes       map[string]Mode
	logger      *zap.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewLibrary creates a library over docsDir. A nil or empty modes map
// selects the built-in set.
func NewLibrary(docsDir, defaultMode string, modes map[string]Mode, logger *zap.Logger) *Library {
	if len(modes) == 0 {
		modes = DefaultModes()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{
		docsDir:     docsDir,
		defaultMode: defaultMode,
		modes:       modes,
		logger:      logger,
		cache:       make(map[string]string),
	}
}

// resolve maps a mode id to its Mode entry, falling back to the
// default mode for unknown ids.
func (l *Library) resolve(mode string) Mode {
	if m, ok := l.modes[mode]; ok {
		return m
	}
	return l.modes[l.defaultMode]
}

// DisplayName returns the human-readable name for mode.
func (l *Library) DisplayName(mode string) string {
	return l.resolve(mode).Name
}

// Load returns the instruction document for mode. A missing or
// unreadable document falls back to the default mode's document; a
// failure of the default document is returned to the caller.
func (l *Library) Load(mode string) (string, error) {
	m := l.resolve(mode)

	text, err := l.readDocument(m.File)
	if err == nil {
		return text, nil
	}

	fallback := l.modes[l.defaultMode]
	if m.File == fallback.File {
		return "", fmt.Errorf("failed to read instructions for mode %q: %w", mode, err)
	}

	l.logger.Warn("falling back to default mode instructions",
		zap.String("mode", mode),
		zap.String("file", m.File),
		zap.Error(err))

	text, err = l.readDocument(fallback.File)
	if err != nil {
		return "", fmt.Errorf("failed to read default instructions: %w", err)
	}
	return text, nil
}

// readDocument reads a document through the cache.
func (l *Library) readDocument(file string) (string, error) {
	l.mu.Lock()
	if text, ok := l.cache[file]; ok {
		l.mu.Unlock()
		return text, nil
	}
	l.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(l.docsDir, file))
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	l.cache[file] = string(data)
	l.mu.Unlock()
	return string(data), nil
}

// invalidate drops the cache entry for a document.
func (l *Library) invalidate(file string) {
	l.mu.Lock()
	delete(l.cache, file)
	l.mu.Unlock()
}

// Watch invalidates cached documents when they change on disk, so
// instruction edits take effect without a restart. Blocks until ctx is
// cancelled. The library works without a watcher; documents are then
// cached for the process lifetime.
func (l *Library) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.docsDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", l.docsDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			file := filepath.Base(event.Name)
			l.invalidate(file)
			l.logger.Info("instruction document changed, cache invalidated",
				zap.String("file", file))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("instruction watcher error", zap.Error(err))
		}
	}
}
