package reqlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// LoadExclusions reads a JSON exclusions file, the same document PUT to the
// admin handler: {"body":true,"cookies":true}
func LoadExclusions(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed exclusions file %s: %w", path, err)
	}
	return m, nil
}

// WatchFile applies the exclusions file at path to l, and again every time
// the file is written or replaced, until ctx is closed.
//
// Each load is applied on top of the Selector l was created with, so fields
// removed from the file become logged again. A missing or invalid file is
// logged and leaves l unchanged.
func WatchFile(ctx context.Context, path string, l *Logger) error {
	logger := l.loggerFor(ctx).With(zap.String("path", path))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch exclusions file: %w", err)
	}
	defer watcher.Close()

	// Editors replace files instead of writing them, so the directory is
	// watched
	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch exclusions file: %w", err)
	}

	l.reload(logger, path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("exclusions watcher for %s closed", path)
			}
			if filepath.Clean(event.Name) == path && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				l.reload(logger, path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("exclusions watcher for %s closed", path)
			}
			logger.Warn("Exclusions watcher error", zap.Error(err))
		}
	}
}

func (l *Logger) reload(logger *zap.Logger, path string) {
	m, err := LoadExclusions(path)
	if err != nil {
		logger.Warn("Failed to load exclusions file", zap.Error(err))
		return
	}
	sel, err := l.config.Selector.ExcludeNames(m)
	if err != nil {
		logger.Warn("Invalid exclusions file", zap.Error(err))
		return
	}
	l.SetSelector(sel)
	logger.Info("Loaded exclusions file", zap.Strings("excluded", fieldNames(sel.Excluded())))
}
