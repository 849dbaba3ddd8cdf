package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watch reloads the file at path whenever it changes and passes each
// valid configuration to onChange. Invalid files are logged and skipped.
// The directory is watched rather than the file so editors that replace
// the file on save are followed. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config), logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watching configuration", "path", abs)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(DefaultDebounce)

		case <-debounce:
			debounce = nil
			cfg, err := LoadFile(abs)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				logger.Warn("configuration reload failed", "path", abs, "error", err)
				continue
			}
			logger.Info("configuration reloaded", "path", abs, "routes", len(cfg.Routes))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("configuration watcher error", "error", err)
		}
	}
}
