package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// reloadDelay coalesces editors that write a file in several steps.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the file at path whenever it changes and hands the new
// configuration to onChange. Invalid files are logged and skipped. Watch
// blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// the directory survives editors replacing the file
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	logger := log.Logger.With().Str("component", "config").Str("path", abs).Logger()
	logger.Info().Msg("watching configuration")

	var pending <-chan time.Time
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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(reloadDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		case <-pending:
			pending = nil
			cfg, err := Load(abs)
			if err != nil {
				logger.Error().Err(err).Msg("reload failed, keeping previous configuration")
				continue
			}
			logger.Info().Msg("configuration reloaded")
			onChange(cfg)
		}
	}
}
