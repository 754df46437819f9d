package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"hospital-triage/errors"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// SettleDelay is how long Watch waits after the last change event before
// calling onChange, so the several events of one save trigger one run.
var SettleDelay = 100 * time.Millisecond

// Watch calls onChange once, then again every time one of paths is written,
// created or replaced by a rename. It runs until ctx is cancelled.
//
// The parent directories are watched rather than the files, so a file that an
// editor replaces on save stays watched.
//
// A failing onChange is logged and watching continues, so a half-written
// file does not stop the loop.
func Watch(ctx context.Context, paths []string, logger zerolog.Logger, onChange func() error) error {
	if len(paths) == 0 {
		return errors.ErrNoInput
	}

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return err
		}
		clean := filepath.Clean(p)
		targets[clean] = true
		dirs[filepath.Dir(clean)] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	logger.Info().Strs("paths", paths).Msg("watching snapshot files for changes")

	if err := onChange(); err != nil {
		logger.Error().Err(err).Msg("evaluation failed")
	}

	var settle *time.Timer
	var fire <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			// A rename onto the target arrives as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("snapshot file changed")
			if settle == nil {
				settle = time.NewTimer(SettleDelay)
			} else {
				settle.Reset(SettleDelay)
			}
			fire = settle.C

		case <-fire:
			fire = nil
			if err := onChange(); err != nil {
				logger.Error().Err(err).Msg("re-evaluation failed, keeping previous report")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}
