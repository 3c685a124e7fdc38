package seeds

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads pool whenever the seed file at path changes, until ctx
// is cancelled. Editors typically rewrite files as remove+create, so the
// watch is on the parent directory and events are debounced before the
// reload runs.
func Watch(ctx context.Context, pool *Pool, path string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	logger.Info("seeds: watching", slog.String("path", target))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("seeds: watcher stopped")
			return nil

		case <-reloadCh:
			if err := pool.Reload(target); err != nil {
				logger.Warn("seeds: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("seeds: reloaded", slog.Int("words", pool.Len()))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("seeds: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
