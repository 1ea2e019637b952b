package registry

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the registry whenever its backing file changes, until
// ctx is cancelled. Reloads are debounced because editors typically
// emit several write events per save, and many replace the file by
// rename, so the parent directory is watched rather than the file.
// cb (if non-nil) runs after each successful reload.
func Watch(ctx context.Context, r *Registry, logger *slog.Logger, cb func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(r.Path())
	if err := w.Add(dir); err != nil {
		return err
	}
	target := filepath.Base(r.Path())

	logger.Info("registry watcher: started", slog.String("file", r.Path()))

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
			logger.Info("registry watcher: stopped")
			return nil

		case <-reloadCh:
			if err := r.Reload(); err != nil {
				logger.Warn("registry watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("registry watcher: reloaded", slog.String("file", r.Path()))
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("registry watcher: error", slog.String("error", err.Error()))
		}
	}
}
