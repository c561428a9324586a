package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc receives a freshly loaded tuning, or the error that prevented
// loading it.
type ReloadFunc func(Tuning, error)

// Watcher reloads a tuning file whenever it changes on disk.
type Watcher struct {
	path     string
	log      logrus.FieldLogger
	debounce time.Duration
	onReload ReloadFunc
}

// NewWatcher creates a watcher for path. Call Run to start watching.
func NewWatcher(path string, log logrus.FieldLogger, onReload ReloadFunc) *Watcher {
	return &Watcher{
		path:     path,
		log:      log,
		debounce: DefaultDebounce,
		onReload: onReload,
	}
}

// SetDebounce changes the quiet period before a reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches the directory holding the file until ctx is done. The
// directory is watched rather than the file so atomic renames by editors are
// seen.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.log.WithField("path", w.path).Debug("watching tuning file")

	name := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("tuning watcher error")

		case <-timer.C:
			t, err := Load(w.path)
			if err != nil {
				w.log.WithError(err).Warn("tuning reload failed")
			} else {
				w.log.WithField("path", w.path).Info("tuning reloaded")
			}
			w.onReload(t, err)
		}
	}
}
