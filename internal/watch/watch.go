// File: watch.go
// Title: Script File Watcher
// Description: Calls a handler whenever a watched script file is written,
//              created or replaced. The parent directory is watched so that
//              editors that save by rename are followed.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial watcher

package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/pkg/core/logging"
)

// DefaultDebounce collapses the burst of events a single save produces
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes of one file
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *logging.Logger
}

// New creates a watcher for path
func New(path string) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   logging.New("watch"),
	}
}

// WithDebounce returns the watcher with a different debounce delay
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Run calls onChange after each settled change until ctx is done
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "create file watcher").
			WithCode(mdwerror.CodeInternal).
			WithOperation("watch.Run")
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return mdwerror.Wrap(err, "watch directory").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("watch.Run").
			WithDetail("dir", dir)
	}
	w.logger.Info("Watching script", "path", w.path)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping file watcher (context cancelled)")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			onChange(w.path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}
