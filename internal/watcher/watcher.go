// Package watcher reports changes to the dataset file. The loaded index is
// immutable, so changes only take effect after a restart.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/logger"
)

// Operation is the kind of change seen on the dataset file.
type Operation string

const (
	Created  Operation = "created"
	Modified Operation = "modified"
	Removed  Operation = "removed"
	Renamed  Operation = "renamed"
)

// Event is a change to the watched file.
type Event struct {
	Path      string
	Operation Operation
}

// DatasetWatcher watches a single file through its parent directory, so
// editors that replace the file atomically are still seen.
type DatasetWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	log     logger.Logger
}

// New creates a watcher for path.
func New(path string, log logger.Logger) (*DatasetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &DatasetWatcher{watcher: w, path: abs, log: log.WithFields(map[string]interface{}{"dataset": abs})}, nil
}

// Watch emits events for the dataset file until ctx is done or Stop is called.
// Each event is also logged as a restart-required warning.
func (w *DatasetWatcher) Watch(ctx context.Context) (<-chan Event, error) {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				op, ok := operation(event.Op)
				if !ok {
					continue
				}
				w.log.Warn("dataset changed on disk, restart required to reload", map[string]interface{}{"operation": string(op)})
				select {
				case events <- Event{Path: w.path, Operation: op}:
				case <-ctx.Done():
					return
				default:
					// nobody is draining; the log line is enough
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.WithError(err).Error("dataset watcher error", nil)
			}
		}
	}()
	return events, nil
}

// Stop releases the underlying watcher.
func (w *DatasetWatcher) Stop() error {
	return w.watcher.Close()
}

func operation(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return Created, true
	case op.Has(fsnotify.Write):
		return Modified, true
	case op.Has(fsnotify.Remove):
		return Removed, true
	case op.Has(fsnotify.Rename):
		return Renamed, true
	default:
		return "", false
	}
}
