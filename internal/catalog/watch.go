package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits to catalog files. It never calls back; the owner
// polls it between other work so reloads happen on the owner's goroutine.
type Watcher struct {
	w   *fsnotify.Watcher
	dir string
}

// NewWatcher watches dir. The directory is watched instead of the files so
// that editors which replace files by rename are still observed.
func NewWatcher(dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("catalog watch %s: %w", dir, err)
	}
	return &Watcher{w: w, dir: dir}, nil
}

// Poll drains pending events without blocking. changed is true when any
// catalog file was written, created, renamed or removed.
func (w *Watcher) Poll() (changed bool, err error) {
	if w == nil {
		return false, nil
	}
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return changed, nil
			}
			if isCatalogFile(ev.Name) && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				changed = true
			}
		case watchErr, ok := <-w.w.Errors:
			if !ok {
				return changed, err
			}
			if watchErr != nil {
				err = watchErr
			}
		default:
			return changed, err
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	return w.w.Close()
}

func isCatalogFile(name string) bool {
	switch filepath.Base(name) {
	case SystemPromptFile, PresetsFile, KBFile:
		return true
	default:
		return false
	}
}
