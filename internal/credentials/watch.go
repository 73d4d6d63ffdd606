package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
)

// DotenvWatcher re-applies a dotenv file to the process environment each
// time it changes. Paired with EnvStore this rotates the key live.
//
// Variables removed from the file keep their last value.
type DotenvWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     *slog.Logger

	// reloaded, if set, is called after every successful reload.
	reloaded func()
}

// NewDotenvWatcher starts watching the directory holding path. Editors
// usually replace files rather than write them in place, so the file
// itself is not watched.
func NewDotenvWatcher(path string) (*DotenvWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &DotenvWatcher{
		path:    abs,
		watcher: w,
		log:     slog.With("component", "dotenv-watcher", "path", abs),
	}, nil
}

// Run applies changes until ctx is done, then releases the watcher.
func (d *DotenvWatcher) Run(ctx context.Context) error {
	defer d.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != d.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := godotenv.Overload(d.path); err != nil {
				d.log.Warn("Failed to reload dotenv file", "error", err)
				continue
			}
			d.log.Info("Reloaded dotenv file")
			if d.reloaded != nil {
				d.reloaded()
			}
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return nil
			}
			d.log.Warn("Watcher error", "error", err)
		}
	}
}
