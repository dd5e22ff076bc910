package cli

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// fileWatcher reports changes to a fixed set of files.  It watches their
// directories so files replaced by rename are still seen, and coalesces
// bursts of events into one callback.
type fileWatcher struct {
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	logger   logging.Logger
}

func newFileWatcher(paths []string, debounce time.Duration, logger logging.Logger) (*fileWatcher, error) {
	w := &fileWatcher{
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		logger:   logger.Named("watcher"),
	}
	seenDir := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.InvalidParam("cannot resolve watched path").WithDetail(p).WithCause(err)
		}
		w.files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !seenDir[dir] {
			seenDir[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.files) == 0 {
		return nil, errors.InvalidParam("no files to watch")
	}
	return w, nil
}

// Run blocks until ctx is done, calling onChange once per quiet period
// after one or more watched files changed.  onChange runs on the watcher
// goroutine, so changes during a callback are delivered after it returns.
func (w *fileWatcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Internal("failed to create file watcher").WithCause(err)
	}
	defer fw.Close()

	for _, d := range w.dirs {
		if err := fw.Add(d); err != nil {
			return errors.InvalidParam("cannot watch directory").WithDetail(d).WithCause(err)
		}
	}
	w.logger.Info("watching files", logging.Strings("dirs", w.dirs), logging.Int("files", len(w.files)))

	var (
		fire    <-chan time.Time
		pending = map[string]struct{}{}
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if _, watched := w.files[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Debug("file event", logging.String("file", ev.Name), logging.String("op", ev.Op.String()))
			pending[filepath.Clean(ev.Name)] = struct{}{}
			fire = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", logging.Err(err))

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for f := range pending {
				changed = append(changed, f)
			}
			sort.Strings(changed)
			pending = map[string]struct{}{}
			onChange(ctx, changed)
		}
	}
}

//Personal.AI order the ending
