package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch runs a first batch over the target directory, then keeps reprocessing the files that are
// created, written or renamed into it until ctx is done.
//
// Bursts of events are debounced. Files whose output is unchanged are not rewritten, so the
// writes done by the runner itself settle after one extra pass.
// onBatch, if not nil, is called after every batch with its summary.
//
// It returns ctx.Err() on cancellation, or an error wrapping ErrDirectoryAccess if the directory
// cannot be watched or listed.
func (r *Runner) Watch(ctx context.Context, onBatch func(Summary)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %v", err)
	}
	defer watcher.Close()

	// Watch before the first run so that no change made during it is missed.
	if err := watcher.Add(r.dir); err != nil {
		return errors.Join(ErrDirectoryAccess, fmt.Errorf("failed to watch %q: %w", r.dir, err))
	}

	s, err := r.Run(ctx)
	if err != nil {
		return err
	}
	if onBatch != nil {
		onBatch(s)
	}

	r.log.Info("Watching directory for changes", "dir", r.dir, "debounce", r.cfg.WatchDebounce)

	pending := make(map[string]struct{})
	debounce := time.NewTimer(r.cfg.WatchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Directory watcher stopped")
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed unexpectedly")
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if filepath.Dir(filepath.Clean(event.Name)) != r.dir {
				continue
			}
			r.log.Debug("Directory change", "file", filepath.Base(event.Name), "op", event.Op.String())
			pending[event.Name] = struct{}{}
			debounce.Reset(r.cfg.WatchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed unexpectedly")
			}
			r.log.Warn("Watcher error", "err", err)

		case <-debounce.C:
			paths := existingFiles(pending)
			clear(pending)
			if len(paths) == 0 {
				continue
			}

			s := r.processAll(ctx, paths)
			r.logSummary(s)
			if onBatch != nil {
				onBatch(s)
			}
		}
	}
}

// existingFiles returns the sorted paths that still exist and are not directories.
// Temporary files that were renamed or removed in the meantime are dropped.
func existingFiles(set map[string]struct{}) []string {
	paths := make([]string, 0, len(set))
	for p := range set {
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
