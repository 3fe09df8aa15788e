package updater

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchSettle = 250 * time.Millisecond

// Watch reloads the live file whenever it changes on disk until ctx is done.
// Bursts of events are coalesced. The updater's filesystem must address the
// same paths as the OS for the watch to see them.
func (u *Updater) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// The directory is watched because an atomic rename replaces the file.
	live := filepath.Clean(u.livePath)
	if err := w.Add(filepath.Dir(live)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(live), err)
	}
	u.logger.Info("watching data file", "path", live)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != live {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				settle = time.After(watchSettle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			u.logger.Warn("watcher error", "error", err)
		case <-settle:
			settle = nil
			u.reload(ctx)
		}
	}
}

func (u *Updater) reload(ctx context.Context) {
	if !u.mu.TryLock() {
		// The running update wrote the file itself.
		u.logger.Debug("reload skipped", "reason", ErrUpdateInProgress)
		return
	}
	defer u.mu.Unlock()
	if err := u.load(ctx, "watch", EventUpdateApplied); err != nil && !errors.Is(err, ErrNoData) {
		u.logger.Warn("reload failed", "error", err)
	}
}
