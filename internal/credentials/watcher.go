package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// dirPerm is the mode for a credential directory created before watching.
const dirPerm = 0o700

// reloadDebounce coalesces the burst of events an atomic rename produces.
const reloadDebounce = 150 * time.Millisecond

// Watch reloads the provider whenever the credential file changes on disk,
// for example after the standalone refresh command rewrites it. It watches
// the parent directory because atomic renames replace the file's inode.
// When the file is a symlink, the directory of its target is watched too.
// A directory that cannot be watched disables reloads without failing the
// caller. Blocks until ctx is cancelled.
func Watch(ctx context.Context, p *Provider, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	path := p.store.Path()
	watched := map[string]bool{path: true}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		logger.Warn("creating credential directory", slog.String("error", err.Error()))
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("credential file watch disabled; restart to pick up external changes",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		<-ctx.Done()
		return nil
	}

	if target, err := filepath.EvalSymlinks(path); err == nil && target != path {
		watched[target] = true
		if filepath.Dir(target) != filepath.Dir(path) {
			if err := watcher.Add(filepath.Dir(target)); err != nil {
				logger.Warn("watching symlink target directory",
					slog.String("path", target),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	reload := make(chan struct{}, 1)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed")
			}

			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			rec, err := p.Reload()
			if err != nil {
				logger.Warn("credential reload failed", slog.String("error", err.Error()))
				continue
			}

			logger.Info("credentials reloaded",
				slog.String("path", path),
				slog.String("access_token", Fingerprint(rec.AccessToken)),
			)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed")
			}
			logger.Warn("credential watcher error", slog.String("error", err.Error()))
		}
	}
}
