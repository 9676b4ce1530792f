package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
)

type implWatcher struct {
	dir           string
	exts          map[string]bool
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	settle        time.Duration
	wg            sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]bool
	handled  map[string]fileStamp
}

// fileStamp identifies one version of a file.
type fileStamp struct {
	modTime time.Time
	size    int64
}

// Start handles files already waiting in the directory, then every file
// created afterwards, until ctx is cancelled.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.dir)

	if err := w.drain(ctx); err != nil {
		w.logger.Warn(ctx, "Failed to scan %s: %v", w.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing jobs to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.forget(event.Name)
				continue
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.accepts(event.Name) {
				w.logger.Debug(ctx, "Ignoring file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New file detected: %s", event.Name)
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				continue
			}
			if err := w.dispatch(ctx, event.Name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) drain(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !w.accepts(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(w.dir, e.Name()))
	}
	sort.Strings(files)

	for _, f := range files {
		if err := w.dispatch(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the handler in a goroutine once a semaphore slot is free.
// A file already being handled, already handled in its current version, or
// gone by the time a slot frees up is skipped.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	if !w.claim(path) {
		return nil
	}

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		w.unclaim(path)
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()
		defer w.unclaim(path)

		info, err := os.Stat(path)
		if err != nil {
			w.forget(path)
			w.logger.Debug(ctx, "Skipping %s: %v", path, err)
			return
		}
		if !w.markHandled(path, info) {
			w.logger.Debug(ctx, "Skipping %s: already handled", path)
			return
		}

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight == nil {
		w.inFlight = make(map[string]bool)
	}
	if w.inFlight[path] {
		return false
	}
	w.inFlight[path] = true
	return true
}

func (w *implWatcher) unclaim(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, path)
}

// markHandled records the current version of path and reports whether it
// had not been handled before.
func (w *implWatcher) markHandled(path string, info os.FileInfo) bool {
	stamp := fileStamp{modTime: info.ModTime(), size: info.Size()}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handled == nil {
		w.handled = make(map[string]fileStamp)
	}
	if prev, ok := w.handled[path]; ok && prev.size == stamp.size && prev.modTime.Equal(stamp.modTime) {
		return false
	}
	w.handled[path] = stamp
	return true
}

func (w *implWatcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.handled, path)
}

func (w *implWatcher) accepts(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return w.exts[strings.ToLower(filepath.Ext(name))]
}
