package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
)

// settleDelay gives writers time to finish before a new file is handled.
const settleDelay = 500 * time.Millisecond

// New watches dir for files whose extension is in exts, running at most
// maxConcurrent handlers at once.
func New(dir string, exts []string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	accepted := make(map[string]bool, len(exts))
	for _, e := range exts {
		accepted[strings.ToLower(e)] = true
	}

	return &implWatcher{
		dir:           dir,
		exts:          accepted,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        settleDelay,
	}, nil
}
