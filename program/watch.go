package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// pageWatcher reloads the page file when it changes on disk and sends the
// result into the program. It watches the file's directory, since editors
// usually replace files instead of writing them in place.
type pageWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	send     func(tui.Msg)
	log      *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	running bool
	pending time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func newPageWatcher(path string, send func(tui.Msg), log *zap.Logger) (*pageWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &pageWatcher{
		path:     abs,
		watcher:  w,
		send:     send,
		log:      log,
		debounce: 150 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (pw *pageWatcher) Start(ctx context.Context) error {
	pw.mu.Lock()
	if pw.running {
		pw.mu.Unlock()
		return nil
	}
	pw.running = true
	pw.mu.Unlock()

	if err := pw.watcher.Add(filepath.Dir(pw.path)); err != nil {
		pw.mu.Lock()
		pw.running = false
		pw.mu.Unlock()
		return fmt.Errorf("watch %s: %w", pw.path, err)
	}
	pw.log.Info("watching page file", zap.String("path", pw.path))
	go pw.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (pw *pageWatcher) Stop() {
	pw.mu.Lock()
	running := pw.running
	pw.running = false
	pw.mu.Unlock()

	if running {
		close(pw.stopCh)
		<-pw.doneCh
	}
	if err := pw.watcher.Close(); err != nil {
		pw.log.Warn("closing page watcher", zap.Error(err))
	}
}

func (pw *pageWatcher) run(ctx context.Context) {
	defer close(pw.doneCh)

	ticker := time.NewTicker(pw.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pw.stopCh:
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			pw.handleEvent(event)
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.log.Error("page watcher", zap.Error(err))
		case now := <-ticker.C:
			pw.flush(now)
		}
	}
}

func (pw *pageWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != pw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	pw.log.Debug("page file event", zap.Stringer("op", event.Op))
	pw.mu.Lock()
	pw.pending = time.Now()
	pw.mu.Unlock()
}

// flush reloads once the file has been quiet for the debounce period.
func (pw *pageWatcher) flush(now time.Time) {
	pw.mu.Lock()
	pending := pw.pending
	if pending.IsZero() || now.Sub(pending) < pw.debounce {
		pw.mu.Unlock()
		return
	}
	pw.pending = time.Time{}
	pw.mu.Unlock()

	page, err := loadPage(pw.path)
	if err != nil {
		pw.log.Warn("page reload failed", zap.Error(err))
		pw.send(errMsg{err})
		return
	}
	pw.log.Info("page reloaded", zap.Int("sidebars", len(page.Sidebars)))
	pw.send(pageReloadedMsg{page: page})
}
