// Package watcher reports changes to a single file, debounced.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor produces when saving.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches the directory holding a file, since editors often replace files by
// rename, and invokes a callback when that file changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	target   string
	delay    time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

func New(path string, delay time.Duration, callback func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Watcher{
		fsw:      fsw,
		target:   abs,
		delay:    delay,
		callback: callback,
	}, nil
}

// Run blocks until ctx is done or the watcher is closed. Watch errors go to errFn when set.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
