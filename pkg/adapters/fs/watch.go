package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/coursemate/coursemate/pkg/core"
)

// debounceInterval collapses the burst an atomic write produces (temp file
// create, write, rename) into a single event.
const debounceInterval = 50 * time.Millisecond

// debouncer delays a callback and collapses rapid repeat triggers into the
// last one.
type debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// trigger schedules fire after the delay, replacing any pending trigger.
func (d *debouncer) trigger(fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fire)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Watch emits an event whenever another process rewrites the data file. The
// returned channel closes when ctx is cancelled.
//
// Watching happens at the directory level because editors and atomic writers
// replace the file rather than writing it in place, which would invalidate a
// file-level watch.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	events := make(chan core.Event, 1)
	go s.runWatch(ctx, watcher, events)
	return events, nil
}

func (s *Store) runWatch(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.Event) {
	defer close(events)
	defer watcher.Close()

	deb := newDebouncer(debounceInterval)
	defer deb.stop()

	var mu sync.Mutex
	var pending core.Event

	emit := func() {
		mu.Lock()
		e := pending
		mu.Unlock()
		select {
		case events <- e:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			s.log.Debug("event received", "name", event.Name, "op", event.Op.String())
			if s.shouldIgnore(event) {
				continue
			}
			eType := mapEventType(event)
			if eType == "" {
				continue
			}
			mu.Lock()
			pending = core.Event{
				Type:      eType,
				Path:      event.Name,
				Timestamp: time.Now().Unix(),
			}
			mu.Unlock()
			deb.trigger(emit)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Error("fsnotify error", "error", wErr)
		}
	}
}

// shouldIgnore filters directory noise down to the data file itself. Temp
// files from in-flight atomic writes never surface.
func (s *Store) shouldIgnore(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return true
	}
	return base != s.config.DataFile
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A rename moves the data file away; to watchers that is a removal.
		return core.EventRemove
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return core.EventModify
	}
	return ""
}
