package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// EventType describes the nature of a catalog file change notification.
type EventType int

const (
	// EventCatalogChanged indicates the watched file was written or replaced.
	EventCatalogChanged EventType = iota

	// EventCatalogRemoved indicates the watched file is gone. Editors that
	// save by rename produce a removal followed by a change.
	EventCatalogRemoved
)

// Event is emitted by WatchFile when the watched file changes.
type Event struct {
	Type EventType
	Path string
}

// WatchFile streams change events for path until ctx is cancelled. The parent
// directory is watched so atomic replacements are seen. Callers should drain
// the returned channel; the channel is closed once ctx is done or the watcher
// fails.
func WatchFile(ctx context.Context, path string, log *zap.Logger) (<-chan Event, error) {
	if path == "" {
		return nil, errors.New("store: watch path unknown")
	}
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("store: resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				log.Warn("watcher close", zap.Error(err))
			}
		})
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", filepath.Dir(abs), err)
	}

	events := make(chan Event, 8)

	var (
		sendMu sync.Mutex
		closed bool
	)
	send := func(ev Event) {
		sendMu.Lock()
		defer sendMu.Unlock()
		if closed {
			return
		}
		select {
		case events <- ev:
		default:
			// The consumer reloads the whole file, so a dropped event is
			// covered by the one already queued.
		}
	}

	go func() {
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("watch error", zap.Error(err))
				throttle.Enqueue(Event{Type: EventCatalogChanged, Path: abs}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs {
					continue
				}
				switch {
				case evt.Op&(fsnotify.Write|fsnotify.Create) != 0:
					throttle.Enqueue(Event{Type: EventCatalogChanged, Path: abs}, send)
				case evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					throttle.Enqueue(Event{Type: EventCatalogRemoved, Path: abs}, send)
				}
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces rapid change notifications so the catalog is
// reloaded once per burst of writes instead of on every single write. Within
// a burst the last event type wins.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending *Event
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{delay: delay}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending = &ev
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = nil
	t.timer = nil
	stopped := t.stopped
	t.mu.Unlock()

	if pending != nil && !stopped {
		send(*pending)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
