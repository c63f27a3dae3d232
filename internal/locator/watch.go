package locator

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadEventType describes what happened to a watched document.
type ReloadEventType string

const (
	EventEvicted ReloadEventType = "evicted"
	EventRemoved ReloadEventType = "removed"
	EventError   ReloadEventType = "error"
)

// ReloadEvent is emitted when a locator document changes on disk.
type ReloadEvent struct {
	Type      ReloadEventType
	Page      string
	Timestamp time.Time
	Error     string
}

// Watcher evicts registry cache entries when locator documents change on
// disk, so long-running suites pick up selector edits without a restart.
// Rapid successive writes (editor save choreography) are debounced.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	events   chan ReloadEvent
	ctx      context.Context
	cancel   context.CancelFunc

	mu            sync.Mutex
	pending       map[string]time.Time
	debounceDelay time.Duration
}

// Watch starts watching the registry's root directory.
func Watch(registry *Registry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(registry.Root()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", registry.Root(), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		registry:      registry,
		watcher:       fsw,
		events:        make(chan ReloadEvent, 100),
		ctx:           ctx,
		cancel:        cancel,
		pending:       make(map[string]time.Time),
		debounceDelay: 500 * time.Millisecond,
	}

	go w.run()
	return w, nil
}

// Events returns the reload event channel.
func (w *Watcher) Events() <-chan ReloadEvent {
	return w.events
}

// Close stops watching and releases the underlying fsnotify watcher.
func (w *Watcher) Close() {
	w.cancel()
	w.watcher.Close()
}

func (w *Watcher) run() {
	// All sends happen on this goroutine, so closing here cannot race a send
	// and lets ranging consumers exit after Close.
	defer close(w.events)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[locator-watch] watcher error: %v", err)
			w.sendEvent(ReloadEvent{Type: EventError, Timestamp: time.Now(), Error: err.Error()})

		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	ext := filepath.Ext(event.Name)
	if ext != ".yaml" && ext != ".yml" {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	ready := []string{}
	now := time.Now()
	for file, stamp := range w.pending {
		if now.Sub(stamp) >= w.debounceDelay {
			ready = append(ready, file)
			delete(w.pending, file)
		}
	}
	w.mu.Unlock()

	for _, file := range ready {
		page := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		w.registry.Evict(page)

		eventType := EventEvicted
		if _, exists := w.registry.documentPath(page); !exists {
			eventType = EventRemoved
		}
		log.Printf("[locator-watch] %s: %s", eventType, page)
		w.sendEvent(ReloadEvent{Type: eventType, Page: page, Timestamp: time.Now()})
	}
}

func (w *Watcher) sendEvent(event ReloadEvent) {
	select {
	case w.events <- event:
	default:
		// Drop when nobody is draining the channel.
	}
}
