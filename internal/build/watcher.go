package build

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileEventKind distinguishes the three file-change cases the Orchestrator
// reacts to (§4.3).
type FileEventKind int

const (
	EventCreated FileEventKind = iota
	EventModified
	EventDeleted
)

// FileEvent is one debounced, classified filesystem event ready for
// didChangeWatchedFiles handling.
type FileEvent struct {
	URI  string
	Kind FileEventKind
}

// Watcher wraps fsnotify into a debounced stream of FileEvents: a
// debounce-map-plus-ticker shape, generalized from a fixed extension
// filter to any vela source extension.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	logger      *log.Logger
	debounce    map[string]time.Time
	pending     map[string]FileEventKind
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	events      chan FileEvent
}

// NewWatcher creates a Watcher logging to logger (nil means a logger writing
// to the standard logger's output).
func NewWatcher(logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(log.Writer(), "", 0)
	}
	return &Watcher{
		watcher:     fw,
		logger:      logger,
		debounce:    make(map[string]time.Time),
		pending:     make(map[string]FileEventKind),
		debounceDur: 200 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		events:      make(chan FileEvent, 64),
	}, nil
}

// Add watches dir for changes.
func (w *Watcher) Add(dir string) error {
	return w.watcher.Add(dir)
}

// Events returns the debounced, classified event stream.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Start begins the watch loop in a goroutine. Non-blocking.
func (w *Watcher) Start() {
	go w.run()
}

// Stop terminates the watch loop and closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.record(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("build: watcher error: %v", err)
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	if filepath.Ext(ev.Name) != ".vela" {
		return
	}
	var kind FileEventKind
	switch {
	case ev.Op&fsnotify.Create != 0:
		kind = EventCreated
	case ev.Op&fsnotify.Write != 0:
		kind = EventModified
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		kind = EventDeleted
	default:
		return
	}

	w.mu.Lock()
	w.debounce[ev.Name] = time.Now()
	w.pending[ev.Name] = kind
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, t := range w.debounce {
		if now.Sub(t) >= w.debounceDur {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		kind := w.pending[path]
		delete(w.debounce, path)
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case w.events <- FileEvent{URI: path, Kind: kind}:
		default:
			w.logger.Printf("build: dropping event for %s, events channel full", path)
		}
		w.mu.Lock()
	}
	w.mu.Unlock()
}
