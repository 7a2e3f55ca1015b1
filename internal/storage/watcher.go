package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Veraticus/shedtally/internal/codec"
)

// ErrWatcherStopped is returned by Start on a watcher that has been stopped.
// A stopped watcher cannot be restarted; create a new one to resubscribe.
var ErrWatcherStopped = errors.New("watcher stopped")

// Snapshot is the full document collection at one point in time. A failed
// read is delivered as a snapshot with Err set.
type Snapshot struct {
	Err       error
	Documents []codec.Document
}

// Watcher delivers a fresh Snapshot whenever the contractor's sessions change,
// either through this process or through another writer of the database file.
// Bursts of changes inside the debounce interval produce one snapshot.
type Watcher struct {
	store        *SQLiteStorage
	fsw          *fsnotify.Watcher
	notifyCh     chan struct{}
	out          chan Snapshot
	stopCh       chan struct{}
	doneCh       chan struct{}
	unsubscribe  func()
	contractorID string
	debounce     time.Duration
	mu           sync.Mutex
	running      bool
	stopped      bool
}

// NewWatcher creates a watcher over the store. Call Start to begin delivery.
func NewWatcher(store *SQLiteStorage, contractorID string, debounce time.Duration) (*Watcher, error) {
	if err := validateContractor(contractorID); err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		store:        store,
		fsw:          fsw,
		contractorID: contractorID,
		debounce:     debounce,
		notifyCh:     make(chan struct{}, 1),
		out:          make(chan Snapshot, 1),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}, nil
}

// Start watches the database directory and publishes the initial snapshot.
// It does not block. Starting a running watcher is a no-op; starting a stopped
// one returns ErrWatcherStopped.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.store.Path())
	if err := w.fsw.Add(dir); err != nil {
		// In-process writes still notify through the store.
		slog.Warn("watching database directory failed", "dir", dir, "error", err)
	}
	w.unsubscribe = w.store.onChange(w.Notify)

	w.publish(w.load(ctx))
	go w.run(ctx)
	return nil
}

// Snapshots returns the delivery channel. Only the latest undelivered snapshot
// is kept. The channel is closed once the watcher stops.
func (w *Watcher) Snapshots() <-chan Snapshot {
	return w.out
}

// Notify requests a refresh. It never blocks.
func (w *Watcher) Notify() {
	select {
	case w.notifyCh <- struct{}{}:
	default:
	}
}

// Stop stops the watcher and waits for its goroutine to exit. It is safe to
// call more than once and on a watcher that was never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	} else {
		close(w.out)
	}

	if w.unsubscribe != nil {
		w.unsubscribe()
	}
	if err := w.fsw.Close(); err != nil {
		slog.Warn("error closing file watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.out)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event) && fire == nil {
				fire = time.After(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)

		case <-w.notifyCh:
			if fire == nil {
				fire = time.After(w.debounce)
			}

		case <-fire:
			fire = nil
			w.publish(w.load(ctx))
		}
	}
}

// relevant reports whether the event touches the database or its WAL file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	return strings.HasPrefix(name, filepath.Base(w.store.Path())) && !strings.HasSuffix(name, "-shm")
}

func (w *Watcher) load(ctx context.Context) Snapshot {
	docs, err := w.store.ListDocuments(ctx, w.contractorID)
	if err != nil {
		slog.Warn("session snapshot failed", "error", err)
		return Snapshot{Err: err}
	}
	return Snapshot{Documents: docs}
}

// publish replaces any undelivered snapshot with s.
func (w *Watcher) publish(s Snapshot) {
	select {
	case <-w.out:
	default:
	}
	select {
	case w.out <- s:
	default:
	}
}
