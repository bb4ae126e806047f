//go:build !linux

package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

// fallbackBackend implements Backend on fsnotify for platforms without
// inotify. Notifications are translated into the same kind set the native
// backend produces, with a short settle delay to absorb write bursts.
type fallbackBackend struct {
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	opts    Options

	mu      sync.Mutex
	pending map[string]*pendingEvent
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

func newFallbackBackend(logger *slog.Logger, opts Options) (Backend, error) {
	opts.setDefaults()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.OS("create fsnotify watcher failed", err)
	}

	return &fallbackBackend{
		logger:  logger,
		watcher: fw,
		opts:    opts,
		events:  make(chan Event, opts.EventBuffer),
		errors:  make(chan error, 1),
		done:    make(chan struct{}),
		pending: make(map[string]*pendingEvent),
	}, nil
}

// Watch registers a directory with fsnotify.
func (b *fallbackBackend) Watch(path string) error {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.PathNotFound(path)
		}
		return errors.IO("stat failed", err)
	}
	if !info.IsDir() {
		return errors.NotADirectory(path)
	}

	if err := b.watcher.Add(path); err != nil {
		return errors.OS("fsnotify add watch failed", err)
	}

	b.logger.Debug("added watch", "path", path)
	return nil
}

// Start processes fsnotify notifications until the context is cancelled.
func (b *fallbackBackend) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.done:
			return nil

		case ev, ok := <-b.watcher.Events:
			if !ok {
				return nil
			}
			b.handle(ev)

		case err, ok := <-b.watcher.Errors:
			if !ok {
				return nil
			}
			b.fail(errors.OS("fsnotify error", err))
			return nil
		}
	}
}

// handle translates one fsnotify notification. Write notifications are
// debounced per path so a burst of writes reports once; everything else is
// emitted immediately.
func (b *fallbackBackend) handle(ev fsnotify.Event) {
	out := Event{
		Kind: translateOp(ev.Op),
		Name: filepath.Base(ev.Name),
		Path: ev.Name,
		Time: time.Now(),
	}

	if out.Kind != KindModify {
		b.emit(out)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.pending[ev.Name]; ok {
		p.event = out
		p.timer.Reset(b.opts.SettleDelay)
		return
	}

	p := &pendingEvent{event: out}
	p.timer = time.AfterFunc(b.opts.SettleDelay, func() {
		b.mu.Lock()
		delete(b.pending, ev.Name)
		b.mu.Unlock()
		b.emit(p.event)
	})
	b.pending[ev.Name] = p
}

// translateOp maps an fsnotify op onto the native kind set.
func translateOp(op fsnotify.Op) EventKind {
	switch {
	case op.Has(fsnotify.Create):
		return KindCreate
	case op.Has(fsnotify.Write):
		return KindModify
	case op.Has(fsnotify.Remove):
		return KindDelete
	case op.Has(fsnotify.Rename):
		return KindMovedFrom
	case op.Has(fsnotify.Chmod):
		return KindAttrib
	default:
		return KindUnknown
	}
}

func (b *fallbackBackend) emit(ev Event) {
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

func (b *fallbackBackend) fail(err error) {
	select {
	case b.errors <- err:
	case <-b.done:
	}
}

// Events returns the events channel.
func (b *fallbackBackend) Events() <-chan Event {
	return b.events
}

// Errors returns the errors channel.
func (b *fallbackBackend) Errors() <-chan error {
	return b.errors
}

// Stop stops the backend.
func (b *fallbackBackend) Stop() error {
	close(b.done)

	err := b.watcher.Close()

	close(b.events)
	close(b.errors)

	if err != nil {
		return errors.OS("fsnotify close failed", err)
	}
	return nil
}

// newLinuxBackend is a stub that should never be called off Linux.
func newLinuxBackend(_ *slog.Logger, _ Options) (Backend, error) {
	return nil, errors.OS("inotify backend only available on linux", nil)
}
