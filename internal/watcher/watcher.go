// Package watcher turns native filesystem notifications into typed events
// and drives the long-running watch loop around them.
//
// On Linux all watched directories share one inotify descriptor and every
// read drains whatever records are pending on it. Other platforms fall
// back to fsnotify with the notifications translated onto the same kind
// set, so the loop above never cares which backend is underneath.
package watcher

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

// Watcher monitors filesystem changes through a platform backend.
type Watcher struct {
	backend Backend
	logger  *slog.Logger
}

// New creates a watcher on the best backend for the current platform.
func New(logger *slog.Logger, opts Options) (*Watcher, error) {
	var backend Backend
	var err error

	if runtime.GOOS == "linux" {
		backend, err = newLinuxBackend(logger, opts)
		logger.Debug("using inotify backend")
	} else {
		backend, err = newFallbackBackend(logger, opts)
		logger.Debug("using fsnotify fallback backend", "platform", runtime.GOOS)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeOS, "create watch backend")
	}

	return &Watcher{
		backend: backend,
		logger:  logger,
	}, nil
}

// Watch adds a directory to be monitored.
func (w *Watcher) Watch(path string) error {
	return w.backend.Watch(path)
}

// Start begins watching. Blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	return w.backend.Start(ctx)
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() error {
	return w.backend.Stop()
}

// Events returns the channel of decoded events.
func (w *Watcher) Events() <-chan Event {
	return w.backend.Events()
}

// Errors returns the channel of fatal backend errors.
func (w *Watcher) Errors() <-chan error {
	return w.backend.Errors()
}
