package watcher

import (
	"context"
	"log/slog"

	"github.com/SublimeIbanez/Overseer/internal/errors"
	"github.com/SublimeIbanez/Overseer/internal/walker"
)

// Sink receives every decoded event the loop accepts. Sink errors are
// logged and swallowed; only backend failures stop the loop.
type Sink interface {
	HandleEvent(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, ev Event) error

// HandleEvent calls f.
func (f SinkFunc) HandleEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Loop consumes a backend's events, records each one in the change log and
// fans it out to the sinks. An unknown event kind is logged and processed
// like any other; a backend error or change log failure ends the loop.
type Loop struct {
	backend Backend
	log     *ChangeLog
	sinks   []Sink
	logger  *slog.Logger
}

// NewLoop assembles a watch loop. The change log may be nil, in which case
// events only reach the sinks.
func NewLoop(backend Backend, log *ChangeLog, logger *slog.Logger, sinks ...Sink) *Loop {
	return &Loop{
		backend: backend,
		log:     log,
		sinks:   sinks,
		logger:  logger,
	}
}

// Run watches root until the context is cancelled or the backend fails.
func (l *Loop) Run(ctx context.Context, root string) error {
	if err := l.backend.Watch(root); err != nil {
		return err
	}

	startErr := make(chan error, 1)
	go func() {
		startErr <- l.backend.Start(ctx)
	}()

	l.logger.Info("watching", "path", root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-startErr:
			if err != nil {
				return errors.Wrap(err, errors.CodeOS, "watch backend stopped")
			}
			return nil

		case err, ok := <-l.backend.Errors():
			if !ok {
				return nil
			}
			return err

		case ev, ok := <-l.backend.Events():
			if !ok {
				return nil
			}
			if err := l.dispatch(ctx, ev); err != nil {
				return err
			}
		}
	}
}

// dispatch records one event and hands it to the sinks. Events for the
// snapshot sidecar and the change log itself are self-inflicted and
// skipped, otherwise every save or append would trigger another.
func (l *Loop) dispatch(ctx context.Context, ev Event) error {
	if ev.Name == walker.SidecarName {
		return nil
	}
	if l.log != nil && ev.Path == l.log.Path() {
		return nil
	}

	if ev.Kind == KindUnknown {
		l.logger.Warn("unrecognized event mask", "name", ev.Name)
	}

	l.logger.Info("event", "kind", ev.Kind.String(), "name", ev.Name)

	if l.log != nil {
		if err := l.log.Append(ev); err != nil {
			return err
		}
	}

	for _, s := range l.sinks {
		if err := s.HandleEvent(ctx, ev); err != nil {
			l.logger.Warn("event sink failed", "kind", ev.Kind.String(), "name", ev.Name, "error", err)
		}
	}
	return nil
}
