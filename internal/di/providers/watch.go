package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/SublimeIbanez/Overseer/internal/config"
	"github.com/SublimeIbanez/Overseer/internal/logger"
	"github.com/SublimeIbanez/Overseer/internal/overseer"
	"github.com/SublimeIbanez/Overseer/internal/sse"
	"github.com/SublimeIbanez/Overseer/internal/watcher"
)

// ChangeLogHandle wraps the change log with shutdown capability.
type ChangeLogHandle struct {
	*watcher.ChangeLog
}

// Shutdown implements do.Shutdownable.
func (h *ChangeLogHandle) Shutdown() error {
	return h.Close()
}

// ProvideChangeLog provides the append-only event log.
func ProvideChangeLog(i do.Injector) (*ChangeLogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	changeLog, err := watcher.OpenChangeLog(cfg.Watch.ChangeLogPath)
	if err != nil {
		return nil, err
	}

	log.Info("change log opened", "path", cfg.Watch.ChangeLogPath)
	return &ChangeLogHandle{ChangeLog: changeLog}, nil
}

// WatcherHandle wraps the platform watcher with shutdown capability.
type WatcherHandle struct {
	*watcher.Watcher
}

// Shutdown implements do.Shutdownable.
func (h *WatcherHandle) Shutdown() error {
	return h.Stop()
}

// ProvideWatcher provides the platform change notification backend.
func ProvideWatcher(i do.Injector) (*WatcherHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	w, err := watcher.New(log.Logger, watcher.Options{})
	if err != nil {
		return nil, err
	}
	return &WatcherHandle{Watcher: w}, nil
}

// ProvideWatchLoop assembles the watch loop: every observed event is
// appended to the change log, persisted to history, pushed onto the live
// feed, and triggers a re-walk that refreshes the sidecar and search index.
func ProvideWatchLoop(i do.Injector) (*watcher.Loop, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	watcherHandle := do.MustInvoke[*WatcherHandle](i)
	changeLog := do.MustInvoke[*ChangeLogHandle](i)
	hist := do.MustInvoke[*HistoryHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	manager := do.MustInvoke[*SSEManagerHandle](i)
	o := do.MustInvoke[*overseer.Overseer](i)

	feedSink := watcher.SinkFunc(func(_ context.Context, ev watcher.Event) error {
		manager.Emit(sse.NewChangeEvent(ev.Kind.String(), ev.Name, ev.Path))
		return nil
	})

	strategy := cfg.WalkStrategy()
	refreshSink := watcher.SinkFunc(func(ctx context.Context, ev watcher.Event) error {
		if err := o.Walk(ctx, strategy); err != nil {
			return err
		}
		if err := o.Save(); err != nil {
			return err
		}
		if err := index.IndexTree(o.Tree()); err != nil {
			return err
		}
		manager.Emit(sse.NewTreeUpdatedEvent(o.RootPath(), o.SnapshotID()))
		return nil
	})

	return watcher.NewLoop(
		watcherHandle.Watcher,
		changeLog.ChangeLog,
		log.Logger,
		hist.Store,
		feedSink,
		refreshSink,
	), nil
}
