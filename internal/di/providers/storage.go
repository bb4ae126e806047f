package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/SublimeIbanez/Overseer/internal/config"
	"github.com/SublimeIbanez/Overseer/internal/history"
	"github.com/SublimeIbanez/Overseer/internal/logger"
	"github.com/SublimeIbanez/Overseer/internal/search"
	"github.com/SublimeIbanez/Overseer/internal/sse"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the live change feed manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("feed manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// HistoryHandle wraps the history store with shutdown capability.
type HistoryHandle struct {
	*history.Store
}

// Shutdown implements do.Shutdownable.
func (h *HistoryHandle) Shutdown() error {
	return h.Close()
}

// ProvideHistory provides the event history store.
func ProvideHistory(i do.Injector) (*HistoryHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store, err := history.New(cfg.HistoryPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("history store initialized", "path", cfg.HistoryPath())
	return &HistoryHandle{Store: store}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the filename search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.New(cfg.SearchPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("search index initialized", "path", cfg.SearchPath())
	return &SearchIndexHandle{Index: index}, nil
}
