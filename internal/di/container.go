// Package di provides dependency injection configuration for Overseer.
package di

import (
	"github.com/samber/do/v2"

	"github.com/SublimeIbanez/Overseer/internal/config"
	"github.com/SublimeIbanez/Overseer/internal/di/providers"
	"github.com/SublimeIbanez/Overseer/internal/logger"
	"github.com/SublimeIbanez/Overseer/internal/overseer"
	"github.com/SublimeIbanez/Overseer/internal/watcher"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideOverseer)

	// Storage layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideHistory)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Watch loop
	do.Provide(injector, providers.ProvideChangeLog)
	do.Provide(injector, providers.ProvideWatcher)
	do.Provide(injector, providers.ProvideWatchLoop)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. This triggers lazy initialization so
// configuration or storage failures surface before the loop starts.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*overseer.Overseer](injector)

	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.HistoryHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	_ = do.MustInvoke[*providers.ChangeLogHandle](injector)
	_ = do.MustInvoke[*providers.WatcherHandle](injector)
	_ = do.MustInvoke[*watcher.Loop](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
