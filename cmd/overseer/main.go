// Package main provides the entry point for the Overseer watcher.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/SublimeIbanez/Overseer/internal/config"
	"github.com/SublimeIbanez/Overseer/internal/di"
	"github.com/SublimeIbanez/Overseer/internal/di/providers"
	"github.com/SublimeIbanez/Overseer/internal/logger"
	"github.com/SublimeIbanez/Overseer/internal/overseer"
	"github.com/SublimeIbanez/Overseer/internal/render"
	"github.com/SublimeIbanez/Overseer/internal/watcher"
)

func main() {
	injector := di.NewContainer()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.App.Once {
		if err := runOnce(injector); err != nil {
			fmt.Fprintf(os.Stderr, "Walk failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Detach before any stateful service opens its files.
	if cfg.Watch.Daemonize {
		child, err := watcher.Daemonize(cfg.Watch.ChangeLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to daemonize: %v\n", err)
			os.Exit(1)
		}
		if !child {
			return
		}
	}

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	o := do.MustInvoke[*overseer.Overseer](injector)
	loop := do.MustInvoke[*watcher.Loop](injector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx, o.RootPath())
	}()

	if cfg.Server.Enabled {
		srv := do.MustInvoke[*providers.HTTPServerHandle](injector)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server failed", "error", err)
			}
		}()
		log.Info("http server listening", "addr", srv.Addr)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down gracefully...")
	case err := <-loopErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("watch loop failed", "error", err)
		}
	}

	cancel()

	// Shutdown all services in reverse order.
	if err := injector.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

// runOnce walks the root, prints the rendered tree and saves the snapshot.
func runOnce(injector *do.RootScope) error {
	cfg := do.MustInvoke[*config.Config](injector)
	log := do.MustInvoke[*logger.Logger](injector)
	o := do.MustInvoke[*overseer.Overseer](injector)

	if err := o.Walk(context.Background(), cfg.WalkStrategy()); err != nil {
		return err
	}

	for _, line := range o.Render(render.New()) {
		fmt.Println(line)
	}

	if err := o.Save(); err != nil {
		return err
	}

	log.Info("snapshot saved", "snapshot_id", o.SnapshotID())
	return nil
}
