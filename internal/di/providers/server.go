package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/SublimeIbanez/Overseer/internal/config"
	"github.com/SublimeIbanez/Overseer/internal/logger"
	"github.com/SublimeIbanez/Overseer/internal/overseer"
	"github.com/SublimeIbanez/Overseer/internal/server"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server. The caller decides whether
// to start it; it only runs when cfg.Server.Enabled is set.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	o := do.MustInvoke[*overseer.Overseer](i)
	hist := do.MustInvoke[*HistoryHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	manager := do.MustInvoke[*SSEManagerHandle](i)

	srv := server.New(o, hist.Store, index.Index, manager.Manager, cfg.WalkStrategy(), log.Logger)

	return &HTTPServerHandle{
		Server: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      srv,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}
