package providers

import (
	"github.com/samber/do/v2"

	"github.com/SublimeIbanez/Overseer/internal/config"
	"github.com/SublimeIbanez/Overseer/internal/errors"
	"github.com/SublimeIbanez/Overseer/internal/logger"
	"github.com/SublimeIbanez/Overseer/internal/overseer"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("starting Overseer",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"root", cfg.Watch.RootPath,
	)

	return log, nil
}

// ProvideOverseer provides the tree aggregate. A saved sidecar under the
// root is restored when present; otherwise a fresh aggregate with an empty
// tree is created. The configured ignore settings apply either way.
func ProvideOverseer(i do.Injector) (*overseer.Overseer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	o, err := overseer.Load(cfg.Watch.RootPath, log.Logger)
	if err != nil {
		if !errors.Is(err, errors.ErrDecode) {
			return nil, err
		}
		o, err = overseer.New(cfg.Watch.RootPath, log.Logger)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info("restored snapshot", "snapshot_id", o.SnapshotID())
	}

	o.SetIgnoreHidden(cfg.Watch.IgnoreHidden)
	for _, name := range cfg.Watch.IgnoreNames {
		o.AddIgnore(name)
	}

	return o, nil
}
