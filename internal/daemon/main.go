// Package daemon wires the relaone-web services together.
package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/api"
	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/logger"
	"github.com/relaone/relaone-web/internal/tokenstore"
	"github.com/relaone/relaone-web/internal/web"
	"github.com/relaone/relaone-web/internal/web/handler"
	websession "github.com/relaone/relaone-web/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until it is shut down.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil, nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	backend, err := tokenstore.Open(cfg)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.API)

	sessions, err := websession.NewManager(cfg, backend, client)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	svc, err := web.New(cfg, &handler.Deps{
		Sessions: sessions,
		Events:   client,
		Routes:   guard.DefaultRoutes(),
		Rules:    guard.DefaultAccessRules(),
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	log.Info().
		Str("api", cfg.API.BaseURL).
		Str("token_store", cfg.TokenStore.Driver).
		Bool("dev", cfg.DevMode).
		Msg("relaone-web initialised")

	return &Daemon{
		cfg:        cfg,
		webService: svc,
	}, nil
}
