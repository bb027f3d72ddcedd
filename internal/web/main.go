// Package web serves the RelaOne pages behind the route guard.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/config"
	accesslog "github.com/relaone/relaone-web/internal/logger/adapter/fiber"
	"github.com/relaone/relaone-web/internal/web/handler"
	"github.com/relaone/relaone-web/internal/web/handler/dashboard"
	"github.com/relaone/relaone-web/internal/web/handler/events"
	"github.com/relaone/relaone-web/internal/web/handler/home"
	"github.com/relaone/relaone-web/internal/web/handler/login"
	"github.com/relaone/relaone-web/internal/web/handler/logout"
	"github.com/relaone/relaone-web/internal/web/handler/profile"
	"github.com/relaone/relaone-web/internal/web/handler/register"
	"github.com/relaone/relaone-web/internal/web/metrics"
	"github.com/relaone/relaone-web/internal/web/middleware/auth"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	deps         *handler.Deps
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown

	if err := s.deps.Sessions.Close(); err != nil {
		log.Error().Err(err).Msg("can't close token store")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether /checkalive answers OK.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// SetAlive flips the /checkalive answer.
func (s *Service) SetAlive(alive bool) {
	s.alive.Store(alive)
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	return templateEngine
}

// New creates the web service. views replaces the embedded templates, tests
// pass a stub engine.
func New(cfg *config.Config, deps *handler.Deps, views ...fiber.Views) (*Service, error) {
	if cfg == nil || deps == nil || deps.Sessions == nil {
		return nil, handler.ErrNilDeps
	}

	var engine fiber.Views
	if len(views) > 0 && views[0] != nil {
		engine = views[0]
	} else {
		engine = newTemplateEngine(cfg)
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "relaone-web",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          engine,
		},
	)

	service := &Service{
		App:  app,
		cfg:  cfg,
		deps: deps,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: handler.CheckAlivePath,
	}))

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Get(handler.CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get(metrics.Path, metrics.Handler())

	app.Use(auth.Session(deps.Sessions))

	services := []handler.Service{
		&login.Handler,
		&register.Handler,
		&logout.Handler,
		&home.Handler,
		&events.Handler,
		&profile.Handler,
		&dashboard.Handler,
	}

	for _, svc := range services {
		if err := svc.Init(app, cfg, deps); err != nil {
			return nil, err
		}
	}

	return service, nil
}
