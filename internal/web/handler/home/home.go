// Package home serves the landing page of guests and volunteers.
package home

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/web/handler"
	"github.com/relaone/relaone-web/internal/web/middleware/auth"
)

const (
	// Path is the path to the home page.
	Path = models.HomePath

	// TemplateName is the name of the home template.
	TemplateName = "home"

	// RouteName is the route table entry guarding the page.
	RouteName = "home"
)

// Service is the home handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the home handler.
var Handler = Service{}

// Init initializes the home handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if err := handler.Check(app, cfg, deps); err != nil {
		return err
	}

	s.cfg = cfg
	s.deps = deps

	app.Get(Path, auth.Protect(deps.Route(RouteName)), s.Get)

	return nil
}

// Get renders the home page.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	return c.Render(TemplateName, fiber.Map{
		"Nav":   s.deps.Page(user, s.cfg.Title, RouteName),
		"Title": s.cfg.Title,
	}, handler.BaseLayout)
}
