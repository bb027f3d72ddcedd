// Package profile shows the signed-in user's account.
package profile

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/web/handler"
	"github.com/relaone/relaone-web/internal/web/middleware/auth"
)

const (
	// Path is the path to the profile page.
	Path = handler.RootPath + "profile"

	// TemplateName is the name of the profile template.
	TemplateName = "profile"

	// RouteName is the route table entry guarding the page.
	RouteName = "profile"
)

// Service is the profile handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if err := handler.Check(app, cfg, deps); err != nil {
		return err
	}

	s.cfg = cfg
	s.deps = deps

	app.Get(Path, auth.Protect(deps.Route(RouteName)), s.Get)

	return nil
}

// Get renders the profile page.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	return c.Render(TemplateName, fiber.Map{
		"Nav": s.deps.Page(user, "Profile", RouteName).
			AddBreadcrumb("Profile", Path, true),
		"User": user,
	}, handler.BaseLayout)
}
