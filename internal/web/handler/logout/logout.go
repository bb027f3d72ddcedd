// Package logout signs a browser out.
package logout

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/web/handler"
)

// Path is the path of the logout endpoint.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if err := handler.Check(app, cfg, deps); err != nil {
		return err
	}

	s.cfg = cfg
	s.deps = deps

	app.Post(Path, s.Logout)

	return nil
}

// Logout signs the browser out and expires its cookie. It always ends on the
// login page, whatever the API answered.
func (s *Service) Logout(c *fiber.Ctx) error {
	s.deps.Sessions.End(c.UserContext(), c)

	return c.Redirect(guard.LoginPath)
}
