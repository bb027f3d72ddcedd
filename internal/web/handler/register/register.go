// Package register serves the sign-up page.
package register

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/api"
	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/session"
	"github.com/relaone/relaone-web/internal/web/handler"
	"github.com/relaone/relaone-web/internal/web/handler/login"
	"github.com/relaone/relaone-web/internal/web/middleware/auth"
)

const (
	// Path is the path to the register page.
	Path = guard.RegisterPath

	// TemplateName is the name of the register template.
	TemplateName = "register"

	// RouteName is the route table entry guarding the page.
	RouteName = "register"
)

// Roles a visitor can sign up as.
var Roles = []models.Role{models.RoleVolunteer, models.RoleOrganization} //nolint:gochecknoglobals

// Service is the register handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	deps      *handler.Deps
	route     guard.Route
	validator *handler.XValidator
}

// Handler is the register handler.
var Handler = Service{}

// Init initializes the register handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if err := handler.Check(app, cfg, deps); err != nil {
		return err
	}

	s.cfg = cfg
	s.deps = deps
	s.route = deps.Route(RouteName)
	s.validator = handler.NewValidator()

	guardHandler := auth.GuestOnly(s.route)

	app.Get(Path, guardHandler, s.Get)
	app.Post(Path, guardHandler, s.Post)

	return nil
}

// Get renders the sign-up form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, api.Registration{Role: models.RoleVolunteer}, nil)
}

// Post creates the account, signs it in and sends the browser on.
func (s *Service) Post(c *fiber.Ctx) error {
	var form api.Registration

	if err := c.BodyParser(&form); err != nil {
		return s.render(c, fiber.StatusBadRequest, form, &session.ErrorInfo{Message: login.ErrInvalidFormData.Error()})
	}

	if fields := s.validator.Validate(form); fields != nil {
		return s.render(c, fiber.StatusUnprocessableEntity, form, &session.ErrorInfo{
			Message: "Please correct the highlighted fields.",
			Fields:  fields,
		})
	}

	store := auth.Store(c)

	if err := store.SignUp(c.UserContext(), form); err != nil {
		if errors.Is(err, session.ErrSuperseded) {
			return c.Redirect(Path)
		}

		info := session.NewErrorInfo(err)

		log.Debug().Err(err).Str("email", form.Email).Str("role", form.Role.String()).Msg("sign up failed")

		return s.render(c, login.StatusFor(info), form, info)
	}

	store, err := auth.Rotate(c, s.deps.Sessions)
	if err != nil {
		store.Invalidate(c.UserContext())
		return err
	}

	return c.Redirect(login.Destination(store.Snapshot(), c.FormValue(guard.ReturnToParam), s.route.RedirectTo))
}

func (s *Service) render(c *fiber.Ctx, status int, form api.Registration, info *session.ErrorInfo) error {
	form.Password = ""

	data := fiber.Map{
		"Nav":   s.deps.Page(nil, "Sign up", RouteName),
		"Form":  form,
		"Roles": Roles,
		"From":  c.FormValue(guard.ReturnToParam),
	}

	if info != nil {
		data["Error"] = info.Message
		data["Fields"] = info.Fields
	}

	return c.Status(status).Render(TemplateName, data, handler.BaseLayout)
}
