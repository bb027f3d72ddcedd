package login

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
	"github.com/relaone/relaone-web/internal/web/middleware/auth"
)

const (
	// Path is the path to the login page.
	Path = guard.LoginPath

	// TemplateName is the name of the login template.
	TemplateName = "login"

	// RouteName is the route table entry guarding the page.
	RouteName = "login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	deps      *handler.Deps
	route     guard.Route
	validator *handler.XValidator
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
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

// Get renders the login form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, api.Credentials{}, returnTo(c), nil)
}

// Post signs the browser in and sends it on.
func (s *Service) Post(c *fiber.Ctx) error {
	var form api.Credentials

	from := returnTo(c)

	if err := c.BodyParser(&form); err != nil {
		return s.render(c, fiber.StatusBadRequest, form, from, &session.ErrorInfo{Message: ErrInvalidFormData.Error()})
	}

	if fields := s.validator.Validate(form); fields != nil {
		return s.render(c, fiber.StatusUnprocessableEntity, form, from, &session.ErrorInfo{
			Message: "Please correct the highlighted fields.",
			Fields:  fields,
		})
	}

	store := auth.Store(c)

	if err := store.SignIn(c.UserContext(), form); err != nil {
		if errors.Is(err, session.ErrSuperseded) {
			return c.Redirect(Path)
		}

		info := session.NewErrorInfo(err)

		log.Debug().Err(err).Str("email", form.Email).Msg("sign in failed")

		return s.render(c, StatusFor(info), form, from, info)
	}

	store, err := auth.Rotate(c, s.deps.Sessions)
	if err != nil {
		store.Invalidate(c.UserContext())
		return err
	}

	return c.Redirect(Destination(store.Snapshot(), from, s.route.RedirectTo))
}

func (s *Service) render(c *fiber.Ctx, status int, form api.Credentials, from string, info *session.ErrorInfo) error {
	form.Password = ""

	data := fiber.Map{
		"Nav":  s.deps.Page(nil, "Sign in", RouteName),
		"Form": form,
		"From": from,
	}

	if info != nil {
		data["Error"] = info.Message
		data["Fields"] = info.Fields
	}

	return c.Status(status).Render(TemplateName, data, handler.BaseLayout)
}

// Destination is where a freshly signed-in browser goes: the guest route rule
// when it redirects, the home page otherwise.
func Destination(state session.State, from, redirectTarget string) string {
	if d := guard.Guest(state, from, redirectTarget); d.Redirect() {
		return d.Location
	}

	return models.HomePath
}

// StatusFor maps a sign-in failure to the status of the re-rendered form.
func StatusFor(info *session.ErrorInfo) int {
	switch {
	case info.Transport:
		return fiber.StatusBadGateway
	case info.Status >= fiber.StatusBadRequest && info.Status < fiber.StatusInternalServerError:
		return info.Status
	default:
		return fiber.StatusBadGateway
	}
}

// returnTo reads the return-to hint from the query string or the posted form.
func returnTo(c *fiber.Ctx) string {
	return c.FormValue(guard.ReturnToParam)
}
