// Package events lists RelaOne events.
package events

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/api"
	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/session"
	"github.com/relaone/relaone-web/internal/web/handler"
	"github.com/relaone/relaone-web/internal/web/middleware/auth"
)

const (
	// Path is the path to the event list.
	Path = handler.RootPath + "events"

	// TemplateList is the name of the event list template.
	TemplateList = "events/list"
	// TemplateDetail is the name of the event detail template.
	TemplateDetail = "events/detail"

	// RouteList is the route table entry of the event list.
	RouteList = "events"
	// RouteDetail is the route table entry of a single event.
	RouteDetail = "event"
)

// Service is the events handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the events handler.
var Handler = Service{}

// Init initializes the events handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if err := handler.Check(app, cfg, deps); err != nil {
		return err
	}

	if deps.Events == nil {
		return handler.ErrNilDeps
	}

	s.cfg = cfg
	s.deps = deps

	app.Get(Path, auth.Protect(deps.Route(RouteList)), s.List)
	app.Get(Path+"/:id", auth.Protect(deps.Route(RouteDetail)), s.Detail)

	return nil
}

// List renders all events.
func (s *Service) List(c *fiber.Ctx) error {
	events, done, err := s.load(c)
	if done {
		return err
	}

	return c.Render(TemplateList, fiber.Map{
		"Nav": s.deps.Page(auth.CurrentUser(c), "Events", RouteList).
			AddBreadcrumb("Home", handler.RootPath, false).
			AddBreadcrumb("Events", Path, true),
		"Events": events,
	}, handler.BaseLayout)
}

// Detail renders one event.
func (s *Service) Detail(c *fiber.Ctx) error {
	events, done, err := s.load(c)
	if done {
		return err
	}

	id := c.Params("id")

	for _, event := range events {
		if event.ID != id {
			continue
		}

		return c.Render(TemplateDetail, fiber.Map{
			"Nav": s.deps.Page(auth.CurrentUser(c), event.Title, RouteList).
				AddBreadcrumb("Home", handler.RootPath, false).
				AddBreadcrumb("Events", Path, false).
				AddBreadcrumb(event.Title, Path+"/"+event.ID, true),
			"Event": event,
		}, handler.BaseLayout)
	}

	return fiber.ErrNotFound
}

// load fetches the events. When done is true the response has been written
// (or err must be returned) and the caller stops.
func (s *Service) load(c *fiber.Ctx) ([]api.Event, bool, error) {
	store := auth.Store(c)
	state := auth.State(c)

	events, err := s.deps.Events.ListEvents(c.UserContext(), state.Token)
	if err == nil {
		return events, false, nil
	}

	// a rejected token ends the session, the guard decides the page again
	if api.IsUnauthorized(err) && state.Token != "" && store != nil {
		store.Invalidate(c.UserContext())

		return nil, true, c.Redirect(c.OriginalURL())
	}

	info := session.NewErrorInfo(err)

	log.Warn().Err(err).Msg("can't list events")

	return nil, true, c.Status(fiber.StatusBadGateway).Render(TemplateList, fiber.Map{
		"Nav":   s.deps.Page(auth.CurrentUser(c), "Events", RouteList),
		"Error": info.Message,
	}, handler.BaseLayout)
}
