// Package dashboard provides the landing pages of admins and organizations.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/web/handler"
	"github.com/relaone/relaone-web/internal/web/middleware/auth"
)

const (
	// TemplateAdmin is the name of the admin dashboard template.
	TemplateAdmin = "dashboard/admin"
	// TemplateOrganization is the name of the organization dashboard template.
	TemplateOrganization = "dashboard/organization"

	// RouteAdmin is the route table entry of the admin dashboard.
	RouteAdmin = "admin-dashboard"
	// RouteOrganization is the route table entry of the organization dashboard.
	RouteOrganization = "organization-dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if err := handler.Check(app, cfg, deps); err != nil {
		return err
	}

	s.cfg = cfg
	s.deps = deps

	app.Get(models.AdminDashboardPath, auth.Protect(deps.Route(RouteAdmin)), s.Admin)
	app.Get(models.OrganizationDashboardPath, auth.Protect(deps.Route(RouteOrganization)), s.Organization)

	return nil
}

// Admin renders the admin dashboard.
func (s *Service) Admin(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	return c.Render(TemplateAdmin, fiber.Map{
		"Nav": s.deps.Page(user, "Admin dashboard", RouteAdmin).
			AddBreadcrumb("Dashboard", models.AdminDashboardPath, true),
		"LiveSessions": s.deps.Sessions.Len(),
	}, handler.BaseLayout)
}

// Organization renders the organization dashboard with the organization's events.
func (s *Service) Organization(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	data := fiber.Map{
		"Nav": s.deps.Page(user, "Organization dashboard", RouteOrganization).
			AddBreadcrumb("Dashboard", models.OrganizationDashboardPath, true),
		"Organization": user.Organization,
	}

	if s.deps.Events != nil && user.Organization != nil {
		events, err := s.deps.Events.ListEvents(c.UserContext(), auth.State(c).Token)
		if err != nil {
			log.Warn().Err(err).Str("organization", user.Organization.ID).Msg("can't list organization events")
			data["Error"] = "Events are unavailable right now."
		}

		own := events[:0:0]
		for _, e := range events {
			if e.Organization != nil && e.Organization.ID == user.Organization.ID {
				own = append(own, e)
			}
		}

		data["Events"] = own
	}

	return c.Render(TemplateOrganization, data, handler.BaseLayout)
}
