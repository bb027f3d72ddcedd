// Package handler holds what the page handlers share: the dependency set,
// form validation and page context helpers.
package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/relaone/relaone-web/internal/api"
	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/web/navigation"
	websession "github.com/relaone/relaone-web/internal/web/session"
)

// ErrNilDeps is returned by Init when a required dependency is missing.
var ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)

// EventLister lists RelaOne events.
type EventLister interface {
	ListEvents(ctx context.Context, token string) ([]api.Event, error)
}

// Deps is what every handler service is initialised with.
type Deps struct {
	Sessions *websession.Manager
	Events   EventLister
	Routes   guard.Table
	Rules    guard.AccessRules
}

// Route returns the route named name from the route table.
// It panics when the table lacks it, which is a programming error.
func (d *Deps) Route(name string) guard.Route {
	for _, r := range d.Routes {
		if r.Name == name {
			return r
		}
	}

	panic("handler: route " + name + " is not in the route table")
}

// Page returns the navigation context for a page rendered to user.
func (d *Deps) Page(user *models.UserProfile, title, section string) *navigation.Context {
	return navigation.NewContext(title, section).WithUser(user, d.Rules)
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps) error
}

// Check returns ErrNilDeps when app, cfg or deps is missing.
func Check(app *fiber.App, cfg *config.Config, deps *Deps) error {
	if app == nil || cfg == nil || deps == nil || deps.Sessions == nil {
		return ErrNilDeps
	}

	return nil
}
