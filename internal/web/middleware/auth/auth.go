package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/guard"
	accesslog "github.com/relaone/relaone-web/internal/logger/adapter/fiber"
	"github.com/relaone/relaone-web/internal/models"
	appsession "github.com/relaone/relaone-web/internal/session"
	"github.com/relaone/relaone-web/internal/web/handler"
	"github.com/relaone/relaone-web/internal/web/metrics"
	"github.com/relaone/relaone-web/internal/web/navigation"
	websession "github.com/relaone/relaone-web/internal/web/session"
)

const (
	// LocalsStore holds the *appsession.Store of the request.
	LocalsStore = "SessionStore"
	// LocalsSessionID holds the browser session id of the request.
	LocalsSessionID = "SessionID"
	// LocalsCurrentUser holds the signed-in *models.UserProfile, nil for guests.
	LocalsCurrentUser = "CurrentUser"

	// RetryAfterSeconds is sent with Pending answers.
	RetryAfterSeconds = "1"

	// TemplateLoading is rendered while the session is unsettled.
	TemplateLoading = "loading"
	// TemplateForbidden is rendered when a redirect would point at the page itself.
	TemplateForbidden = "forbidden"
)

var skipPrefixes = []string{"/static", metrics.Path, handler.CheckAlivePath} //nolint:gochecknoglobals

// Session attaches the browser's client session to every page request.
func Session(manager *websession.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		store, sid := manager.Acquire(c)
		store.Initialize(c.UserContext())

		snapshot := store.Snapshot()

		c.Locals(LocalsStore, store)
		c.Locals(LocalsSessionID, sid)

		if snapshot.SignedIn() {
			c.Locals(LocalsCurrentUser, snapshot.User)
			c.Locals(accesslog.LocalsUserID, snapshot.User.ID)
		}

		metrics.SetLiveSessions(manager.Len())

		return c.Next()
	}
}

// Store returns the client session attached by Session, nil outside of it.
func Store(c *fiber.Ctx) *appsession.Store {
	store, _ := c.Locals(LocalsStore).(*appsession.Store)

	return store
}

// Rotate moves the request's freshly signed-in session to a new browser
// session id and returns the store now serving it.
func Rotate(c *fiber.Ctx, manager *websession.Manager) (*appsession.Store, error) {
	sid, _ := c.Locals(LocalsSessionID).(string)

	store, next, err := manager.Rotate(c.UserContext(), c, sid)
	if err != nil {
		return store, err
	}

	c.Locals(LocalsStore, store)
	c.Locals(LocalsSessionID, next)

	return store, nil
}

// State returns a snapshot of the request's client session.
func State(c *fiber.Ctx) appsession.State {
	if store := Store(c); store != nil {
		return store.Snapshot()
	}

	return appsession.State{}
}

// CurrentUser returns the signed-in user, nil for guests.
func CurrentUser(c *fiber.Ctx) *models.UserProfile {
	user, _ := c.Locals(LocalsCurrentUser).(*models.UserProfile)

	return user
}

// Protect guards a page route.
func Protect(route guard.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := guard.Resolve(State(c), c.OriginalURL(), route.AllowedRoles, route.RedirectTo)

		return apply(c, route, d)
	}
}

// GuestOnly guards a sign-in style page: signed-in users are sent on.
func GuestOnly(route guard.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := State(c)

		d := guard.Decision{Kind: guard.Pending}
		if state.Initialized && !state.IsLoading {
			d = guard.Guest(state, c.Query(guard.ReturnToParam), route.RedirectTo)
		}

		return apply(c, route, d)
	}
}

// For picks Protect or GuestOnly according to route.Guest.
func For(route guard.Route) fiber.Handler {
	if route.Guest {
		return GuestOnly(route)
	}

	return Protect(route)
}

func apply(c *fiber.Ctx, route guard.Route, d guard.Decision) error {
	metrics.ObserveDecision(route.Name, d.Kind)

	log.Debug().Str("route", route.Name).Str("path", c.Path()).Str("decision", d.Kind.String()).
		Str("location", d.Location).Msg("route guard")

	switch d.Kind {
	case guard.Render:
		return c.Next()

	case guard.Pending:
		c.Set(fiber.HeaderRetryAfter, RetryAfterSeconds)

		return c.Status(fiber.StatusServiceUnavailable).Render(TemplateLoading, fiber.Map{
			"Nav": navigation.NewContext("Loading", ""),
		}, handler.BaseLayout)

	default:
		if pointsAtItself(c, d.Location) {
			log.Warn().Str("route", route.Name).Str("path", c.Path()).Msg("route guard redirect loop")

			return c.Status(fiber.StatusForbidden).Render(TemplateForbidden, fiber.Map{
				"Nav": navigation.NewContext("Forbidden", ""),
			}, handler.BaseLayout)
		}

		return c.Redirect(d.Location)
	}
}

func pointsAtItself(c *fiber.Ctx, location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}

	return guard.CleanPath(u.Path) == guard.CleanPath(c.Path())
}
