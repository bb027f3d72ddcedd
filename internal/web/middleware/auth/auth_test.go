package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/tokenstore"
	"github.com/relaone/relaone-web/internal/web/handler"
	"github.com/relaone/relaone-web/internal/web/middleware/auth"
	"github.com/relaone/relaone-web/internal/web/webtest"
)

func newTestApp(t *testing.T) (*fiber.App, *webtest.Env) {
	t.Helper()

	env := webtest.NewEnv(t)
	app := fiber.New(fiber.Config{Views: webtest.Views{}})

	app.Use(auth.Session(env.Deps.Sessions))

	ok := func(c *fiber.Ctx) error { return c.SendString("page " + c.Path()) }

	for _, route := range env.Deps.Routes {
		pattern := route.Pattern
		if pattern == "/admin/*" || pattern == "/organization/*" {
			pattern = pattern[:len(pattern)-1] + "+"
		}

		app.Get(pattern, auth.For(route), ok)
	}

	app.Get(handler.CheckAlivePath, func(c *fiber.Ctx) error { return c.SendString("OK") })

	return app, env
}

func get(t *testing.T, app *fiber.App, target string, cookie *http.Cookie) *http.Response {
	t.Helper()

	return webtest.Do(t, app, httptest.NewRequest(fiber.MethodGet, target, nil), cookie)
}

var (
	vera = models.UserProfile{ID: "u-1", Name: "Vera", Email: "vera@example.org", Role: models.RoleVolunteer}
	olga = models.UserProfile{
		ID: "u-2", Name: "Olga", Email: "olga@example.org", Role: models.RoleOrganization,
		Organization: &models.OrganizationSummary{ID: "o-1", Name: "Food Bank"},
	}
	ada = models.UserProfile{ID: "u-3", Name: "Ada", Email: "ada@example.org", Role: models.RoleAdmin}
)

func TestSession_IssuesCookie(t *testing.T) {
	app, env := newTestApp(t)

	resp := get(t, app, "/", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == webtest.CookieName {
			sessionCookie = c
		}
	}

	require.NotNil(t, sessionCookie)
	assert.Len(t, sessionCookie.Value, 32)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, 1, env.Deps.Sessions.Len())

	// no persisted token, no verification call
	assert.Zero(t, env.API.Calls("/auth/refresh"))
}

func TestSession_SkipsCheckAlive(t *testing.T) {
	app, env := newTestApp(t)

	resp := get(t, app, handler.CheckAlivePath, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
	assert.Zero(t, env.Deps.Sessions.Len())
}

func TestProtect(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.UserProfile
		target   string
		status   int
		location string
	}{
		{name: "guest on guest route renders", target: "/events", status: fiber.StatusOK},
		{name: "guest on member route goes to login", target: "/profile", status: fiber.StatusFound, location: "/login?from=%2Fprofile"},
		{
			name: "guest keeps the query in from", target: "/admin/users?page=2",
			status: fiber.StatusFound, location: "/login?from=%2Fadmin%2Fusers%3Fpage%3D2",
		},
		{name: "volunteer on home renders", user: &vera, target: "/", status: fiber.StatusOK},
		{name: "volunteer on admin goes home", user: &vera, target: "/admin/dashboard", status: fiber.StatusFound, location: "/"},
		{
			name: "organization on volunteer route goes to its dashboard", user: &olga, target: "/events",
			status: fiber.StatusFound, location: models.OrganizationDashboardPath,
		},
		{name: "admin on admin section renders", user: &ada, target: "/admin/users", status: fiber.StatusOK},
		{name: "admin on profile renders", user: &ada, target: "/profile", status: fiber.StatusOK},
		{
			name: "admin on organization dashboard goes to admin dashboard", user: &ada,
			target: models.OrganizationDashboardPath, status: fiber.StatusFound, location: models.AdminDashboardPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, env := newTestApp(t)

			var cookie *http.Cookie
			if tt.user != nil {
				cookie = env.Browser(t, env.API.AddUser(*tt.user, "secret"))
			}

			resp := get(t, app, tt.target, cookie)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get(fiber.HeaderLocation))
		})
	}
}

func TestProtect_RejectedTokenIsCleared(t *testing.T) {
	app, env := newTestApp(t)

	token := env.API.AddUser(vera, "secret")
	env.API.Revoke(token)

	cookie := env.Browser(t, token)

	resp := get(t, app, "/profile", cookie)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Fprofile", resp.Header.Get(fiber.HeaderLocation))

	stored, err := env.Backend.Get(context.Background(), tokenstore.ScopedKey(cookie.Value))
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestGuestOnly(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.UserProfile
		target   string
		status   int
		location string
	}{
		{name: "guest sees login", target: "/login", status: fiber.StatusOK},
		{name: "guest sees register", target: "/register?from=%2Fevents", status: fiber.StatusOK},
		{name: "volunteer goes to return-to", user: &vera, target: "/login?from=%2Fevents%2F7", status: fiber.StatusFound, location: "/events/7"},
		{name: "volunteer without return-to goes home", user: &vera, target: "/login", status: fiber.StatusFound, location: "/"},
		{
			name: "foreign return-to is ignored", user: &ada, target: "/login?from=%2F%2Fevil.example",
			status: fiber.StatusFound, location: models.AdminDashboardPath,
		},
		{
			name: "return-to to login is ignored", user: &olga, target: "/register?from=%2Flogin",
			status: fiber.StatusFound, location: models.OrganizationDashboardPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, env := newTestApp(t)

			var cookie *http.Cookie
			if tt.user != nil {
				cookie = env.Browser(t, env.API.AddUser(*tt.user, "secret"))
			}

			resp := get(t, app, tt.target, cookie)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get(fiber.HeaderLocation))
		})
	}
}

func TestPending_WhileLoading(t *testing.T) {
	app, env := newTestApp(t)

	cookie := env.Browser(t, "")

	store := env.Deps.Sessions.Store(cookie.Value)
	store.Initialize(context.Background())
	store.SetLoading(true)

	resp := get(t, app, "/profile", cookie)

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, auth.RetryAfterSeconds, resp.Header.Get(fiber.HeaderRetryAfter))
	assert.Equal(t, auth.TemplateLoading, webtest.Body(t, resp))

	store.SetLoading(false)

	resp = get(t, app, "/profile", cookie)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestForbidden_OnSelfRedirect(t *testing.T) {
	app, env := newTestApp(t)

	// a role the route table does not know lands on the home page, which
	// does not admit it either
	odd := models.UserProfile{ID: "u-9", Email: "mod@example.org", Role: models.Role("moderator")}
	cookie := env.Browser(t, env.API.AddUser(odd, "secret"))

	resp := get(t, app, "/", cookie)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, auth.TemplateForbidden, webtest.Body(t, resp))

	resp = get(t, app, "/events", cookie)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
}

func TestCurrentUser(t *testing.T) {
	env := webtest.NewEnv(t)
	app := fiber.New(fiber.Config{Views: webtest.Views{}})

	app.Use(auth.Session(env.Deps.Sessions))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if user := auth.CurrentUser(c); user != nil {
			return c.SendString(user.ID)
		}

		return c.SendString("guest")
	})

	assert.Equal(t, "guest", webtest.Body(t, get(t, app, "/whoami", nil)))

	cookie := env.Browser(t, env.API.AddUser(vera, "secret"))
	assert.Equal(t, vera.ID, webtest.Body(t, get(t, app, "/whoami", cookie)))
}
