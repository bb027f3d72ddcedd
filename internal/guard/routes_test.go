package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/session"
)

func TestRoute_Matches(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/", "/", true},
		{"/", "", true},
		{"/", "/events", false},
		{"/events", "/events/", true},
		{"/events", "/events?page=2", true},
		{"/events/:id", "/events/42", true},
		{"/events/:id", "/events", false},
		{"/events/:id", "/events/42/join", false},
		{"/admin/*", "/admin", true},
		{"/admin/*", "/admin/users/7", true},
		{"/admin/*", "/administrators", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, guard.Route{Pattern: tt.pattern}.Matches(tt.path), "%s ~ %s", tt.pattern, tt.path)
	}
}

func TestTable_Match(t *testing.T) {
	table := guard.DefaultRoutes()

	for path, name := range map[string]string{
		"/":                       "home",
		"/events":                 "events",
		"/events/7":               "event",
		"/profile":                "profile",
		"/admin/dashboard":        "admin-dashboard",
		"/admin/users":            "admin",
		"/organization/dashboard": "organization-dashboard",
		"/organization/events/3":  "organization",
		"/login":                  "login",
		"/register":               "register",
	} {
		route, ok := table.Match(path)
		require.True(t, ok, path)
		assert.Equal(t, name, route.Name, path)
	}

	_, ok := table.Match("/nowhere")
	assert.False(t, ok)
}

func TestDefaultRoutes_VolunteerAndGuestComposition(t *testing.T) {
	route, ok := guard.DefaultRoutes().Match("/events")
	require.True(t, ok)
	assert.ElementsMatch(t, []models.Role{models.RoleVolunteer, models.RoleGuest}, route.AllowedRoles)
}

func TestRoute_Decide(t *testing.T) {
	table := guard.DefaultRoutes()
	login, _ := table.Match("/login")
	profile, _ := table.Match("/profile")

	assert.Equal(t, guard.Pending, login.Decide(session.State{}, "/login", "").Kind)
	assert.Equal(t, guard.Render, login.Decide(session.State{Initialized: true}, "/login", "/events").Kind)
	assert.Equal(t,
		guard.Decision{Kind: guard.RedirectReturn, Location: "/events"},
		login.Decide(signedIn(models.RoleVolunteer), "/login", "/events"),
	)
	assert.Equal(t, guard.RedirectLogin, profile.Decide(session.State{Initialized: true}, "/profile", "").Kind)
}

func TestAccessRules(t *testing.T) {
	rules := guard.DefaultAccessRules()

	assert.True(t, rules.Allows(models.RoleAdmin, "/admin/users"))
	assert.True(t, rules.Allows(models.RoleAdmin, "/admin"))
	assert.False(t, rules.Allows(models.RoleAdmin, "/administrators"))
	assert.False(t, rules.Allows(models.RoleAdmin, "/organization/dashboard"))
	assert.True(t, rules.Allows(models.RoleGuest, "/"))
	assert.False(t, rules.Allows(models.RoleGuest, "/profile"))
	assert.True(t, rules.Allows(models.RoleVolunteer, "/events/5"))

	prefixes := rules.Prefixes(models.RoleOrganization)
	prefixes[0] = "/changed"
	assert.Equal(t, "/organization", rules.Prefixes(models.RoleOrganization)[0])
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "render", guard.Render.String())
	assert.Equal(t, "pending", guard.Pending.String())
	assert.Equal(t, "unknown", guard.Kind(42).String())
}
