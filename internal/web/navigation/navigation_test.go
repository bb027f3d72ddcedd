package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/models"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Events", "events")

	assert.Equal(t, "Events", ctx.PageTitle)
	assert.Equal(t, "events", ctx.ActiveSection)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
	assert.False(t, ctx.SignedIn())
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Event", "events").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Events", "/events", false).
		AddBreadcrumb("Beach cleanup", "/events/1", true)

	assert.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, "Events", ctx.Breadcrumbs[1].Title)
	assert.True(t, ctx.Breadcrumbs[2].Active)
	assert.False(t, ctx.Breadcrumbs[0].Active)
}

func TestContext_IsSectionActive(t *testing.T) {
	ctx := NewContext("Profile", "profile")

	assert.True(t, ctx.IsSectionActive("profile"))
	assert.False(t, ctx.IsSectionActive("events"))
}

func urls(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.URL)
	}

	return out
}

func TestMenuFor(t *testing.T) {
	rules := guard.DefaultAccessRules()

	assert.Equal(t, []string{"/", "/events", "/login", "/register"}, urls(MenuFor(models.RoleGuest, rules)))
	assert.Equal(t, []string{"/", "/events", "/profile"}, urls(MenuFor(models.RoleVolunteer, rules)))
	assert.Equal(t, []string{"/events", "/admin/dashboard", "/profile"}, urls(MenuFor(models.RoleAdmin, rules)))
	assert.Equal(t,
		[]string{"/events", "/organization/dashboard", "/profile"},
		urls(MenuFor(models.RoleOrganization, rules)),
	)
}

func TestContext_WithUser(t *testing.T) {
	user := &models.UserProfile{ID: "o1", Role: models.RoleOrganization}

	ctx := NewContext("Dashboard", "dashboard").WithUser(user, guard.DefaultAccessRules())
	assert.True(t, ctx.SignedIn())
	assert.Len(t, ctx.Menu, 3)

	guest := NewContext("Home", "home").WithUser(nil, guard.DefaultAccessRules())
	assert.False(t, guest.SignedIn())
	assert.Len(t, guest.Menu, 4)
}
