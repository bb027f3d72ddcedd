package guard

import (
	"strings"

	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/session"
)

// Route is one entry of the route table.
//
// Pattern segments starting with ":" match any single segment, a final "*"
// matches the rest of the path. Guest routes are sign-in style pages and
// ignore AllowedRoles.
type Route struct {
	Name         string
	Pattern      string
	AllowedRoles []models.Role
	RedirectTo   string
	Guest        bool
}

// Matches reports whether path falls under the route's pattern.
func (r Route) Matches(path string) bool {
	pattern := segments(r.Pattern)
	actual := segments(path)

	for i, seg := range pattern {
		if seg == "*" && i == len(pattern)-1 {
			return true
		}

		if i >= len(actual) {
			return false
		}

		if strings.HasPrefix(seg, ":") {
			continue
		}

		if seg != actual[i] {
			return false
		}
	}

	return len(pattern) == len(actual)
}

// Decide runs the guard for a navigation to path on this route. from is the
// return-to hint of guest routes.
func (r Route) Decide(s session.State, path, from string) Decision {
	if !s.Initialized || s.IsLoading {
		return Decision{Kind: Pending}
	}

	if r.Guest {
		return Guest(s, from, r.RedirectTo)
	}

	return Protected(s, path, r.AllowedRoles, r.RedirectTo)
}

func segments(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}

	return strings.Split(p, "/")
}

// Table is an ordered route table; the first matching route wins.
type Table []Route

// Match returns the first route matching path.
func (t Table) Match(path string) (Route, bool) {
	for _, r := range t {
		if r.Matches(path) {
			return r, true
		}
	}

	return Route{}, false
}

var (
	guestOrVolunteer = []models.Role{models.RoleVolunteer, models.RoleGuest}
	signedIn         = []models.Role{models.RoleAdmin, models.RoleOrganization, models.RoleVolunteer}
)

// DefaultRoutes returns the RelaOne route table.
func DefaultRoutes() Table {
	return Table{
		{Name: "home", Pattern: "/", AllowedRoles: guestOrVolunteer},
		{Name: "events", Pattern: "/events", AllowedRoles: guestOrVolunteer},
		{Name: "event", Pattern: "/events/:id", AllowedRoles: guestOrVolunteer},
		{Name: "profile", Pattern: "/profile", AllowedRoles: signedIn},
		{Name: "admin-dashboard", Pattern: models.AdminDashboardPath, AllowedRoles: []models.Role{models.RoleAdmin}},
		{Name: "admin", Pattern: "/admin/*", AllowedRoles: []models.Role{models.RoleAdmin}},
		{
			Name:         "organization-dashboard",
			Pattern:      models.OrganizationDashboardPath,
			AllowedRoles: []models.Role{models.RoleOrganization},
		},
		{Name: "organization", Pattern: "/organization/*", AllowedRoles: []models.Role{models.RoleOrganization}},
		{Name: "login", Pattern: LoginPath, Guest: true},
		{Name: "register", Pattern: RegisterPath, Guest: true},
	}
}
