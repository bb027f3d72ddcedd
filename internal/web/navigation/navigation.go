// Package navigation builds the page context shared by all templates:
// title, breadcrumbs and the menu of the signed-in role.
package navigation

import (
	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/models"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one entry of the top menu.
type MenuItem struct {
	Section string
	Title   string
	URL     string
}

// menu is every page that can appear in the top menu, in display order.
var menu = []MenuItem{ //nolint:gochecknoglobals
	{Section: "home", Title: "Home", URL: models.HomePath},
	{Section: "events", Title: "Events", URL: "/events"},
	{Section: "dashboard", Title: "Dashboard", URL: models.AdminDashboardPath},
	{Section: "dashboard", Title: "Dashboard", URL: models.OrganizationDashboardPath},
	{Section: "profile", Title: "Profile", URL: "/profile"},
	{Section: "login", Title: "Sign in", URL: guard.LoginPath},
	{Section: "register", Title: "Sign up", URL: guard.RegisterPath},
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	PageTitle     string
	Breadcrumbs   []BreadcrumbItem
	Menu          []MenuItem
	User          *models.UserProfile
}

// NewContext creates a navigation context for a page of section.
func NewContext(pageTitle, activeSection string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// WithUser fills the menu for user (nil for a guest) from rules.
func (c *Context) WithUser(user *models.UserProfile, rules guard.AccessRules) *Context {
	c.User = user
	c.Menu = MenuFor(user.RoleOrGuest(), rules)

	return c
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// SignedIn reports whether the page is rendered for a signed-in user.
func (c *Context) SignedIn() bool {
	return c.User != nil
}

// MenuFor returns the menu entries role may browse according to rules.
func MenuFor(role models.Role, rules guard.AccessRules) []MenuItem {
	out := make([]MenuItem, 0, len(menu))

	for _, item := range menu {
		if rules.Allows(role, item.URL) {
			out = append(out, item)
		}
	}

	return out
}
