package guard

import (
	"strings"

	"github.com/relaone/relaone-web/internal/models"
)

// AccessRules lists, per role, the path prefixes that role is expected to browse.
// It feeds menus and listings; Route.AllowedRoles is what actually gates a page.
type AccessRules map[models.Role][]string

// DefaultAccessRules returns the RelaOne access rules.
func DefaultAccessRules() AccessRules {
	return AccessRules{
		models.RoleGuest:        {"/", "/events", LoginPath, RegisterPath},
		models.RoleVolunteer:    {"/", "/events", "/profile"},
		models.RoleOrganization: {"/organization", "/events", "/profile"},
		models.RoleAdmin:        {"/admin", "/events", "/profile"},
	}
}

// Prefixes returns a copy of the prefixes of role.
func (a AccessRules) Prefixes(role models.Role) []string {
	return append([]string(nil), a[role]...)
}

// Allows reports whether path lies under one of role's prefixes. Prefixes match
// whole segments: "/admin" covers "/admin/users" but not "/administrators".
// "/" covers the home page only.
func (a AccessRules) Allows(role models.Role, path string) bool {
	path = CleanPath(path)

	for _, prefix := range a[role] {
		prefix = CleanPath(prefix)

		if prefix == "/" {
			if path == "/" {
				return true
			}

			continue
		}

		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	return false
}
