package models

import "strings"

// Role is the RelaOne account type a user signs in with.
type Role string

const (
	// RoleAdmin is a platform administrator.
	RoleAdmin Role = "admin"
	// RoleOrganization is an account managing an organization and its events.
	RoleOrganization Role = "organization"
	// RoleVolunteer is a volunteer browsing and joining events.
	RoleVolunteer Role = "volunteer"
	// RoleGuest is the empty role. In route configuration it is the guest sentinel:
	// listing it means unauthenticated visitors may also view the route.
	RoleGuest Role = ""
)

const (
	// AdminDashboardPath is the landing page for admins.
	AdminDashboardPath = "/admin/dashboard"
	// OrganizationDashboardPath is the landing page for organizations.
	OrganizationDashboardPath = "/organization/dashboard"
	// HomePath is the landing page for volunteers and everything else.
	HomePath = "/"
)

// Roles lists every signed-in role.
var Roles = []Role{RoleAdmin, RoleOrganization, RoleVolunteer}

// Valid reports whether r is one of the signed-in roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganization, RoleVolunteer:
		return true
	default:
		return false
	}
}

// String returns the role name, "guest" for the empty role.
func (r Role) String() string {
	if r == RoleGuest {
		return "guest"
	}

	return string(r)
}

// ParseRole maps user input to a Role. "guest" and "" map to RoleGuest.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "guest" {
		return RoleGuest, true
	}

	r := Role(s)

	return r, r.Valid()
}

// DashboardPath resolves the default landing path of a role. Unknown and empty
// roles land on the home page.
func DashboardPath(r Role) string {
	switch r {
	case RoleAdmin:
		return AdminDashboardPath
	case RoleOrganization:
		return OrganizationDashboardPath
	default:
		return HomePath
	}
}

// Dashboard is DashboardPath for r.
func (r Role) Dashboard() string {
	return DashboardPath(r)
}
