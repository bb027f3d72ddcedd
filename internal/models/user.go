// Package models contains the RelaOne identity types shared by the session,
// guard and web packages.
package models

// OrganizationSummary is the organization attached to an organization account.
type OrganizationSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserProfile is the signed-in user as returned by the RelaOne API.
// A profile is never mutated in place: every auth event replaces it.
type UserProfile struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Role         Role                 `json:"role"`
	Organization *OrganizationSummary `json:"organization,omitempty"`
}

// Clone returns a deep copy of the profile, nil for a nil receiver.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}

	out := *u
	if u.Organization != nil {
		org := *u.Organization
		out.Organization = &org
	}

	return &out
}

// DisplayName returns the name, falling back to the email address.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}

	if u.Name != "" {
		return u.Name
	}

	return u.Email
}

// RoleOrGuest returns the role, RoleGuest for a nil profile.
func (u *UserProfile) RoleOrGuest() Role {
	if u == nil {
		return RoleGuest
	}

	return u.Role
}
