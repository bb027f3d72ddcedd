package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDashboardPath(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want string
	}{
		{"admin", RoleAdmin, "/admin/dashboard"},
		{"organization", RoleOrganization, "/organization/dashboard"},
		{"volunteer", RoleVolunteer, "/"},
		{"missing role", RoleGuest, "/"},
		{"unknown role", Role("superuser"), "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DashboardPath(tt.role))
			assert.Equal(t, tt.want, tt.role.Dashboard())
		})
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	r, ok = ParseRole("guest")
	assert.True(t, ok)
	assert.Equal(t, RoleGuest, r)

	_, ok = ParseRole("root")
	assert.False(t, ok)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "guest", RoleGuest.String())
	assert.Equal(t, "volunteer", RoleVolunteer.String())
}

func TestUserProfile_Clone(t *testing.T) {
	var nilUser *UserProfile
	assert.Nil(t, nilUser.Clone())

	u := &UserProfile{
		ID:           "1",
		Name:         "Org Owner",
		Role:         RoleOrganization,
		Organization: &OrganizationSummary{ID: "o1", Name: "Food Bank"},
	}

	c := u.Clone()
	c.Organization.Name = "Changed"

	assert.Equal(t, "Food Bank", u.Organization.Name)
	assert.Equal(t, "Org Owner", c.DisplayName())
	assert.Equal(t, "a@b.c", (&UserProfile{Email: "a@b.c"}).DisplayName())
}
