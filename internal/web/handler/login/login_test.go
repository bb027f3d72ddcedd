package login

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/session"
)

func TestDestination(t *testing.T) {
	signedIn := func(role models.Role) session.State {
		return session.State{
			User:            &models.UserProfile{ID: "u", Role: role},
			Token:           "T",
			IsAuthenticated: true,
			Initialized:     true,
		}
	}

	tests := []struct {
		name   string
		state  session.State
		from   string
		target string
		want   string
	}{
		{name: "return-to wins", state: signedIn(models.RoleVolunteer), from: "/events/3", want: "/events/3"},
		{name: "override before dashboard", state: signedIn(models.RoleAdmin), target: "/admin/users", want: "/admin/users"},
		{name: "role dashboard", state: signedIn(models.RoleOrganization), want: models.OrganizationDashboardPath},
		{name: "login is not a return-to", state: signedIn(models.RoleAdmin), from: "/login", want: models.AdminDashboardPath},
		{name: "not signed in goes home", state: session.State{Initialized: true}, from: "/events", want: models.HomePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Destination(tt.state, tt.from, tt.target))
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, StatusFor(&session.ErrorInfo{Transport: true}))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(&session.ErrorInfo{Status: http.StatusUnauthorized}))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(&session.ErrorInfo{Status: http.StatusUnprocessableEntity}))
	assert.Equal(t, http.StatusBadGateway, StatusFor(&session.ErrorInfo{Status: http.StatusInternalServerError}))
	assert.Equal(t, http.StatusBadGateway, StatusFor(&session.ErrorInfo{}))
}
