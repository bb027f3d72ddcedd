package api

import (
	"encoding/json"

	"github.com/relaone/relaone-web/internal/models"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Registration is the register request body. Only volunteers and organizations
// can sign up themselves.
type Registration struct {
	Name     string      `json:"name"     form:"name"     validate:"required,min=2,max=100"`
	Email    string      `json:"email"    form:"email"    validate:"required,email"`
	Password string      `json:"password" form:"password" validate:"required,min=8"`
	Role     models.Role `json:"role"     form:"role"     validate:"required,oneof=volunteer organization"`
}

// AuthResult is the data part of login, register, refresh and verify answers.
// User is nil when a refresh answer does not carry one.
type AuthResult struct {
	Token string              `json:"token"`
	User  *models.UserProfile `json:"user,omitempty"`
}

// Event is one RelaOne volunteering event as listed by GET /events.
type Event struct {
	ID           string                      `json:"id"`
	Title        string                      `json:"title"`
	Description  string                      `json:"description,omitempty"`
	Location     string                      `json:"location,omitempty"`
	Date         string                      `json:"date,omitempty"`
	Organization *models.OrganizationSummary `json:"organization,omitempty"`
}

// envelope is the common {success, message, data, errors} answer shape.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}
