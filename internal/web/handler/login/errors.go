// Package login serves the sign-in page.
package login

import "errors"

// ErrInvalidFormData is returned when the submitted login form can not be parsed.
var ErrInvalidFormData = errors.New("invalid form data")
