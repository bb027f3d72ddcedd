package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/relaone/relaone-web/internal/api"
)

var (
	// ErrSuperseded is returned by an operation whose result was dropped because
	// the session was logged out or invalidated while it was in flight.
	ErrSuperseded = errors.New("session changed while the request was in flight")

	// ErrNotSignedIn is returned by operations that need a token when there is none.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrVerifyPanicked wraps a panic raised while verifying the persisted token.
	ErrVerifyPanicked = errors.New("token verification panicked")
)

// TransportMessage is shown for any failure that never reached the API.
const TransportMessage = "Unable to reach RelaOne. Check your connection and try again."

// ErrorInfo is an auth failure normalised for display.
// Transport is true when no answer came back from the API.
type ErrorInfo struct {
	Message   string
	Fields    map[string][]string
	Status    int
	Transport bool

	cause error
}

func (e *ErrorInfo) Error() string {
	if e.Transport && e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *ErrorInfo) Unwrap() error { return e.cause }

// Field returns the first message for field.
func (e *ErrorInfo) Field(field string) string {
	if e == nil {
		return ""
	}

	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}

	return ""
}

// NewErrorInfo normalises err. API rejections keep the server's message and
// field errors verbatim, everything else becomes a transport failure.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	var info *ErrorInfo
	if errors.As(err, &info) {
		return info
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		fields := make(map[string][]string, len(apiErr.Errors))
		for k, v := range apiErr.Errors {
			fields[k] = append([]string(nil), v...)
		}

		return &ErrorInfo{
			Message: apiErr.Message,
			Fields:  fields,
			Status:  apiErr.Status,
			cause:   err,
		}
	}

	if errors.Is(err, api.ErrMissingUser) || errors.Is(err, api.ErrMissingToken) {
		return &ErrorInfo{Message: "RelaOne sent an incomplete answer. Please try again.", cause: err}
	}

	if errors.Is(err, context.Canceled) {
		return &ErrorInfo{Message: "Request was cancelled.", Transport: true, cause: err}
	}

	return &ErrorInfo{Message: TransportMessage, Transport: true, cause: err}
}
