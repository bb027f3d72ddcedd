// Package session holds the client session of one browser: who is signed in,
// with which token, and whether that has been settled yet.
//
// State changes only through Reduce. Store wraps the state together with the
// token persistence and the RelaOne API.
package session

import (
	"github.com/relaone/relaone-web/internal/models"
)

// State is one consistent view of a session.
type State struct {
	User            *models.UserProfile
	Token           string
	IsAuthenticated bool
	Initialized     bool
	IsLoading       bool
	Error           *ErrorInfo
}

// SignedIn reports whether the state is authenticated with a token and a user.
// An authenticated state without a user counts as signed out.
func (s State) SignedIn() bool {
	return s.IsAuthenticated && s.Token != "" && s.User != nil
}

// Role returns the user's role, RoleGuest when nobody is signed in.
func (s State) Role() models.Role {
	if !s.SignedIn() {
		return models.RoleGuest
	}

	return s.User.Role
}

func (s State) clone() State {
	s.User = s.User.Clone()

	if s.Error != nil {
		e := *s.Error
		s.Error = &e
	}

	return s
}

// ActionType names a state transition.
type ActionType int

// Action types.
const (
	ActionLoginSucceeded ActionType = iota + 1
	ActionLoggedOut
	ActionInvalidated
	ActionInitialized
	ActionTokenRefreshed
	ActionUserReplaced
	ActionSetLoading
	ActionSetError
	ActionClearError
	ActionSettled
)

var actionNames = map[ActionType]string{
	ActionLoginSucceeded: "login_succeeded",
	ActionLoggedOut:      "logged_out",
	ActionInvalidated:    "invalidated",
	ActionInitialized:    "initialized",
	ActionTokenRefreshed: "token_refreshed",
	ActionUserReplaced:   "user_replaced",
	ActionSetLoading:     "set_loading",
	ActionSetError:       "set_error",
	ActionClearError:     "clear_error",
	ActionSettled:        "settled",
}

func (t ActionType) String() string {
	if name, ok := actionNames[t]; ok {
		return name
	}

	return "unknown"
}

// Action is a requested transition and its payload.
type Action struct {
	Type    ActionType
	User    *models.UserProfile
	Token   string
	Loading bool
	Err     *ErrorInfo
}

// LoginSucceeded signs user in with token.
func LoginSucceeded(user *models.UserProfile, token string) Action {
	return Action{Type: ActionLoginSucceeded, User: user, Token: token}
}

// LoggedOut resets the session after a logout.
func LoggedOut() Action { return Action{Type: ActionLoggedOut} }

// Invalidated resets the session after the token was found invalid.
func Invalidated() Action { return Action{Type: ActionInvalidated} }

// Initialized settles the session. A nil user or empty token settles it signed out.
func Initialized(user *models.UserProfile, token string) Action {
	return Action{Type: ActionInitialized, User: user, Token: token}
}

// TokenRefreshed stores a rotated token. A non-nil user replaces the profile too.
func TokenRefreshed(token string, user *models.UserProfile) Action {
	return Action{Type: ActionTokenRefreshed, Token: token, User: user}
}

// UserReplaced swaps the profile of a signed-in session.
func UserReplaced(user *models.UserProfile) Action {
	return Action{Type: ActionUserReplaced, User: user}
}

// SetLoading marks a network operation as pending or done.
func SetLoading(loading bool) Action { return Action{Type: ActionSetLoading, Loading: loading} }

// SetError records err and ends any pending operation.
func SetError(err *ErrorInfo) Action { return Action{Type: ActionSetError, Err: err} }

// ClearError drops the recorded error.
func ClearError() Action { return Action{Type: ActionClearError} }

// Settled marks the session initialized and leaves everything else as it is.
func Settled() Action { return Action{Type: ActionSettled} }

// Reduce returns the state after applying a to s. It never modifies s.
// Initialized never goes back to false.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionLoginSucceeded:
		if a.Token == "" {
			return s
		}

		return State{
			User:            a.User.Clone(),
			Token:           a.Token,
			IsAuthenticated: true,
			Initialized:     s.Initialized,
		}

	case ActionLoggedOut, ActionInvalidated:
		return State{Initialized: s.Initialized}

	case ActionInitialized:
		if a.Token == "" || a.User == nil {
			return State{Initialized: true}
		}

		return State{
			User:            a.User.Clone(),
			Token:           a.Token,
			IsAuthenticated: true,
			Initialized:     true,
		}

	case ActionTokenRefreshed:
		if !s.IsAuthenticated || a.Token == "" {
			return s
		}

		s.Token = a.Token
		if a.User != nil {
			s.User = a.User.Clone()
		}

		return s

	case ActionUserReplaced:
		if !s.IsAuthenticated {
			return s
		}

		s.User = a.User.Clone()

		return s

	case ActionSetLoading:
		s.IsLoading = a.Loading

		return s

	case ActionSetError:
		s.Error = a.Err
		s.IsLoading = false

		return s

	case ActionClearError:
		s.Error = nil

		return s

	case ActionSettled:
		s.Initialized = true

		return s

	default:
		return s
	}
}
