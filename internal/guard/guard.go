// Package guard decides, for each navigation, whether a page renders or the
// browser is sent elsewhere.
//
// Protected evaluates its rules in a fixed order. A signed-in user on a page
// for another role goes to their own dashboard, never to the login page, so
// protected and guest pages can not bounce a browser between each other.
package guard

import (
	"net/url"
	"slices"
	"strings"

	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/session"
)

const (
	// LoginPath is the default sign-in page.
	LoginPath = "/login"
	// RegisterPath is the sign-up page.
	RegisterPath = "/register"
	// ReturnToParam is the query parameter carrying the page to resume after sign-in.
	ReturnToParam = "from"
)

// Kind is the outcome of a guard decision.
type Kind int

// Decision kinds.
const (
	Render Kind = iota
	RedirectLogin
	RedirectDashboard
	RedirectReturn
	Pending
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	case RedirectReturn:
		return "redirect_return"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Decision is what to do with one navigation. Location is set for redirects;
// ReturnTo is the requested path carried along to the login page.
type Decision struct {
	Kind     Kind
	Location string
	ReturnTo string
}

// Redirect reports whether the decision sends the browser elsewhere.
func (d Decision) Redirect() bool {
	return d.Kind == RedirectLogin || d.Kind == RedirectDashboard || d.Kind == RedirectReturn
}

// Protected decides a navigation to requestedPath on a route open to
// allowedRoles. RoleGuest in allowedRoles lets signed-out visitors in.
// redirectTarget replaces the login page when not empty.
func Protected(s session.State, requestedPath string, allowedRoles []models.Role, redirectTarget string) Decision {
	signedOut := s.Token == "" || !s.IsAuthenticated

	if signedOut && slices.Contains(allowedRoles, models.RoleGuest) {
		return Decision{Kind: Render}
	}

	if signedOut || s.User == nil {
		return loginRedirect(requestedPath, redirectTarget)
	}

	effective := make([]models.Role, 0, len(allowedRoles))
	for _, r := range allowedRoles {
		if r != models.RoleGuest {
			effective = append(effective, r)
		}
	}

	if len(effective) > 0 && !slices.Contains(effective, s.User.Role) {
		return Decision{Kind: RedirectDashboard, Location: models.DashboardPath(s.User.Role)}
	}

	return Decision{Kind: Render}
}

// Guest decides a navigation to a sign-in or sign-up page. A signed-in user is
// sent to from when it is a safe local page, else to redirectTarget, else to
// their dashboard.
func Guest(s session.State, from, redirectTarget string) Decision {
	if !s.IsAuthenticated || s.User == nil || s.Token == "" {
		return Decision{Kind: Render}
	}

	if ValidReturnTo(from) {
		return Decision{Kind: RedirectReturn, Location: from}
	}

	if redirectTarget != "" {
		return Decision{Kind: RedirectReturn, Location: redirectTarget}
	}

	return Decision{Kind: RedirectDashboard, Location: models.DashboardPath(s.User.Role)}
}

// Resolve is Protected for callers that must not act on an unsettled session:
// it returns Pending until the session is initialized and not loading.
func Resolve(s session.State, requestedPath string, allowedRoles []models.Role, redirectTarget string) Decision {
	if !s.Initialized || s.IsLoading {
		return Decision{Kind: Pending}
	}

	return Protected(s, requestedPath, allowedRoles, redirectTarget)
}

// ValidReturnTo reports whether p is a local page other than the sign-in and
// sign-up pages.
func ValidReturnTo(p string) bool {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}

	u, err := url.Parse(p)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return false
	}

	switch CleanPath(u.Path) {
	case LoginPath, RegisterPath:
		return false
	default:
		return true
	}
}

// CleanPath drops a trailing slash, keeping "/" as is.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}

	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}

	return p
}

func loginRedirect(requestedPath, redirectTarget string) Decision {
	target := redirectTarget
	if target == "" {
		target = LoginPath
	}

	if requestedPath == "" {
		return Decision{Kind: RedirectLogin, Location: target}
	}

	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}

	return Decision{
		Kind:     RedirectLogin,
		Location: target + sep + ReturnToParam + "=" + url.QueryEscape(requestedPath),
		ReturnTo: requestedPath,
	}
}
