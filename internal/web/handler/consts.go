package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// ErrNilDepsFatalLogMsg is used if app, cfg or deps is nil.
	ErrNilDepsFatalLogMsg = "app, cfg or deps is nil"

	// GenericErrorMessage is shown for failures the user can not act on.
	GenericErrorMessage = "Something went wrong. Please try again."
)
