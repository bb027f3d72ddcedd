// Package auth provides the session and route guard middleware of the web application.
//
// Session runs on every page request. It attaches the browser's client session,
// initialising it on first use, and puts the current user into fiber.Locals for
// handlers and templates.
//
// Protect and GuestOnly run per route and apply the route guard:
//   - Render continues the handler chain
//   - redirects answer 302 to the decided location
//   - Pending answers 503 with Retry-After while the session is unsettled
//
// Usage:
//
//	app.Use(auth.Session(manager))
//	app.Get("/profile", auth.Protect(route), handler)
package auth
