// Package main provides the entry point of relaone-web, the server-rendered
// front end of the RelaOne volunteering platform. It keeps one client session
// per browser against the RelaOne REST API, persists the bearer token in a
// configurable token store and guards every page by the signed-in user's role.
package main
