package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// UnmatchedRoute names requests that don't match any route
const UnmatchedRoute = "unmatched"

// RouteMatcher names the route of a request, the name is used as a metric label and span name
type RouteMatcher interface {
	Match(r *http.Request) string
}

// MuxRouteMatcher names routes of a mux router
type MuxRouteMatcher struct {
	Router *mux.Router
}

// Match returns the name of the mux route of a request, falling back to its path template
func (m *MuxRouteMatcher) Match(r *http.Request) string {
	var match mux.RouteMatch
	// Route is nil for 404s and 405s
	if !m.Router.Match(r, &match) || match.Route == nil {
		return UnmatchedRoute
	}

	if name := match.Route.GetName(); name != "" {
		return name
	}

	if tmpl, err := match.Route.GetPathTemplate(); err == nil {
		return tmpl
	}

	return UnmatchedRoute
}
