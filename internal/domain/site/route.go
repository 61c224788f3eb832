package site

import (
	"strings"
)

type RouteKind string

const (
	RouteIndex    RouteKind = "index"
	RoutePage     RouteKind = "page"
	RouteAPI      RouteKind = "api"
	RouteNotFound RouteKind = "404"
)

type Route struct {
	Kind RouteKind
	// Name is the page name; empty for site-wide routes.
	Name    string
	URL     string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Name != "" {
		parts = append(parts, "name="+r.Name)
	}
	if r.URL != "" {
		parts = append(parts, "url="+r.URL)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}
