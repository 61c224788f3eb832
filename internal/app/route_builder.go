package app

import (
	"path"
	"strings"

	"gamecard/internal/domain/config"
	"gamecard/internal/domain/site"
)

type RouteBuilder struct {
	Pages []config.PageConfig
}

// BuildPageRoutes yields the HTML page and the JSON entry dump of every
// configured page.
func (rb *RouteBuilder) BuildPageRoutes() []site.Route {
	routes := make([]site.Route, 0, 2*len(rb.Pages))
	for _, p := range rb.Pages {
		routes = append(routes,
			site.Route{
				Kind:    site.RoutePage,
				Name:    p.Name,
				URL:     "/" + p.Name + ".html",
				OutPath: p.Name + ".html",
			},
			site.Route{
				Kind:    site.RouteAPI,
				Name:    p.Name,
				URL:     "/api/" + p.Name + ".json",
				OutPath: path.Join("api", p.Name+".json"),
			},
		)
	}
	return routes
}

func (rb *RouteBuilder) BuildRoutes() []site.Route {
	routes := []site.Route{{Kind: site.RouteIndex, URL: "/", OutPath: "index.html"}}
	routes = append(routes, rb.BuildPageRoutes()...)
	return append(routes, site.Route{Kind: site.RouteNotFound, OutPath: "404.html"})
}

// Match finds the route serving urlPath. "/index.html" is an alias of "/".
func Match(routes []site.Route, urlPath string) (site.Route, bool) {
	if urlPath == "" || urlPath == "/index.html" {
		urlPath = "/"
	}
	urlPath = strings.TrimSuffix(urlPath, "/")
	if urlPath == "" {
		urlPath = "/"
	}
	for _, r := range routes {
		if r.URL != "" && r.URL == urlPath {
			return r, true
		}
	}
	return site.Route{Kind: site.RouteNotFound}, false
}
