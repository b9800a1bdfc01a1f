// Package router assembles the storefront API routes.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a set of routes on an API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup) []Route
}

// Route describes one registered endpoint
type Route struct {
	Group     string
	Method    string
	Path      string
	Protected bool
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the API prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router for the v1 API unless told otherwise
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registrar and returns the resulting route table
func (r *Router) Setup() []Route {
	api := r.engine.Group("/api/" + r.apiVersion)
	var routes []Route
	for _, registrar := range r.registrars {
		routes = append(routes, registrar.RegisterRoutes(api)...)
	}
	return routes
}

// DomainGroup is the set of endpoints of one resource. A group is public
// until RequireAuth gives it an authentication chain.
type DomainGroup struct {
	name   string
	prefix string
	auth   []gin.HandlerFunc
	routes []groupRoute
}

type groupRoute struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a public group mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// RequireAuth runs chain before every handler of the group
func (dg *DomainGroup) RequireAuth(chain ...gin.HandlerFunc) *DomainGroup {
	dg.auth = append(dg.auth, chain...)
	return dg
}

// GET registers a GET endpoint
func (dg *DomainGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, relativePath, handlers...)
}

// POST registers a POST endpoint
func (dg *DomainGroup) POST(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, relativePath, handlers...)
}

// PUT registers a PUT endpoint
func (dg *DomainGroup) PUT(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, relativePath, handlers...)
}

// DELETE registers a DELETE endpoint
func (dg *DomainGroup) DELETE(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, relativePath, handlers...)
}

// Handle registers an endpoint for any method
func (dg *DomainGroup) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, groupRoute{method: method, path: relativePath, handlers: handlers})
	return dg
}

// Protected reports whether the group requires authentication
func (dg *DomainGroup) Protected() bool {
	return len(dg.auth) > 0
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) []Route {
	group := rg.Group(dg.prefix, dg.auth...)
	routes := make([]Route, 0, len(dg.routes))
	for _, r := range dg.routes {
		group.Handle(r.method, r.path, r.handlers...)
		routes = append(routes, Route{
			Group:     dg.name,
			Method:    r.method,
			Path:      joinPath(group.BasePath(), r.path),
			Protected: dg.Protected(),
		})
	}
	return routes
}

// joinPath joins like gin does, keeping a route of "" on the group path
func joinPath(base, relative string) string {
	if relative == "" {
		return base
	}
	return path.Join(base, relative)
}
