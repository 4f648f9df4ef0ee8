package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/koifarm/backend/internal/interfaces/http/dto"
)

// Router mounts domain groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	groups     []*DomainGroup
}

type RouterOption func(*Router)

// WithAPIVersion overrides the "v1" path segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues groups for Setup
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Setup mounts every queued group. Unknown paths answer with the usual
// error envelope instead of gin's plain-text 404.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, g := range r.groups {
		g.RegisterRoutes(api)
	}
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Route not found"))
	})
}

// DomainGroup collects the routes of one resource. Group middleware runs
// before any per-route middleware; the last handler of a route serves it.
type DomainGroup struct {
	name   string
	prefix string
	guards []gin.HandlerFunc
	mounts []func(*gin.RouterGroup)
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (g *DomainGroup) Name() string   { return g.name }
func (g *DomainGroup) Prefix() string { return g.prefix }

// Use adds group middleware
func (g *DomainGroup) Use(guards ...gin.HandlerFunc) *DomainGroup {
	g.guards = append(g.guards, guards...)
	return g
}

func (g *DomainGroup) GET(path string, chain ...gin.HandlerFunc) *DomainGroup {
	return g.route(http.MethodGet, path, chain)
}

func (g *DomainGroup) POST(path string, chain ...gin.HandlerFunc) *DomainGroup {
	return g.route(http.MethodPost, path, chain)
}

func (g *DomainGroup) PUT(path string, chain ...gin.HandlerFunc) *DomainGroup {
	return g.route(http.MethodPut, path, chain)
}

func (g *DomainGroup) PATCH(path string, chain ...gin.HandlerFunc) *DomainGroup {
	return g.route(http.MethodPatch, path, chain)
}

func (g *DomainGroup) DELETE(path string, chain ...gin.HandlerFunc) *DomainGroup {
	return g.route(http.MethodDelete, path, chain)
}

func (g *DomainGroup) route(method, path string, chain []gin.HandlerFunc) *DomainGroup {
	g.mounts = append(g.mounts, func(rg *gin.RouterGroup) {
		rg.Handle(method, path, chain...)
	})
	return g
}

// RegisterRoutes mounts the group under parent
func (g *DomainGroup) RegisterRoutes(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.guards...)
	for _, mount := range g.mounts {
		mount(rg)
	}
}
