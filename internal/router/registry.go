package router

import "github.com/gin-gonic/gin"

// APIPrefix is where the versioned JSON API is mounted.
const APIPrefix = "/api/v1"

// Module registers a feature's routes on the group it is given.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them once. API modules are mounted
// under APIPrefix behind the API middleware; root modules (metrics, debug)
// sit directly on the engine.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	Root        *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	rootModules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(APIPrefix), Root: &engine.RouterGroup}
}

// Use adds middleware to the API group only.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) AddRoot(mod Module) {
	r.rootModules = append(r.rootModules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	for _, m := range r.rootModules {
		m.Register(r.Root)
	}
}
