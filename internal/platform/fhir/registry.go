package fhir

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Interaction names a RESTful FHIR interaction on a resource type.
type Interaction string

const (
	InteractionRead   Interaction = "read"
	InteractionSearch Interaction = "search-type"
	InteractionCreate Interaction = "create"
	InteractionUpdate Interaction = "update"
)

type routeKey struct {
	resource    string
	interaction Interaction
	operation   string
}

type route struct {
	key     routeKey
	method  string
	handler echo.HandlerFunc
}

// Registry is an explicit table of (resource, interaction) pairs. Every
// served endpoint is declared here; registering the same pair twice panics,
// so a wiring mistake fails at startup rather than shadowing a route.
type Registry struct {
	routes []route
	seen   map[routeKey]bool
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[routeKey]bool)}
}

// Register declares a standard interaction on a resource type.
func (r *Registry) Register(resource string, interaction Interaction, h echo.HandlerFunc) {
	key := routeKey{resource: resource, interaction: interaction}
	r.add(key, methodFor(interaction), h)
}

// RegisterOperation declares a type-level operation, served as
// <method> /<resource>/$<name>.
func (r *Registry) RegisterOperation(resource, name, method string, h echo.HandlerFunc) {
	if method != http.MethodGet && method != http.MethodPost {
		panic(fmt.Sprintf("fhir: operation $%s on %s: method %s not supported", name, resource, method))
	}
	key := routeKey{resource: resource, interaction: "operation", operation: method + " $" + name}
	r.add(key, method, h)
}

func (r *Registry) add(key routeKey, method string, h echo.HandlerFunc) {
	if h == nil {
		panic(fmt.Sprintf("fhir: nil handler for %s %s %s", key.resource, key.interaction, key.operation))
	}
	if r.seen[key] {
		panic(fmt.Sprintf("fhir: duplicate registration for %s %s %s", key.resource, key.interaction, key.operation))
	}
	r.seen[key] = true
	r.routes = append(r.routes, route{key: key, method: method, handler: h})
}

// Mount wires the registered table onto an echo group. Operations are
// mounted before the read route so /$op is not captured as an id.
func (r *Registry) Mount(g *echo.Group) {
	for _, rt := range r.routes {
		if rt.key.interaction == "operation" {
			name := rt.key.operation[len(rt.method)+2:]
			g.Add(rt.method, "/"+rt.key.resource+"/$"+name, rt.handler)
		}
	}
	for _, rt := range r.routes {
		switch rt.key.interaction {
		case InteractionRead:
			g.GET("/"+rt.key.resource+"/:id", rt.handler)
		case InteractionSearch:
			g.GET("/"+rt.key.resource, rt.handler)
		case InteractionCreate:
			g.POST("/"+rt.key.resource, rt.handler)
		case InteractionUpdate:
			g.PUT("/"+rt.key.resource+"/:id", rt.handler)
		}
	}
}

// Resources lists the distinct resource types in registration order.
func (r *Registry) Resources() []string {
	var out []string
	seen := map[string]bool{}
	for _, rt := range r.routes {
		if !seen[rt.key.resource] {
			seen[rt.key.resource] = true
			out = append(out, rt.key.resource)
		}
	}
	return out
}

func methodFor(interaction Interaction) string {
	switch interaction {
	case InteractionCreate:
		return http.MethodPost
	case InteractionUpdate:
		return http.MethodPut
	default:
		return http.MethodGet
	}
}
