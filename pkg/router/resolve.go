package router

import (
	"maps"

	"github.com/vango-dev/pathway/pkg/routepath"
)

// Resolution is a request turned into a navigable state plus what to run
// when it settles.
type Resolution struct {
	State   *RouteState
	Route   Route
	Handler Handler
}

// Resolver turns requests into resolutions. It reads the route table and
// configuration only.
type Resolver struct {
	table      *Table
	cleaner    routepath.Cleaner
	components map[string]ComponentFactory
}

// NewResolver returns a resolver over table. components lists the keys a
// component handler may refer to.
func NewResolver(table *Table, cleaner routepath.Cleaner, components map[string]ComponentFactory) *Resolver {
	return &Resolver{table: table, cleaner: cleaner, components: components}
}

// Resolve resolves req. A named request builds its path from the route's
// pattern and req.Params, then binds against that route. A path request is
// cleaned and matched against every route in registration order.
func (r *Resolver) Resolve(req Request) (Resolution, error) {
	var (
		route  Route
		params map[string]string
		ok     bool
	)

	path := req.Path
	if req.Name != "" {
		built, err := r.table.Build(req.Name, req.Params)
		if err != nil {
			return Resolution{}, err
		}
		path = built
	}

	cleaned, err := r.cleaner.Clean(path)
	if err != nil {
		return Resolution{}, coded("R002", ErrRouteNotFound, "path %q: %v", path, err)
	}

	if req.Name != "" {
		route, params, ok = r.table.matchNamed(req.Name, cleaned)
		if !ok {
			return Resolution{}, coded("R001", ErrRouteNotFound, "name %q does not match %q", req.Name, cleaned)
		}
	} else {
		route, params, ok = r.table.FindByPath(cleaned)
		if !ok {
			return Resolution{}, coded("R002", ErrRouteNotFound, "path %q", cleaned)
		}
	}

	if err := r.dispatchable(route); err != nil {
		return Resolution{}, err
	}

	maps.Copy(params, req.Params)

	return Resolution{
		State: &RouteState{
			Name:   route.Name,
			Path:   cleaned,
			Params: params,
			Query:  req.Query,
			Hash:   req.Hash,
		},
		Route:   route,
		Handler: route.Handler,
	}, nil
}

func (r *Resolver) dispatchable(route Route) error {
	h := route.Handler
	switch h.Kind() {
	case HandlerNone:
		return coded("R003", ErrMissingHandler, "route %q (%s)", route.Name, route.Path)
	case HandlerComponent, HandlerBoth:
		if _, ok := r.components[h.ComponentKey()]; !ok {
			return coded("R003", ErrMissingHandler, "route %q: component %q is not registered", route.Name, h.ComponentKey())
		}
	}
	return nil
}
