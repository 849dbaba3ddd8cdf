package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/pathway/pkg/routepath"
)

type compiledRoute struct {
	route   Route
	pattern *routepath.Pattern
}

// bind assigns captures to the pattern's keys positionally.
func (c compiledRoute) bind(values []string) map[string]string {
	keys := c.pattern.Keys()
	params := make(map[string]string, len(keys))
	for i, k := range keys {
		if i < len(values) {
			params[k] = values[i]
		}
	}
	return params
}

// Table is the ordered set of routes. Registration order is match
// priority: the first matching route wins.
type Table struct {
	routes []compiledRoute
	byName map[string]int
}

// NewTable compiles every route. A malformed pattern or a repeated name
// fails the whole table.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{
		routes: make([]compiledRoute, 0, len(routes)),
		byName: make(map[string]int, len(routes)),
	}
	for i, r := range routes {
		p, err := routepath.Compile(r.Path)
		if err != nil {
			return nil, coded("R004", ErrInvalidRoute, "route %d (%q): %v", i, r.Name, err)
		}
		if r.Name != "" {
			if _, dup := t.byName[r.Name]; dup {
				return nil, coded("R005", ErrDuplicateRoute, "%q", r.Name)
			}
			t.byName[r.Name] = i
		}
		t.routes = append(t.routes, compiledRoute{route: r, pattern: p})
	}
	return t, nil
}

// MustTable is NewTable that panics on error.
func MustTable(routes []Route) *Table {
	t, err := NewTable(routes)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of routes.
func (t *Table) Len() int { return len(t.routes) }

// Routes returns the routes in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, c := range t.routes {
		out[i] = c.route
	}
	return out
}

// FindByName returns the route called name.
func (t *Table) FindByName(name string) (Route, bool) {
	c, ok := t.lookup(name)
	return c.route, ok
}

// FindByPath returns the first route whose pattern matches path, with the
// captured values keyed by the pattern's parameter names.
func (t *Table) FindByPath(path string) (Route, map[string]string, bool) {
	for _, c := range t.routes {
		if values, ok := c.pattern.Match(path); ok {
			return c.route, c.bind(values), true
		}
	}
	return Route{}, nil, false
}

// Build renders the path of the named route with params filled in.
func (t *Table) Build(name string, params map[string]string) (string, error) {
	c, ok := t.lookup(name)
	if !ok {
		return "", coded("R001", ErrRouteNotFound, "name %q", name)
	}
	path, err := c.pattern.Build(params)
	if err != nil {
		return "", coded("R001", ErrRouteNotFound, "name %q: %v", name, err)
	}
	return path, nil
}

// matchNamed matches path against the named route only.
func (t *Table) matchNamed(name, path string) (Route, map[string]string, bool) {
	c, ok := t.lookup(name)
	if !ok {
		return Route{}, nil, false
	}
	values, ok := c.pattern.Match(path)
	if !ok {
		return Route{}, nil, false
	}
	return c.route, c.bind(values), true
}

func (t *Table) lookup(name string) (compiledRoute, bool) {
	if name == "" {
		return compiledRoute{}, false
	}
	i, ok := t.byName[name]
	if !ok {
		return compiledRoute{}, false
	}
	return t.routes[i], true
}

// String lists the routes, one per line.
func (t *Table) String() string {
	var b strings.Builder
	for _, c := range t.routes {
		fmt.Fprintf(&b, "%-16s %s (%s)\n", c.route.Name, c.pattern, c.route.Handler.Kind())
	}
	return b.String()
}
