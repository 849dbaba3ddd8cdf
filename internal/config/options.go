package config

import (
	"github.com/vango-dev/pathway/pkg/history"
	"github.com/vango-dev/pathway/pkg/router"
)

// RouteTable returns the configured routes. A route with a component is
// dispatched to it and, when callback is non-nil, to callback as well. A
// route without one uses callback alone, so a nil callback leaves it
// without a handler.
func (c *Config) RouteTable(callback router.Callback) []router.Route {
	routes := make([]router.Route, 0, len(c.Routes))
	for _, rt := range c.Routes {
		var h router.Handler
		switch {
		case rt.Component != "" && callback != nil:
			h = router.Both(callback, rt.Component)
		case rt.Component != "":
			h = router.MountComponent(rt.Component)
		case callback != nil:
			h = router.HandleFunc(callback)
		}
		routes = append(routes, router.Route{Name: rt.Name, Path: rt.Path, Handler: h})
	}
	return routes
}

// RouterOptions converts the configuration into router options. Window,
// History, Components and the other runtime collaborators are left for
// the caller. Call Validate first.
func (c *Config) RouterOptions(callback router.Callback) (router.Options, error) {
	policy, err := router.ParseConcurrency(c.Concurrency)
	if err != nil {
		return router.Options{}, err
	}

	return router.Options{
		Routes:        c.RouteTable(callback),
		BasePath:      c.BasePath,
		Mode:          history.Mode(c.Mode),
		HashFallback:  c.HashFallback,
		Locale:        c.Locale,
		PreRendered:   c.PreRendered,
		RestoreScroll: c.RestoreScroll,
		DebugMode:     c.DebugMode,
		Concurrency:   policy,
	}, nil
}

// ComponentKeys returns the distinct component keys in route order.
func (c *Config) ComponentKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, rt := range c.Routes {
		if rt.Component == "" || seen[rt.Component] {
			continue
		}
		seen[rt.Component] = true
		keys = append(keys, rt.Component)
	}
	return keys
}
