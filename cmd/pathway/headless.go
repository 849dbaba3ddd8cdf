package main

import (
	"log/slog"

	"github.com/vango-dev/pathway/pkg/router"
)

// headless stands in for a component when there is nothing to render
// into. It reports its lifecycle to the logger.
type headless struct {
	key    string
	path   string
	logger *slog.Logger
}

func (h *headless) Mount(_ any, strategy router.MountStrategy) error {
	h.logger.Debug("component mounted", "component", h.key, "path", h.path, "strategy", string(strategy))
	return nil
}

func (h *headless) PreRenderMount(any) error {
	h.logger.Debug("component adopted pre-rendered markup", "component", h.key, "path", h.path)
	return nil
}

func (h *headless) Destroy() {
	h.logger.Debug("component destroyed", "component", h.key, "path", h.path)
}

// headlessComponents registers a headless factory under every key.
func headlessComponents(keys []string, logger *slog.Logger) map[string]router.ComponentFactory {
	out := make(map[string]router.ComponentFactory, len(keys))
	for _, key := range keys {
		key := key // per-iteration copy; go.mod targets go 1.21 loop semantics
		out[key] = func(s *router.RouteState) router.Component {
			return &headless{key: key, path: displayPath(s.Path), logger: logger}
		}
	}
	return out
}

// displayPath renders a cleaned route path with its leading slash.
func displayPath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	return "/" + p
}

// describeRequest names a request for display: the route name, or the path.
func describeRequest(req router.Request) string {
	if req.Name != "" {
		return req.Name
	}
	if req.Path == "" {
		return "/"
	}
	return req.Path
}
