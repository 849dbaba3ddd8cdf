package router

import (
	"context"
	"maps"
	"net/url"
	"strings"

	"github.com/vango-dev/pathway/pkg/routepath"
)

// Callback is invoked with the new state once a navigation settles.
type Callback func(state *RouteState)

// HandlerKind tags the variant held by a Handler.
type HandlerKind uint8

const (
	HandlerNone HandlerKind = iota
	HandlerCallback
	HandlerComponent
	HandlerBoth
)

// String returns the kind name.
func (k HandlerKind) String() string {
	switch k {
	case HandlerCallback:
		return "callback"
	case HandlerComponent:
		return "component"
	case HandlerBoth:
		return "both"
	default:
		return "none"
	}
}

// Handler is what a route does when it settles: run a callback, mount a
// component, or both. The zero Handler does nothing and makes the route
// unnavigable.
type Handler struct {
	kind      HandlerKind
	callback  Callback
	component string
}

// HandleFunc returns a Handler that runs fn.
func HandleFunc(fn Callback) Handler {
	if fn == nil {
		return Handler{}
	}
	return Handler{kind: HandlerCallback, callback: fn}
}

// MountComponent returns a Handler that mounts the component registered under
// key in Options.Components.
func MountComponent(key string) Handler {
	if key == "" {
		return Handler{}
	}
	return Handler{kind: HandlerComponent, component: key}
}

// Both returns a Handler that mounts the component under key and then runs
// fn.
func Both(fn Callback, key string) Handler {
	switch {
	case fn == nil:
		return MountComponent(key)
	case key == "":
		return HandleFunc(fn)
	}
	return Handler{kind: HandlerBoth, callback: fn, component: key}
}

// Kind returns the variant tag.
func (h Handler) Kind() HandlerKind { return h.kind }

// Callback returns the callback, or nil.
func (h Handler) Callback() Callback { return h.callback }

// ComponentKey returns the component key, or "".
func (h Handler) ComponentKey() string { return h.component }

// Route is an application route definition.
type Route struct {
	// Name identifies the route for named navigation. Optional; non-empty
	// names must be unique.
	Name string

	// Path is the pattern, e.g. "/users/:id".
	Path string

	// Handler runs when the route settles.
	Handler Handler
}

// RouteState is a resolved navigation: the route and the values bound to
// it. A RouteState is never mutated after the router hands it out.
type RouteState struct {
	// Name is the matched route's name.
	Name string

	// Path is the cleaned, pattern-relative path ("users/7", or "/" for the
	// root).
	Path string

	// Params maps parameter names to values.
	Params map[string]string

	// Query is the raw query string without "?"; "" when absent.
	Query string

	// Hash is the fragment without "#"; "" when absent.
	Hash string

	// Instance is the mounted component, set once the navigation commits.
	Instance Component
}

// Equal reports whether s and o name the same route with the same params.
// Query and hash are not compared. A nil state equals only nil.
func (s *RouteState) Equal(o *RouteState) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Name == o.Name && maps.Equal(s.Params, o.Params)
}

// Param returns the named parameter, or "".
func (s *RouteState) Param(name string) string {
	if s == nil {
		return ""
	}
	return s.Params[name]
}

// Values parses Query.
func (s *RouteState) Values() url.Values {
	if s == nil {
		return url.Values{}
	}
	v, _ := url.ParseQuery(s.Query)
	return v
}

func (s *RouteState) clone() *RouteState {
	c := *s
	c.Params = maps.Clone(s.Params)
	return &c
}

// withInstance returns a copy of s carrying inst.
func (s *RouteState) withInstance(inst Component) *RouteState {
	c := s.clone()
	c.Instance = inst
	return c
}

// snapshot is the value recorded as history entry state. It drops the
// instance, which belongs to the live page only.
func (s *RouteState) snapshot() RouteState {
	c := s.clone()
	c.Instance = nil
	return *c
}

// Request describes a navigation attempt. Build one with To or Named.
type Request struct {
	// Path is the target path. Ignored when Name is set.
	Path string

	// Name selects a route by name and takes precedence over Path.
	Name string

	// Params are merged over the matched params. For named requests they
	// also fill the route's pattern.
	Params map[string]string

	// Query is the query string without "?".
	Query string

	// Hash is the fragment without "#".
	Hash string

	// Silent replaces the current history entry instead of pushing.
	Silent bool
}

// To returns a request for href, which may carry "?query" and "#hash".
func To(href string) Request {
	path, query, hash := routepath.Split(href)
	return Request{Path: path, Query: query, Hash: hash}
}

// Named returns a request for the route called name.
func Named(name string, params map[string]string) Request {
	return Request{Name: name, Params: params}
}

// WithQuery returns a copy of r with the query set.
func (r Request) WithQuery(query string) Request {
	r.Query = strings.TrimPrefix(query, "?")
	return r
}

// WithHash returns a copy of r with the fragment set.
func (r Request) WithHash(hash string) Request {
	r.Hash = strings.TrimPrefix(hash, "#")
	return r
}

// WithParams returns a copy of r with params merged over its own.
func (r Request) WithParams(params map[string]string) Request {
	merged := maps.Clone(r.Params)
	if merged == nil {
		merged = make(map[string]string, len(params))
	}
	maps.Copy(merged, params)
	r.Params = merged
	return r
}

// AsReplace returns a copy of r that replaces the current entry.
func (r Request) AsReplace() Request {
	r.Silent = true
	return r
}

// MountStrategy tells a component how to attach to the mount target.
type MountStrategy string

const (
	// MountReplace replaces the target's content.
	MountReplace MountStrategy = "replace"

	// MountAppend appends to the target's content.
	MountAppend MountStrategy = "append"
)

// Component is a mounted UI unit. The router creates one per committed
// navigation through a ComponentFactory and destroys it when leaving the
// route (see DefaultBeforeEach).
type Component interface {
	// Mount renders into target.
	Mount(target any, strategy MountStrategy) error

	// PreRenderMount hydrates server-rendered content already in target.
	PreRenderMount(target any) error

	// Destroy releases the component.
	Destroy()
}

// ComponentFactory instantiates a component for a resolved state.
type ComponentFactory func(state *RouteState) Component

// AnchorScanner attaches click interception to the anchors under target.
// The router calls Scan after every settled navigation; follow starts a
// navigation to an anchor's href.
type AnchorScanner interface {
	Scan(target any, follow func(href string))
}

// Scroller reads and sets the viewport scroll position.
type Scroller interface {
	ScrollPosition() (x, y int)
	ScrollTo(x, y int)
}

// HookFunc gates a navigation. from is the last settled route (nil before
// the first one); returning false cancels. Hooks may block, for example on
// a confirmation dialog, and should return false when ctx is done.
type HookFunc func(ctx context.Context, from, to *RouteState) bool

// DefaultBeforeEach destroys the previous route's component and proceeds.
// Custom before hooks that still want this teardown should call it.
func DefaultBeforeEach(_ context.Context, from, _ *RouteState) bool {
	if from != nil && from.Instance != nil {
		from.Instance.Destroy()
	}
	return true
}

// DefaultAfterEach proceeds.
func DefaultAfterEach(context.Context, *RouteState, *RouteState) bool {
	return true
}
