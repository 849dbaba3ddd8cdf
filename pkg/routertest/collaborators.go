package routertest

import (
	"sync"

	"github.com/vango-dev/pathway/pkg/router"
)

// Component records calls made on it by the router.
type Component struct {
	Key   string
	State *router.RouteState

	// MountErr is returned by Mount and PreRenderMount.
	MountErr error

	mu         sync.Mutex
	mounts     []router.MountStrategy
	preRenders int
	destroyed  int
	target     any
}

// Mount implements router.Component.
func (c *Component) Mount(target any, strategy router.MountStrategy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounts = append(c.mounts, strategy)
	c.target = target
	return c.MountErr
}

// PreRenderMount implements router.Component.
func (c *Component) PreRenderMount(target any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preRenders++
	c.target = target
	return c.MountErr
}

// Destroy implements router.Component.
func (c *Component) Destroy() {
	c.mu.Lock()
	c.destroyed++
	c.mu.Unlock()
}

// Mounts returns the strategies Mount was called with.
func (c *Component) Mounts() []router.MountStrategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]router.MountStrategy(nil), c.mounts...)
}

// PreRendered returns the number of PreRenderMount calls.
func (c *Component) PreRendered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preRenders
}

// Destroyed returns the number of Destroy calls.
func (c *Component) Destroyed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Target returns the last mount target.
func (c *Component) Target() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Components is a registry of recording component factories.
type Components struct {
	mu       sync.Mutex
	created  []*Component
	mountErr map[string]error
}

// Factory returns a router.ComponentFactory that creates recording
// components under key.
func (cs *Components) Factory(key string) router.ComponentFactory {
	return func(state *router.RouteState) router.Component {
		cs.mu.Lock()
		defer cs.mu.Unlock()
		c := &Component{Key: key, State: state, MountErr: cs.mountErr[key]}
		cs.created = append(cs.created, c)
		return c
	}
}

// Map returns factories for keys, ready for router.Options.Components.
func (cs *Components) Map(keys ...string) map[string]router.ComponentFactory {
	m := make(map[string]router.ComponentFactory, len(keys))
	for _, k := range keys {
		m[k] = cs.Factory(k)
	}
	return m
}

// FailMount makes components created under key fail to mount.
func (cs *Components) FailMount(key string, err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.mountErr == nil {
		cs.mountErr = make(map[string]error)
	}
	cs.mountErr[key] = err
}

// Created returns every component created so far, oldest first.
func (cs *Components) Created() []*Component {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]*Component(nil), cs.created...)
}

// Last returns the most recently created component, or nil.
func (cs *Components) Last() *Component {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.created) == 0 {
		return nil
	}
	return cs.created[len(cs.created)-1]
}

// Scanner records Scan calls and keeps the last follow func so tests can
// simulate anchor clicks.
type Scanner struct {
	mu     sync.Mutex
	scans  int
	target any
	follow func(href string)
}

// Scan implements router.AnchorScanner.
func (s *Scanner) Scan(target any, follow func(href string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans++
	s.target = target
	s.follow = follow
}

// Scans returns the number of Scan calls.
func (s *Scanner) Scans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans
}

// Click follows href as if an intercepted anchor was clicked. It reports
// false if no scan has happened yet.
func (s *Scanner) Click(href string) bool {
	s.mu.Lock()
	follow := s.follow
	s.mu.Unlock()
	if follow == nil {
		return false
	}
	follow(href)
	return true
}

// Scroller is an in-memory viewport.
type Scroller struct {
	mu   sync.Mutex
	x, y int
}

// ScrollPosition implements router.Scroller.
func (s *Scroller) ScrollPosition() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y
}

// ScrollTo implements router.Scroller.
func (s *Scroller) ScrollTo(x, y int) {
	s.mu.Lock()
	s.x, s.y = x, y
	s.mu.Unlock()
}
