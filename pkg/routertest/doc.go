// Package routertest provides fakes for testing code built on the router:
// an in-memory browser window with real back/forward semantics and
// recording component, anchor scanner and scroller collaborators.
package routertest
