// Package router is the navigation core of a client-side single-page
// application.
//
// The router provides:
//   - Route patterns with named, typed and catch-all parameters
//   - A route table matched in registration order (first match wins)
//   - Resolution of requests by path or by route name
//   - Push/replace/pop over a browser, hash or in-memory history
//   - Before/after hooks that can cancel a navigation
//   - Event subscriptions and navigation middleware
//
// # Routes
//
// A route pairs a pattern with a handler. The handler is a callback, a
// component key, or both:
//
//	routes := []router.Route{
//	    {Name: "home", Path: "/", Handler: router.MountComponent("home")},
//	    {Name: "user", Path: "/users/:id:int", Handler: router.Both(loadUser, "user")},
//	    {Name: "docs", Path: "/docs/*page", Handler: router.HandleFunc(showDocs)},
//	}
//
// # Navigation
//
// Navigate resolves a request, runs the before hook, writes history,
// mounts the component, runs the after hook and then settles: the callback
// runs, anchors are rescanned and EventRouteChanged is published.
//
//	r, err := router.New(router.Options{
//	    Routes:     routes,
//	    Components: map[string]router.ComponentFactory{"home": newHome, "user": newUser},
//	    Mode:       history.ModeMemory,
//	})
//	r.Mount(ctx, root)
//	r.Navigate(ctx, router.Named("user", map[string]string{"id": "7"}))
//	r.Navigate(ctx, router.To("/docs/intro?v=2#install"))
//	r.Replace(ctx, router.To("/"))
//	r.Back()
//
// A navigation that resolves to the current route (same name and params)
// is a no-op: no hook fires and history is untouched.
//
// Navigate never returns an error. The Outcome says what happened and the
// failure is logged:
//
//	if out := r.Navigate(ctx, router.To("/nowhere")); out == router.OutcomeNotFound {
//	    ...
//	}
//
// # Hooks
//
// BeforeEach and AfterEach replace the hook slots. A hook returning false
// cancels the navigation. A before-hook cancel leaves everything as it
// was. An after-hook cancel happens after the history entry was written
// and does not remove it.
//
//	r.BeforeEach(func(ctx context.Context, from, to *router.RouteState) bool {
//	    router.DefaultBeforeEach(ctx, from, to)
//	    return confirm(ctx, "Leave this page?")
//	})
//
// Hooks may block. Overlapping navigations are governed by
// Options.Concurrency.
//
// # History pops
//
// When the user moves through history the router re-navigates to the path,
// query and hash recorded with the entry, as a silent replace.
package router
