// Package history abstracts session history for the router.
//
// A History wraps exactly one backend:
//   - browser: the HTML5 History API (pushState/replaceState/popstate)
//   - hash: the URL fragment (location.hash/hashchange), for environments
//     without the History API or servers that cannot serve deep links
//   - memory: an in-process entry stack for headless use and tests
//
// Browser and hash backends never touch platform globals. They drive a
// Window, the narrow platform primitive supplied by the host: a wasm
// binding, the WebSocket-backed window in package remote, or a test fake.
//
// Listeners registered with Listen fire only for externally triggered
// changes (the user pressing back/forward, editing the URL, or a call to
// Go/Back/Forward). Push and Replace never notify.
//
//	h := history.NewMemory(history.WithInitialEntries("/"))
//	unlisten := h.Listen(func(loc history.Location, action history.Action) {
//	    fmt.Println(action, loc.Href())
//	})
//	defer unlisten()
//
//	_ = h.Push(history.ParseHref("/users/7"))
//	h.Back() // prints "pop /"
package history
