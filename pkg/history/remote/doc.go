// Package remote implements history.Window over a WebSocket.
//
// The browser runs a thin client that mirrors history calls and reports
// popstate/hashchange events, while the router runs on the server. Frames
// are JSON objects with a "type" field:
//
//	server → client  push, replace, go, hash, replaceHash
//	client → server  hello, popstate, hashchange
//
// The client opens with a hello frame carrying its current origin-relative
// URL and whether pushState is available:
//
//	{"type":"hello","href":"/users/7?tab=posts","history":true}
//
// Inbound events are throttled per connection with a token bucket.
//
//	http.Handle("/_pathway/ws", remote.Handler(remote.Config{}, func(c *remote.Conn) {
//	    r, _ := router.New(router.Options{Window: c, Routes: routes})
//	    go func() { <-c.Done(); r.Close() }()
//	    r.Mount(context.Background(), target)
//	}))
package remote
