package history

// Window is the platform primitive behind the browser and hash backends.
// Implementations adapt a real browser window (wasm), a remote one (package
// remote), or a test fake. Hrefs are origin-relative: path?query#fragment.
type Window interface {
	// SupportsHistory reports whether pushState/replaceState are available.
	SupportsHistory() bool

	// Href returns the current origin-relative URL.
	Href() string

	// PushState adds an entry carrying key (history.pushState).
	PushState(key, href string) error

	// ReplaceState overwrites the current entry (history.replaceState).
	ReplaceState(key, href string) error

	// Go moves n entries (history.go). The platform reports the result
	// through OnPopState and, if the fragment changed, OnHashChange.
	Go(n int)

	// SetHash assigns location.hash, adding an entry.
	SetHash(fragment string) error

	// ReplaceHash replaces the current entry with a new fragment.
	ReplaceHash(fragment string) error

	// OnPopState subscribes to popstate; key is the state recorded by
	// PushState/ReplaceState ("" if none).
	OnPopState(fn func(key, href string)) (remove func())

	// OnHashChange subscribes to hashchange with the full old and new URLs.
	OnHashChange(fn func(oldURL, newURL string)) (remove func())
}
