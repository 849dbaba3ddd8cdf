package routertest

import (
	"strings"
	"sync"
)

// WindowEntry is one session-history entry of a FakeWindow.
type WindowEntry struct {
	Key  string
	Href string
}

// WindowOption configures a FakeWindow.
type WindowOption func(*FakeWindow)

// WithoutHistoryAPI makes the window report no pushState support, like a
// legacy browser.
func WithoutHistoryAPI() WindowOption {
	return func(w *FakeWindow) { w.supportsHistory = false }
}

// FakeWindow simulates a browser window's session history. Events fire
// synchronously on the calling goroutine and never under the window's lock.
type FakeWindow struct {
	supportsHistory bool

	mu      sync.Mutex
	entries []WindowEntry
	index   int
	nextID  int
	pop     map[int]func(key, href string)
	hash    map[int]func(oldURL, newURL string)

	// failNext is returned by the next write and then cleared.
	failNext error
}

// NewWindow returns a window whose only entry is href.
func NewWindow(href string, opts ...WindowOption) *FakeWindow {
	w := &FakeWindow{
		supportsHistory: true,
		entries:         []WindowEntry{{Href: withSlash(href)}},
		pop:             make(map[int]func(string, string)),
		hash:            make(map[int]func(string, string)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SupportsHistory implements history.Window.
func (w *FakeWindow) SupportsHistory() bool { return w.supportsHistory }

// Href implements history.Window.
func (w *FakeWindow) Href() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries[w.index].Href
}

// PushState implements history.Window. It does not fire popstate.
func (w *FakeWindow) PushState(key, href string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.takeFailure(); err != nil {
		return err
	}
	w.push(WindowEntry{Key: key, Href: withSlash(href)})
	return nil
}

// ReplaceState implements history.Window. It does not fire popstate.
func (w *FakeWindow) ReplaceState(key, href string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.takeFailure(); err != nil {
		return err
	}
	w.entries[w.index] = WindowEntry{Key: key, Href: withSlash(href)}
	return nil
}

// Go implements history.Window. Moving fires popstate, and hashchange
// when only the fragment differs between the two entries.
func (w *FakeWindow) Go(n int) {
	w.mu.Lock()
	next := w.index + n
	if n == 0 || next < 0 || next >= len(w.entries) {
		w.mu.Unlock()
		return
	}
	from := w.entries[w.index]
	w.index = next
	to := w.entries[next]
	w.mu.Unlock()

	w.firePop(to)
	if fragment(from.Href) != fragment(to.Href) {
		w.fireHash(from.Href, to.Href)
	}
}

// SetHash implements history.Window: a new entry plus hashchange.
func (w *FakeWindow) SetHash(frag string) error {
	return w.setHash(frag, false)
}

// ReplaceHash implements history.Window: location.replace("#...").
func (w *FakeWindow) ReplaceHash(frag string) error {
	return w.setHash(frag, true)
}

// OnPopState implements history.Window.
func (w *FakeWindow) OnPopState(fn func(key, href string)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.pop[id] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.pop, id)
		w.mu.Unlock()
	}
}

// OnHashChange implements history.Window.
func (w *FakeWindow) OnHashChange(fn func(oldURL, newURL string)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.hash[id] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.hash, id)
		w.mu.Unlock()
	}
}

// VisitHash simulates the user following an in-page "#fragment" link or
// editing the fragment in the address bar: a new entry without state,
// then popstate and hashchange.
func (w *FakeWindow) VisitHash(frag string) {
	w.mu.Lock()
	from := w.entries[w.index]
	to := WindowEntry{Href: base(from.Href) + "#" + frag}
	w.push(to)
	w.mu.Unlock()

	w.firePop(to)
	w.fireHash(from.Href, to.Href)
}

// FailNextWrite makes the next PushState, ReplaceState, SetHash or
// ReplaceHash return err.
func (w *FakeWindow) FailNextWrite(err error) {
	w.mu.Lock()
	w.failNext = err
	w.mu.Unlock()
}

// Entries returns a copy of the session history, oldest first.
func (w *FakeWindow) Entries() []WindowEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]WindowEntry(nil), w.entries...)
}

// Index returns the position of the current entry.
func (w *FakeWindow) Index() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index
}

// Len returns the number of entries.
func (w *FakeWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

func (w *FakeWindow) setHash(frag string, replace bool) error {
	w.mu.Lock()
	if err := w.takeFailure(); err != nil {
		w.mu.Unlock()
		return err
	}
	from := w.entries[w.index]
	to := WindowEntry{Href: base(from.Href) + "#" + strings.TrimPrefix(frag, "#")}
	if replace {
		w.entries[w.index] = to
	} else {
		w.push(to)
	}
	w.mu.Unlock()

	if fragment(from.Href) != fragment(to.Href) {
		w.fireHash(from.Href, to.Href)
	}
	return nil
}

func (w *FakeWindow) push(e WindowEntry) {
	w.entries = append(w.entries[:w.index+1:w.index+1], e)
	w.index++
}

func (w *FakeWindow) takeFailure() error {
	err := w.failNext
	w.failNext = nil
	return err
}

func (w *FakeWindow) firePop(e WindowEntry) {
	w.mu.Lock()
	fns := make([]func(string, string), 0, len(w.pop))
	for _, fn := range w.pop {
		fns = append(fns, fn)
	}
	w.mu.Unlock()
	for _, fn := range fns {
		fn(e.Key, e.Href)
	}
}

func (w *FakeWindow) fireHash(oldURL, newURL string) {
	w.mu.Lock()
	fns := make([]func(string, string), 0, len(w.hash))
	for _, fn := range w.hash {
		fns = append(fns, fn)
	}
	w.mu.Unlock()
	for _, fn := range fns {
		fn(oldURL, newURL)
	}
}

func withSlash(href string) string {
	if !strings.HasPrefix(href, "/") {
		return "/" + href
	}
	return href
}

func base(href string) string {
	b, _, _ := strings.Cut(href, "#")
	return b
}

func fragment(href string) string {
	_, f, _ := strings.Cut(href, "#")
	return f
}
