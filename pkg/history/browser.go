package history

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Browser is a history backend over the HTML5 History API.
//
// Entry state stays in process: the window only carries the entry key, so
// any Window (including a remote one) can back it.
type Browser struct {
	w        Window
	basename string

	mu      sync.Mutex
	states  map[string]any
	current string
	prev    string
	closed  bool

	listeners listeners
	remove    func()
}

// NewBrowser creates a browser history over w. It fails with
// ErrUnsupportedMode when w is nil or lacks the History API.
func NewBrowser(w Window, opts ...Option) (*Browser, error) {
	if w == nil || !w.SupportsHistory() {
		return nil, ErrUnsupportedMode
	}
	o := buildOptions(opts)

	b := &Browser{
		w:        w,
		basename: o.basename,
		states:   make(map[string]any),
	}
	b.remove = w.OnPopState(b.onPopState)
	return b, nil
}

// Location returns the current entry, read from the window.
func (b *Browser) Location() Location {
	b.mu.Lock()
	key := b.current
	b.mu.Unlock()
	return b.read(b.w.Href(), key)
}

// Push writes a new entry through pushState.
func (b *Browser) Push(loc Location) error {
	key, href, err := b.prepare(loc)
	if err != nil {
		return err
	}
	if err := b.w.PushState(key, href); err != nil {
		b.rollback(key)
		return err
	}
	return nil
}

// Replace overwrites the current entry through replaceState.
func (b *Browser) Replace(loc Location) error {
	b.mu.Lock()
	replaced := b.current
	b.mu.Unlock()

	key, href, err := b.prepare(loc)
	if err != nil {
		return err
	}
	if err := b.w.ReplaceState(key, href); err != nil {
		b.rollback(key)
		return err
	}

	// The replaced entry is gone from the window, so its state is unreachable.
	b.mu.Lock()
	delete(b.states, replaced)
	b.mu.Unlock()
	return nil
}

// Go moves n entries.
func (b *Browser) Go(n int) {
	if n != 0 {
		b.w.Go(n)
	}
}

// Back is Go(-1).
func (b *Browser) Back() { b.Go(-1) }

// Forward is Go(1).
func (b *Browser) Forward() { b.Go(1) }

// Listen registers fn for popstate-driven changes.
func (b *Browser) Listen(fn Listener) func() {
	return b.listeners.add(fn)
}

// Close unsubscribes from the window.
func (b *Browser) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.remove()
	b.listeners.clear()
	return nil
}

func (b *Browser) prepare(loc Location) (key, href string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return "", "", ErrClosed
	}
	key = uuid.NewString()
	b.states[key] = loc.State
	b.prev, b.current = b.current, key
	loc = normalize(loc)
	loc.Pathname = joinBase(b.basename, loc.Pathname)
	return key, loc.Href(), nil
}

// rollback forgets key after the window refused the write.
func (b *Browser) rollback(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.states, key)
	if b.current == key {
		b.current = b.prev
	}
}

func (b *Browser) onPopState(key, href string) {
	b.mu.Lock()
	b.current = key
	b.mu.Unlock()
	b.listeners.notify(b.read(href, key), Pop)
}

func (b *Browser) read(href, key string) Location {
	loc := ParseHref(href)
	if b.basename != "" {
		switch {
		case loc.Pathname == b.basename:
			loc.Pathname = "/"
		case strings.HasPrefix(loc.Pathname, b.basename+"/"):
			loc.Pathname = loc.Pathname[len(b.basename):]
		}
	}
	if key != "" {
		b.mu.Lock()
		loc.State = b.states[key]
		b.mu.Unlock()
		loc.Key = key
	}
	return loc
}

func joinBase(basename, pathname string) string {
	switch {
	case basename == "":
		return pathname
	case pathname == "/":
		return basename
	default:
		return basename + pathname
	}
}
