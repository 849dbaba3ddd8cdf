package history

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// HashChangeFunc receives the raw URLs of a hashchange event.
type HashChangeFunc func(oldURL, newURL string)

type hashEntry struct {
	key   string
	state any
}

type rawEntry struct {
	id int
	fn HashChangeFunc
}

// Hash is a history backend that keeps the route in the URL fragment
// ("/index.html#/users/7?tab=posts").
//
// The fragment cannot carry state, so the backend remembers the last state
// written for each fragment. Fragments it writes itself are remembered as
// pending so the resulting hashchange is not reported as a Pop.
type Hash struct {
	w Window

	mu      sync.Mutex
	entries map[string]hashEntry
	pending []string
	closed  bool

	listeners listeners
	rawMu     sync.Mutex
	rawNext   int
	raw       []rawEntry
	remove    func()
}

// NewHash creates a hash history over w.
func NewHash(w Window, opts ...Option) (*Hash, error) {
	if w == nil {
		return nil, ErrUnsupportedMode
	}
	h := &Hash{
		w:       w,
		entries: make(map[string]hashEntry),
	}
	h.remove = w.OnHashChange(h.onHashChange)
	return h, nil
}

// Location returns the entry encoded in the current fragment.
func (h *Hash) Location() Location {
	return h.read(fragmentOf(h.w.Href()))
}

// Push assigns a new fragment.
func (h *Hash) Push(loc Location) error {
	frag, undo, err := h.prepare(loc)
	if err != nil || undo == nil {
		return err
	}
	if err := h.w.SetHash(frag); err != nil {
		undo()
		return err
	}
	return nil
}

// Replace swaps the current fragment without adding an entry.
func (h *Hash) Replace(loc Location) error {
	frag, undo, err := h.prepare(loc)
	if err != nil || undo == nil {
		return err
	}
	if err := h.w.ReplaceHash(frag); err != nil {
		undo()
		return err
	}
	return nil
}

// Go moves n entries.
func (h *Hash) Go(n int) {
	if n != 0 {
		h.w.Go(n)
	}
}

// Back is Go(-1).
func (h *Hash) Back() { h.Go(-1) }

// Forward is Go(1).
func (h *Hash) Forward() { h.Go(1) }

// Listen registers fn for externally triggered fragment changes.
func (h *Hash) Listen(fn Listener) func() {
	return h.listeners.add(fn)
}

// OnHashChange registers fn for every hashchange the window reports,
// including ones caused by Push and Replace.
func (h *Hash) OnHashChange(fn HashChangeFunc) func() {
	h.rawMu.Lock()
	id := h.rawNext
	h.rawNext++
	h.raw = append(h.raw, rawEntry{id: id, fn: fn})
	h.rawMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.rawMu.Lock()
			defer h.rawMu.Unlock()
			for i, e := range h.raw {
				if e.id == id {
					h.raw = append(h.raw[:i:i], h.raw[i+1:]...)
					return
				}
			}
		})
	}
}

// Close unsubscribes from the window.
func (h *Hash) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	h.remove()
	h.listeners.clear()
	h.rawMu.Lock()
	h.raw = nil
	h.rawMu.Unlock()
	return nil
}

// prepare records the entry for loc and, when the fragment changes, marks
// it pending. The pending mark must precede the window write since some
// windows dispatch hashchange synchronously. A nil undo means no write is
// needed; otherwise undo reverts both records after a failed write.
func (h *Hash) prepare(loc Location) (frag string, undo func(), err error) {
	loc = normalize(loc)
	frag = loc.Href()
	current := fragmentOf(h.w.Href())

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", nil, ErrClosed
	}
	if frag == current {
		h.entries[frag] = hashEntry{key: uuid.NewString(), state: loc.State}
		return frag, nil, nil
	}

	prev, had := h.entries[frag]
	h.entries[frag] = hashEntry{key: uuid.NewString(), state: loc.State}
	h.pending = append(h.pending, frag)

	return frag, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if had {
			h.entries[frag] = prev
		} else {
			delete(h.entries, frag)
		}
		for i := len(h.pending) - 1; i >= 0; i-- {
			if h.pending[i] == frag {
				h.pending = append(h.pending[:i], h.pending[i+1:]...)
				break
			}
		}
	}, nil
}

func (h *Hash) onHashChange(oldURL, newURL string) {
	h.rawMu.Lock()
	raw := append([]rawEntry(nil), h.raw...)
	h.rawMu.Unlock()
	for _, e := range raw {
		e.fn(oldURL, newURL)
	}

	frag := fragmentOf(newURL)
	if h.consumePending(frag) {
		return
	}
	h.listeners.notify(h.read(frag), Pop)
}

func (h *Hash) consumePending(frag string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, p := range h.pending {
		if p == frag {
			h.pending = append(h.pending[:i], h.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Hash) read(frag string) Location {
	loc := ParseHref(frag)
	h.mu.Lock()
	if e, ok := h.entries[frag]; ok {
		loc.State = e.state
		loc.Key = e.key
	}
	h.mu.Unlock()
	return loc
}

// fragmentOf returns what follows the first "#" of href, defaulting to "/".
func fragmentOf(href string) string {
	_, frag, ok := strings.Cut(href, "#")
	if !ok || frag == "" {
		return "/"
	}
	if !strings.HasPrefix(frag, "/") {
		frag = "/" + frag
	}
	return frag
}
