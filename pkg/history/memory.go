package history

import (
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process history backend. It has no platform dependency
// and is the backend used for headless routers and tests.
type Memory struct {
	mu      sync.Mutex
	entries []Location
	index   int
	closed  bool

	listeners listeners
}

// NewMemory creates a memory history. Without WithInitialEntries it starts
// with a single "/" entry.
func NewMemory(opts ...Option) *Memory {
	o := buildOptions(opts)

	m := &Memory{}
	for _, href := range o.initial {
		loc := ParseHref(href)
		loc.Key = uuid.NewString()
		m.entries = append(m.entries, loc)
	}
	if len(m.entries) == 0 {
		m.entries = []Location{{Pathname: "/", Key: uuid.NewString()}}
	}
	m.index = len(m.entries) - 1
	return m
}

// Location returns the current entry.
func (m *Memory) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Push adds an entry after the current one, discarding forward entries.
func (m *Memory) Push(loc Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	loc = normalize(loc)
	loc.Key = uuid.NewString()
	m.entries = append(m.entries[:m.index+1], loc)
	m.index++
	return nil
}

// Replace overwrites the current entry.
func (m *Memory) Replace(loc Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	loc = normalize(loc)
	loc.Key = uuid.NewString()
	m.entries[m.index] = loc
	return nil
}

// Go moves n entries, clamped to the available range, and notifies
// listeners with Pop when the index changed.
func (m *Memory) Go(n int) {
	m.mu.Lock()
	if m.closed || n == 0 {
		m.mu.Unlock()
		return
	}
	next := m.index + n
	if next < 0 {
		next = 0
	}
	if next > len(m.entries)-1 {
		next = len(m.entries) - 1
	}
	if next == m.index {
		m.mu.Unlock()
		return
	}
	m.index = next
	loc := m.entries[next]
	m.mu.Unlock()

	m.listeners.notify(loc, Pop)
}

// Back is Go(-1).
func (m *Memory) Back() { m.Go(-1) }

// Forward is Go(1).
func (m *Memory) Forward() { m.Go(1) }

// Listen registers fn for Pop notifications.
func (m *Memory) Listen(fn Listener) func() {
	return m.listeners.add(fn)
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Index returns the position of the current entry.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Entries returns a copy of all entries, oldest first.
func (m *Memory) Entries() []Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Location(nil), m.entries...)
}

// Close detaches all listeners. Further writes fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.listeners.clear()
	return nil
}

func normalize(loc Location) Location {
	if loc.Pathname == "" || loc.Pathname[0] != '/' {
		loc.Pathname = "/" + loc.Pathname
	}
	return loc
}
