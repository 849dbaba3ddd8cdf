package history

import "sync"

type listenerEntry struct {
	id int
	fn Listener
}

// listeners is a registry of Listener funcs safe for concurrent use.
// Notification runs on a snapshot so listeners may unlisten or navigate.
type listeners struct {
	mu      sync.Mutex
	next    int
	entries []listenerEntry
}

func (l *listeners) add(fn Listener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.next
	l.next++
	l.entries = append(l.entries, listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *listeners) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listeners) notify(loc Location, action Action) {
	l.mu.Lock()
	snapshot := make([]Listener, len(l.entries))
	for i, e := range l.entries {
		snapshot[i] = e.fn
	}
	l.mu.Unlock()

	for _, fn := range snapshot {
		fn(loc, action)
	}
}

func (l *listeners) clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
