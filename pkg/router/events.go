package router

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/pathway/pkg/history"
)

// EventType identifies a notification channel.
type EventType int

const (
	// EventRouteChanged fires when a navigation settles.
	EventRouteChanged EventType = iota

	// EventBeforeEach fires just before the before hook runs.
	EventBeforeEach

	// EventAfterEach fires just before the after hook runs.
	EventAfterEach
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventRouteChanged:
		return "routeChanged"
	case EventBeforeEach:
		return "beforeEach"
	case EventAfterEach:
		return "afterEach"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers.
type Event struct {
	Type EventType

	// NavigationID identifies the navigation attempt.
	NavigationID uuid.UUID

	// From is the last settled route, nil before the first.
	From *RouteState

	// To is the route being navigated to.
	To *RouteState

	// Action is Push, Replace, or Pop for history-driven navigations.
	Action history.Action
}

type subscriber struct {
	id int
	fn func(Event)
}

// subscribers is a per-type registry. publish runs on a snapshot with no
// lock held, so subscribers may navigate or unsubscribe.
type subscribers struct {
	mu     sync.Mutex
	next   int
	byType map[EventType][]subscriber
}

func (s *subscribers) add(t EventType, fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byType == nil {
		s.byType = make(map[EventType][]subscriber)
	}
	id := s.next
	s.next++
	s.byType[t] = append(s.byType[t], subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			subs := s.byType[t]
			for i, sub := range subs {
				if sub.id == id {
					s.byType[t] = append(subs[:i:i], subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *subscribers) publish(e Event) {
	s.mu.Lock()
	subs := append([]subscriber(nil), s.byType[e.Type]...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(e)
	}
}

func (s *subscribers) clear() {
	s.mu.Lock()
	s.byType = nil
	s.mu.Unlock()
}
