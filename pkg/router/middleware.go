package router

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/pathway/pkg/history"
)

// Navigation is the record of one navigation attempt, passed through the
// middleware chain.
type Navigation struct {
	// ID is unique per attempt.
	ID uuid.UUID

	// Ctx is the context hooks receive. Middleware may replace it before
	// calling next, for example with one carrying a span.
	Ctx context.Context

	// Request is the request as received.
	Request Request

	// Action is Push or Replace for programmatic navigations and Pop for
	// ones driven by a history change.
	Action history.Action

	// Started is when the attempt began.
	Started time.Time

	// From is the last settled route when the attempt began.
	From *RouteState

	// To is the resolved state; nil until resolution succeeds.
	To *RouteState

	// Outcome is set once the core has run; middleware reads it after
	// calling next.
	Outcome Outcome

	// Err is the error behind a non-settled outcome.
	Err error

	ran bool
}

// Middleware wraps navigation attempts.
type Middleware interface {
	Handle(nav *Navigation, next func() error) error
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(nav *Navigation, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(nav *Navigation, next func() error) error {
	return f(nav, next)
}

// ComposeMiddleware builds a chain from middleware and a final handler.
// Middleware runs first to last, with the handler at the end.
func ComposeMiddleware(nav *Navigation, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(nav, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		return ComposeMiddleware(nav, middleware, next)
	})
}

// Skip bypasses mw when condition holds.
func Skip(condition func(nav *Navigation) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		if condition(nav) {
			return next()
		}
		return mw.Handle(nav, next)
	})
}

// Only runs mw only when condition holds.
func Only(condition func(nav *Navigation) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		if !condition(nav) {
			return next()
		}
		return mw.Handle(nav, next)
	})
}

// IsPop reports whether the navigation was driven by a history change.
func IsPop(nav *Navigation) bool {
	return nav.Action == history.Pop
}
