package router

import (
	"context"
	"errors"

	perrors "github.com/vango-dev/pathway/internal/errors"
)

// Sentinel errors. Errors produced by the router wrap one of these and can
// be tested with errors.Is.
var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrMissingHandler = errors.New("route has no handler")
	ErrHookRejected   = errors.New("navigation rejected by hook")
	ErrSuperseded     = errors.New("navigation superseded")
	ErrUnavailable    = errors.New("router not functional")
	ErrDuplicateRoute = errors.New("duplicate route name")
	ErrInvalidRoute   = errors.New("invalid route")
	ErrMountFailed    = errors.New("component mount failed")
	ErrHistoryWrite   = errors.New("history write failed")
)

// coded wraps sentinel in the registered error for code.
func coded(code string, sentinel error, format string, args ...any) error {
	return perrors.New(code).WithDetailf(format, args...).Wrap(sentinel)
}

// Outcome is how a navigation attempt ended.
type Outcome int

const (
	// OutcomeSettled: the navigation committed and all hooks proceeded.
	OutcomeSettled Outcome = iota

	// OutcomeNoOp: the resolved route equals the current one.
	OutcomeNoOp

	// OutcomeNotFound: no route by that name or path.
	OutcomeNotFound

	// OutcomeMissingHandler: the route cannot be dispatched.
	OutcomeMissingHandler

	// OutcomeCancelled: a hook, middleware or the caller's context stopped
	// the navigation. After an after-hook cancel the history entry stays.
	OutcomeCancelled

	// OutcomeSuperseded: a newer navigation took over.
	OutcomeSuperseded

	// OutcomeUnavailable: the router has no history adapter.
	OutcomeUnavailable

	// OutcomeFailed: history or component mounting failed.
	OutcomeFailed
)

var outcomeNames = [...]string{
	OutcomeSettled:        "settled",
	OutcomeNoOp:           "noop",
	OutcomeNotFound:       "not_found",
	OutcomeMissingHandler: "missing_handler",
	OutcomeCancelled:      "cancelled",
	OutcomeSuperseded:     "superseded",
	OutcomeUnavailable:    "unavailable",
	OutcomeFailed:         "failed",
}

// String returns a snake_case name, suitable as a metric label.
func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// OK reports whether the router is on the requested route afterwards.
func (o Outcome) OK() bool {
	return o == OutcomeSettled || o == OutcomeNoOp
}

// OutcomeOf classifies err. A nil error is OutcomeSettled.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSettled
	case errors.Is(err, ErrRouteNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrMissingHandler):
		return OutcomeMissingHandler
	case errors.Is(err, ErrSuperseded):
		return OutcomeSuperseded
	case errors.Is(err, ErrHookRejected),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	case errors.Is(err, ErrUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeFailed
	}
}
