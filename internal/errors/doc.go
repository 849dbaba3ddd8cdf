// Package errors provides coded, structured errors for pathway.
//
// Every failure the router reports has a short code that maps to a message,
// a longer explanation and a documentation link:
//   - routing (R0xx): unknown route name or path, missing handler
//   - hook (K0xx): a before/after hook declined to proceed
//   - history (H0xx): unsupported history mode, history write failures
//   - config (C1xx): configuration file errors
//   - cli (X1xx): command line usage errors
//
// Errors wrap an underlying sentinel so callers can still use errors.Is:
//
//	err := errors.New("R001").
//	    WithDetail(`no route named "user"`).
//	    Wrap(router.ErrRouteNotFound)
//
//	fmt.Println(err.Format())
//	// ERROR R001: Route not found
//	//
//	//   no route named "user"
//	//
//	//   Learn more: https://pathway.vango.dev/errors/R001
package errors
