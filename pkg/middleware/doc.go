// Package middleware provides observability middleware for the router.
//
// This package includes:
//   - OpenTelemetry tracing: one span per navigation
//   - Prometheus metrics: navigation counts, durations and error codes
//
// # OpenTelemetry Middleware
//
// The span covers the whole navigation, hooks and component mounting
// included, and its context is what hooks receive:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("shop"),
//	    middleware.WithNavigationFilter(func(nav *router.Navigation) bool {
//	        return !router.IsPop(nav)
//	    }),
//	))
//
// # Prometheus Metrics
//
//	r.Use(middleware.Prometheus())
//	http.Handle("/metrics", promhttp.Handler())
//
// Route labels use route names, never raw paths, so cardinality is
// bounded by the route table.
package middleware
