package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/pathway/internal/errors"
	"github.com/vango-dev/pathway/pkg/router"
)

const defaultTracerName = "pathway"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "pathway").
	TracerName string

	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider

	// IncludeParams adds route parameters as span attributes.
	// May contain sensitive information - disabled by default.
	IncludeParams bool

	// Filter determines which navigations to trace.
	// If nil, all navigations are traced.
	Filter func(nav *router.Navigation) bool

	// AttributeExtractor adds custom attributes once the navigation ends.
	AttributeExtractor func(nav *router.Navigation) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeParams enables route parameters as span attributes.
func WithIncludeParams(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeParams = include
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(nav *router.Navigation) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(nav *router.Navigation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every navigation.
//
// The span starts before resolution and ends after the route settles, so
// it covers hooks and component mounting. Hooks receive the span's context
// through their ctx argument. Navigations that do not settle are marked as
// errors with the router's error code.
//
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("shop")))
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(nav *router.Navigation, next func() error) error {
		if config.Filter != nil && !config.Filter(nav) {
			return next()
		}

		parent := nav.Ctx
		if parent == nil {
			parent = context.Background()
		}
		ctx, span := tracer.Start(parent, spanName(nav),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.String("pathway.navigation_id", nav.ID.String()),
				attribute.String("pathway.action", nav.Action.String()),
				attribute.String("pathway.request.path", nav.Request.Path),
				attribute.String("pathway.request.name", nav.Request.Name),
			),
		)
		defer span.End()
		nav.Ctx = ctx

		err := next()

		attrs := []attribute.KeyValue{
			attribute.String("pathway.outcome", nav.Outcome.String()),
		}
		if nav.To != nil {
			attrs = append(attrs,
				attribute.String("pathway.route", nav.To.Name),
				attribute.String("pathway.path", nav.To.Path),
			)
			if config.IncludeParams {
				for k, v := range nav.To.Params {
					attrs = append(attrs, attribute.String("pathway.param."+k, v))
				}
			}
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(nav)...)
		}
		span.SetAttributes(attrs...)

		failure := err
		if failure == nil {
			failure = nav.Err
		}
		if code := errors.CodeOf(failure); code != "" {
			span.SetAttributes(attribute.String("pathway.error_code", code))
		}

		switch {
		case failure != nil:
			span.RecordError(failure)
			span.SetStatus(codes.Error, failure.Error())
		case !nav.Outcome.OK():
			span.SetStatus(codes.Error, nav.Outcome.String())
		default:
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}

func spanName(nav *router.Navigation) string {
	if nav.Request.Name != "" {
		return "navigate " + nav.Request.Name
	}
	if nav.Request.Path == "" {
		return "navigate /"
	}
	return "navigate " + nav.Request.Path
}

// SpanFromNavigation returns the navigation's span, or a no-op span.
func SpanFromNavigation(nav *router.Navigation) trace.Span {
	if nav.Ctx == nil {
		return trace.SpanFromContext(context.Background())
	}
	return trace.SpanFromContext(nav.Ctx)
}
