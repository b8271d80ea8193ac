package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Trace starts a server span per request, continuing any trace the client sent.
// The span is named after the chi route once routing has happened, so
// /carts/{cartID}/checkout groups every cart's checkouts together.
func Trace(tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipTracingPaths(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := routePattern(r.WithContext(ctx))
			span.SetName(r.Method + " " + route)
			span.SetAttributes(
				semconv.HTTPRoute(route),
				semconv.HTTPResponseStatusCode(ww.Status()),
			)
			if ww.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(ww.Status()))
			}
		})
	}
}

// routePattern is only complete after the router ran.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "<unknown>"
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return "<unknown>"
}

var skipPaths = map[string]struct{}{
	"/metrics":           {},
	"/healthz":           {},
	"/docs":              {},
	"/docs/openapi.yml":  {},
	"/docs/openapi.json": {},
}

func skipTracingPaths(r *http.Request) bool {
	_, ok := skipPaths[r.URL.Path]
	return ok
}
