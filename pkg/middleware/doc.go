// Package middleware provides HTTP middleware for the page server.
//
// This package includes:
//   - OpenTelemetry request tracing
//   - Prometheus request metrics
//   - slog request logging
//
// # OpenTelemetry Middleware
//
// Tracing starts a server span for every request and passes its context
// down the handler chain, so resolver and loader spans become children of
// the request span:
//
//	mux.Use(middleware.Tracing(
//	    middleware.WithTracerName("my-site"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// HTTPMetrics counts requests by route pattern, method and status code:
//   - pageroute_http_requests_total
//   - pageroute_http_request_duration_seconds
//   - pageroute_http_requests_in_flight
//
//	m := middleware.NewHTTPMetrics(middleware.WithRegistry(reg))
//	mux.Use(m.Handler)
//
// Route labels come from the chi route pattern, not the raw path, to keep
// cardinality bounded.
package middleware
