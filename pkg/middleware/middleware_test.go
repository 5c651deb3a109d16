package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingProvider records the name and start attributes of each span.
type recordingProvider struct {
	noop.TracerProvider
	mu    sync.Mutex
	spans []recordedSpan
}

type recordedSpan struct {
	name  string
	kind  trace.SpanKind
	attrs []attribute.KeyValue
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{provider: p}
}

type recordingTracer struct {
	noop.Tracer
	provider *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	t.provider.mu.Lock()
	t.provider.spans = append(t.provider.spans, recordedSpan{name: name, kind: cfg.SpanKind(), attrs: cfg.Attributes()})
	t.provider.mu.Unlock()
	return t.Tracer.Start(ctx, name, opts...)
}

func newMux(mw ...func(http.Handler) http.Handler) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(mw...)
	mux.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "fail", http.StatusInternalServerError)
	})
	mux.Get("/pages/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(WithRegistry(reg), WithNamespace("test"))
	mux := newMux(m.Handler)

	serve(mux, "/ok")
	serve(mux, "/ok")
	serve(mux, "/fail")
	serve(mux, "/pages/a")
	serve(mux, "/pages/b")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/ok", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/fail", "GET", "500")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/pages/*", "GET", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))

	count, err := testutil.GatherAndCount(reg, "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestHTTPMetricsDefaults(t *testing.T) {
	config := defaultMetricsConfig()
	assert.Equal(t, "pageroute", config.Namespace)
	assert.Equal(t, "http", config.Subsystem)
	assert.Equal(t, prometheus.DefBuckets, config.Buckets)

	WithSubsystem("web")(&config)
	WithConstLabels(prometheus.Labels{"site": "a"})(&config)
	WithBuckets([]float64{1})(&config)
	assert.Equal(t, "web", config.Subsystem)
	assert.Equal(t, "a", config.ConstLabels["site"])
	assert.Equal(t, []float64{1}, config.Buckets)
}

func TestRoutePatternOutsideChi(t *testing.T) {
	assert.Equal(t, "unmatched", routePattern(httptest.NewRequest(http.MethodGet, "/x", nil)))
}

func TestTracing(t *testing.T) {
	provider := &recordingProvider{}
	var inner trace.Span

	mux := chi.NewRouter()
	mux.Use(Tracing(
		WithTracerProvider(provider),
		WithAttributeExtractor(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	mux.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		inner = trace.SpanFromContext(r.Context())
	})

	serve(mux, "/ok?x=1")

	require.Len(t, provider.spans, 1)
	span := provider.spans[0]
	assert.Equal(t, "HTTP GET", span.name)
	assert.Equal(t, trace.SpanKindServer, span.kind)
	assert.Contains(t, span.attrs, attribute.String("http.method", "GET"))
	assert.Contains(t, span.attrs, attribute.String("http.target", "/ok?x=1"))
	assert.Contains(t, span.attrs, attribute.String("test.attr", "ok"))
	assert.NotNil(t, inner)
}

func TestTracingFilter(t *testing.T) {
	provider := &recordingProvider{}
	mux := newMux(Tracing(
		WithTracerProvider(provider),
		WithTracerName("filtered"),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/ok" }),
	))

	serve(mux, "/ok")
	assert.Empty(t, provider.spans)

	serve(mux, "/fail")
	assert.Len(t, provider.spans, 1)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	mux := newMux(Logger(logger))

	serve(mux, "/fail")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/fail", entry["path"])
	assert.Equal(t, float64(500), entry["status"])
}
