package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/pageroute/pkg/routepath"
)

const defaultTracerName = "github.com/vango-dev/pageroute/pkg/router"

// Option configures a Router or a Loader.
type Option func(*settings)

type settings struct {
	metrics *Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// WithMetrics records resolutions and loads in m.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for spans. Default: the global
// OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *settings) {
		s.tracer = t
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(defaultTracerName)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// compiledPattern is a pattern together with its compiled expression.
type compiledPattern struct {
	pattern Pattern
	re      *regexp.Regexp
	index   int
}

// Router resolves URLs against a compiled, ordered list of patterns.
// A Router is immutable and safe for concurrent use.
type Router struct {
	patterns []compiledPattern
	settings
}

// New compiles patterns in order. It fails on an empty list, on an
// expression that does not compile, on a pattern without a page producer,
// and on a slug type declared for a group the expression does not have.
func New(patterns []Pattern, opts ...Option) (*Router, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	r := &Router{
		patterns: make([]compiledPattern, len(patterns)),
		settings: newSettings(opts),
	}

	for i, p := range patterns {
		re, err := regexp.Compile(p.Re)
		if err != nil {
			return nil, &PatternCompileError{Index: i, Name: p.Name, Expr: p.Re, Err: err}
		}
		if p.Page == nil {
			return nil, &PatternError{Index: i, Name: p.Name, Reason: "missing page producer"}
		}
		for j, l := range p.Layouts {
			if l.Page == nil {
				return nil, &PatternError{Index: i, Name: p.Name, Reason: fmt.Sprintf("layout %d: missing page producer", j)}
			}
		}
		for name := range p.Slugs {
			if re.SubexpIndex(name) < 0 {
				return nil, &PatternError{Index: i, Name: p.Name, Reason: fmt.Sprintf("slug %q is not a named group", name)}
			}
		}

		r.patterns[i] = compiledPattern{pattern: p.clone(), re: re, index: i}
	}

	return r, nil
}

// Len returns the number of patterns.
func (r *Router) Len() int {
	return len(r.patterns)
}

// Patterns returns a deep copy of the compiled pattern list.
func (r *Router) Patterns() []Pattern {
	out := make([]Pattern, len(r.patterns))
	for i := range r.patterns {
		out[i] = r.patterns[i].pattern.clone()
	}
	return out
}

// Resolve parses rawURL and resolves it. See ResolveURL.
func (r *Router) Resolve(ctx context.Context, rawURL string) (*Route, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		r.metrics.observeResolve("invalid", time.Now())
		return nil, &PathError{URL: rawURL, Err: err}
	}
	return r.ResolveURL(ctx, u)
}

// ResolveURL finds the first pattern matching u's path and returns an
// unloaded Route for it. It returns a *NoMatchError when nothing matches
// and a *PathError when the path cannot be canonicalized.
func (r *Router) ResolveURL(ctx context.Context, u *url.URL) (*Route, error) {
	start := time.Now()
	if u == nil {
		r.metrics.observeResolve("invalid", start)
		return nil, &PathError{Err: errNilURL}
	}

	_, span := r.tracer.Start(ctx, "router.Resolve", trace.WithAttributes(
		attribute.String("url.path", u.Path),
	))
	defer span.End()

	canonical, err := routepath.Canonicalize(u.EscapedPath())
	if err != nil {
		r.metrics.observeResolve("invalid", start)
		span.SetStatus(codes.Error, err.Error())
		return nil, &PathError{URL: u.String(), Err: err}
	}
	path, err := routepath.Decode(canonical.Path)
	if err != nil {
		r.metrics.observeResolve("invalid", start)
		span.SetStatus(codes.Error, err.Error())
		return nil, &PathError{URL: u.String(), Err: err}
	}

	route := r.match(u, path)
	if route == nil {
		r.metrics.observeResolve("miss", start)
		span.SetAttributes(attribute.Bool("route.matched", false))
		r.logger.Debug("no pattern matches", "path", path)
		return nil, &NoMatchError{URL: u.String(), Path: path}
	}

	r.metrics.observeResolve("match", start)
	span.SetAttributes(
		attribute.Bool("route.matched", true),
		attribute.Int("route.index", route.Index),
		attribute.String("route.pattern", route.Pattern.Re),
		attribute.String("route.name", route.Name),
	)
	return route, nil
}

// match tries each pattern against the decoded path.
func (r *Router) match(u *url.URL, path string) *Route {
	subject := routepath.Relative(path)

	for i := range r.patterns {
		c := &r.patterns[i]
		loc := c.re.FindStringSubmatchIndex(subject)
		if loc == nil {
			continue
		}
		slugs, ok := c.slugs(subject, loc)
		if !ok {
			continue
		}
		return newRoute(c, u, path, slugs)
	}
	return nil
}

// slugs extracts the participating named groups and validates typed ones.
func (c *compiledPattern) slugs(subject string, loc []int) (Slugs, bool) {
	slugs := Slugs{}
	for i, name := range c.re.SubexpNames() {
		if name == "" || loc[2*i] < 0 {
			continue
		}
		value := subject[loc[2*i]:loc[2*i+1]]
		if typ, ok := c.pattern.Slugs[name]; ok {
			if err := typ.validate(value); err != nil {
				return nil, false
			}
		}
		slugs[name] = value
	}
	return slugs, true
}
