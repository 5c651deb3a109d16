package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Content is a loaded renderable artifact: a page, layout or error template.
type Content struct {
	// Key identifies where the content came from (e.g., "tasks/show.html").
	Key string

	// Body is the raw template body.
	Body []byte
}

// Producer loads content on demand. It is invoked by the Loader, never
// during matching.
type Producer func(ctx context.Context) (*Content, error)

// DataLoader is page-level logic run after a route's content loads.
// The returned values are stored in Route.Data.
type DataLoader func(ctx context.Context, r *Route) (map[string]any, error)

// Side declares where a pattern's page logic runs.
type Side uint8

const (
	// SideUniversal runs page logic on the server and the client.
	SideUniversal Side = iota
	// SideServer runs page logic on the server only.
	SideServer
	// SideClient runs page logic in the browser only.
	SideClient
)

// String returns the lower-case name of the side.
func (s Side) String() string {
	switch s {
	case SideUniversal:
		return "universal"
	case SideServer:
		return "server"
	case SideClient:
		return "client"
	default:
		return "Side(" + strconv.Itoa(int(s)) + ")"
	}
}

// RunsOnServer reports whether page logic for this side executes on the
// server.
func (s Side) RunsOnServer() bool {
	return s == SideUniversal || s == SideServer
}

// ParseSide parses a side name. "front" is accepted as an alias of "client"
// and the empty string yields SideUniversal.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "universal":
		return SideUniversal, nil
	case "server":
		return SideServer, nil
	case "client", "front":
		return SideClient, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

// TrailingSlash controls how the server treats a trailing "/" on a request
// path. Matching always sees the path without it.
type TrailingSlash uint8

const (
	// TrailingSlashNever redirects "/tasks/" to "/tasks".
	TrailingSlashNever TrailingSlash = iota
	// TrailingSlashAlways redirects "/tasks" to "/tasks/".
	TrailingSlashAlways
	// TrailingSlashIgnore serves both forms.
	TrailingSlashIgnore
)

// String returns the lower-case name of the policy.
func (t TrailingSlash) String() string {
	switch t {
	case TrailingSlashNever:
		return "never"
	case TrailingSlashAlways:
		return "always"
	case TrailingSlashIgnore:
		return "ignore"
	default:
		return "TrailingSlash(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseTrailingSlash parses a trailing-slash policy name.
func ParseTrailingSlash(s string) (TrailingSlash, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "never":
		return TrailingSlashNever, nil
	case "always":
		return TrailingSlashAlways, nil
	case "ignore":
		return TrailingSlashIgnore, nil
	default:
		return 0, fmt.Errorf("unknown trailing slash policy %q", s)
	}
}

// Options are the rendering options recognized for a pattern.
type Options struct {
	// SSR renders page content on the server. When false the server emits
	// only the document shell and the client renders the page.
	SSR bool

	// CSR enables client-side hydration of the rendered page.
	CSR bool

	// Prerender marks the route as eligible for build-time rendering.
	Prerender bool

	// TrailingSlash is the redirect policy for a trailing "/".
	TrailingSlash TrailingSlash
}

// DefaultOptions returns the options used when a pattern sets none:
// server and client rendering on, prerendering off.
func DefaultOptions() Options {
	return Options{SSR: true, CSR: true}
}

// Meta holds the presentational fields shared by patterns and routes.
type Meta struct {
	// Layout names the base layout template (e.g., "base.html").
	Layout string

	// Wrapper is applied as the class of the page's <main> element.
	Wrapper string

	// Title is used for <title>.
	Title string

	// H1 is used for the page heading.
	H1 string

	// Name identifies the route.
	Name string

	// Extras are free strings made available to layouts.
	Extras []string
}

func (m Meta) clone() Meta {
	if m.Extras != nil {
		m.Extras = append([]string(nil), m.Extras...)
	}
	return m
}

// Layout is a template wrapped around a page.
type Layout struct {
	// Page produces the layout's content. Required.
	Page Producer

	// Error optionally produces the layout's error content.
	Error Producer
}

// SlugType constrains the value a named group may capture.
type SlugType string

const (
	SlugString SlugType = "string"
	SlugInt    SlugType = "int"
	SlugUUID   SlugType = "uuid"
)

// ParseSlugType parses a slug type name. The empty string yields SlugString.
func ParseSlugType(s string) (SlugType, error) {
	switch SlugType(strings.ToLower(strings.TrimSpace(s))) {
	case "", SlugString:
		return SlugString, nil
	case SlugInt:
		return SlugInt, nil
	case SlugUUID:
		return SlugUUID, nil
	default:
		return "", fmt.Errorf("unknown slug type %q", s)
	}
}

// validate reports whether value satisfies the type.
func (t SlugType) validate(value string) error {
	switch t {
	case SlugInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
	case SlugUUID:
		if _, err := uuid.Parse(value); err != nil {
			return fmt.Errorf("invalid UUID: %s", value)
		}
	}
	return nil
}

// Pattern is a static route template. Patterns are defined at configuration
// time and must not be modified after they are passed to New.
type Pattern struct {
	// Re is the regular expression matched against the request path without
	// its leading slash. Named groups ((?<id>...) or (?P<id>...)) become
	// slugs.
	Re string

	// Side declares where the page logic runs.
	Side Side

	// Options are the rendering options. Nil means DefaultOptions.
	Options *Options

	Meta

	// Page produces the page content. Required.
	Page Producer

	// Error optionally produces the error page content.
	Error Producer

	// Layouts wrap the page, outermost first.
	Layouts []Layout

	// JS is the optional page data loader.
	JS DataLoader

	// Slugs optionally constrains named groups by type.
	Slugs map[string]SlugType
}

// clone returns a copy of p that shares no maps, slices or pointers with it.
// Producers are shared.
func (p Pattern) clone() Pattern {
	p.Meta = p.Meta.clone()
	if p.Layouts != nil {
		p.Layouts = append([]Layout(nil), p.Layouts...)
	}
	if p.Options != nil {
		o := *p.Options
		p.Options = &o
	}
	if p.Slugs != nil {
		slugs := make(map[string]SlugType, len(p.Slugs))
		for k, v := range p.Slugs {
			slugs[k] = v
		}
		p.Slugs = slugs
	}
	return p
}

// options returns the effective options of the pattern.
func (p *Pattern) options() Options {
	if p.Options == nil {
		return DefaultOptions()
	}
	return *p.Options
}
