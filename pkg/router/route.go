package router

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// Slugs maps named groups of a pattern to the values captured from a URL.
type Slugs map[string]string

// Get returns the value of a slug and whether it was captured.
func (s Slugs) Get(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// Int returns a slug parsed as a base-10 integer.
func (s Slugs) Int(name string) (int64, error) {
	v, ok := s[name]
	if !ok {
		return 0, fmt.Errorf("slug %q not captured", name)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("slug %q: invalid integer: %s", name, v)
	}
	return n, nil
}

// UUID returns a slug parsed as a UUID.
func (s Slugs) UUID(name string) (uuid.UUID, error) {
	v, ok := s[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("slug %q not captured", name)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("slug %q: invalid UUID: %s", name, v)
	}
	return id, nil
}

// Names returns the captured slug names in sorted order.
func (s Slugs) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RouteLayout is the per-route state of one of the pattern's layouts.
type RouteLayout struct {
	Page  *Lazy
	Error *Lazy
}

// Route is a Pattern resolved against a concrete URL. A Route belongs to a
// single request and is discarded once the response is written.
type Route struct {
	// Re is the compiled expression of the owning pattern.
	Re *regexp.Regexp

	// URL is a copy of the URL that was resolved.
	URL *url.URL

	// Path is the canonical, decoded path that was matched.
	Path string

	// Slugs are the values captured by the pattern's named groups.
	Slugs Slugs

	// Pattern is a copy of the pattern this route was created from.
	Pattern *Pattern

	// Index is the position of Pattern in the router's list.
	Index int

	// Side and Options are inherited from the pattern.
	Side    Side
	Options Options

	// Meta is a copy of the pattern's metadata. Data loaders may change it
	// without affecting the pattern.
	Meta

	// Page, Error and Layouts hold the route's content. Error is nil when
	// the pattern has no error producer.
	Page    *Lazy
	Error   *Lazy
	Layouts []RouteLayout

	// Data holds the values returned by the pattern's data loader.
	Data map[string]any

	// ClientData is set when the pattern has a data loader that must run
	// in the browser.
	ClientData bool
}

// Loaded reports whether the page and every layout are Loaded.
func (r *Route) Loaded() bool {
	if r.Page.State() != Loaded {
		return false
	}
	for _, l := range r.Layouts {
		if l.Page.State() != Loaded {
			return false
		}
	}
	return true
}

// newRoute builds an unloaded route for compiled pattern c.
func newRoute(c *compiledPattern, u *url.URL, path string, slugs Slugs) *Route {
	pattern := c.pattern.clone()
	p := &pattern
	route := &Route{
		Re:      c.re,
		URL:     cloneURL(u),
		Path:    path,
		Slugs:   slugs,
		Pattern: p,
		Index:   c.index,
		Side:    p.Side,
		Options: p.options(),
		Meta:    p.Meta.clone(),
		Page:    newLazy(p.Page),
		Error:   newLazy(p.Error),
	}
	if len(p.Layouts) > 0 {
		route.Layouts = make([]RouteLayout, len(p.Layouts))
		for i, l := range p.Layouts {
			route.Layouts[i] = RouteLayout{
				Page:  newLazy(l.Page),
				Error: newLazy(l.Error),
			}
		}
	}
	return route
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
