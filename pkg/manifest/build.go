package manifest

import (
	"fmt"
	"sort"

	"github.com/vango-dev/pageroute/pkg/router"
	"github.com/vango-dev/pageroute/pkg/source"
)

// Loaders maps "js" names used in manifests to data loaders.
type Loaders map[string]router.DataLoader

// Names returns the registered names in sorted order.
func (l Loaders) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EntryError reports an unusable manifest entry.
type EntryError struct {
	Index int
	Name  string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("manifest: entry %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("manifest: entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Build converts manifest entries into patterns whose producers read from
// src. Expressions are not compiled here; router.New does that.
func Build(m *Manifest, src source.Source, loaders Loaders) ([]router.Pattern, error) {
	patterns := make([]router.Pattern, 0, len(m.Patterns))

	for i, e := range m.Patterns {
		p, err := buildEntry(e, src, loaders)
		if err != nil {
			return nil, &EntryError{Index: i, Name: e.Name, Err: err}
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func buildEntry(e Entry, src source.Source, loaders Loaders) (router.Pattern, error) {
	if e.Re == "" {
		return router.Pattern{}, fmt.Errorf("missing re")
	}
	if e.Page == "" {
		return router.Pattern{}, fmt.Errorf("missing page")
	}

	side, err := router.ParseSide(e.Side)
	if err != nil {
		return router.Pattern{}, err
	}

	p := router.Pattern{
		Re:   e.Re,
		Side: side,
		Meta: router.Meta{
			Layout:  e.Layout,
			Wrapper: e.Wrapper,
			Title:   e.Title,
			H1:      e.H1,
			Name:    e.Name,
			Extras:  e.Extras,
		},
		Page: source.Producer(src, e.Page),
	}

	if e.Options != nil {
		opts, err := buildOptions(e.Options)
		if err != nil {
			return router.Pattern{}, err
		}
		p.Options = &opts
	}
	if e.Error != "" {
		p.Error = source.Producer(src, e.Error)
	}
	for j, l := range e.Layouts {
		if l.Page == "" {
			return router.Pattern{}, fmt.Errorf("layout %d: missing page", j)
		}
		layout := router.Layout{Page: source.Producer(src, l.Page)}
		if l.Error != "" {
			layout.Error = source.Producer(src, l.Error)
		}
		p.Layouts = append(p.Layouts, layout)
	}
	if e.JS != "" {
		js, ok := loaders[e.JS]
		if !ok {
			return router.Pattern{}, fmt.Errorf("unknown js loader %q", e.JS)
		}
		p.JS = js
	}
	if len(e.Slugs) > 0 {
		p.Slugs = make(map[string]router.SlugType, len(e.Slugs))
		for name, typ := range e.Slugs {
			t, err := router.ParseSlugType(typ)
			if err != nil {
				return router.Pattern{}, fmt.Errorf("slug %q: %w", name, err)
			}
			p.Slugs[name] = t
		}
	}
	return p, nil
}

func buildOptions(o *EntryOptions) (router.Options, error) {
	opts := router.DefaultOptions()
	if o.SSR != nil {
		opts.SSR = *o.SSR
	}
	if o.CSR != nil {
		opts.CSR = *o.CSR
	}
	opts.Prerender = o.Prerender

	ts, err := router.ParseTrailingSlash(o.TrailingSlash)
	if err != nil {
		return router.Options{}, err
	}
	opts.TrailingSlash = ts
	return opts, nil
}
