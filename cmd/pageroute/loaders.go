package main

import (
	"context"

	"github.com/vango-dev/pageroute/pkg/manifest"
	"github.com/vango-dev/pageroute/pkg/router"
)

// builtinLoaders are the data loaders a manifest can name with "js".
//
//	slugs: the route's slugs
//	query: the URL query, first value per key
func builtinLoaders() manifest.Loaders {
	return manifest.Loaders{
		"slugs": slugsLoader,
		"query": queryLoader,
	}
}

func slugsLoader(_ context.Context, r *router.Route) (map[string]any, error) {
	data := make(map[string]any, len(r.Slugs))
	for name, value := range r.Slugs {
		data[name] = value
	}
	return data, nil
}

func queryLoader(_ context.Context, r *router.Route) (map[string]any, error) {
	data := map[string]any{}
	if r.URL == nil {
		return data, nil
	}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}
	return data, nil
}
