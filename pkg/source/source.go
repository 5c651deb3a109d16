// Package source provides the content backends behind page, layout and
// error producers.
//
// A Source maps keys such as "tasks/show.html" to content. Producer binds a
// key to a router.Producer so the content is fetched only when a route is
// loaded:
//
//	src := source.NewDir("templates")
//	page := source.Producer(src, "tasks/show.html")
//
// Sources can be layered: NewCached wraps any Source with a Cache
// (NewMemoryCache or NewRedisCache).
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/vango-dev/pageroute/pkg/router"
)

// ErrNotFound is returned when a key does not exist in a source.
var ErrNotFound = errors.New("source: not found")

// Source opens content by key.
type Source interface {
	Open(ctx context.Context, key string) (*router.Content, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context, key string) (*router.Content, error)

// Open implements Source.
func (f Func) Open(ctx context.Context, key string) (*router.Content, error) {
	return f(ctx, key)
}

// Producer returns a producer that opens key from src.
func Producer(src Source, key string) router.Producer {
	return func(ctx context.Context) (*router.Content, error) {
		c, err := src.Open(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", key, err)
		}
		return c, nil
	}
}
