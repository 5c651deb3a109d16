// Package router resolves request URLs against an ordered list of page
// patterns.
//
// A Pattern pairs a regular expression with the producers of its page,
// error page and layouts, plus presentational metadata. Patterns are
// compiled once with New; each request then resolves to a transient Route:
//
//	r, err := router.New([]router.Pattern{
//	    {
//	        Re:   `^tasks/(?<id>[0-9]+)$`,
//	        Page: source.Producer(src, "tasks/show.html"),
//	        Meta: router.Meta{Title: "Task"},
//	    },
//	})
//
//	route, err := r.Resolve(ctx, "/tasks/42")
//	// route.Slugs["id"] == "42"
//
// # Matching
//
// The URL path is canonicalized and percent-decoded, then matched with its
// leading slash removed, so expressions are written as "tasks/..." rather
// than "/tasks/...". Patterns are tried in order and the first match wins.
// Anchoring is up to the expression: "^about$" matches only "/about" while
// "about" matches any path containing it.
//
// Named groups become slugs. A pattern may declare slug types ("int",
// "uuid"); a value that fails its type check makes the pattern not match.
//
// # Loading
//
// Resolve never invokes producers. A Route's Page, Error and Layouts are
// Lazy values that start Unloaded; Loader.Load runs the producers and moves
// each one to Loaded or Failed. The pattern's JS data loader runs after
// content loads when the pattern's Side includes the server.
package router
