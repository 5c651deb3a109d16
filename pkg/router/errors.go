package router

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	// ErrNoPatterns is returned by New for an empty pattern list.
	ErrNoPatterns = errors.New("router: no patterns")

	// ErrNoMatch is matched by *NoMatchError.
	ErrNoMatch = errors.New("router: no pattern matches")

	// ErrNoErrorPage is returned when a route has no error content at all.
	ErrNoErrorPage = errors.New("router: no error page")

	errNilURL = errors.New("nil URL")
)

// NoMatchError is returned when no pattern matches a URL.
type NoMatchError struct {
	// URL is the URL as given to Resolve.
	URL string

	// Path is the canonical path that was tried.
	Path string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("router: no pattern matches %q", e.Path)
}

// Is reports whether target is ErrNoMatch.
func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// PatternCompileError is returned by New when a pattern's expression does
// not compile.
type PatternCompileError struct {
	Index int
	Name  string
	Expr  string
	Err   error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("router: pattern %s: invalid expression %q: %v", describePattern(e.Index, e.Name), e.Expr, e.Err)
}

func (e *PatternCompileError) Unwrap() error {
	return e.Err
}

// PatternError is returned by New when a pattern compiles but is otherwise
// unusable.
type PatternError struct {
	Index  int
	Name   string
	Reason string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("router: pattern %s: %s", describePattern(e.Index, e.Name), e.Reason)
}

// PathError is returned by Resolve when the request path cannot be
// canonicalized.
type PathError struct {
	URL string
	Err error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("router: invalid path %q: %v", e.URL, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Part names the piece of a route that failed to load.
type Part string

const (
	PartPage   Part = "page"
	PartLayout Part = "layout"
	PartJS     Part = "js"
)

// LoadError is returned by Loader.Load when a page, a layout or the data
// loader fails.
type LoadError struct {
	Part Part

	// Index is the layout position for PartLayout, otherwise -1.
	Index int

	Err error
}

func (e *LoadError) Error() string {
	if e.Part == PartLayout {
		return fmt.Sprintf("router: load layout %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("router: load %s: %v", e.Part, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func describePattern(index int, name string) string {
	if name != "" {
		return fmt.Sprintf("%d (%s)", index, name)
	}
	return fmt.Sprintf("%d", index)
}
