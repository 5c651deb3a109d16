// Package routepath normalizes URL paths before they are matched against
// route patterns.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Result contains the result of path canonicalization.
type Result struct {
	// Path is the canonical path, always rooted and without a trailing slash
	// (except for "/").
	Path string

	// Query is the query string (without leading "?").
	Query string

	// TrailingSlash reports whether the input path ended in "/".
	TrailingSlash bool

	// Changed indicates if the path was modified during canonicalization.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in path segment")
	ErrEncodedDotSegment     = errors.New("encoded dot segment in path")
)

// Canonicalize normalizes a URL path:
//   - remove trailing slash (except for root "/")
//   - collapse multiple slashes (/blog//post → /blog/post)
//   - remove "." segments
//   - resolve ".." segments
//
// Paths containing a backslash, a NUL byte, an invalid percent-escape, or a
// ".." that would climb above root are rejected.
//
// The input may include a query string, which is preserved untouched.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")

	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Result{}, err
		}
	}

	original := path
	trailing := len(path) > 1 && strings.HasSuffix(path, "/")

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return Result{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	path = "/" + strings.Join(segments, "/")

	return Result{
		Path:          path,
		Query:         query,
		TrailingSlash: trailing,
		Changed:       path != original,
	}, nil
}

// Decode percent-decodes each segment of a canonical path. A segment that
// decodes to something containing "/", or to "." or "..", is rejected so
// that escapes cannot smuggle segments past a pattern.
func Decode(path string) (string, error) {
	if !strings.Contains(path, "%") {
		return path, nil
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return "", ErrInvalidPercentEscape
		}
		if strings.Contains(decoded, "/") {
			return "", ErrEncodedSlashInSegment
		}
		if decoded == "." || decoded == ".." {
			return "", ErrEncodedDotSegment
		}
		segments[i] = decoded
	}
	return strings.Join(segments, "/"), nil
}

// Relative returns the canonical path without its leading slash. Route
// expressions are written against this form ("tasks/42", "" for root).
func Relative(path string) string {
	return strings.TrimPrefix(path, "/")
}

// validatePercentEscapes checks that all percent-escapes are %XX hex pairs.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
