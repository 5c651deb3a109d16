package server

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/vango-dev/pageroute/pkg/render"
	"github.com/vango-dev/pageroute/pkg/router"
)

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	route, err := s.router.ResolveURL(ctx, r.URL)
	if err != nil {
		var pathErr *router.PathError
		switch {
		case errors.Is(err, router.ErrNoMatch):
			s.writeError(w, r, nil, http.StatusNotFound, nil)
		case errors.As(err, &pathErr):
			s.writeError(w, r, nil, http.StatusBadRequest, nil)
		default:
			s.logger.Error("resolve failed", "path", r.URL.Path, "error", err)
			s.writeError(w, r, nil, http.StatusInternalServerError, nil)
		}
		return
	}

	if target, ok := trailingSlashRedirect(r.URL, route); ok {
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	if route.Options.SSR {
		if err := s.loader.Load(ctx, route); err != nil {
			content, _ := s.loader.ErrorPage(ctx, route)
			s.writeError(w, r, route, http.StatusInternalServerError, content)
			return
		}
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, route); err != nil {
		s.logger.Error("render failed", "path", route.Path, "error", err)
		content, _ := s.loader.ErrorPage(ctx, route)
		s.writeError(w, r, route, http.StatusInternalServerError, content)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	if route.Name != "" {
		h.Set("X-Route-Name", route.Name)
	}
	if route.Options.Prerender {
		h.Set("X-Prerender", "true")
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(buf.Bytes())
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, route *router.Route, status int, content *router.Content) {
	var buf bytes.Buffer
	if err := render.ErrorPage(&buf, route, status, content); err != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(buf.Bytes())
	}
}

// trailingSlashRedirect returns the redirect target required by the
// route's trailing-slash policy, if any.
func trailingSlashRedirect(u *url.URL, route *router.Route) (string, bool) {
	if route.Path == "/" {
		return "", false
	}
	trailing := strings.HasSuffix(u.Path, "/")

	var path string
	switch route.Options.TrailingSlash {
	case router.TrailingSlashNever:
		if !trailing {
			return "", false
		}
		path = route.Path
	case router.TrailingSlashAlways:
		if trailing {
			return "", false
		}
		path = route.Path + "/"
	default:
		return "", false
	}

	target := url.URL{Path: path, RawQuery: u.RawQuery}
	return target.String(), true
}
