package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pageroute/pkg/router"
	"github.com/vango-dev/pageroute/pkg/source"
)

const tomlManifest = `
[[patterns]]
re      = '^$'
name    = "home"
title   = "Home"
page    = "index.html"
layouts = [{ page = "layouts/root.html", error = "layouts/root-error.html" }]

[[patterns]]
re      = '^tasks/(?<id>[0-9]+)$'
name    = "task"
side    = "server"
title   = "Task"
h1      = "Task detail"
wrapper = "task"
extras  = ["sidebar"]
page    = "tasks/show.html"
error   = "tasks/error.html"
js      = "task"
slugs   = { id = "int" }

[patterns.options]
ssr       = false
prerender = true
trailingSlash = "always"
`

const jsonManifest = `{
  "patterns": [
    {"re": "^about$", "name": "about", "side": "front", "page": "about.html"}
  ]
}`

const yamlManifest = `
patterns:
  - re: '^docs/(?<page>[a-z-]+)$'
    name: docs
    page: docs/page.html
    layouts:
      - page: layouts/root.html
      - page: layouts/docs.html
    options:
      csr: false
`

func TestDecodeFormats(t *testing.T) {
	m, err := Decode(strings.NewReader(tomlManifest), FormatTOML)
	require.NoError(t, err)
	require.Len(t, m.Patterns, 2)
	task := m.Patterns[1]
	assert.Equal(t, `^tasks/(?<id>[0-9]+)$`, task.Re)
	assert.Equal(t, "server", task.Side)
	assert.Equal(t, []string{"sidebar"}, task.Extras)
	assert.Equal(t, map[string]string{"id": "int"}, task.Slugs)
	require.NotNil(t, task.Options)
	require.NotNil(t, task.Options.SSR)
	assert.False(t, *task.Options.SSR)
	assert.Nil(t, task.Options.CSR)
	assert.True(t, task.Options.Prerender)
	require.Len(t, m.Patterns[0].Layouts, 1)
	assert.Equal(t, "layouts/root-error.html", m.Patterns[0].Layouts[0].Error)

	m, err = Decode(strings.NewReader(jsonManifest), FormatJSON)
	require.NoError(t, err)
	require.Len(t, m.Patterns, 1)
	assert.Equal(t, "front", m.Patterns[0].Side)

	m, err = Decode(strings.NewReader(yamlManifest), FormatYAML)
	require.NoError(t, err)
	require.Len(t, m.Patterns, 1)
	assert.Len(t, m.Patterns[0].Layouts, 2)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"patterns":[{"re":"x","page":"p","bogus":1}]}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("[[patterns]]\nre = 'x'\npage = 'p'\nbogus = 1\n"), FormatTOML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("patterns:\n  - re: x\n    page: p\n    bogus: 1\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(""), Format("ini"))
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	for name, want := range map[string]Format{
		"routes.json": FormatJSON,
		"routes.TOML": FormatTOML,
		"routes.yaml": FormatYAML,
		"routes.yml":  FormatYAML,
	} {
		got, err := FormatFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := FormatFor("routes.ini")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlManifest), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Patterns, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func templates() source.Source {
	return source.NewFS(fstest.MapFS{
		"index.html":              {Data: []byte("<p>home</p>")},
		"layouts/root.html":       {Data: []byte("<div><!--slot--></div>")},
		"layouts/root-error.html": {Data: []byte("<p>root error</p>")},
		"tasks/show.html":         {Data: []byte("<p>task</p>")},
		"tasks/error.html":        {Data: []byte("<p>task error</p>")},
	})
}

func TestBuildAndResolve(t *testing.T) {
	m, err := Decode(strings.NewReader(tomlManifest), FormatTOML)
	require.NoError(t, err)

	loaders := Loaders{
		"task": func(ctx context.Context, r *router.Route) (map[string]any, error) {
			return map[string]any{"id": r.Slugs["id"]}, nil
		},
	}
	patterns, err := Build(m, templates(), loaders)
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	task := patterns[1]
	assert.Equal(t, router.SideServer, task.Side)
	require.NotNil(t, task.Options)
	assert.False(t, task.Options.SSR)
	assert.True(t, task.Options.CSR)
	assert.True(t, task.Options.Prerender)
	assert.Equal(t, router.TrailingSlashAlways, task.Options.TrailingSlash)
	assert.Equal(t, router.SlugInt, task.Slugs["id"])
	assert.Equal(t, "Task detail", task.H1)
	assert.Nil(t, patterns[0].Options)

	r, err := router.New(patterns)
	require.NoError(t, err)

	route, err := r.Resolve(context.Background(), "/tasks/3")
	require.NoError(t, err)
	loader := router.NewLoader()
	require.NoError(t, loader.Load(context.Background(), route))

	page, ok := route.Page.Content()
	require.True(t, ok)
	assert.Equal(t, "<p>task</p>", string(page.Body))
	assert.Equal(t, map[string]any{"id": "3"}, route.Data)

	home, err := r.Resolve(context.Background(), "/")
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background(), home))
	require.Len(t, home.Layouts, 1)
	errPage, err := loader.ErrorPage(context.Background(), home)
	require.NoError(t, err)
	assert.Equal(t, "<p>root error</p>", string(errPage.Body))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"missing re", Entry{Page: "p"}, "missing re"},
		{"missing page", Entry{Re: "x"}, "missing page"},
		{"bad side", Entry{Re: "x", Page: "p", Side: "edge"}, "unknown side"},
		{"bad layout", Entry{Re: "x", Page: "p", Layouts: []LayoutEntry{{}}}, "layout 0"},
		{"unknown loader", Entry{Re: "x", Page: "p", JS: "nope"}, `unknown js loader "nope"`},
		{"bad slug", Entry{Re: "x", Page: "p", Slugs: map[string]string{"id": "float"}}, "unknown slug type"},
		{"bad trailing slash", Entry{Re: "x", Page: "p", Options: &EntryOptions{TrailingSlash: "maybe"}}, "trailing slash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.entry.Name = "entry"
			_, err := Build(&Manifest{Patterns: []Entry{{Re: "ok", Page: "ok"}, tt.entry}}, templates(), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var ee *EntryError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, 1, ee.Index)
			assert.Equal(t, "entry", ee.Name)
		})
	}
}

func TestLoadersNames(t *testing.T) {
	l := Loaders{"b": nil, "a": nil}
	assert.Equal(t, []string{"a", "b"}, l.Names())
}
