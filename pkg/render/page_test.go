package render

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pageroute/pkg/router"
)

func content(body string) *router.Lazy {
	return router.LoadedContent(&router.Content{Body: []byte(body)})
}

func newRoute() *router.Route {
	return &router.Route{
		Side:    router.SideServer,
		Options: router.DefaultOptions(),
		Meta: router.Meta{
			Title:   "Tasks & More",
			H1:      "<Tasks>",
			Wrapper: "tasks",
			Name:    "tasks",
			Layout:  "base.html",
			Extras:  []string{"sidebar", "wide"},
		},
		Page: content("<ul></ul>"),
		Layouts: []router.RouteLayout{
			{Page: content(`<div class="root"><!--slot--></div>`)},
			{Page: content(`<section>`)},
		},
	}
}

func TestComposeWrapsInnerToOuter(t *testing.T) {
	body, err := Compose(newRoute())
	require.NoError(t, err)

	want := `<div class="root"><section><main class="tasks">` + "\n" +
		"<h1>&lt;Tasks&gt;</h1>\n<ul></ul>\n</main></div>"
	assert.Equal(t, want, string(body))
}

func TestComposeSSRDisabled(t *testing.T) {
	r := newRoute()
	r.Options.SSR = false
	r.Page = nil

	body, err := Compose(r)
	require.NoError(t, err)
	assert.Equal(t, `<main class="tasks" data-ssr="false"></main>`, string(body))
}

func TestComposeNotLoaded(t *testing.T) {
	r := newRoute()
	r.Layouts[1].Page = nil
	_, err := Compose(r)
	assert.True(t, errors.Is(err, ErrNotLoaded))
	assert.Contains(t, err.Error(), "layout 1")

	r = newRoute()
	r.Page = nil
	_, err = Compose(r)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestPageDocument(t *testing.T) {
	r := newRoute()
	r.Data = map[string]any{"count": 2, "html": "</script>"}

	var buf bytes.Buffer
	require.NoError(t, Page(&buf, r))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n"))
	assert.Contains(t, out, "<title>Tasks &amp; More</title>")
	assert.Contains(t, out, `data-route="tasks"`)
	assert.Contains(t, out, `data-layout="base.html"`)
	assert.Contains(t, out, `data-side="server" data-csr="true"`)
	assert.Contains(t, out, `data-extras="sidebar wide"`)
	assert.Contains(t, out, `<script type="application/json" id="route-data">`)
	assert.NotContains(t, out, "</script>\"")
	assert.Contains(t, out, `</script>`)
}

func TestPageWithoutCSROmitsData(t *testing.T) {
	r := newRoute()
	r.Options.CSR = false
	r.Data = map[string]any{"a": 1}

	var buf bytes.Buffer
	require.NoError(t, Page(&buf, r))
	assert.Contains(t, buf.String(), `data-csr="false"`)
	assert.NotContains(t, buf.String(), "route-data")
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorPage(&buf, nil, http.StatusNotFound, nil))
	assert.Contains(t, buf.String(), "<title>404 Not Found</title>")
	assert.Contains(t, buf.String(), "<h1>404 Not Found</h1>")

	buf.Reset()
	require.NoError(t, ErrorPage(&buf, newRoute(), http.StatusInternalServerError, &router.Content{Body: []byte("<p>oops</p>")}))
	assert.Contains(t, buf.String(), `data-status="500"`)
	assert.Contains(t, buf.String(), `<main class="tasks">`)
	assert.Contains(t, buf.String(), "<p>oops</p>")
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "plain", escapeHTML("plain"))
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot; &#39;e&#39;", escapeHTML(`a & b <c> "d" 'e'`))
	assert.Equal(t, "a&#10;b&#9;c", escapeAttr("a\nb\tc"))
}
