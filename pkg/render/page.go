// Package render writes loaded routes as HTML documents.
//
// The page content is placed in <main>, then wrapped by the route's layouts
// from the innermost outwards. A layout marks where its child goes with
// the Slot comment; a layout without the marker gets its child appended.
//
//	var buf bytes.Buffer
//	if err := render.Page(&buf, route); err != nil { ... }
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vango-dev/pageroute/pkg/router"
)

// Slot marks where a layout's child content is inserted.
const Slot = "<!--slot-->"

// ErrNotLoaded is returned when a route's page or a layout has not been
// loaded yet.
var ErrNotLoaded = errors.New("render: route content not loaded")

// Compose returns the body markup of r: <main> with the heading and page,
// wrapped by every layout. With SSR disabled only an empty <main> is
// produced and no content needs to be loaded.
func Compose(r *router.Route) ([]byte, error) {
	var main bytes.Buffer
	main.WriteString(`<main`)
	if r.Wrapper != "" {
		fmt.Fprintf(&main, ` class="%s"`, escapeAttr(r.Wrapper))
	}
	if !r.Options.SSR {
		main.WriteString(` data-ssr="false"></main>`)
		return main.Bytes(), nil
	}
	main.WriteString(">\n")

	page, ok := r.Page.Content()
	if !ok {
		return nil, fmt.Errorf("%w: page", ErrNotLoaded)
	}
	if r.H1 != "" {
		fmt.Fprintf(&main, "<h1>%s</h1>\n", escapeHTML(r.H1))
	}
	main.Write(page.Body)
	main.WriteString("\n</main>")

	body := main.Bytes()
	for i := len(r.Layouts) - 1; i >= 0; i-- {
		layout, ok := r.Layouts[i].Page.Content()
		if !ok {
			return nil, fmt.Errorf("%w: layout %d", ErrNotLoaded, i)
		}
		body = wrap(layout.Body, body)
	}
	return body, nil
}

// wrap inserts child into the first Slot of layout.
func wrap(layout, child []byte) []byte {
	before, after, found := bytes.Cut(layout, []byte(Slot))
	out := make([]byte, 0, len(layout)+len(child))
	if !found {
		out = append(out, layout...)
		return append(out, child...)
	}
	out = append(out, before...)
	out = append(out, child...)
	return append(out, after...)
}

// Page writes r as a complete HTML document.
func Page(w io.Writer, r *router.Route) error {
	body, err := Compose(r)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writeHead(&buf, r.Title)

	buf.WriteString("<body")
	if r.Name != "" {
		fmt.Fprintf(&buf, ` data-route="%s"`, escapeAttr(r.Name))
	}
	if r.Layout != "" {
		fmt.Fprintf(&buf, ` data-layout="%s"`, escapeAttr(r.Layout))
	}
	fmt.Fprintf(&buf, ` data-side="%s" data-csr="%t"`, r.Side, r.Options.CSR)
	if len(r.Extras) > 0 {
		fmt.Fprintf(&buf, ` data-extras="%s"`, escapeAttr(strings.Join(r.Extras, " ")))
	}
	buf.WriteString(">\n")
	buf.Write(body)
	buf.WriteString("\n")

	if r.Options.CSR && len(r.Data) > 0 {
		data, err := json.Marshal(r.Data)
		if err != nil {
			return fmt.Errorf("render: encode route data: %w", err)
		}
		fmt.Fprintf(&buf, `<script type="application/json" id="route-data">%s</script>`+"\n", data)
	}
	buf.WriteString("</body>\n</html>\n")

	_, err = w.Write(buf.Bytes())
	return err
}

// ErrorPage writes an error document for status. When content is non-nil
// its body is used as the page; otherwise a plain message is shown. r may
// be nil when no route matched.
func ErrorPage(w io.Writer, r *router.Route, status int, content *router.Content) error {
	title := fmt.Sprintf("%d %s", status, http.StatusText(status))

	var buf bytes.Buffer
	writeHead(&buf, title)
	fmt.Fprintf(&buf, "<body data-status=\"%d\">\n<main", status)
	if r != nil && r.Wrapper != "" {
		fmt.Fprintf(&buf, ` class="%s"`, escapeAttr(r.Wrapper))
	}
	buf.WriteString(">\n")
	if content != nil {
		buf.Write(content.Body)
	} else {
		fmt.Fprintf(&buf, "<h1>%s</h1>", escapeHTML(title))
	}
	buf.WriteString("\n</main>\n</body>\n</html>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeHead(buf *bytes.Buffer, title string) {
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	if title != "" {
		fmt.Fprintf(buf, "<title>%s</title>\n", escapeHTML(title))
	}
	buf.WriteString("</head>\n")
}
