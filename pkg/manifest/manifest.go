// Package manifest reads declarative pattern lists.
//
// A manifest lists patterns in match order. Template fields name keys in a
// source.Source; "js" names a data loader registered by the application:
//
//	[[patterns]]
//	re      = '^tasks/(?<id>[0-9]+)$'
//	name    = "task"
//	title   = "Task"
//	page    = "tasks/show.html"
//	error   = "tasks/error.html"
//	layouts = [{ page = "layouts/root.html" }]
//	js      = "task"
//	slugs   = { id = "int" }
//
// JSON, TOML and YAML are accepted, chosen by file extension.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for an unknown manifest encoding.
var ErrUnsupportedFormat = errors.New("manifest: unsupported format")

// FormatFor returns the format implied by a file name's extension.
func FormatFor(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: file type %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Manifest is the decoded file.
type Manifest struct {
	Patterns []Entry `json:"patterns" toml:"patterns" yaml:"patterns"`
}

// Entry describes one pattern.
type Entry struct {
	Re      string            `json:"re" toml:"re" yaml:"re"`
	Side    string            `json:"side,omitempty" toml:"side,omitempty" yaml:"side,omitempty"`
	Options *EntryOptions     `json:"options,omitempty" toml:"options,omitempty" yaml:"options,omitempty"`
	Layout  string            `json:"layout,omitempty" toml:"layout,omitempty" yaml:"layout,omitempty"`
	Wrapper string            `json:"wrapper,omitempty" toml:"wrapper,omitempty" yaml:"wrapper,omitempty"`
	Title   string            `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	H1      string            `json:"h1,omitempty" toml:"h1,omitempty" yaml:"h1,omitempty"`
	Name    string            `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Extras  []string          `json:"extras,omitempty" toml:"extras,omitempty" yaml:"extras,omitempty"`
	Page    string            `json:"page" toml:"page" yaml:"page"`
	Error   string            `json:"error,omitempty" toml:"error,omitempty" yaml:"error,omitempty"`
	Layouts []LayoutEntry     `json:"layouts,omitempty" toml:"layouts,omitempty" yaml:"layouts,omitempty"`
	JS      string            `json:"js,omitempty" toml:"js,omitempty" yaml:"js,omitempty"`
	Slugs   map[string]string `json:"slugs,omitempty" toml:"slugs,omitempty" yaml:"slugs,omitempty"`
}

// EntryOptions are the rendering options of an entry. Unset SSR and CSR
// default to true.
type EntryOptions struct {
	SSR           *bool  `json:"ssr,omitempty" toml:"ssr,omitempty" yaml:"ssr,omitempty"`
	CSR           *bool  `json:"csr,omitempty" toml:"csr,omitempty" yaml:"csr,omitempty"`
	Prerender     bool   `json:"prerender,omitempty" toml:"prerender,omitempty" yaml:"prerender,omitempty"`
	TrailingSlash string `json:"trailingSlash,omitempty" toml:"trailingSlash,omitempty" yaml:"trailingSlash,omitempty"`
}

// LayoutEntry describes one layout.
type LayoutEntry struct {
	Page  string `json:"page" toml:"page" yaml:"page"`
	Error string `json:"error,omitempty" toml:"error,omitempty" yaml:"error,omitempty"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode reads a manifest in the given format. Unknown fields are errors.
func Decode(r io.Reader, format Format) (*Manifest, error) {
	var m Manifest
	var err error

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&m)
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&m)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&m)
		if err == io.EOF {
			err = nil
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", format, err)
	}
	return &m, nil
}
