package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/router"
)

// matchOutput is the JSON shape printed by the match command.
type matchOutput struct {
	URL        string            `json:"url"`
	Path       string            `json:"path"`
	Pattern    int               `json:"pattern"`
	Re         string            `json:"re"`
	Name       string            `json:"name,omitempty"`
	Side       string            `json:"side"`
	Options    optionsOutput     `json:"options"`
	Layout     string            `json:"layout,omitempty"`
	Wrapper    string            `json:"wrapper,omitempty"`
	Title      string            `json:"title,omitempty"`
	H1         string            `json:"h1,omitempty"`
	Extras     []string          `json:"extras,omitempty"`
	Slugs      map[string]string `json:"slugs"`
	Loaded     bool              `json:"loaded"`
	Page       string            `json:"page,omitempty"`
	Layouts    []string          `json:"layouts,omitempty"`
	Data       map[string]any    `json:"data,omitempty"`
	ClientData bool              `json:"clientData,omitempty"`
}

type optionsOutput struct {
	SSR           bool   `json:"ssr"`
	CSR           bool   `json:"csr"`
	Prerender     bool   `json:"prerender"`
	TrailingSlash string `json:"trailingSlash"`
}

func matchCmd(flags *globalFlags) *cobra.Command {
	var load bool

	cmd := &cobra.Command{
		Use:   "match <url>",
		Short: "Resolve a URL and print the matched route",
		Long: `Resolve a URL against the manifest's patterns and print the
matched route as JSON.

With --load the page, layouts and server data loader are run and the
loaded template keys and data are included.

Examples:
  pageroute match /tasks/42
  pageroute match 'https://example.com/search?q=go' --load`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			route, err := a.router.Resolve(ctx, args[0])
			if err != nil {
				return errors.Classify(err, "", "R002")
			}
			if load {
				if err := a.loader.Load(ctx, route); err != nil {
					return errors.Classify(err, "", "R003")
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(describeRoute(route))
		},
	}

	cmd.Flags().BoolVarP(&load, "load", "l", false, "Load the route's content and data")

	return cmd
}

func describeRoute(r *router.Route) matchOutput {
	out := matchOutput{
		URL:     r.URL.String(),
		Path:    r.Path,
		Pattern: r.Index,
		Re:      r.Pattern.Re,
		Name:    r.Name,
		Side:    r.Side.String(),
		Options: optionsOutput{
			SSR:           r.Options.SSR,
			CSR:           r.Options.CSR,
			Prerender:     r.Options.Prerender,
			TrailingSlash: r.Options.TrailingSlash.String(),
		},
		Layout:     r.Layout,
		Wrapper:    r.Wrapper,
		Title:      r.Title,
		H1:         r.H1,
		Extras:     r.Extras,
		Slugs:      map[string]string(r.Slugs),
		Loaded:     r.Loaded(),
		Data:       r.Data,
		ClientData: r.ClientData,
	}
	if out.Slugs == nil {
		out.Slugs = map[string]string{}
	}
	if c, ok := r.Page.Content(); ok {
		out.Page = c.Key
	}
	for _, l := range r.Layouts {
		if c, ok := l.Page.Content(); ok {
			out.Layouts = append(out.Layouts, c.Key)
		}
	}
	return out
}
