package main

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/manifest"
	"github.com/vango-dev/pageroute/pkg/source"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	var templates bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest and compile every pattern",
		Long: `Load the configuration and manifest, compile every pattern
and report the first problem found.

With --templates every page, layout and error template named by the
manifest is also read from the content source.

Examples:
  pageroute check
  pageroute check --templates
  pageroute check -m routes.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := newApp(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			for i, p := range a.router.Patterns() {
				name := p.Name
				if name == "" {
					name = "-"
				}
				info(out, "%3d  %-12s %-10s %s", i, name, p.Side, p.Re)
			}

			if templates {
				missing := 0
				for _, key := range templateKeys(a.manifest) {
					if _, err := a.source.Open(ctx, key); err != nil {
						if !stderrors.Is(err, source.ErrNotFound) {
							return errors.New("S002").Wrap(fmt.Errorf("open %s: %w", key, err))
						}
						warn(out, "missing template %s", key)
						missing++
					}
				}
				if missing > 0 {
					return errors.New("S001").
						WithDetail(fmt.Sprintf("%d template(s) referenced by the manifest do not exist", missing))
				}
			}

			success(out, "%d patterns compiled from %s", a.router.Len(), a.cfg.ManifestPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&templates, "templates", false, "Also verify that every referenced template exists")

	return cmd
}

// templateKeys returns the distinct template keys named by m in manifest
// order.
func templateKeys(m *manifest.Manifest) []string {
	seen := map[string]bool{}
	var keys []string
	add := func(key string) {
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		keys = append(keys, key)
	}

	for _, e := range m.Patterns {
		add(e.Page)
		add(e.Error)
		for _, l := range e.Layouts {
			add(l.Page)
			add(l.Error)
		}
	}
	return keys
}
