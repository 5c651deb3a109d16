package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start an HTTP server that resolves, loads and renders pages.

Endpoints:
  /healthz   liveness probe
  /metrics   Prometheus metrics (when metrics.enabled)
  /*         pages

Examples:
  pageroute serve
  pageroute serve --port=8080
  pageroute serve --host=0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if port > 0 {
				a.cfg.Server.Port = port
			}
			if host != "" {
				a.cfg.Server.Host = host
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			opts := []server.Option{
				server.WithAddress(a.cfg.Address()),
				server.WithLogger(a.logger),
			}
			if a.registry != nil {
				opts = append(opts,
					server.WithRegistry(a.registry),
					server.WithMetricsNamespace(a.cfg.Metrics.Namespace),
				)
			}
			srv := server.New(a.router, a.loader, opts...)

			success(cmd.OutOrStdout(), "Serving %d patterns on http://%s", a.router.Len(), a.cfg.Address())
			if err := srv.Run(ctx); err != nil {
				return errors.New("E001").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from pageroute.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from pageroute.json)")

	return cmd
}
