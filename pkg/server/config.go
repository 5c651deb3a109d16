package server

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/pageroute/pkg/middleware"
)

// Config holds HTTP server settings.
type Config struct {
	// Address is the listen address (e.g., "localhost:3000").
	Address string

	// ReadHeaderTimeout bounds the time to read request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// WriteTimeout bounds the time to write a response.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 2 minutes.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Registry, when set, receives HTTP request metrics and is served at
	// /metrics.
	Registry *prometheus.Registry

	// MetricsNamespace prefixes HTTP metric names. Default: "pageroute".
	MetricsNamespace string

	// TracingOptions configure the request tracing middleware.
	TracingOptions []middleware.OTelOption

	// Logger receives request and lifecycle logs. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           "localhost:3000",
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		ShutdownTimeout:   10 * time.Second,
		MetricsNamespace:  "pageroute",
	}
}

// Option configures a Server.
type Option func(*Config)

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithRegistry records HTTP metrics in reg and serves it at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = reg
	}
}

// WithMetricsNamespace sets the HTTP metrics namespace.
func WithMetricsNamespace(namespace string) Option {
	return func(c *Config) {
		c.MetricsNamespace = namespace
	}
}

// WithTracing configures request tracing.
func WithTracing(opts ...middleware.OTelOption) Option {
	return func(c *Config) {
		c.TracingOptions = append(c.TracingOptions, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ShutdownTimeout = d
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("server: address is required")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("server: negative shutdown timeout %s", c.ShutdownTimeout)
	}
	return nil
}
