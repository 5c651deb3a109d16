package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/vango-dev/pageroute/internal/config"
	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/internal/logging"
	"github.com/vango-dev/pageroute/pkg/manifest"
	"github.com/vango-dev/pageroute/pkg/router"
	"github.com/vango-dev/pageroute/pkg/source"
)

// globalFlags are the persistent root flags.
type globalFlags struct {
	configPath string
	manifest   string
}

// app holds everything a command needs to resolve and load routes.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *router.Metrics
	manifest *manifest.Manifest
	source   source.Source
	router   *router.Router
	loader   *router.Loader
	closers  []io.Closer
}

// newApp loads configuration and the manifest and compiles the router.
// Logs go to logOut.
func newApp(ctx context.Context, flags *globalFlags, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.manifest != "" {
		abs, err := filepath.Abs(flags.manifest)
		if err != nil {
			return nil, errors.New("M001").Wrap(err)
		}
		cfg.Manifest = abs
	}

	a := &app{
		cfg:    cfg,
		logger: logging.New(logOut, cfg.Logging.Level, cfg.Logging.Format),
	}

	opts := []router.Option{router.WithLogger(a.logger)}
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = router.NewMetrics(
			router.WithNamespace(cfg.Metrics.Namespace),
			router.WithRegistry(a.registry),
		)
		opts = append(opts, router.WithMetrics(a.metrics))
	}

	src, err := a.openSource(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.source = src

	path := cfg.ManifestPath()
	m, err := manifest.Load(path)
	if err != nil {
		a.Close()
		return nil, errors.Classify(err, path, "M002")
	}
	a.manifest = m

	patterns, err := manifest.Build(m, src, builtinLoaders())
	if err != nil {
		a.Close()
		return nil, errors.Classify(err, path, "M003")
	}

	r, err := router.New(patterns, opts...)
	if err != nil {
		a.Close()
		return nil, errors.Classify(err, path, "R004")
	}
	a.router = r
	a.loader = router.NewLoader(opts...)

	a.logger.Debug("router compiled", "manifest", path, "patterns", r.Len())
	return a, nil
}

// openSource builds the template source from the content and cache
// configuration.
func (a *app) openSource(ctx context.Context) (source.Source, error) {
	var src source.Source

	if a.cfg.UsesS3() {
		s3cfg := a.cfg.Content.S3
		var loadOpts []func(*awsconfig.LoadOptions) error
		if s3cfg.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(s3cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.New("S002").Wrap(err).
				WithSuggestion("Check the AWS credentials and region in the environment")
		}
		src = source.NewS3(s3.NewFromConfig(awsCfg), s3cfg.Bucket, s3cfg.Prefix)
		a.logger.Debug("using s3 content", "bucket", s3cfg.Bucket, "prefix", s3cfg.Prefix)
	} else {
		src = source.NewDir(a.cfg.ContentDir())
		a.logger.Debug("using directory content", "dir", a.cfg.ContentDir())
	}

	switch a.cfg.Cache.Kind {
	case config.CacheMemory:
		src = source.NewCached(src, source.NewMemoryCache(), a.cfg.Cache.TTL).WithLogger(a.logger)
	case config.CacheRedis:
		rc := a.cfg.Cache.Redis
		client := redis.NewClient(&redis.Options{Addr: rc.Addr, DB: rc.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, errors.New("S002").Wrap(fmt.Errorf("redis %s: %w", rc.Addr, err))
		}
		cache := source.NewRedisCache(client, rc.Prefix)
		a.closers = append(a.closers, cache)
		src = source.NewCached(src, cache, a.cfg.Cache.TTL).WithLogger(a.logger)
	}
	return src, nil
}

// Close releases cache connections.
func (a *app) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
