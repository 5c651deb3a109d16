package config

import (
	stderrors "errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/pageroute/internal/errors"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "pageroute"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = ConfigName + ".json"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "PAGEROUTE"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultManifest is the default manifest path.
	DefaultManifest = "routes.toml"

	// DefaultContentDir is the default template directory.
	DefaultContentDir = "templates"
)

// Cache kinds.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config represents the complete pageroute.json configuration.
type Config struct {
	// Manifest is the path to the pattern manifest.
	Manifest string `mapstructure:"manifest"`

	// Content configures where templates are read from.
	Content ContentConfig `mapstructure:"content"`

	// Cache configures template caching.
	Cache CacheConfig `mapstructure:"cache"`

	// Server contains HTTP server configuration.
	Server ServerConfig `mapstructure:"server"`

	// Logging contains logger configuration.
	Logging LoggingConfig `mapstructure:"logging"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ContentConfig selects the template source. S3 is used when a bucket is
// set, otherwise Dir.
type ContentConfig struct {
	// Dir is the template directory.
	Dir string `mapstructure:"dir"`

	// S3 reads templates from a bucket.
	S3 S3Config `mapstructure:"s3"`
}

// S3Config contains S3 template source settings.
type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`

	// Region overrides the region from the AWS environment.
	Region string `mapstructure:"region"`
}

// CacheConfig contains template cache settings.
type CacheConfig struct {
	// Kind is "none", "memory" or "redis".
	Kind string `mapstructure:"kind"`

	// TTL is the lifetime of cached templates (e.g., "5m"). Zero keeps
	// entries until invalidated.
	TTL time.Duration `mapstructure:"ttl"`

	// Redis is used when Kind is "redis".
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
	DB     int    `mapstructure:"db"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `mapstructure:"host"`

	// Port is the port to listen on.
	Port int `mapstructure:"port"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `mapstructure:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and records router metrics.
	Enabled bool `mapstructure:"enabled"`

	// Namespace prefixes metric names.
	Namespace string `mapstructure:"namespace"`
}

// setDefaults registers every key so environment overrides apply to keys
// absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("manifest", DefaultManifest)
	v.SetDefault("content.dir", DefaultContentDir)
	v.SetDefault("content.s3.bucket", "")
	v.SetDefault("content.s3.prefix", "")
	v.SetDefault("content.s3.region", "")
	v.SetDefault("cache.kind", CacheNone)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.prefix", "pageroute:")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "pageroute")
}

// New returns a Config with default values.
func New() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always decode.
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads configuration from path, or from pageroute.json in the
// working directory when path is empty. A missing file is not an error
// when path is empty; defaults and environment overrides apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New("C001").
				Wrap(err).
				WithSuggestion("Check that " + describe(path) + " exists and is valid JSON")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("C001").Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func describe(path string) string {
	if path == "" {
		return ConfigFileName
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Manifest == "" {
		return errors.New("C002").WithDetail("manifest must be set")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("C002").
			WithDetail(fmt.Sprintf("server.port must be between 0 and 65535, got %d", c.Server.Port))
	}
	switch c.Cache.Kind {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New("C002").WithDetail("cache.redis.addr is required for the redis cache")
		}
	default:
		return errors.New("C002").
			WithDetail(fmt.Sprintf("unknown cache.kind %q", c.Cache.Kind)).
			WithSuggestion("Use one of: none, memory, redis")
	}
	if c.Cache.TTL < 0 {
		return errors.New("C002").WithDetail("cache.ttl must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.New("C002").WithDetail(fmt.Sprintf("unknown logging.level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errors.New("C002").WithDetail(fmt.Sprintf("unknown logging.format %q", c.Logging.Format))
	}
	return nil
}

// Path returns the path where the config was loaded from, or "" when no
// file was read.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// Address returns the server listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ManifestPath returns the manifest path, resolved against the config
// file's directory when relative.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Manifest)
}

// ContentDir returns the template directory, resolved against the config
// file's directory when relative.
func (c *Config) ContentDir() string {
	return c.resolve(c.Content.Dir)
}

// UsesS3 reports whether templates are read from S3.
func (c *Config) UsesS3() bool {
	return c.Content.S3.Bucket != ""
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}
