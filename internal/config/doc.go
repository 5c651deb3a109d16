// Package config provides configuration loading for pageroute projects.
//
// The configuration is stored in pageroute.json at the project root. Every
// key can be overridden by an environment variable named PAGEROUTE_ plus
// the upper-cased key path with dots replaced by underscores, e.g.
// PAGEROUTE_SERVER_PORT or PAGEROUTE_CACHE_REDIS_ADDR.
//
// # Configuration File Structure
//
//	{
//	  "manifest": "routes.toml",
//	  "content": {
//	    "dir": "templates",
//	    "s3": {"bucket": "", "prefix": "", "region": ""}
//	  },
//	  "cache": {
//	    "kind": "memory",
//	    "ttl": "5m",
//	    "redis": {"addr": "localhost:6379", "prefix": "pageroute:"}
//	  },
//	  "server": {"host": "localhost", "port": 3000},
//	  "logging": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "pageroute"}
//	}
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address())
package config
