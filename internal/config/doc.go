// Package config loads pathway configuration files.
//
// Load looks for pathway.json, pathway.yaml, pathway.yml and pathway.toml
// in that order. The format follows the file extension.
//
// # Configuration File Structure
//
//	{
//	  "basePath": "/app",
//	  "mode": "browser",
//	  "locale": "en",
//	  "hashFallback": true,
//	  "restoreScroll": true,
//	  "concurrency": "supersede",
//	  "routes": [
//	    {"name": "home", "path": "/", "component": "home"},
//	    {"name": "user", "path": "/users/:id", "component": "user"},
//	    {"name": "files", "path": "/files/*rest"}
//	  ],
//	  "serve": {
//	    "addr": ":8080",
//	    "wsPath": "/ws",
//	    "metricsPath": "/metrics",
//	    "eventsPerSecond": 20
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	opts, _ := cfg.RouterOptions(nil)
package config
