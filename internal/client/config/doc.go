// Package config loads runtime configuration for the blog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the blog API
//	-t int      request timeout (seconds)
//	-d string   local database path
//	-u string   upload backend (api|s3)
//	-v          verbose logging
//
// # JSON schema
//
//	{
//	  "base_url": "http://localhost:8080",
//	  "timeout": "5s",
//	  "database_path": "blog.db",
//	  "upload_backend": "s3",
//	  "s3": {"bucket": "blog-media", "region": "eu-central-1", "prefix": "uploads/"},
//	  "verbose": false
//	}
//
// Timeouts accept Go duration strings or integer nanoseconds (timex.Duration).
// Call (*Config).Validate before use.
package config
