// Package config loads runtime configuration for the InternPortal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-t int      request timeout (seconds)
//	-s string   session directory
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://localhost:5000",
//	  "request_timeout": "10s",
//	  "session_dir": ".internportal"
//	}
package config
