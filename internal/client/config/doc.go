// Package config loads runtime configuration for the Event Aura CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the Event Aura server
//	-t int      request timeout (seconds)
//	-s string   directory that holds the .eventaura session folder
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "request_timeout": "10s",
//	  "state_dir": "/home/me"
//	}
package config
