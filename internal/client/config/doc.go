// Package config loads runtime configuration for the weynak CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags -a, -t, -i and -s.
//
// JSON schema:
//
//	{
//	  "server_url": "http://127.0.0.1:8900",
//	  "request_timeout": "15s",
//	  "online_check_interval": "3s",
//	  "session_path": "weynak_session.db"
//	}
package config
