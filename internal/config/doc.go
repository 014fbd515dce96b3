// Package config holds the process-wide configuration of sdwan-mcp.
//
// A Config is assembled once at startup from three layers, later layers
// overriding earlier ones:
//
//  1. Built-in defaults (see GetDefaultConfig)
//  2. An optional config file (YAML, or TOML when the file ends in .toml)
//  3. Environment variables (SDWAN_BASE_URL, SDWAN_USERNAME, SDWAN_PASSWORD,
//     VERIFY_SSL, LOG_LEVEL, LOG_AUTH_DETAILS, SESSION_TIMEOUT,
//     AUTO_RECONNECT, REQUEST_TIMEOUT)
//
// The resulting value is validated and then treated as immutable: it is
// passed by pointer to the controller session manager and request executor.
// Credential rotation is handled by Watcher, which re-reads the file and
// hands the new credentials to a callback instead of mutating the Config.
//
// Example config.yaml:
//
//	baseURL: https://vmanage.example.com:8443
//	username: admin
//	password: secret
//	verifySSL: false
//	sessionTimeout: 3600
//	autoReconnect: true
//	analytics:
//	  utilizationThreshold: 75
//	server:
//	  transport: streamable-http
//	  port: 8090
package config
