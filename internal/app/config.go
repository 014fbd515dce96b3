package app

import (
	"io"
	"os"

	"sdwan-mcp/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the configured level.
	Debug bool

	// ConfigPath is the optional YAML or TOML file. It is also watched for changes.
	ConfigPath string

	// Transport overrides server.transport from the config file when set.
	Transport string

	// Version is reported to MCP clients.
	Version string

	// Streams for the stdio transport and for log output.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Loaded controller configuration
	SDWANConfig *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, transport string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		Transport:  transport,
		Version:    "dev",
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}
