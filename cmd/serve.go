package cmd

import (
	"context"
	"fmt"

	"sdwan-mcp/internal/app"

	"github.com/spf13/cobra"
)

// serveTransport overrides server.transport from the configuration.
var serveTransport string

// serveCmd starts the MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the MCP server and exposes the SD-WAN tools to MCP clients.

The server makes one authentication attempt at startup. If it fails the
server still starts and tools authenticate on first use. Logs go to stderr
so the stdio transport stays clean.

Transports:
  stdio            JSON-RPC over stdin/stdout (default)
  streamable-http  MCP streamable HTTP on server.host:server.port
  sse              Server-Sent Events on server.host:server.port

On SIGINT or SIGTERM the server stops and logs out of the controller.
When the config file changes, new credentials are applied to the session.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(debug, configPath, serveTransport)
	cfg.Version = GetVersion()
	cfg.Stderr = cmd.ErrOrStderr()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	serveCmd.Flags().StringVarP(&serveTransport, "transport", "t", "", "MCP transport: stdio, streamable-http or sse (overrides config)")
}
