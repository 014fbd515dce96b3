// Package app bootstraps and runs the sdwan-mcp server.
//
// The bootstrap sequence is:
//
//  1. Load configuration (defaults, optional YAML/TOML file, environment)
//  2. Initialize logging on stderr so the stdio transport stays clean
//  3. Build the controller client, the tool provider and the MCP server
//  4. Attempt one authentication against the controller; failure is logged, not fatal
//  5. Watch the config file, if any, and apply credential changes to the session
//  6. Serve until SIGINT/SIGTERM, context cancellation or the transport closing
//  7. Stop the server and log out of the controller
//
// Example:
//
//	cfg := app.NewConfig(false, "/etc/sdwan-mcp/config.yaml", "")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
package app
