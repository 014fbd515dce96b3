package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sdwan-mcp/pkg/logging"
)

const logoutTimeout = 5 * time.Second

// runServer authenticates once, serves MCP and shuts down on signal.
func runServer(ctx context.Context, cfg *Config, services *Services) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startupAuth(ctx, services)

	if services.Watcher != nil {
		if err := services.Watcher.Start(); err != nil {
			logging.Warn("App", "Config file watching disabled: %v", err)
		} else {
			defer services.Watcher.Stop()
		}
	}

	if err := services.Server.Start(ctx); err != nil {
		logging.Error("App", err, "Failed to start MCP server")
		return err
	}
	logging.Info("App", "sdwan-mcp %s serving on %s transport", cfg.Version, cfg.SDWANConfig.Server.Transport)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case sig := <-sigChan:
		logging.Info("App", "Received %s, shutting down", sig)
	case <-ctx.Done():
		logging.Info("App", "Context cancelled, shutting down")
	case err, ok := <-services.Server.Done():
		if ok && err != nil {
			serveErr = err
		}
		logging.Info("App", "MCP transport closed, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer shutdownCancel()

	if err := services.Server.Stop(shutdownCtx); err != nil {
		logging.Warn("App", "Error stopping MCP server: %v", err)
	}
	if err := services.Client.Sessions().Logout(shutdownCtx); err != nil {
		logging.Warn("App", "Logout failed: %v", err)
	}

	return serveErr
}

// startupAuth makes one login attempt so the first tool call is fast.
// Tools log in lazily, so failure here is not fatal.
func startupAuth(ctx context.Context, services *Services) {
	if _, err := services.Client.Sessions().Authenticate(ctx); err != nil {
		logging.Warn("App", "Initial authentication failed, tools will retry on demand: %v", err)
		return
	}
	logging.Info("App", "Authenticated with controller %s", services.Client.BaseURL())
}
