package app

import (
	"fmt"

	"sdwan-mcp/internal/config"
	"sdwan-mcp/internal/controller"
	"sdwan-mcp/internal/server"
	"sdwan-mcp/internal/tools"
	"sdwan-mcp/pkg/logging"
)

// Services holds the long-lived components of a running application.
type Services struct {
	Client   *controller.Client
	Provider *tools.Provider
	Server   *server.MCPServer
	Watcher  *config.Watcher
}

// InitializeServices builds the controller client, tool provider and MCP server
// from cfg.SDWANConfig.
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.SDWANConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	sdwanCfg := cfg.SDWANConfig

	client := controller.NewClient(sdwanCfg)
	provider := tools.NewProvider(client, sdwanCfg)
	mcpServer := server.New(provider, sdwanCfg.Server, cfg.Version, server.WithStdio(cfg.Stdin, cfg.Stdout))

	services := &Services{
		Client:   client,
		Provider: provider,
		Server:   mcpServer,
	}

	if cfg.ConfigPath != "" {
		services.Watcher = config.NewWatcher(cfg.ConfigPath, services.applyConfigChange)
	}

	logging.Info("Services", "Initialized %d tools for controller %s", len(provider.GetTools()), client.BaseURL())
	return services, nil
}

// applyConfigChange hands reloaded credentials to the session manager.
// Other settings only take effect on restart.
func (s *Services) applyConfigChange(cfg *config.Config) {
	s.Client.Sessions().SetCredentials(controller.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
	})
}
