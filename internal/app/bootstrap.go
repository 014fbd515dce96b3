package app

import (
	"context"
	"fmt"

	"sdwan-mcp/internal/config"
	"sdwan-mcp/pkg/logging"
)

// Application wires configuration, the controller client and the MCP server together.
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration, configures logging and initializes services.
// Nothing talks to the controller until Run.
func NewApplication(cfg *Config) (*Application, error) {
	// Log to stderr until the configured level is known.
	initLogging(cfg, logging.LevelInfo)

	sdwanCfg, err := config.LoadConfig(cfg.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration")
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Transport != "" {
		if err := config.ValidateOneOf("server.transport", cfg.Transport, []string{
			config.MCPTransportStdio, config.MCPTransportStreamableHTTP, config.MCPTransportSSE,
		}); err != nil {
			return nil, err
		}
		sdwanCfg.Server.Transport = cfg.Transport
	}
	cfg.SDWANConfig = sdwanCfg

	level, _ := logging.ParseLevel(sdwanCfg.LogLevel)
	initLogging(cfg, level)
	logging.Debug("Bootstrap", "Loaded %s", sdwanCfg)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves MCP until a signal, ctx cancellation or the transport closing.
func (a *Application) Run(ctx context.Context) error {
	return runServer(ctx, a.config, a.services)
}

func initLogging(cfg *Config, level logging.LogLevel) {
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, cfg.Stderr)
}
