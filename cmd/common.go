package cmd

import (
	"io"

	"sdwan-mcp/internal/config"
	"sdwan-mcp/internal/controller"
	"sdwan-mcp/pkg/logging"
)

// loadClient loads configuration and builds a controller client for the
// one-shot commands. Their logs go to errOut and stay quiet unless --debug.
func loadClient(errOut io.Writer) (*config.Config, *controller.Client, error) {
	level := logging.LevelWarn
	if debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, errOut)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, controller.NewClient(cfg), nil
}
