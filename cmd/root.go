package cmd

import (
	"errors"
	"os"

	"sdwan-mcp/internal/config"
	"sdwan-mcp/internal/controller"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates the configuration could not be loaded or is invalid.
	ExitCodeConfig = 2
	// ExitCodeAuthFailed indicates the controller rejected authentication.
	ExitCodeAuthFailed = 3
)

var (
	// configPath is the optional YAML or TOML configuration file.
	configPath string
	// debug forces debug logging.
	debug bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sdwan-mcp",
	Short: "MCP gateway for SD-WAN controller monitoring",
	Long: `sdwan-mcp exposes an SD-WAN controller's monitoring API to AI assistants
through the Model Context Protocol.

It keeps one authenticated controller session (session cookie plus CSRF token),
re-authenticates transparently when the controller rejects it, and offers
basic data tools as well as analytics such as health summaries, top
interfaces, BFD health, alerts and network reports.

Configuration is read from defaults, an optional --config file (YAML or TOML)
and environment variables (SDWAN_BASE_URL, SDWAN_USERNAME, SDWAN_PASSWORD, ...).`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "sdwan-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps an error to a semantic exit code for scripting.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if _, ok := controller.AsAuthError(err); ok {
		return ExitCodeAuthFailed
	}
	if reqErr, ok := controller.AsRequestError(err); ok && reqErr.Cause == controller.CauseAuth {
		return ExitCodeAuthFailed
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeConfig
	}
	var validationErr config.ValidationError
	if errors.As(err, &validationErr) {
		return ExitCodeConfig
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or TOML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(consoleCmd)
}
