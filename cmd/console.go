package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sdwan-mcp/internal/api"
	"sdwan-mcp/internal/tools"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// consoleCmd runs tools interactively against the controller.
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for running tools",
	Long: `Opens an interactive console that runs tools directly against the
controller, without an MCP client.

Each line is a tool name optionally followed by a JSON object of arguments:

  get_fabric_devices
  get_bfd_sessions {"device_id": "10.10.1.11"}
  get_top_interfaces_by_traffic {"limit": 5, "metric": "tx_mbps"}

Type 'help' to list tools and 'exit' or Ctrl+D to quit. The session is
logged out on exit.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	provider := tools.NewProvider(client, cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if err := client.Sessions().Logout(context.Background()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "logout failed: %v\n", err)
		}
	}()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "sdwan> ",
		HistoryFile:       filepath.Join(os.TempDir(), ".sdwan_mcp_history"),
		AutoComplete:      consoleCompleter(provider.GetTools()),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	fmt.Fprintf(out, "Connected to %s. Type 'help' for available tools.\n", client.BaseURL())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		if quit := runConsoleLine(ctx, provider, strings.TrimSpace(line), out); quit {
			return nil
		}
	}
}

// runConsoleLine executes one console line and reports whether the console should exit.
func runConsoleLine(ctx context.Context, provider api.ToolProvider, line string, out io.Writer) bool {
	switch line {
	case "":
		return false
	case "exit", "quit":
		return true
	case "help", "?":
		renderToolTable(out, provider.GetTools())
		return false
	}

	name, args, err := parseConsoleLine(line)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", text.FgRed.Sprint("Error:"), err)
		return false
	}

	result, err := provider.ExecuteTool(ctx, name, args)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", text.FgRed.Sprint("Error:"), err)
		return false
	}
	for _, content := range result.Content {
		if s, ok := content.(string); ok {
			fmt.Fprintln(out, s)
		}
	}
	if result.IsError {
		fmt.Fprintln(out, text.FgRed.Sprint("Tool returned an error"))
	}
	return false
}

// parseConsoleLine splits "tool {json}" into the tool name and its arguments.
func parseConsoleLine(line string) (string, map[string]interface{}, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	args := map[string]interface{}{}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return name, args, nil
	}
	if err := json.Unmarshal([]byte(rest), &args); err != nil {
		return "", nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return name, args, nil
}

func consoleCompleter(metas []api.ToolMetadata) *readline.PrefixCompleter {
	names := make([]string, 0, len(metas)+2)
	for _, meta := range metas {
		names = append(names, meta.Name)
	}
	names = append(names, "help", "exit")
	sort.Strings(names)

	items := make([]readline.PrefixCompleterInterface, 0, len(names))
	for _, name := range names {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}
