package cmd

import (
	"io"
	"strings"

	"sdwan-mcp/internal/api"
	"sdwan-mcp/internal/config"
	"sdwan-mcp/internal/controller"
	"sdwan-mcp/internal/tools"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// toolsCmd prints the tool catalogue. It needs no controller.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools offered by the server",
	Long: `Lists every tool with its arguments. Required arguments are marked
with an asterisk. No controller connection is made.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetDefaultConfig()
		provider := tools.NewProvider(controller.NewClient(&cfg), &cfg)
		renderToolTable(cmd.OutOrStdout(), provider.GetTools())
		return nil
	},
}

func renderToolTable(out io.Writer, metas []api.ToolMetadata) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Tool", "Arguments", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60},
	})
	for _, meta := range metas {
		t.AppendRow(table.Row{text.Bold.Sprint(meta.Name), formatArgs(meta.Args), meta.Description})
	}
	t.SetCaption("%d tools", len(metas))
	t.Render()
}

func formatArgs(args []api.ArgMetadata) string {
	if len(args) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		name := arg.Name
		if arg.Required {
			name += "*"
		}
		parts = append(parts, name+" ("+arg.Type+")")
	}
	return strings.Join(parts, "\n")
}
