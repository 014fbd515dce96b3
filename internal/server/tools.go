package server

import (
	"context"
	"encoding/json"
	"fmt"

	"sdwan-mcp/internal/api"
	"sdwan-mcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// buildServerTools converts the provider's catalogue into mcp-go server tools.
func buildServerTools(provider api.ToolProvider) []mcpserver.ServerTool {
	metas := provider.GetTools()
	tools := make([]mcpserver.ServerTool, 0, len(metas))
	for _, meta := range metas {
		tools = append(tools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        meta.Name,
				Description: meta.Description,
				InputSchema: convertToMCPSchema(meta.Args),
			},
			Handler: createToolHandler(provider, meta.Name),
		})
	}
	return tools
}

// createToolHandler wraps provider.ExecuteTool in an MCP handler.
func createToolHandler(provider api.ToolProvider, toolName string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = argsMap
			}
		}

		result, err := provider.ExecuteTool(ctx, toolName, args)
		if err != nil {
			logging.Error("MCPServer", err, "Tool execution failed for %s", toolName)
			return mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err)), nil
		}
		if result == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Tool %s returned no result", toolName)), nil
		}

		return convertToMCPResult(result), nil
	}
}

// convertToMCPSchema builds the JSON schema advertised for a tool's arguments.
func convertToMCPSchema(args []api.ArgMetadata) mcp.ToolInputSchema {
	properties := make(map[string]interface{}, len(args))
	required := []string{}

	for _, arg := range args {
		prop := map[string]interface{}{
			"type":        arg.Type,
			"description": arg.Description,
		}
		if arg.Default != nil {
			prop["default"] = arg.Default
		}
		if len(arg.Enum) > 0 {
			prop["enum"] = arg.Enum
		}
		properties[arg.Name] = prop

		if arg.Required {
			required = append(required, arg.Name)
		}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func convertToMCPResult(result *api.CallToolResult) *mcp.CallToolResult {
	mcpContent := make([]mcp.Content, len(result.Content))

	for i, content := range result.Content {
		if text, ok := content.(string); ok {
			mcpContent[i] = mcp.NewTextContent(text)
		} else {
			jsonBytes, _ := json.Marshal(content)
			mcpContent[i] = mcp.NewTextContent(string(jsonBytes))
		}
	}

	return &mcp.CallToolResult{
		Content: mcpContent,
		IsError: result.IsError,
	}
}
