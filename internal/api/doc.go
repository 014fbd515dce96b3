// Package api defines the types shared between the tool dispatcher and the
// MCP server layer.
//
// Tool providers describe their tools with ToolMetadata and return
// CallToolResult values; the server package converts both into mcp-go types.
// Keeping these types free of any transport dependency lets the dispatcher be
// exercised directly from tests and from the interactive console.
package api
