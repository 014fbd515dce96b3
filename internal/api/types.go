package api

import (
	"context"
)

// CallToolResult represents the result of a tool call
type CallToolResult struct {
	Content []interface{} `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ToolMetadata describes a tool that can be exposed
type ToolMetadata struct {
	Name        string
	Description string
	Args        []ArgMetadata
}

// ArgMetadata describes a tool argument
type ArgMetadata struct {
	Name        string
	Type        string // "string", "number", "integer", "boolean", "object"
	Required    bool
	Description string
	Default     interface{}
	// Enum restricts string arguments to a fixed set of values.
	Enum []string
}

// ToolProvider is implemented by components that expose tools.
type ToolProvider interface {
	// Returns all tools this provider offers
	GetTools() []ToolMetadata

	// Executes a tool by name
	ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error)
}
