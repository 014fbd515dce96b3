// Package tools exposes the controller and analytics operations as MCP tools.
//
// Provider implements api.ToolProvider. Every tool validates its arguments
// before touching the network and answers with a JSON envelope:
//
//	{"status": "success", "tool": "...", "data": ...}
//	{"status": "error", "tool": "...", "error": {"kind": "...", ...}, "message": "..."}
//
// Error envelopes are returned with IsError set. Only unknown tool names are
// reported as Go errors.
package tools
