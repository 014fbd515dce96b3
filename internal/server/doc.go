// Package server exposes the SD-WAN tool catalogue over the Model Context Protocol.
//
// It registers every tool from an api.ToolProvider with an mcp-go server and
// serves it on one of three transports:
//
//   - stdio: JSON-RPC over the process's standard input and output (default)
//   - streamable-http: the MCP streamable HTTP transport on host:port
//   - sse: Server-Sent Events with /sse and /message endpoints
//
// Tool results are always text content holding the JSON envelope produced by
// the provider. Unknown tools and provider failures surface as MCP error
// results rather than protocol errors.
package server
