// Package logging provides the structured logger used across sdwan-mcp.
//
// It is a thin layer over log/slog that tags every entry with a subsystem
// name so output can be filtered per component:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Starting SD-WAN MCP server")
//	logging.Debug("Controller", "GET %s", path)
//	logging.Warn("Session", "Session expired, re-authenticating")
//	logging.Error("Tools", err, "Tool %s failed", name)
//
// # Subsystems
//
//   - Bootstrap: process startup and shutdown
//   - Config: configuration loading and reloads
//   - Session: controller login, token fetch, logout
//   - Controller: outbound requests to the controller REST API
//   - Tools: tool dispatch
//   - Server: MCP transport lifecycle
//
// When the MCP server runs over stdio, stdout carries the protocol stream, so
// the logger must be initialised with os.Stderr.
//
// # Audit Logging
//
// Authentication outcomes are recorded as audit events:
//
//	logging.Audit(logging.AuditEvent{
//	    Action:    "login",
//	    Outcome:   "success",
//	    SessionID: logging.TruncateSessionID(sessionID),
//	    Target:    baseURL,
//	})
//
// Audit events are logged at INFO level with an [AUDIT] prefix. Credentials
// are never part of an audit event.
package logging
