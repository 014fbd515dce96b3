package logging

import (
	"context"
	"log/slog"
)

// AuditEvent describes a security relevant action against the controller.
type AuditEvent struct {
	// Action is what happened, e.g. "login", "token_fetch", "logout", "reauth".
	Action string
	// Outcome is "success" or "failure".
	Outcome string
	// SessionID is an already truncated session identifier (see TruncateSessionID).
	SessionID string
	// User is the controller account name.
	User string
	// Target is the controller base URL.
	Target string
	// Error carries the failure reason when Outcome is "failure".
	Error string
}

// sessionIDPrefixLen matches the number of characters shown by get_session_status.
const sessionIDPrefixLen = 20

// TruncateSessionID shortens a session identifier so it can be logged or returned
// to a caller without exposing the full cookie value.
func TruncateSessionID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= sessionIDPrefixLen {
		return id[:len(id)/2] + "..."
	}
	return id[:sessionIDPrefixLen] + "..."
}

// Audit logs an audit event at INFO level with an [AUDIT] prefix.
func Audit(event AuditEvent) {
	logger := Logger()
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		return
	}

	attrs := []slog.Attr{
		slog.String("subsystem", "Audit"),
		slog.String("action", event.Action),
		slog.String("outcome", event.Outcome),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session", event.SessionID))
	}
	if event.User != "" {
		attrs = append(attrs, slog.String("user", event.User))
	}
	if event.Target != "" {
		attrs = append(attrs, slog.String("target", event.Target))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	logger.LogAttrs(context.Background(), slog.LevelInfo, "[AUDIT] "+event.Action, attrs...)
}
