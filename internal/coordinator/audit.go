package coordinator

import (
	"context"
	"log/slog"
	"time"
)

// AuditEntry represents a logged event for provenance tracking
type AuditEntry struct {
	Timestamp time.Time
	SessionID string
	CallerID  string
	ToolName  string
	Arguments map[string]any
	Outcome   string
	GuardKind GuardKind
	ErrorMsg  string
}

// AuditLogger handles audit logging for MCP tool calls
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogToolCall logs a tool invocation with all relevant context
func (al *AuditLogger) LogToolCall(ctx context.Context, entry *AuditEntry) {
	al.logger.InfoContext(ctx, "tool_call",
		"session_id", entry.SessionID,
		"caller_id", entry.CallerID,
		"tool_name", entry.ToolName,
	)
}

// LogToolResult logs a tool outcome: either a completed transition or a
// rejected precondition.
func (al *AuditLogger) LogToolResult(ctx context.Context, entry *AuditEntry) {
	if entry.ErrorMsg != "" {
		al.logger.ErrorContext(ctx, "tool_error",
			"session_id", entry.SessionID,
			"tool_name", entry.ToolName,
			"guard_kind", string(entry.GuardKind),
			"error", entry.ErrorMsg,
		)
		return
	}
	al.logger.InfoContext(ctx, "tool_result",
		"session_id", entry.SessionID,
		"tool_name", entry.ToolName,
		"outcome", entry.Outcome,
	)
}
