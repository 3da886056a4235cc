package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

// Handlers below follow one shape: lock the session critical section, replay
// the latest state, run guards, apply the effect, append the successor
// snapshot, then log the audit event. Guard failures come back to the caller
// as tool result errors; storage I/O failures propagate as Go errors and are
// surfaced verbatim.

// loadState replays the session's latest state. Callers hold ms.mu.
func (ms *MCPServer) loadState() (types.State, error) {
	state, err := ms.store.ReplayLatestState()
	if err != nil {
		return types.State{}, fmt.Errorf("load session state: %w", err)
	}
	return state, nil
}

// logCall records the invocation in the audit logger.
func (ms *MCPServer) logCall(ctx context.Context, toolName, callerID string) {
	ms.auditLogger.LogToolCall(ctx, &AuditEntry{
		SessionID: ms.store.SessionID(),
		CallerID:  callerID,
		ToolName:  toolName,
	})
}

// reject logs and converts a guard failure into a tool error result.
func (ms *MCPServer) reject(ctx context.Context, toolName string, gerr *GuardError) *mcp.CallToolResult {
	ms.auditLogger.LogToolResult(ctx, &AuditEntry{
		SessionID: ms.store.SessionID(),
		ToolName:  toolName,
		GuardKind: gerr.Kind,
		ErrorMsg:  gerr.Message,
	})
	return mcp.NewToolResultError(gerr.Message)
}

// succeed logs a completed transition and wraps the response text.
func (ms *MCPServer) succeed(ctx context.Context, toolName, outcome, text string) *mcp.CallToolResult {
	ms.auditLogger.LogToolResult(ctx, &AuditEntry{
		SessionID: ms.store.SessionID(),
		ToolName:  toolName,
		Outcome:   outcome,
	})
	return mcp.NewToolResultText(text)
}

// formatCriteria renders acceptance criteria for agent-facing responses.
func formatCriteria(criteria *types.Criteria) string {
	if criteria == nil {
		return "No criteria"
	}
	return fmt.Sprintf(`
- Requirements: %s
- Forbidden: %s
- Minimum Viable: %s
- Success: %s
`,
		strings.Join(criteria.Requirements, ", "),
		strings.Join(criteria.Forbidden, ", "),
		criteria.MinimumViable,
		criteria.SuccessCriteria,
	)
}

// truncateCode shortens long code blobs for inline display.
func truncateCode(code string, max int) string {
	if len(code) <= max {
		return code
	}
	return code[:max] + "..."
}

// planApprovalLabel renders the tri-state decision for projections.
func planApprovalLabel(state types.State) string {
	switch state.PlanApproval {
	case types.ApprovalApproved:
		return "approved"
	case types.ApprovalRejected:
		return "rejected"
	default:
		return "unset"
	}
}

// yesNo renders presence checks in state projections.
func yesNo(present bool) string {
	if present {
		return "Yes"
	}
	return "No"
}
