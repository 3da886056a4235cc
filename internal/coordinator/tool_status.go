package coordinator

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

// handleGetTaskStatus implements the get_task_status tool: a read-only
// projection of the task with the next expected actor.
func (ms *MCPServer) handleGetTaskStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolGetTaskStatus, "")

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if state.Task == nil {
		return ms.succeed(ctx, config.ToolGetTaskStatus, "no task", config.MsgNoActiveTask), nil
	}

	codeStatus := "Not yet submitted"
	if state.CurrentCode != "" {
		codeStatus = "Present"
	}
	feedback := state.Feedback
	if feedback == "" {
		feedback = "None"
	}

	status := fmt.Sprintf(`Current task status:

Criteria: %s

Current code: %s
Latest feedback: %s

Next action:
`, formatCriteria(state.Task), codeStatus, feedback)

	switch {
	case state.CurrentCode == "":
		status += "**Writer**: Submit code with write_code"
	case state.Feedback == "":
		status += "**Validator**: Review code and provide feedback with review_code"
	default:
		status += "**Writer**: Address feedback and resubmit code"
	}

	return ms.succeed(ctx, config.ToolGetTaskStatus, "read", status), nil
}

// handleForceStop implements the force_stop tool: capture the best available
// code, log a terminal event, and reset the entire session state to its
// defaults. The only total-reset transition.
func (ms *MCPServer) handleForceStop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolForceStop, "")

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	bestCode := state.CurrentCode
	if bestCode == "" && len(state.Checkpoints) > 0 {
		bestCode = state.Checkpoints[len(state.Checkpoints)-1].Code
	}

	if err := ms.store.AppendEvent(config.ToolForceStop, map[string]any{
		"reason":     "User requested",
		"final_code": bestCode,
	}); err != nil {
		return nil, err
	}
	if err := ms.store.Append(types.DefaultState()); err != nil {
		return nil, err
	}

	codeBlock := bestCode
	if codeBlock == "" {
		codeBlock = "No code written yet"
	}

	result := fmt.Sprintf(`Emergency Stop - Session Cleared

Best current code:
`+"```"+`
%s
`+"```"+`

Checkpoints completed: %d
Plan approved: %s

**Session fully reset:** All agents unregistered, state cleared. Ready for new workflow.
`, codeBlock, len(state.Checkpoints), planApprovalLabel(state))

	return ms.succeed(ctx, config.ToolForceStop, "session reset", result), nil
}
