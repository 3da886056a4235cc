package coordinator

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
)

// handleFetchState implements the fetch_state tool: a read-only projection
// of the current workflow state so a joining chat can pick an open role.
func (ms *MCPServer) handleFetchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolFetchState, "")

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	writerID := state.WriterID
	if writerID == "" {
		writerID = "None"
	}
	validatorID := state.ValidatorID
	if validatorID == "" {
		validatorID = "None"
	}

	result := fmt.Sprintf(`Current Workflow State

**Agents:**
- Writer ID: %s
- Writer Ready: %t
- Validator ID: %s
- Validator Ready: %t

**Task Status:**
- Task Defined: %s
- Plan Submitted: %s
- Plan Approved: %s
- Checkpoints: %d

**Next Action:**
- Writer available: %t
- Validator available: %t
`,
		writerID, state.WriterReady,
		validatorID, state.ValidatorReady,
		yesNo(state.Task != nil),
		yesNo(state.ImplementationPlan != ""),
		planApprovalLabel(state),
		len(state.Checkpoints),
		state.WriterID == "",
		state.ValidatorID == "",
	)

	return ms.succeed(ctx, config.ToolFetchState, "read", result), nil
}

// handleRegisterAgent implements the register_agent tool. First registration
// wins a role slot forever (until force_stop); the validator may only join
// after the writer.
func (ms *MCPServer) handleRegisterAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	role, err := request.RequireString("role")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolRegisterAgent, sessionID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkRegistration(state, role); gerr != nil {
		return ms.reject(ctx, config.ToolRegisterAgent, gerr), nil
	}

	var confirmation string
	switch role {
	case config.RoleWriter:
		state.WriterID = sessionID
		state.WriterReady = true
		confirmation = fmt.Sprintf(config.MsgWriterRegistered, sessionID)
	case config.RoleValidator:
		state.ValidatorID = sessionID
		state.ValidatorReady = true
		confirmation = fmt.Sprintf(config.MsgValidatorRegistered, sessionID)
	}

	if err := ms.store.Append(state); err != nil {
		return nil, err
	}
	if err := ms.store.AppendEvent(config.ToolRegisterAgent, map[string]any{
		"role":       role,
		"session_id": sessionID,
	}); err != nil {
		return nil, err
	}

	return ms.succeed(ctx, config.ToolRegisterAgent, role+" registered", confirmation), nil
}

// handleAnnounceReady implements the announce_ready tool. Logs a readiness
// event; no state change.
func (ms *MCPServer) handleAnnounceReady(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	callerID := request.GetString("caller_id", "")

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolAnnounceReady, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkValidatorRole(state, callerID, config.ToolAnnounceReady); gerr != nil {
		return ms.reject(ctx, config.ToolAnnounceReady, gerr), nil
	}
	if !state.WriterReady {
		return ms.succeed(ctx, config.ToolAnnounceReady, "waiting", config.ErrWriterNotReady), nil
	}

	if err := ms.store.AppendEvent(config.ToolAnnounceReady, map[string]any{
		"validator_id": state.ValidatorID,
	}); err != nil {
		return nil, err
	}

	return ms.succeed(ctx, config.ToolAnnounceReady, "ready", config.MsgValidatorReady), nil
}

// handleAcknowledgeTask implements the acknowledge_task tool. Logs the
// writer's acknowledgment; no state change.
func (ms *MCPServer) handleAcknowledgeTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	callerID := request.GetString("caller_id", "")

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolAcknowledgeTask, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkWriterRole(state, callerID, config.ToolAcknowledgeTask); gerr != nil {
		return ms.reject(ctx, config.ToolAcknowledgeTask, gerr), nil
	}
	if !state.ValidatorReady {
		return ms.succeed(ctx, config.ToolAcknowledgeTask, "waiting", config.ErrValidatorNotReady), nil
	}

	if err := ms.store.AppendEvent(config.ToolAcknowledgeTask, map[string]any{
		"writer_id": state.WriterID,
	}); err != nil {
		return nil, err
	}

	return ms.succeed(ctx, config.ToolAcknowledgeTask, "acknowledged", config.MsgTaskAcknowledged), nil
}
