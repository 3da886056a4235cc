package coordinator

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

const checkpointCodePreview = 500

// handleReportCheckpoint implements the report_checkpoint tool. Checkpoints
// append to state and each one also lands as its own immutable artifact in
// the checkpoint store.
func (ms *MCPServer) handleReportCheckpoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := request.RequireInt("checkpoint_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	total, err := request.RequireInt("total_checkpoints")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	callerID := request.GetString("caller_id", "")

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolReportCheckpoint, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkWriterRole(state, callerID, config.ToolReportCheckpoint); gerr != nil {
		return ms.reject(ctx, config.ToolReportCheckpoint, gerr), nil
	}
	if gerr := checkCheckpoint(state, number, total); gerr != nil {
		return ms.reject(ctx, config.ToolReportCheckpoint, gerr), nil
	}

	checkpoint := types.Checkpoint{
		Number:      number,
		Total:       total,
		Code:        code,
		Description: description,
	}
	state.Checkpoints = append(state.Checkpoints, checkpoint)

	if err := ms.store.Append(state); err != nil {
		return nil, err
	}
	if err := ms.store.WriteCheckpoint(checkpoint); err != nil {
		return nil, err
	}
	if err := ms.store.AppendEvent(config.ToolReportCheckpoint, map[string]any{
		"number":      number,
		"total":       total,
		"description": description,
	}); err != nil {
		return nil, err
	}

	result := fmt.Sprintf(`Checkpoint %d/%d Completed

Description: %s

Code:
`+"```"+`
%s
`+"```"+`

---
**Validator**: Review this checkpoint. Call review_code with feedback or use request_judgment if uncertain.`,
		number, total, description, truncateCode(code, checkpointCodePreview))

	return ms.succeed(ctx, config.ToolReportCheckpoint,
		fmt.Sprintf("checkpoint %d/%d", number, total), result), nil
}
