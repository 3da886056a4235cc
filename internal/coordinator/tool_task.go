package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

// handleStartTask implements the start_task tool: the observer decomposes
// the user's request into acceptance criteria that anchor the session.
// A repeated call overwrites the task; redo support, not guarded.
func (ms *MCPServer) handleStartTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userPrompt, err := request.RequireString("user_prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	callerID := request.GetString("caller_id", "")

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolStartTask, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkWriterRole(state, callerID, config.ToolStartTask); gerr != nil {
		return ms.reject(ctx, config.ToolStartTask, gerr), nil
	}

	criteria := ms.oracle.Decompose(ctx, userPrompt)
	state.Task = &criteria

	if err := ms.store.Append(state); err != nil {
		return nil, err
	}
	if err := ms.store.AppendEvent(config.ToolStartTask, map[string]any{
		"user_prompt": userPrompt,
		"criteria":    criteria,
	}); err != nil {
		return nil, err
	}

	result := fmt.Sprintf(`Task Decomposed by Observer

ACCEPTANCE CRITERIA:
Requirements: %s
Forbidden: %s
Minimum Viable: %s
Success Criteria: %s

---
**Writer**: Create implementation plan based on these criteria. Use submit_plan when ready.
**Validator**: Wait for Writer's plan submission.
`,
		strings.Join(criteria.Requirements, ", "),
		strings.Join(criteria.Forbidden, ", "),
		criteria.MinimumViable,
		criteria.SuccessCriteria,
	)

	return ms.succeed(ctx, config.ToolStartTask, "task decomposed", result), nil
}

// handleSubmitPlan implements the submit_plan tool. Resubmission is legal
// only when the prior decision was rejected or never made; a fresh
// submission returns the decision to unset.
func (ms *MCPServer) handleSubmitPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := request.RequireString("plan")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	callerID := request.GetString("caller_id", "")

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolSubmitPlan, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkWriterRole(state, callerID, config.ToolSubmitPlan); gerr != nil {
		return ms.reject(ctx, config.ToolSubmitPlan, gerr), nil
	}
	if gerr := checkPlanSubmission(state); gerr != nil {
		return ms.reject(ctx, config.ToolSubmitPlan, gerr), nil
	}

	state.ImplementationPlan = plan
	state.PlanApproval = types.ApprovalUnset

	if err := ms.store.Append(state); err != nil {
		return nil, err
	}
	if err := ms.store.AppendEvent(config.ToolSubmitPlan, map[string]any{
		"plan": plan,
	}); err != nil {
		return nil, err
	}

	result := fmt.Sprintf(`Implementation Plan Submitted

Plan:
%s

---
**Validator**: Review this plan against acceptance criteria. Call approve_plan with your decision.`, plan)

	return ms.succeed(ctx, config.ToolSubmitPlan, "plan submitted", result), nil
}

// handleApprovePlan implements the approve_plan tool: one decision per
// submitted plan, never changed once recorded.
func (ms *MCPServer) handleApprovePlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	approved, err := request.RequireBool("approved")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	feedback, err := request.RequireString("feedback")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	callerID := request.GetString("caller_id", "")

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolApprovePlan, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkValidatorRole(state, callerID, config.ToolApprovePlan); gerr != nil {
		return ms.reject(ctx, config.ToolApprovePlan, gerr), nil
	}
	if gerr := checkPlanDecision(state); gerr != nil {
		return ms.reject(ctx, config.ToolApprovePlan, gerr), nil
	}

	if approved {
		state.PlanApproval = types.ApprovalApproved
	} else {
		state.PlanApproval = types.ApprovalRejected
	}
	state.Feedback = feedback

	if err := ms.store.Append(state); err != nil {
		return nil, err
	}
	if err := ms.store.AppendEvent(config.ToolApprovePlan, map[string]any{
		"approved": approved,
		"feedback": feedback,
	}); err != nil {
		return nil, err
	}

	if approved {
		result := fmt.Sprintf(`Plan Approved

%s

---
**Writer**: Plan approved. Begin implementation. Report checkpoints using report_checkpoint.`, feedback)
		return ms.succeed(ctx, config.ToolApprovePlan, "plan approved", result), nil
	}

	result := fmt.Sprintf(`Plan Rejected

%s

---
**Writer**: Plan rejected. Revise plan and resubmit with submit_plan.`, feedback)
	return ms.succeed(ctx, config.ToolApprovePlan, "plan rejected", result), nil
}
