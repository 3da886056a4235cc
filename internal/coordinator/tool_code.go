package coordinator

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
)

// handleWriteCode implements the write_code tool. A submission flips
// validator_waiting; when a task is defined the observer evaluates it
// immediately, and an aligned + viable submission short-circuits to the
// accepted outcome without a review round-trip.
func (ms *MCPServer) handleWriteCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	ms.logCall(ctx, config.ToolWriteCode, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkWriterRole(state, callerID, config.ToolWriteCode); gerr != nil {
		return ms.reject(ctx, config.ToolWriteCode, gerr), nil
	}
	if gerr := checkCodeSubmission(state); gerr != nil {
		return ms.reject(ctx, config.ToolWriteCode, gerr), nil
	}

	state.CurrentCode = code
	state.ValidatorWaiting = true

	if err := ms.store.Append(state); err != nil {
		return nil, err
	}
	if err := ms.store.AppendEvent(config.ToolWriteCode, map[string]any{
		"description": description,
	}); err != nil {
		return nil, err
	}

	if state.Task != nil {
		alignment := ms.oracle.CheckAlignment(ctx, code, state.Task)
		viable := ms.oracle.CheckViable(code)

		if alignment.Aligned && viable {
			result := fmt.Sprintf(`CODE ACCEPTED

Description: %s

Observer verdict: ALIGNED and VIABLE
Reason: %s

Task complete. Code meets original user requirements.

Final code:
`+"```"+`
%s
`+"```"+`
`, description, alignment.Reason, code)
			return ms.succeed(ctx, config.ToolWriteCode, "accepted", result), nil
		}
	}

	result := fmt.Sprintf(`Code submitted: %s

**Validator**: Review this code against acceptance criteria.

Criteria:
%s

Code to review:
`+"```"+`
%s
`+"```"+`

Use review_code to provide feedback.
`, description, formatCriteria(state.Task), code)

	return ms.succeed(ctx, config.ToolWriteCode, "submitted", result), nil
}

// handleReviewCode implements the review_code tool. The review closes the
// outstanding submission; an approval triggers a confirming observer check
// whose failure signals the writer to revise.
func (ms *MCPServer) handleReviewCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	ms.logCall(ctx, config.ToolReviewCode, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkValidatorRole(state, callerID, config.ToolReviewCode); gerr != nil {
		return ms.reject(ctx, config.ToolReviewCode, gerr), nil
	}
	if gerr := checkCodeReview(state); gerr != nil {
		return ms.reject(ctx, config.ToolReviewCode, gerr), nil
	}

	state.ValidatorWaiting = false

	if err := ms.store.Append(state); err != nil {
		return nil, err
	}
	if err := ms.store.AppendEvent(config.ToolReviewCode, map[string]any{
		"approved": approved,
		"feedback": feedback,
	}); err != nil {
		return nil, err
	}

	if !approved {
		result := fmt.Sprintf(`Validator feedback: %s

**Writer**: Address this feedback and submit revised code with write_code.
`, feedback)
		return ms.succeed(ctx, config.ToolReviewCode, "changes requested", result), nil
	}

	result := fmt.Sprintf(`Validator approved.

Feedback: %s

Running final Observer check...
`, feedback)

	if state.CurrentCode != "" && state.Task != nil {
		alignment := ms.oracle.CheckAlignment(ctx, state.CurrentCode, state.Task)
		viable := ms.oracle.CheckViable(state.CurrentCode)

		if alignment.Aligned && viable {
			result += `
Observer verdict: ALIGNED and VIABLE

TASK COMPLETE.
`
		} else {
			result += fmt.Sprintf(`
Observer verdict: NOT ALIGNED
Reason: %s

**Writer**: Observer found issues. Please revise code.
`, alignment.Reason)
		}
	}

	return ms.succeed(ctx, config.ToolReviewCode, "approved", result), nil
}

// handleRequestJudgment implements the request_judgment tool: an objective
// observer opinion for an uncertain validator. No state change.
func (ms *MCPServer) handleRequestJudgment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	callerID := request.GetString("caller_id", "")

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logCall(ctx, config.ToolRequestJudgment, callerID)

	state, err := ms.loadState()
	if err != nil {
		return nil, err
	}

	if gerr := checkValidatorRole(state, callerID, config.ToolRequestJudgment); gerr != nil {
		return ms.reject(ctx, config.ToolRequestJudgment, gerr), nil
	}
	if state.Task == nil {
		return ms.reject(ctx, config.ToolRequestJudgment,
			guardErr(KindMissingArtifact, config.ErrNoCriteria)), nil
	}

	alignment := ms.oracle.CheckAlignment(ctx, code, state.Task)

	if err := ms.store.AppendEvent(config.ToolRequestJudgment, map[string]any{
		"question": question,
		"aligned":  alignment.Aligned,
		"reason":   alignment.Reason,
	}); err != nil {
		return nil, err
	}

	verdict := "NOT ALIGNED"
	if alignment.Aligned {
		verdict = "ALIGNED"
	}
	result := fmt.Sprintf(`Observer Judgment

Question: %s

Alignment Status: %s
Reasoning: %s

---
**Validator**: Use this objective assessment in your review.`, question, verdict, alignment.Reason)

	return ms.succeed(ctx, config.ToolRequestJudgment, "judged", result), nil
}
