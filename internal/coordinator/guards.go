package coordinator

import (
	"fmt"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

// checkWriterRole gates a tool to the registered writer. An empty callerID
// skips the identity comparison: the system trusts self-identification when
// no token is given. Known weak point, preserved deliberately.
func checkWriterRole(state types.State, callerID, toolName string) *GuardError {
	if state.WriterID == "" {
		return guardErr(KindRoleNotRegistered, fmt.Sprintf(config.ErrNoWriterRegistered, toolName))
	}
	if callerID != "" && callerID != state.WriterID {
		return guardErr(KindWrongCaller, fmt.Sprintf(config.ErrNotWriter, toolName))
	}
	return nil
}

// checkValidatorRole gates a tool to the registered validator; same soft
// enforcement as checkWriterRole.
func checkValidatorRole(state types.State, callerID, toolName string) *GuardError {
	if state.ValidatorID == "" {
		return guardErr(KindRoleNotRegistered, fmt.Sprintf(config.ErrNoValidatorRegistered, toolName))
	}
	if callerID != "" && callerID != state.ValidatorID {
		return guardErr(KindWrongCaller, fmt.Sprintf(config.ErrNotValidator, toolName))
	}
	return nil
}

// checkRegistration validates a register_agent request against the current
// state: first registration wins, and the validator may only join once a
// writer is present.
func checkRegistration(state types.State, role string) *GuardError {
	switch role {
	case config.RoleWriter:
		if state.WriterID != "" {
			return guardErr(KindRoleAlreadyTaken, fmt.Sprintf(config.ErrWriterTaken, state.WriterID))
		}
	case config.RoleValidator:
		if state.ValidatorID != "" {
			return guardErr(KindRoleAlreadyTaken, fmt.Sprintf(config.ErrValidatorTaken, state.ValidatorID))
		}
		if state.WriterID == "" {
			return guardErr(KindOutOfOrderRegistration, config.ErrValidatorBeforeWriter)
		}
	default:
		return guardErr(KindUnknownRole, fmt.Sprintf(config.ErrUnknownRole, role))
	}
	return nil
}

// checkPlanSubmission enforces the tri-state plan protocol: resubmission is
// only legal when the prior decision was rejected or never made, and never
// while a plan awaits review.
func checkPlanSubmission(state types.State) *GuardError {
	if state.PlanApproval == types.ApprovalApproved {
		return guardErr(KindPlanStateConflict, config.ErrPlanAlreadyApproved)
	}
	if state.ImplementationPlan != "" && state.PlanApproval != types.ApprovalRejected {
		return guardErr(KindPlanStateConflict, config.ErrPlanPendingReview)
	}
	return nil
}

// checkPlanDecision enforces that a decision lands on exactly one submitted,
// undecided plan.
func checkPlanDecision(state types.State) *GuardError {
	if state.ImplementationPlan == "" {
		return guardErr(KindMissingArtifact, config.ErrNoPlanSubmitted)
	}
	if state.PlanApproval.Decided() {
		status := "rejected"
		corrective := "submit revised plan"
		if state.PlanApproval == types.ApprovalApproved {
			status = "approved"
			corrective = "proceed with implementation"
		}
		return guardErr(KindApprovalAlreadyDecided,
			fmt.Sprintf(config.ErrPlanAlreadyDecided, status, status, corrective))
	}
	return nil
}

// checkCheckpoint enforces plan approval and the numbering bounds
// 1 <= number <= total, total >= 1.
func checkCheckpoint(state types.State, number, total int) *GuardError {
	if state.PlanApproval != types.ApprovalApproved {
		return guardErr(KindPlanStateConflict, config.ErrCheckpointWithoutPlan)
	}
	if number < 1 {
		return guardErr(KindBoundsViolation, fmt.Sprintf(config.ErrCheckpointNumberLow, number))
	}
	if total < 1 {
		return guardErr(KindBoundsViolation, fmt.Sprintf(config.ErrCheckpointTotalLow, total))
	}
	if number > total {
		return guardErr(KindBoundsViolation, fmt.Sprintf(config.ErrCheckpointNumberHigh, number, total))
	}
	return nil
}

// checkCodeSubmission holds the write/review alternation: at most one
// outstanding submission.
func checkCodeSubmission(state types.State) *GuardError {
	if state.ValidatorWaiting {
		return guardErr(KindPendingReviewConflict, config.ErrCodePendingReview)
	}
	return nil
}

// checkCodeReview requires a submission that has not already been reviewed.
func checkCodeReview(state types.State) *GuardError {
	if state.CurrentCode == "" {
		return guardErr(KindNoCodeToReview, config.ErrNoCodeToReview)
	}
	if !state.ValidatorWaiting {
		return guardErr(KindPendingReviewConflict, config.ErrCodeAlreadyReviewed)
	}
	return nil
}
