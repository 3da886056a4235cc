package coordinator

// GuardKind classifies a rejected transition. Kinds are stable identifiers
// for tests and audit records; the human-actionable text lives in Message.
type GuardKind string

const (
	// KindRoleNotRegistered means the required role has no registered agent.
	KindRoleNotRegistered GuardKind = "role_not_registered"
	// KindWrongCaller means the caller's identity differs from the registered agent.
	KindWrongCaller GuardKind = "wrong_caller"
	// KindRoleAlreadyTaken means the role slot is already filled.
	KindRoleAlreadyTaken GuardKind = "role_already_taken"
	// KindOutOfOrderRegistration means the validator tried to register before the writer.
	KindOutOfOrderRegistration GuardKind = "out_of_order_registration"
	// KindPlanStateConflict means a plan was resubmitted while approved or pending.
	KindPlanStateConflict GuardKind = "plan_state_conflict"
	// KindApprovalAlreadyDecided means the plan decision was already recorded.
	KindApprovalAlreadyDecided GuardKind = "approval_already_decided"
	// KindMissingArtifact means the operation has no plan, code, or criteria to act on.
	KindMissingArtifact GuardKind = "missing_precondition_artifact"
	// KindBoundsViolation means checkpoint numbering is out of range.
	KindBoundsViolation GuardKind = "bounds_violation"
	// KindPendingReviewConflict means code was submitted while a review is outstanding.
	KindPendingReviewConflict GuardKind = "pending_review_conflict"
	// KindNoCodeToReview means a review arrived with no submission.
	KindNoCodeToReview GuardKind = "no_code_to_review"
	// KindUnknownRole means register_agent got a role outside writer/validator.
	KindUnknownRole GuardKind = "unknown_role"
)

// GuardError is a rejected precondition. It identifies what is missing and
// who must act next; the coordinator never retries on the caller's behalf.
type GuardError struct {
	Kind    GuardKind
	Message string
}

func (e *GuardError) Error() string { return e.Message }

func guardErr(kind GuardKind, message string) *GuardError {
	return &GuardError{Kind: kind, Message: message}
}
