package config

// Error messages used throughout the coordinator. Every validation failure
// states what is missing and who must act next; the calling agent parses
// intent from the message and retries the correct operation.
const (
	// ErrNoWriterRegistered is the format string when a writer-gated tool runs without a writer (verb: tool name)
	ErrNoWriterRegistered = "ERROR: No Writer registered. Call register_agent with role='writer' first before using %s."
	// ErrNoValidatorRegistered is the format string when a validator-gated tool runs without a validator
	ErrNoValidatorRegistered = "ERROR: No Validator registered. Call register_agent with role='validator' first before using %s."
	// ErrNotWriter rejects a caller whose identity differs from the registered writer
	ErrNotWriter = "ERROR: %s can only be called by Writer. You are registered as Validator. Correct action: Writer should call this tool."
	// ErrNotValidator rejects a caller whose identity differs from the registered validator
	ErrNotValidator = "ERROR: %s can only be called by Validator. You are registered as Writer. Correct action: Validator should call this tool."

	// ErrWriterTaken rejects a second writer registration (verb: current writer ID)
	ErrWriterTaken = "ERROR: Writer already registered (ID: %s). Only one Writer allowed.\n\nYou should be Validator. Call fetch_state to confirm, then register_agent with role='validator'."
	// ErrValidatorTaken rejects a second validator registration
	ErrValidatorTaken = "ERROR: Validator already registered (ID: %s). Only one Validator allowed.\n\nYou should be Writer. Call fetch_state to confirm, then register_agent with role='writer'."
	// ErrValidatorBeforeWriter rejects out-of-order registration
	ErrValidatorBeforeWriter = "WARNING: No Writer registered yet. Validator should join AFTER Writer.\n\nAction: Wait for Writer to register first, then try again."
	// ErrUnknownRole rejects a role outside writer/validator
	ErrUnknownRole = "ERROR: Unknown role '%s'. Valid roles: 'writer', 'validator'."

	// ErrPlanAlreadyApproved rejects plan resubmission after approval
	ErrPlanAlreadyApproved = "ERROR: Plan already approved. Cannot resubmit plan after approval. Correct action: Proceed with report_checkpoint to implement the approved plan."
	// ErrPlanPendingReview rejects overwriting a plan that awaits a decision
	ErrPlanPendingReview = "ERROR: Plan already submitted and awaiting review. Cannot overwrite. Correct action: Wait for Validator to call approve_plan, or if plan was rejected, you can submit a revised plan."
	// ErrNoPlanSubmitted rejects a decision when no plan exists
	ErrNoPlanSubmitted = "ERROR: No plan submitted yet. Correct action: Wait for Writer to call submit_plan first."
	// ErrPlanAlreadyDecided rejects changing a recorded decision (verbs: current status twice, corrective clause)
	ErrPlanAlreadyDecided = "ERROR: Plan already %s. Cannot change decision. Correct action: If %s, Writer should %s."

	// ErrCheckpointWithoutPlan rejects checkpoints before plan approval
	ErrCheckpointWithoutPlan = "ERROR: Cannot report checkpoint without approved plan. Validator must call approve_plan first."
	// ErrCheckpointNumberLow rejects a non-positive checkpoint number
	ErrCheckpointNumberLow = "ERROR: Invalid checkpoint_number=%d. Must be >= 1. Correct action: Use checkpoint_number starting from 1."
	// ErrCheckpointTotalLow rejects a non-positive total
	ErrCheckpointTotalLow = "ERROR: Invalid total_checkpoints=%d. Must be >= 1. Correct action: Set total_checkpoints to a positive number representing planned checkpoints."
	// ErrCheckpointNumberHigh rejects a number above the declared total
	ErrCheckpointNumberHigh = "ERROR: checkpoint_number (%d) exceeds total_checkpoints (%d). Correct action: Ensure checkpoint_number <= total_checkpoints, or increase total_checkpoints if more checkpoints are needed."

	// ErrNoCriteria rejects judgment requests before task decomposition
	ErrNoCriteria = "ERROR: No acceptance criteria available. Writer must call start_task first."
	// ErrCodePendingReview rejects a second submission while one awaits review
	ErrCodePendingReview = "ERROR: Previous code submission awaiting Validator review. Cannot submit new code. Correct action: Wait for Validator to call review_code first."
	// ErrNoCodeToReview rejects a review with nothing submitted
	ErrNoCodeToReview = "ERROR: No code to review. Correct action: Wait for Writer to call write_code first."
	// ErrCodeAlreadyReviewed rejects reviewing the same submission twice
	ErrCodeAlreadyReviewed = "ERROR: Code already reviewed. Cannot review same code multiple times. Correct action: Wait for Writer to submit new code with write_code, or proceed to next workflow step."

	// ErrValidatorNotReady tells the writer to wait for the validator
	ErrValidatorNotReady = "Validator not ready yet. Please wait..."
	// ErrWriterNotReady tells the validator to wait for the writer
	ErrWriterNotReady = "Writer not yet registered. Waiting..."
)

// Progress and confirmation messages
const (
	// MsgWriterRegistered confirms writer registration (verb: session ID)
	MsgWriterRegistered = "Writer registered (session: %s).\n\nNEXT STEP: Wait for Validator to join. Do NOT proceed until Validator calls announce_ready."
	// MsgValidatorRegistered confirms validator registration
	MsgValidatorRegistered = "Validator registered (session: %s).\n\nNEXT STEP (MANDATORY): Call announce_ready to notify Writer you are ready."
	// MsgValidatorReady confirms readiness announcement
	MsgValidatorReady = "Validator ready and active. Writer has been notified. Writer should call acknowledge_task next."
	// MsgTaskAcknowledged confirms the writer's acknowledgment
	MsgTaskAcknowledged = "Task accepted. Validator confirmed. Proceeding to planning phase. Call start_task with user's task description."
	// MsgNoActiveTask is returned by get_task_status before any task exists
	MsgNoActiveTask = "No active task. Use start_task to begin."
)
