// Package types provides the shared workflow state model used across the
// tandem-mcp codebase. The coordinator mutates these types through guarded
// transitions; the worklog store persists them as immutable JSON snapshots.
package types

// Approval is the tri-state decision on a submitted implementation plan.
// The zero value means no decision has been made for the current plan.
type Approval string

const (
	// ApprovalUnset means no decision exists for the current plan.
	ApprovalUnset Approval = ""
	// ApprovalApproved means the validator approved the plan.
	ApprovalApproved Approval = "approved"
	// ApprovalRejected means the validator rejected the plan.
	ApprovalRejected Approval = "rejected"
)

// Decided reports whether an approve/reject decision has been recorded.
func (a Approval) Decided() bool {
	return a == ApprovalApproved || a == ApprovalRejected
}

// Criteria is the structured acceptance spec the observer produces from a
// free-text task request.
type Criteria struct {
	Requirements    []string `json:"requirements"`
	Forbidden       []string `json:"forbidden"`
	MinimumViable   string   `json:"minimum_viable"`
	SuccessCriteria string   `json:"success_criteria"`
	// UserRequest carries the original prompt so alignment checks can quote it.
	UserRequest string `json:"user_request,omitempty"`
}

// Checkpoint is one reported unit of completed implementation work,
// numbered within a declared total.
type Checkpoint struct {
	Number      int    `json:"number"`
	Total       int    `json:"total"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// State is the reconstructed per-session aggregate. It is never mutated in
// place by callers; the coordinator computes a successor state and appends it
// to the session log as a full snapshot.
type State struct {
	WriterID       string `json:"writer_id,omitempty"`
	ValidatorID    string `json:"validator_id,omitempty"`
	WriterReady    bool   `json:"writer_ready"`
	ValidatorReady bool   `json:"validator_ready"`

	// Task holds the acceptance criteria for the current task. The task and
	// its criteria are one record, produced by the observer on start_task.
	Task *Criteria `json:"current_task,omitempty"`

	ImplementationPlan string   `json:"implementation_plan,omitempty"`
	PlanApproval       Approval `json:"plan_approval"`

	Checkpoints []Checkpoint `json:"checkpoints"`

	CurrentCode string `json:"current_code,omitempty"`
	Feedback    string `json:"feedback,omitempty"`

	// ValidatorWaiting is true exactly when code has been submitted and not
	// yet reviewed. It gates the write/review cycle to one outstanding
	// submission.
	ValidatorWaiting bool `json:"validator_waiting"`

	// Reserved extension fields, carried through for forward compatibility.
	AwaitingUserInput bool   `json:"awaiting_user_input"`
	UserInputContext  string `json:"user_input_context,omitempty"`
}

// DefaultState returns the canonical initial state for a session. The
// checkpoint slice is non-nil so a reset state marshals identically to a
// fresh one.
func DefaultState() State {
	return State{
		Checkpoints: []Checkpoint{},
	}
}

// Clone returns a deep copy so stores can hand out state without aliasing
// the caller's slices or criteria.
func (s State) Clone() State {
	out := s
	out.Checkpoints = make([]Checkpoint, len(s.Checkpoints))
	copy(out.Checkpoints, s.Checkpoints)
	if s.Task != nil {
		task := *s.Task
		task.Requirements = append([]string(nil), s.Task.Requirements...)
		task.Forbidden = append([]string(nil), s.Task.Forbidden...)
		out.Task = &task
	}
	return out
}
