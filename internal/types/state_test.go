package types

import (
	"encoding/json"
	"testing"
)

func TestDefaultState_MarshalsStably(t *testing.T) {
	a, err := json.Marshal(DefaultState())
	if err != nil {
		t.Fatalf("marshal default state: %v", err)
	}
	b, err := json.Marshal(DefaultState())
	if err != nil {
		t.Fatalf("marshal default state: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("default state not stable: %s vs %s", a, b)
	}
}

func TestDefaultState_EmptyCheckpointsNotNil(t *testing.T) {
	state := DefaultState()
	if state.Checkpoints == nil {
		t.Error("expected non-nil checkpoints slice")
	}
	if len(state.Checkpoints) != 0 {
		t.Errorf("expected empty checkpoints, got %d", len(state.Checkpoints))
	}
}

func TestApproval_Decided(t *testing.T) {
	if ApprovalUnset.Decided() {
		t.Error("unset should not be decided")
	}
	if !ApprovalApproved.Decided() {
		t.Error("approved should be decided")
	}
	if !ApprovalRejected.Decided() {
		t.Error("rejected should be decided")
	}
}

func TestState_CloneDoesNotAlias(t *testing.T) {
	original := DefaultState()
	original.Task = &Criteria{Requirements: []string{"sort ascending"}}
	original.Checkpoints = append(original.Checkpoints, Checkpoint{Number: 1, Total: 2, Code: "x"})

	clone := original.Clone()

	clone.Checkpoints[0].Code = "mutated"
	if original.Checkpoints[0].Code != "x" {
		t.Error("clone aliases checkpoint slice")
	}

	clone.Task.Requirements[0] = "mutated"
	if original.Task.Requirements[0] != "sort ascending" {
		t.Error("clone aliases criteria requirements")
	}

	clone.Task.MinimumViable = "mutated"
	if original.Task.MinimumViable != "" {
		t.Error("clone aliases criteria pointer")
	}
}
