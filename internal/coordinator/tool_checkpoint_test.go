package coordinator

import (
	"context"
	"strings"
	"testing"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
)

// approvedPlanServer drives the session to the point where checkpoints are legal.
func approvedPlanServer(t *testing.T) *MCPServer {
	t.Helper()
	server, _ := newTestServer(t)
	startTask(t, server)
	submitPlan(t, server, "1. sort\n2. test")
	decidePlan(t, server, true, "proceed")
	return server
}

func reportCheckpoint(t *testing.T, server *MCPServer, number, total int) callOutcome {
	t.Helper()
	return outcomeOf(t, server.handleReportCheckpoint, context.Background(),
		callRequest(config.ToolReportCheckpoint, map[string]any{
			"checkpoint_number": number,
			"total_checkpoints": total,
			"code":              "func Sort(xs []int) {}",
			"description":       "sorting scaffold",
			"caller_id":         "W1",
		}))
}

func TestReportCheckpoint_RequiresApprovedPlan(t *testing.T) {
	server, _ := newTestServer(t)
	startTask(t, server)
	submitPlan(t, server, "the plan")

	outcome := reportCheckpoint(t, server, 1, 1)
	if !outcome.isError {
		t.Fatal("expected checkpoint before approval to fail")
	}
	if !strings.Contains(outcome.text, "without approved plan") {
		t.Errorf("unexpected rejection text: %s", outcome.text)
	}
}

func TestReportCheckpoint_Bounds(t *testing.T) {
	server := approvedPlanServer(t)

	cases := []struct {
		name          string
		number, total int
		wantErr       bool
	}{
		{"number zero", 0, 1, true},
		{"total zero", 1, 0, true},
		{"number above total", 2, 1, true},
		{"negative number", -1, 3, true},
		{"valid single", 1, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := reportCheckpoint(t, server, tc.number, tc.total)
			if outcome.isError != tc.wantErr {
				t.Errorf("checkpoint %d/%d: got error=%v, want %v (%s)",
					tc.number, tc.total, outcome.isError, tc.wantErr, outcome.text)
			}
		})
	}
}

func TestReportCheckpoint_AppendsToStateAndStore(t *testing.T) {
	server := approvedPlanServer(t)

	outcome := reportCheckpoint(t, server, 1, 2)
	if outcome.isError {
		t.Fatalf("checkpoint rejected: %s", outcome.text)
	}
	outcome = reportCheckpoint(t, server, 2, 2)
	if outcome.isError {
		t.Fatalf("checkpoint rejected: %s", outcome.text)
	}

	state := currentState(t, server)
	if len(state.Checkpoints) != 2 {
		t.Fatalf("expected 2 checkpoints in state, got %d", len(state.Checkpoints))
	}
	if state.Checkpoints[0].Number != 1 || state.Checkpoints[1].Number != 2 {
		t.Errorf("checkpoints out of order: %+v", state.Checkpoints)
	}

	artifacts, err := server.store.ReadSequential()
	if err != nil {
		t.Fatalf("read artifacts: %v", err)
	}
	if len(artifacts) != 2 {
		t.Errorf("expected 2 checkpoint artifacts, got %d", len(artifacts))
	}
}

func TestReportCheckpoint_FailedBoundsLeaveStateUntouched(t *testing.T) {
	server := approvedPlanServer(t)

	outcome := reportCheckpoint(t, server, 3, 2)
	if !outcome.isError {
		t.Fatal("expected out-of-bounds checkpoint to fail")
	}

	state := currentState(t, server)
	if len(state.Checkpoints) != 0 {
		t.Errorf("rejected checkpoint must not append, got %d", len(state.Checkpoints))
	}
}
