package worklog

import (
	"path/filepath"
	"testing"

	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

func TestWriteCheckpoint_NeverOverwrites(t *testing.T) {
	store := newTestStore(t)

	cp := types.Checkpoint{Number: 1, Total: 2, Code: "v1", Description: "first"}
	if err := store.WriteCheckpoint(cp); err != nil {
		t.Fatalf("write checkpoint: %v", err)
	}

	cp.Code = "v2"
	if err := store.WriteCheckpoint(cp); err != nil {
		t.Fatalf("write duplicate checkpoint: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(store.Dir(), "checkpoint_testsess_1_*.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 distinct artifacts, got %d", len(matches))
	}
}

func TestReadSequential_ReturnsContiguousOrder(t *testing.T) {
	store := newTestStore(t)

	for n := 1; n <= 3; n++ {
		cp := types.Checkpoint{Number: n, Total: 3, Code: "code", Description: "step"}
		if err := store.WriteCheckpoint(cp); err != nil {
			t.Fatalf("write checkpoint %d: %v", n, err)
		}
	}

	checkpoints, err := store.ReadSequential()
	if err != nil {
		t.Fatalf("read sequential: %v", err)
	}
	if len(checkpoints) != 3 {
		t.Fatalf("expected 3 checkpoints, got %d", len(checkpoints))
	}
	for i, cp := range checkpoints {
		if cp.Number != i+1 {
			t.Errorf("expected checkpoint %d at position %d, got %d", i+1, i, cp.Number)
		}
		if cp.SessionID != "testsess" {
			t.Errorf("expected session testsess, got %s", cp.SessionID)
		}
	}
}

func TestReadSequential_StopsAtFirstGap(t *testing.T) {
	store := newTestStore(t)

	for _, n := range []int{1, 2, 4} {
		cp := types.Checkpoint{Number: n, Total: 4, Code: "code", Description: "step"}
		if err := store.WriteCheckpoint(cp); err != nil {
			t.Fatalf("write checkpoint %d: %v", n, err)
		}
	}

	checkpoints, err := store.ReadSequential()
	if err != nil {
		t.Fatalf("read sequential: %v", err)
	}
	if len(checkpoints) != 2 {
		t.Fatalf("expected sequential read to stop at gap after 2, got %d", len(checkpoints))
	}
}

func TestReadSequential_NewestArtifactWinsPerNumber(t *testing.T) {
	store := newTestStore(t)

	cp := types.Checkpoint{Number: 1, Total: 1, Code: "old", Description: "first try"}
	if err := store.WriteCheckpoint(cp); err != nil {
		t.Fatalf("write checkpoint: %v", err)
	}
	cp.Code = "new"
	cp.Description = "second try"
	if err := store.WriteCheckpoint(cp); err != nil {
		t.Fatalf("write checkpoint: %v", err)
	}

	checkpoints, err := store.ReadSequential()
	if err != nil {
		t.Fatalf("read sequential: %v", err)
	}
	if len(checkpoints) != 1 {
		t.Fatalf("expected 1 logical checkpoint, got %d", len(checkpoints))
	}
	if checkpoints[0].Code != "new" {
		t.Errorf("expected newest artifact, got code %q", checkpoints[0].Code)
	}
}

func TestReadSequential_EmptySession(t *testing.T) {
	store := newTestStore(t)

	checkpoints, err := store.ReadSequential()
	if err != nil {
		t.Fatalf("read sequential: %v", err)
	}
	if len(checkpoints) != 0 {
		t.Errorf("expected no checkpoints, got %d", len(checkpoints))
	}
}
