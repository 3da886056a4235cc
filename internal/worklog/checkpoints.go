package worklog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

// CheckpointRecord is the persisted form of one checkpoint artifact.
type CheckpointRecord struct {
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
	types.Checkpoint
}

// WriteCheckpoint persists a checkpoint to a new, uniquely named artifact.
// Re-reporting the same checkpoint number creates another distinct file;
// existing artifacts are never overwritten. The logical "current" sequence
// still lives in State.Checkpoints.
func (s *Store) WriteCheckpoint(cp types.Checkpoint) error {
	now := time.Now()
	name := fmt.Sprintf("checkpoint_%s_%d_%s_%09d.json",
		s.sessionID, cp.Number, now.Format(dirTimeFormat), now.Nanosecond())
	path := filepath.Join(s.dir, name)

	rec := CheckpointRecord{
		SessionID:  s.sessionID,
		Timestamp:  now.Format(time.RFC3339Nano),
		Checkpoint: cp,
	}
	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	// O_EXCL guards the never-overwrite contract even under a name collision.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create checkpoint artifact: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(payload); err != nil {
		return fmt.Errorf("write checkpoint artifact: %w", err)
	}
	return nil
}

// ReadSequential returns checkpoints 1, 2, 3, ... by probing successive
// numbers and stopping at the first number with no artifact. Checkpoints
// reported out of contiguous order past a gap are not visible through this
// accessor. When a number has several artifacts the newest one wins.
func (s *Store) ReadSequential() ([]CheckpointRecord, error) {
	var out []CheckpointRecord
	for n := 1; ; n++ {
		rec, ok, err := s.readCheckpoint(n)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, rec)
	}
	return out, nil
}

// readCheckpoint loads the newest artifact for a checkpoint number, if any.
func (s *Store) readCheckpoint(number int) (CheckpointRecord, bool, error) {
	pattern := filepath.Join(s.dir, fmt.Sprintf("checkpoint_%s_%d_*.json", s.sessionID, number))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return CheckpointRecord{}, false, fmt.Errorf("scan checkpoint artifacts: %w", err)
	}
	if len(matches) == 0 {
		return CheckpointRecord{}, false, nil
	}

	// Timestamped names sort chronologically; take the newest.
	sort.Strings(matches)
	payload, err := os.ReadFile(matches[len(matches)-1])
	if err != nil {
		return CheckpointRecord{}, false, fmt.Errorf("read checkpoint artifact: %w", err)
	}

	var rec CheckpointRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return CheckpointRecord{}, false, fmt.Errorf("decode checkpoint artifact: %w", err)
	}
	return rec, true, nil
}
