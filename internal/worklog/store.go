// Package worklog persists per-session workflow state as an append-only
// record stream plus immutable checkpoint artifacts. Each session owns one
// directory under the worklog root; nothing in a session directory is ever
// mutated or deleted once written.
package worklog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

const (
	stateLogFile    = "state_log.jsonl"
	workflowLogFile = "workflow.log"
	dirTimeFormat   = "20060102_150405"
)

// RecordKind distinguishes state snapshots from free-form audit entries.
type RecordKind string

const (
	// KindState marks a full state snapshot; replay folds over these.
	KindState RecordKind = "state"
	// KindLog marks an audit entry; it never participates in replay.
	KindLog RecordKind = "log"
)

// Record is one immutable entry in a session's log stream.
type Record struct {
	SessionID string         `json:"session_id"`
	Timestamp string         `json:"timestamp"`
	Kind      RecordKind     `json:"kind"`
	State     *types.State   `json:"state,omitempty"`
	Event     string         `json:"event,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Store manages one session's append-only state log, audit stream, and
// checkpoint artifacts. Methods are not internally synchronized; the
// coordinator serializes load+append per session.
type Store struct {
	sessionID string
	dir       string
}

// Open creates (or reuses) the session directory under root and ensures the
// state log begins with an initial default-state record. An empty sessionID
// gets a generated short identifier.
func Open(root, sessionID string) (*Store, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()[:8]
	}

	dirname := fmt.Sprintf("%s_%s", time.Now().Format(dirTimeFormat), sessionID)
	dir := filepath.Join(root, dirname)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	s := &Store{sessionID: sessionID, dir: dir}
	if err := s.initStateLog(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenDir attaches to an existing session directory without writing anything.
// Used by read-only tooling.
func OpenDir(dir, sessionID string) *Store {
	return &Store{sessionID: sessionID, dir: dir}
}

// SessionID returns the identifier records are tagged with.
func (s *Store) SessionID() string { return s.sessionID }

// Dir returns the session directory path.
func (s *Store) Dir() string { return s.dir }

// initStateLog writes the initial default-state record so a fresh session
// replays to the default state without special cases.
func (s *Store) initStateLog() error {
	path := filepath.Join(s.dir, stateLogFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat state log: %w", err)
	}

	initial := types.DefaultState()
	rec := Record{
		SessionID: s.sessionID,
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Kind:      KindState,
		State:     &initial,
		Event:     "init",
	}
	return s.appendRecord(path, rec)
}

// Append durably appends a full state snapshot to the session log. Prior
// records are never touched; an I/O failure is surfaced to the caller and
// not retried here.
func (s *Store) Append(state types.State) error {
	snapshot := state.Clone()
	rec := Record{
		SessionID: s.sessionID,
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Kind:      KindState,
		State:     &snapshot,
	}
	return s.appendRecord(filepath.Join(s.dir, stateLogFile), rec)
}

// ReplayLatestState scans the full log in append order and returns the state
// of the last matching snapshot, or the default state when the session has
// none. The read is linear in log length; acceptable for one coordination
// session's volume, a known limit at scale.
func (s *Store) ReplayLatestState() (types.State, error) {
	path := filepath.Join(s.dir, stateLogFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.DefaultState(), nil
		}
		return types.State{}, fmt.Errorf("open state log: %w", err)
	}
	defer f.Close()

	latest := types.DefaultState()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return types.State{}, fmt.Errorf("decode state log record: %w", err)
		}
		if rec.Kind != KindState || rec.State == nil {
			continue
		}
		if rec.SessionID != s.sessionID {
			continue
		}
		latest = rec.State.Clone()
	}
	if err := scanner.Err(); err != nil {
		return types.State{}, fmt.Errorf("read state log: %w", err)
	}
	return latest, nil
}

// AppendEvent appends a free-form audit entry to the workflow log. Events
// record every operation invocation and its outcome for observability and
// never affect state reconstruction.
func (s *Store) AppendEvent(event string, data map[string]any) error {
	rec := Record{
		SessionID: s.sessionID,
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Kind:      KindLog,
		Event:     event,
		Data:      data,
	}
	return s.appendRecord(filepath.Join(s.dir, workflowLogFile), rec)
}

// ReadEvents returns the audit stream in append order.
func (s *Store) ReadEvents() ([]Record, error) {
	path := filepath.Join(s.dir, workflowLogFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open workflow log: %w", err)
	}
	defer f.Close()

	var out []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode workflow log record: %w", err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read workflow log: %w", err)
	}
	return out, nil
}

func (s *Store) appendRecord(path string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if _, err := f.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("append to %s: %w", filepath.Base(path), err)
	}
	return nil
}
