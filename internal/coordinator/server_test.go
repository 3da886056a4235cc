package coordinator

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
	"github.com/AltairaLabs/tandem-mcp/internal/observer"
	"github.com/AltairaLabs/tandem-mcp/internal/types"
	"github.com/AltairaLabs/tandem-mcp/internal/worklog"
)

// stubOracle is a canned-response oracle for handler tests.
type stubOracle struct {
	criteria  types.Criteria
	alignment observer.Alignment
	viable    bool

	decomposeCalls int
	alignmentCalls int
}

func (o *stubOracle) Decompose(ctx context.Context, prompt string) types.Criteria {
	o.decomposeCalls++
	criteria := o.criteria
	criteria.UserRequest = prompt
	return criteria
}

func (o *stubOracle) CheckAlignment(ctx context.Context, code string, criteria *types.Criteria) observer.Alignment {
	o.alignmentCalls++
	return o.alignment
}

func (o *stubOracle) CheckViable(code string) bool {
	return o.viable
}

func newTestServer(t *testing.T) (*MCPServer, *stubOracle) {
	t.Helper()

	store, err := worklog.Open(t.TempDir(), "testsess")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	oracle := &stubOracle{
		criteria:  types.Criteria{Requirements: []string{"sort ascending"}, Forbidden: []string{}},
		alignment: observer.Alignment{Aligned: false, Reason: "not done yet"},
		viable:    true,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	audit := NewAuditLogger(logger)

	cfg := Config{Name: "TestServer", Version: "0.0.1"}
	server := NewMCPServer(cfg, store, oracle, audit)

	return server, oracle
}

func callRequest(tool string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      tool,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	switch content := result.Content[0].(type) {
	case mcp.TextContent:
		return content.Text
	case *mcp.TextContent:
		return content.Text
	default:
		t.Fatalf("unexpected content type %T", result.Content[0])
		return ""
	}
}

// registerPair registers W1 as writer and V1 as validator.
func registerPair(t *testing.T, server *MCPServer) {
	t.Helper()
	ctx := context.Background()

	result, err := server.handleRegisterAgent(ctx, callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "writer", "session_id": "W1"}))
	if err != nil {
		t.Fatalf("register writer: %v", err)
	}
	if result.IsError {
		t.Fatalf("register writer rejected: %s", resultText(t, result))
	}

	result, err = server.handleRegisterAgent(ctx, callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "validator", "session_id": "V1"}))
	if err != nil {
		t.Fatalf("register validator: %v", err)
	}
	if result.IsError {
		t.Fatalf("register validator rejected: %s", resultText(t, result))
	}
}

func currentState(t *testing.T, server *MCPServer) types.State {
	t.Helper()
	state, err := server.store.ReplayLatestState()
	if err != nil {
		t.Fatalf("replay state: %v", err)
	}
	return state
}

func TestRegisterAgent_WriterFirstWins(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	result, err := server.handleRegisterAgent(ctx, callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "writer", "session_id": "W1"}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}

	state := currentState(t, server)
	if state.WriterID != "W1" {
		t.Errorf("expected writer W1, got %q", state.WriterID)
	}
	if !state.WriterReady {
		t.Error("expected writer ready")
	}
}

func TestRegisterAgent_WriterExclusivity(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	server.handleRegisterAgent(ctx, callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "writer", "session_id": "W1"}))

	result, err := server.handleRegisterAgent(ctx, callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "writer", "session_id": "W2"}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected second writer registration to fail")
	}
	if !strings.Contains(resultText(t, result), "Writer already registered") {
		t.Errorf("unexpected rejection text: %s", resultText(t, result))
	}

	state := currentState(t, server)
	if state.WriterID != "W1" {
		t.Errorf("first registration should win, got %q", state.WriterID)
	}
}

func TestRegisterAgent_ValidatorExclusivity(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()
	registerPair(t, server)

	result, err := server.handleRegisterAgent(ctx, callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "validator", "session_id": "V2"}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected second validator registration to fail")
	}

	state := currentState(t, server)
	if state.ValidatorID != "V1" {
		t.Errorf("first registration should win, got %q", state.ValidatorID)
	}
}

func TestRegisterAgent_ValidatorRequiresWriter(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	result, err := server.handleRegisterAgent(ctx, callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "validator", "session_id": "V1"}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected out-of-order registration to fail")
	}
	if !strings.Contains(resultText(t, result), "No Writer registered yet") {
		t.Errorf("unexpected rejection text: %s", resultText(t, result))
	}

	state := currentState(t, server)
	if state.ValidatorID != "" {
		t.Errorf("validator must not register before writer, got %q", state.ValidatorID)
	}
}

func TestRegisterAgent_UnknownRole(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleRegisterAgent(context.Background(), callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "observer", "session_id": "X1"}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected unknown role to fail")
	}
}

func TestAnnounceReady_RequiresValidator(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleAnnounceReady(context.Background(),
		callRequest(config.ToolAnnounceReady, map[string]any{}))
	if err != nil {
		t.Fatalf("announce: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected announce_ready without validator to fail")
	}
}

func TestAnnounceReady_WrongCaller(t *testing.T) {
	server, _ := newTestServer(t)
	registerPair(t, server)

	result, err := server.handleAnnounceReady(context.Background(),
		callRequest(config.ToolAnnounceReady, map[string]any{"caller_id": "W1"}))
	if err != nil {
		t.Fatalf("announce: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected wrong-caller rejection")
	}
}

func TestAnnounceReady_SkipsCheckWithoutCallerID(t *testing.T) {
	server, _ := newTestServer(t)
	registerPair(t, server)

	// Soft enforcement: no caller_id means the identity check is skipped.
	result, err := server.handleAnnounceReady(context.Background(),
		callRequest(config.ToolAnnounceReady, map[string]any{}))
	if err != nil {
		t.Fatalf("announce: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}
}

func TestAcknowledgeTask_RequiresValidatorReady(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	server.handleRegisterAgent(ctx, callRequest(config.ToolRegisterAgent,
		map[string]any{"role": "writer", "session_id": "W1"}))

	result, err := server.handleAcknowledgeTask(ctx,
		callRequest(config.ToolAcknowledgeTask, map[string]any{"caller_id": "W1"}))
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if result.IsError {
		t.Fatalf("waiting response should not be an error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "Validator not ready") {
		t.Errorf("expected waiting message, got: %s", resultText(t, result))
	}
}

func TestFetchState_ReportsRoleAvailability(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	text := resultText(t, mustCall(t, server.handleFetchState, ctx,
		callRequest(config.ToolFetchState, map[string]any{})))
	if !strings.Contains(text, "Writer available: true") {
		t.Errorf("expected writer available, got: %s", text)
	}

	registerPair(t, server)

	text = resultText(t, mustCall(t, server.handleFetchState, ctx,
		callRequest(config.ToolFetchState, map[string]any{})))
	if !strings.Contains(text, "Writer ID: W1") || !strings.Contains(text, "Validator ID: V1") {
		t.Errorf("expected registered IDs in projection, got: %s", text)
	}
	if !strings.Contains(text, "Writer available: false") {
		t.Errorf("expected writer unavailable, got: %s", text)
	}
}

// callOutcome captures a handler result for assertion helpers.
type callOutcome struct {
	isError bool
	text    string
}

func outcomeOf(t *testing.T, handler handlerFunc, ctx context.Context, request mcp.CallToolRequest) callOutcome {
	t.Helper()
	result := mustCall(t, handler, ctx, request)
	return callOutcome{isError: result.IsError, text: resultText(t, result)}
}

func stateJSON(t *testing.T, state types.State) string {
	t.Helper()
	payload, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	return string(payload)
}

type handlerFunc func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func mustCall(t *testing.T, handler handlerFunc, ctx context.Context, request mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	result, err := handler(ctx, request)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return result
}
