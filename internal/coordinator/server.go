// Package coordinator owns the writer/validator workflow state machine and
// its MCP tool surface. Every operation loads the latest session state from
// the worklog, validates caller identity and phase preconditions, computes
// the successor state, and appends it before replying.
package coordinator

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator/config"
	"github.com/AltairaLabs/tandem-mcp/internal/observer"
	"github.com/AltairaLabs/tandem-mcp/internal/types"
	"github.com/AltairaLabs/tandem-mcp/internal/worklog"
)

// Oracle is the observer collaborator boundary: task decomposition,
// alignment judgment, and the local viability heuristic. Implementations
// degrade internally; none of these calls fail the workflow.
type Oracle interface {
	Decompose(ctx context.Context, prompt string) types.Criteria
	CheckAlignment(ctx context.Context, code string, criteria *types.Criteria) observer.Alignment
	CheckViable(code string) bool
}

// Config holds configuration for the MCP server
type Config struct {
	Name    string
	Version string
}

// MCPServer wraps the mcp-go server with the workflow state machine
type MCPServer struct {
	server      *server.MCPServer
	store       *worklog.Store
	oracle      Oracle
	auditLogger *AuditLogger

	// mu makes load+transition+append one critical section per session,
	// closing the lost-update window between concurrent callers.
	mu sync.Mutex
}

// NewMCPServer creates and configures a new MCP server
func NewMCPServer(cfg Config, store *worklog.Store, oracle Oracle, audit *AuditLogger) *MCPServer {
	mcpServer := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	ms := &MCPServer{
		server:      mcpServer,
		store:       store,
		oracle:      oracle,
		auditLogger: audit,
	}

	ms.registerTools()

	return ms
}

// registerTools registers all MCP tools with handlers
func (ms *MCPServer) registerTools() {
	fetchStateTool := mcp.NewTool(config.ToolFetchState,
		mcp.WithDescription("Read current workflow state. ALWAYS call this BEFORE register_agent to check which roles are already taken."),
	)
	ms.server.AddTool(fetchStateTool, ms.handleFetchState)

	registerAgentTool := mcp.NewTool(config.ToolRegisterAgent,
		mcp.WithDescription("Register as Writer or Validator agent. Call fetch_state FIRST to check which role is available. First chat registers as writer, second as validator."),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Agent role: 'writer' or 'validator'"),
			mcp.Enum(config.RoleWriter, config.RoleValidator),
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Unique session identifier for this chat"),
		),
	)
	ms.server.AddTool(registerAgentTool, ms.handleRegisterAgent)

	announceReadyTool := mcp.NewTool(config.ToolAnnounceReady,
		mcp.WithDescription("[Validator] Announce readiness to Writer. Call after registering as Validator."),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(announceReadyTool, ms.handleAnnounceReady)

	acknowledgeTaskTool := mcp.NewTool(config.ToolAcknowledgeTask,
		mcp.WithDescription("[Writer] Acknowledge Validator is ready and task accepted. Call after Validator announces ready."),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(acknowledgeTaskTool, ms.handleAcknowledgeTask)

	startTaskTool := mcp.NewTool(config.ToolStartTask,
		mcp.WithDescription("[Writer] Request task decomposition from Observer. Returns acceptance criteria."),
		mcp.WithString("user_prompt",
			mcp.Required(),
			mcp.Description("Original user request for what to build"),
		),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(startTaskTool, ms.handleStartTask)

	submitPlanTool := mcp.NewTool(config.ToolSubmitPlan,
		mcp.WithDescription("[Writer] Submit implementation plan for Validator review."),
		mcp.WithString("plan",
			mcp.Required(),
			mcp.Description("Implementation plan with steps and approach"),
		),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(submitPlanTool, ms.handleSubmitPlan)

	approvePlanTool := mcp.NewTool(config.ToolApprovePlan,
		mcp.WithDescription("[Validator] Approve or reject Writer's implementation plan."),
		mcp.WithBoolean("approved",
			mcp.Required(),
			mcp.Description("True if plan is approved, False if rejected"),
		),
		mcp.WithString("feedback",
			mcp.Required(),
			mcp.Description("Feedback: approval message or specific issues to address"),
		),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(approvePlanTool, ms.handleApprovePlan)

	reportCheckpointTool := mcp.NewTool(config.ToolReportCheckpoint,
		mcp.WithDescription("[Writer] Report completion of implementation checkpoint."),
		mcp.WithNumber("checkpoint_number",
			mcp.Required(),
			mcp.Description("Current checkpoint number"),
		),
		mcp.WithNumber("total_checkpoints",
			mcp.Required(),
			mcp.Description("Total number of planned checkpoints"),
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Code for this checkpoint"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What was implemented in this checkpoint"),
		),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(reportCheckpointTool, ms.handleReportCheckpoint)

	requestJudgmentTool := mcp.NewTool(config.ToolRequestJudgment,
		mcp.WithDescription("[Validator] Request objective judgment from Observer when uncertain about alignment."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Code to evaluate"),
		),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Specific question or concern about alignment"),
		),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(requestJudgmentTool, ms.handleRequestJudgment)

	writeCodeTool := mcp.NewTool(config.ToolWriteCode,
		mcp.WithDescription("[Writer] Write code based on criteria and optional feedback. This triggers Validator to review."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Code implementation"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Brief description of what was implemented"),
		),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(writeCodeTool, ms.handleWriteCode)

	reviewCodeTool := mcp.NewTool(config.ToolReviewCode,
		mcp.WithDescription("[Validator] Review code and provide feedback. Does NOT write code."),
		mcp.WithBoolean("approved",
			mcp.Required(),
			mcp.Description("True if code meets criteria, False if needs changes"),
		),
		mcp.WithString("feedback",
			mcp.Required(),
			mcp.Description("Review feedback: what needs to be fixed or improved"),
		),
		mcp.WithString("caller_id",
			mcp.Description("Registered session identifier of the caller"),
		),
	)
	ms.server.AddTool(reviewCodeTool, ms.handleReviewCode)

	getTaskStatusTool := mcp.NewTool(config.ToolGetTaskStatus,
		mcp.WithDescription("Get current task status and what each agent should do next. Any agent can call this."),
	)
	ms.server.AddTool(getTaskStatusTool, ms.handleGetTaskStatus)

	forceStopTool := mcp.NewTool(config.ToolForceStop,
		mcp.WithDescription("User-triggered emergency stop. Returns best current code and resets the session."),
	)
	ms.server.AddTool(forceStopTool, ms.handleForceStop)
}

// Server returns the underlying mcp-go server for serving
func (ms *MCPServer) Server() *server.MCPServer {
	return ms.server
}

// Serve starts the MCP server with stdio transport
func (ms *MCPServer) Serve() error {
	return server.ServeStdio(ms.server)
}

// ServeContext serves the stdio transport until ctx is cancelled, so the
// binary can shut down on SIGINT/SIGTERM instead of only on stdin EOF.
func (ms *MCPServer) ServeContext(ctx context.Context) error {
	stdio := server.NewStdioServer(ms.server)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// ServeWithLogger starts the MCP server with stdio transport and custom logger
func (ms *MCPServer) ServeWithLogger(logger *slog.Logger) error {
	logger.Info("Starting MCP server with stdio transport")
	return ms.Serve()
}
