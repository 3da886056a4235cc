package config

// Tool defines the available tools in the coordinator
const (
	// ToolFetchState is the workflow state read tool name
	ToolFetchState = "fetch_state"
	// ToolRegisterAgent is the role registration tool name
	ToolRegisterAgent = "register_agent"
	// ToolAnnounceReady is the validator readiness tool name
	ToolAnnounceReady = "announce_ready"
	// ToolAcknowledgeTask is the writer acknowledgment tool name
	ToolAcknowledgeTask = "acknowledge_task"
	// ToolStartTask is the task decomposition tool name
	ToolStartTask = "start_task"
	// ToolSubmitPlan is the plan submission tool name
	ToolSubmitPlan = "submit_plan"
	// ToolApprovePlan is the plan decision tool name
	ToolApprovePlan = "approve_plan"
	// ToolReportCheckpoint is the checkpoint reporting tool name
	ToolReportCheckpoint = "report_checkpoint"
	// ToolRequestJudgment is the observer judgment tool name
	ToolRequestJudgment = "request_judgment"
	// ToolWriteCode is the code submission tool name
	ToolWriteCode = "write_code"
	// ToolReviewCode is the code review tool name
	ToolReviewCode = "review_code"
	// ToolGetTaskStatus is the task status tool name
	ToolGetTaskStatus = "get_task_status"
	// ToolForceStop is the emergency stop tool name
	ToolForceStop = "force_stop"
)

// AllTools returns a slice of all available tool names
func AllTools() []string {
	return []string{
		ToolFetchState,
		ToolRegisterAgent,
		ToolAnnounceReady,
		ToolAcknowledgeTask,
		ToolStartTask,
		ToolSubmitPlan,
		ToolApprovePlan,
		ToolReportCheckpoint,
		ToolRequestJudgment,
		ToolWriteCode,
		ToolReviewCode,
		ToolGetTaskStatus,
		ToolForceStop,
	}
}

// Role names accepted by register_agent
const (
	// RoleWriter is the code-writing agent role
	RoleWriter = "writer"
	// RoleValidator is the reviewing agent role
	RoleValidator = "validator"
)
