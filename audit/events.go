package audit

// Event actions. Each constant becomes the "action" attribute of one
// structured log event.
const (
	ActionExecutionStarted   = "pipeline.started"
	ActionExecutionCompleted = "pipeline.completed"
	ActionExecutionFailed    = "pipeline.failed"
	ActionStepStarted        = "pipeline.step_started"
	ActionStepCompleted      = "pipeline.step_completed"
	ActionStepFailed         = "pipeline.step_failed"
	ActionPostExecStarted    = "pipeline.post_execution_started"
	ActionPostExecCompleted  = "pipeline.post_execution_completed"
	ActionPostExecFailed     = "pipeline.post_execution_failed"
)

// AllActions returns every action this service can emit.
func AllActions() []string {
	return []string{
		ActionExecutionStarted,
		ActionExecutionCompleted,
		ActionExecutionFailed,
		ActionStepStarted,
		ActionStepCompleted,
		ActionStepFailed,
		ActionPostExecStarted,
		ActionPostExecCompleted,
		ActionPostExecFailed,
	}
}
