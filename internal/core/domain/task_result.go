package domain

// TaskStatus is the uniform outcome signal a scheduled job reports.
type TaskStatus string

const (
	TaskSuccess TaskStatus = "SUCCESS"
	TaskWarning TaskStatus = "WARNING"
	TaskFailure TaskStatus = "FAILURE"
	TaskSkipped TaskStatus = "SKIPPED"
)

// TaskResult is the ephemeral outcome of one job run. Jobs never raise past
// their own boundary; the scheduler only ever sees one of these.
type TaskResult struct {
	Status  TaskStatus
	Message string
}

func SuccessResult() TaskResult {
	return TaskResult{Status: TaskSuccess}
}

func WarningResult(message string) TaskResult {
	return TaskResult{Status: TaskWarning, Message: message}
}

func FailureResult(message string) TaskResult {
	return TaskResult{Status: TaskFailure, Message: message}
}

func SkippedResult(message string) TaskResult {
	return TaskResult{Status: TaskSkipped, Message: message}
}
