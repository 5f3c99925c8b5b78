package ws

// EventTaskProgress is broadcast whenever a task's phase, progress or
// terminal state changes.
const EventTaskProgress = "task.progress"

// TaskProgressEvent mirrors the status endpoint's view of a task.
type TaskProgressEvent struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
}
