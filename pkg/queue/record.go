package queue

import "time"

// Status is the lifecycle state of a task record.
type Status string

// Task statuses. A task is created pending and receives exactly one
// terminal write: completed with a result, or failed with an error and a
// captured trace.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// TaskRecord is the durable record of one deferred unit of work and its
// outcome. Result is set iff the task completed; Error and Trace are set
// iff it failed. A record never carries both.
type TaskRecord struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Status    Status
	Result    string
	Error     string
	Trace     string
	ID        int64
}

// Finalized reports whether the record already received its terminal write.
func (r *TaskRecord) Finalized() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
