package job

// Status represents a job's position in its lifecycle. Jobs keep their
// row through every transition so callers can poll for the outcome.
type Status string

// Status values.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsTerminal returns true if the status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Operation represents the type of work a job carries.
type Operation string

// Operation values for the job queue.
const (
	OperationBatchCalendars Operation = "bella.batch.calendars"
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return string(o)
}

// Job priorities. Higher numbers are claimed first.
const (
	PriorityNormal = 1
	PriorityHigh   = 5
	PriorityUrgent = 10
)
