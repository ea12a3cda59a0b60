// Package job provides the persistent job queue domain types for batch work.
package job

import (
	"maps"
	"time"
)

// Job represents a unit of queued work. Unlike an ephemeral task queue,
// jobs retain their row across status transitions: claiming moves a job
// to processing, and completion or failure records the outcome in place,
// so the job's correlation ID can be polled for status afterwards.
type Job struct {
	id            int64
	correlationID string
	userID        int64
	operation     Operation
	priority      int
	payload       map[string]any
	status        Status
	result        map[string]any
	errorMessage  string
	createdAt     time.Time
	startedAt     time.Time
	completedAt   time.Time
}

// NewJob creates a pending Job with the given correlation ID, operation,
// priority, and payload.
func NewJob(correlationID string, userID int64, operation Operation, priority int, payload map[string]any) Job {
	return Job{
		correlationID: correlationID,
		userID:        userID,
		operation:     operation,
		priority:      priority,
		payload:       copyPayload(payload),
		status:        StatusPending,
		createdAt:     time.Now().UTC(),
	}
}

// ReconstructJob reconstructs a Job from persistence.
func ReconstructJob(
	id int64,
	correlationID string,
	userID int64,
	operation Operation,
	priority int,
	payload map[string]any,
	status Status,
	result map[string]any,
	errorMessage string,
	createdAt, startedAt, completedAt time.Time,
) Job {
	return Job{
		id:            id,
		correlationID: correlationID,
		userID:        userID,
		operation:     operation,
		priority:      priority,
		payload:       copyPayload(payload),
		status:        status,
		result:        copyResult(result),
		errorMessage:  errorMessage,
		createdAt:     createdAt,
		startedAt:     startedAt,
		completedAt:   completedAt,
	}
}

// ID returns the job ID (zero until persisted).
func (j Job) ID() int64 { return j.id }

// CorrelationID returns the public identifier callers poll with.
func (j Job) CorrelationID() string { return j.correlationID }

// UserID returns the requesting user's ID.
func (j Job) UserID() int64 { return j.userID }

// Operation returns the job operation.
func (j Job) Operation() Operation { return j.operation }

// Priority returns the job priority. Higher is claimed first.
func (j Job) Priority() int { return j.priority }

// Payload returns a copy of the job payload.
func (j Job) Payload() map[string]any {
	return copyPayload(j.payload)
}

// Status returns the current status.
func (j Job) Status() Status { return j.status }

// Result returns a copy of the result payload (nil until completed).
func (j Job) Result() map[string]any {
	return copyResult(j.result)
}

// ErrorMessage returns the failure message, if any.
func (j Job) ErrorMessage() string { return j.errorMessage }

// CreatedAt returns when the job was enqueued.
func (j Job) CreatedAt() time.Time { return j.createdAt }

// StartedAt returns when processing began (zero if never claimed).
func (j Job) StartedAt() time.Time { return j.startedAt }

// CompletedAt returns when the job reached a terminal state (zero until then).
func (j Job) CompletedAt() time.Time { return j.completedAt }

// WithID returns a copy of the job with the given ID.
func (j Job) WithID(id int64) Job {
	j.id = id
	return j
}

// Start returns a copy of the job claimed for processing.
func (j Job) Start() Job {
	j.status = StatusProcessing
	j.startedAt = time.Now().UTC()
	return j
}

// Complete returns a copy of the job marked completed with its result.
func (j Job) Complete(result map[string]any) Job {
	j.status = StatusCompleted
	j.result = copyResult(result)
	j.completedAt = time.Now().UTC()
	return j
}

// Fail returns a copy of the job marked failed with the given message.
func (j Job) Fail(message string) Job {
	j.status = StatusFailed
	j.errorMessage = message
	j.completedAt = time.Now().UTC()
	return j
}

// Duration returns how long the job ran, or zero if it has not finished.
func (j Job) Duration() time.Duration {
	if j.startedAt.IsZero() || j.completedAt.IsZero() {
		return 0
	}
	return j.completedAt.Sub(j.startedAt)
}

func copyPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return make(map[string]any)
	}
	result := make(map[string]any, len(payload))
	maps.Copy(result, payload)
	return result
}

// copyResult preserves nil, which marks a job that has not completed.
func copyResult(result map[string]any) map[string]any {
	if result == nil {
		return nil
	}
	copied := make(map[string]any, len(result))
	maps.Copy(copied, result)
	return copied
}
