// Package usage provides API usage tracking domain types for rate
// limiting, billing, and analytics.
package usage

import "time"

// Record represents one tracked API request.
type Record struct {
	id           int64
	userID       int64
	endpoint     string
	responseTime time.Duration
	success      bool
	errorMessage string
	creditsUsed  int
	timestamp    time.Time
}

// NewRecord creates a successful usage record for an endpoint. One credit
// is charged unless adjusted with WithCredits.
func NewRecord(userID int64, endpoint string, responseTime time.Duration) Record {
	return Record{
		userID:       userID,
		endpoint:     endpoint,
		responseTime: responseTime,
		success:      true,
		creditsUsed:  1,
		timestamp:    time.Now().UTC(),
	}
}

// NewFailedRecord creates a usage record for a failed request.
func NewFailedRecord(userID int64, endpoint string, responseTime time.Duration, message string) Record {
	r := NewRecord(userID, endpoint, responseTime)
	r.success = false
	r.errorMessage = message
	return r
}

// ReconstructRecord reconstructs a Record from persistence.
func ReconstructRecord(
	id, userID int64,
	endpoint string,
	responseTime time.Duration,
	success bool,
	errorMessage string,
	creditsUsed int,
	timestamp time.Time,
) Record {
	return Record{
		id:           id,
		userID:       userID,
		endpoint:     endpoint,
		responseTime: responseTime,
		success:      success,
		errorMessage: errorMessage,
		creditsUsed:  creditsUsed,
		timestamp:    timestamp,
	}
}

// ID returns the record ID (zero until persisted).
func (r Record) ID() int64 { return r.id }

// UserID returns the requesting user's ID.
func (r Record) UserID() int64 { return r.userID }

// Endpoint returns the endpoint path the request hit.
func (r Record) Endpoint() string { return r.endpoint }

// ResponseTime returns how long the request took.
func (r Record) ResponseTime() time.Duration { return r.responseTime }

// Success reports whether the request succeeded.
func (r Record) Success() bool { return r.success }

// ErrorMessage returns the failure message, if any.
func (r Record) ErrorMessage() string { return r.errorMessage }

// CreditsUsed returns how many credits the request consumed.
func (r Record) CreditsUsed() int { return r.creditsUsed }

// Timestamp returns when the request was recorded.
func (r Record) Timestamp() time.Time { return r.timestamp }

// WithCredits returns a copy of the record charging the given credits.
func (r Record) WithCredits(credits int) Record {
	r.creditsUsed = credits
	return r
}

// Summary aggregates usage records over a time window.
type Summary struct {
	requests        int64
	successes       int64
	avgResponseTime time.Duration
	creditsUsed     int64
}

// NewSummary creates a Summary aggregate.
func NewSummary(requests, successes int64, avgResponseTime time.Duration, creditsUsed int64) Summary {
	return Summary{
		requests:        requests,
		successes:       successes,
		avgResponseTime: avgResponseTime,
		creditsUsed:     creditsUsed,
	}
}

// Requests returns the total requests in the window.
func (s Summary) Requests() int64 { return s.requests }

// Successes returns the successful requests in the window.
func (s Summary) Successes() int64 { return s.successes }

// AvgResponseTime returns the mean request duration.
func (s Summary) AvgResponseTime() time.Duration { return s.avgResponseTime }

// CreditsUsed returns the credits consumed in the window.
func (s Summary) CreditsUsed() int64 { return s.creditsUsed }

// SuccessRate returns the fraction of requests that succeeded, or 1 when
// the window is empty.
func (s Summary) SuccessRate() float64 {
	if s.requests == 0 {
		return 1.0
	}
	return float64(s.successes) / float64(s.requests)
}
