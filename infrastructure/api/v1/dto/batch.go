package dto

import "time"

// BatchBusiness identifies one business in a batch request.
type BatchBusiness struct {
	Niche string `json:"niche" validate:"required,max=100"`
	City  string `json:"city" validate:"required,max=100"`
}

// BatchCreateRequest is the POST /batch request body.
type BatchCreateRequest struct {
	Businesses []BatchBusiness `json:"businesses" validate:"required,min=1,dive"`
	Days       int             `json:"days" validate:"omitempty,min=1"`
}

// BatchBusinessResult is the per-business outcome in a batch response.
type BatchBusinessResult struct {
	Niche      string `json:"niche"`
	City       string `json:"city"`
	Status     string `json:"status"`
	CalendarID int64  `json:"calendar_id,omitempty"`
	Posts      int    `json:"posts,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchCompletedResponse is returned when a batch was processed inline.
type BatchCompletedResponse struct {
	Status         string                `json:"status"`
	Total          int                   `json:"total"`
	Succeeded      int                   `json:"succeeded"`
	Failed         int                   `json:"failed"`
	ElapsedSeconds float64               `json:"elapsed_seconds"`
	Results        []BatchBusinessResult `json:"results"`
}

// BatchAcceptedResponse is returned when a batch was queued.
type BatchAcceptedResponse struct {
	Status           string  `json:"status"`
	JobID            string  `json:"job_id"`
	EstimatedSeconds float64 `json:"estimated_seconds"`
	StatusURL        string  `json:"status_url"`
}

// JobStatusResponse is the GET /batch/{id} response body.
type JobStatusResponse struct {
	JobID       string         `json:"job_id"`
	Operation   string         `json:"operation"`
	Status      string         `json:"status"`
	Priority    int            `json:"priority"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}
