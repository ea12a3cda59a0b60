// Package dto provides request and response types for the v1 API.
package dto

import (
	"time"

	"github.com/salonsuite/bella/infrastructure/api/jsonapi"
)

// CalendarCreateRequest is the POST /calendars request body.
type CalendarCreateRequest struct {
	Niche   string `json:"niche" validate:"required,max=100"`
	City    string `json:"city" validate:"required,max=100"`
	Days    int    `json:"days" validate:"omitempty,min=1"`
	Persist *bool  `json:"persist,omitempty"`
}

// CalendarResponse wraps a single calendar resource with its entries.
type CalendarResponse struct {
	Data     *jsonapi.Resource `json:"data"`
	Included []any             `json:"included,omitempty"`
}

// CalendarExportRow is one entry in a calendar export file.
type CalendarExportRow struct {
	Day         int    `json:"day"`
	Activity    string `json:"activity"`
	Script      string `json:"script"`
	Visual      string `json:"visual"`
	Caption     string `json:"caption"`
	Hashtags    string `json:"hashtags"`
	PostTime    string `json:"post_time"`
	CTA         string `json:"cta"`
	ImagePrompt string `json:"image_prompt"`
}

// AnalyticsResponse is the GET /analytics response body.
type AnalyticsResponse struct {
	Period              string    `json:"period"`
	TotalCalendars      int64     `json:"total_calendars"`
	TotalPostsGenerated int64     `json:"total_posts_generated"`
	AvgGenerationTime   float64   `json:"avg_generation_time"`
	SuccessRate         float64   `json:"success_rate"`
	TotalRequests       int64     `json:"total_requests"`
	RequestSuccessRate  float64   `json:"request_success_rate"`
	AvgResponseTimeMS   float64   `json:"avg_response_time_ms"`
	PendingJobs         int64     `json:"pending_jobs"`
	Timestamp           time.Time `json:"timestamp"`
}

// TrendResponse is the GET /trends response body.
type TrendResponse struct {
	Niche    string    `json:"niche"`
	Audio    string    `json:"audio"`
	Hashtags string    `json:"hashtags"`
	Fetched  time.Time `json:"fetched_at"`
}
