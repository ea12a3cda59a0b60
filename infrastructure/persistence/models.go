package persistence

import (
	"encoding/json"
	"time"
)

// UserModel represents a user account in the database.
type UserModel struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email            string    `gorm:"column:email;uniqueIndex;size:255;not null"`
	BusinessName     string    `gorm:"column:business_name;size:255"`
	SubscriptionTier string    `gorm:"column:subscription_tier;size:50;default:free"`
	QuotaUsed        int       `gorm:"column:monthly_quota_used;default:0"`
	QuotaLimit       int       `gorm:"column:monthly_quota_limit;default:100"`
	IsActive         bool      `gorm:"column:is_active;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (UserModel) TableName() string {
	return "users"
}

// CalendarModel represents one generation run in the database.
type CalendarModel struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID           int64     `gorm:"column:user_id;index"`
	Niche            string    `gorm:"column:niche;index;size:255"`
	City             string    `gorm:"column:city;index;size:255"`
	DaysGenerated    int       `gorm:"column:days_generated"`
	GenerationMethod string    `gorm:"column:generation_method;index;size:50"`
	GenerationTimeMS int64     `gorm:"column:generation_time_ms;default:0"`
	SuccessRate      float64   `gorm:"column:success_rate;default:1"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (CalendarModel) TableName() string {
	return "content_calendars"
}

// EntryModel represents one day of calendar content in the database.
type EntryModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CalendarID  int64     `gorm:"column:calendar_id;index;not null"`
	Day         int       `gorm:"column:day;not null"`
	Activity    string    `gorm:"column:activity;size:500"`
	Script      string    `gorm:"column:script;type:text"`
	Visual      string    `gorm:"column:visual;type:text"`
	Caption     string    `gorm:"column:caption;type:text"`
	Hashtags    string    `gorm:"column:hashtags;type:text"`
	PostTime    string    `gorm:"column:post_time;size:100"`
	CTA         string    `gorm:"column:call_to_action;size:500"`
	ImagePrompt string    `gorm:"column:image_prompt;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (EntryModel) TableName() string {
	return "content_entries"
}

// TemplateModel represents a saved content template in the database.
type TemplateModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       int64     `gorm:"column:user_id;index"`
	TemplateName string    `gorm:"column:template_name;size:255"`
	Niche        string    `gorm:"column:niche;index;size:255"`
	Theme        string    `gorm:"column:theme;index;size:50"`
	Activity     string    `gorm:"column:activity;size:500"`
	Script       string    `gorm:"column:script;type:text"`
	Visual       string    `gorm:"column:visual;type:text"`
	Caption      string    `gorm:"column:caption;type:text"`
	Hashtags     string    `gorm:"column:hashtags;type:text"`
	PostTime     string    `gorm:"column:post_time;size:100"`
	CTA          string    `gorm:"column:call_to_action;size:500"`
	ImagePrompt  string    `gorm:"column:image_prompt;type:text"`
	UsageCount   int64     `gorm:"column:usage_count;default:0"`
	IsPublic     bool      `gorm:"column:is_public;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (TemplateModel) TableName() string {
	return "content_templates"
}

// JobModel represents a queued generation job in the database.
// Rows are retained across status transitions so the correlation ID
// can be polled for the outcome.
type JobModel struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CorrelationID string          `gorm:"column:correlation_id;uniqueIndex;size:36;not null"`
	UserID        int64           `gorm:"column:user_id;index"`
	Operation     string          `gorm:"column:operation;index;size:255;not null"`
	Priority      int             `gorm:"column:priority;not null;default:1"`
	Payload       json.RawMessage `gorm:"column:payload;type:text"`
	Status        string          `gorm:"column:status;index;size:20;not null;default:pending"`
	Result        json.RawMessage `gorm:"column:result;type:text"`
	ErrorMessage  string          `gorm:"column:error_message;type:text"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	StartedAt     *time.Time      `gorm:"column:started_at"`
	CompletedAt   *time.Time      `gorm:"column:completed_at"`
}

// TableName returns the table name.
func (JobModel) TableName() string {
	return "generation_jobs"
}

// UsageModel represents one tracked API request in the database.
type UsageModel struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64     `gorm:"column:user_id;index"`
	Endpoint       string    `gorm:"column:endpoint;index;size:255"`
	ResponseTimeMS int64     `gorm:"column:response_time_ms;default:0"`
	Success        bool      `gorm:"column:success;default:true"`
	ErrorMessage   string    `gorm:"column:error_message;type:text"`
	CreditsUsed    int       `gorm:"column:credits_used;default:1"`
	Timestamp      time.Time `gorm:"column:timestamp;index"`
}

// TableName returns the table name.
func (UsageModel) TableName() string {
	return "api_usage"
}

// MetricModel represents one system metric snapshot in the database.
type MetricModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:metric_name;index;size:255;not null"`
	Value      float64   `gorm:"column:metric_value"`
	RecordedAt time.Time `gorm:"column:recorded_at;index"`
}

// TableName returns the table name.
func (MetricModel) TableName() string {
	return "system_metrics"
}
