package persistence

import (
	"encoding/json"
	"time"

	"github.com/salonsuite/bella/domain/account"
	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/domain/template"
	"github.com/salonsuite/bella/domain/usage"
)

// UserMapper maps between domain User and persistence UserModel.
type UserMapper struct{}

// ToDomain converts a UserModel to a domain User.
func (m UserMapper) ToDomain(e UserModel) account.User {
	return account.ReconstructUser(
		e.ID,
		e.Email,
		e.BusinessName,
		account.Tier(e.SubscriptionTier),
		e.QuotaUsed,
		e.QuotaLimit,
		e.IsActive,
		e.CreatedAt,
	)
}

// ToModel converts a domain User to a UserModel.
func (m UserMapper) ToModel(u account.User) UserModel {
	return UserModel{
		ID:               u.ID(),
		Email:            u.Email(),
		BusinessName:     u.BusinessName(),
		SubscriptionTier: string(u.Tier()),
		QuotaUsed:        u.QuotaUsed(),
		QuotaLimit:       u.QuotaLimit(),
		IsActive:         u.Active(),
		CreatedAt:        u.CreatedAt(),
	}
}

// CalendarMapper maps between domain Calendar and persistence CalendarModel.
// Entries travel separately through EntryMapper; ToDomain produces a
// calendar without entries and the store attaches them where needed.
type CalendarMapper struct{}

// ToDomain converts a CalendarModel to a domain Calendar without entries.
func (m CalendarMapper) ToDomain(e CalendarModel) calendar.Calendar {
	return calendar.ReconstructCalendar(
		e.ID,
		e.UserID,
		e.Niche,
		e.City,
		e.DaysGenerated,
		calendar.Method(e.GenerationMethod),
		nil,
		time.Duration(e.GenerationTimeMS)*time.Millisecond,
		e.SuccessRate,
		e.CreatedAt,
	)
}

// ToModel converts a domain Calendar to a CalendarModel.
func (m CalendarMapper) ToModel(c calendar.Calendar) CalendarModel {
	return CalendarModel{
		ID:               c.ID(),
		UserID:           c.UserID(),
		Niche:            c.Niche(),
		City:             c.City(),
		DaysGenerated:    c.DaysGenerated(),
		GenerationMethod: string(c.Method()),
		GenerationTimeMS: c.GenerationTime().Milliseconds(),
		SuccessRate:      c.SuccessRate(),
		CreatedAt:        c.CreatedAt(),
	}
}

// EntryMapper maps between domain Entry and persistence EntryModel.
type EntryMapper struct{}

// ToDomain converts an EntryModel to a domain Entry.
func (m EntryMapper) ToDomain(e EntryModel) calendar.Entry {
	return calendar.NewEntry(
		e.Day,
		e.Activity,
		e.Script,
		e.Visual,
		e.Caption,
		e.Hashtags,
		e.PostTime,
		e.CTA,
		e.ImagePrompt,
	)
}

// ToModel converts a domain Entry to an EntryModel for the given calendar.
func (m EntryMapper) ToModel(calendarID int64, entry calendar.Entry) EntryModel {
	return EntryModel{
		CalendarID:  calendarID,
		Day:         entry.Day(),
		Activity:    entry.Activity(),
		Script:      entry.Script(),
		Visual:      entry.Visual(),
		Caption:     entry.Caption(),
		Hashtags:    entry.Hashtags(),
		PostTime:    entry.PostTime(),
		CTA:         entry.CTA(),
		ImagePrompt: entry.ImagePrompt(),
	}
}

// TemplateMapper maps between domain Template and persistence TemplateModel.
type TemplateMapper struct{}

// ToDomain converts a TemplateModel to a domain Template.
func (m TemplateMapper) ToDomain(e TemplateModel) template.Template {
	return template.ReconstructTemplate(
		e.ID,
		e.UserID,
		e.TemplateName,
		e.Niche,
		template.Theme(e.Theme),
		e.Activity,
		e.Script,
		e.Visual,
		e.Caption,
		e.Hashtags,
		e.PostTime,
		e.CTA,
		e.ImagePrompt,
		e.UsageCount,
		e.IsPublic,
		e.CreatedAt,
	)
}

// ToModel converts a domain Template to a TemplateModel.
func (m TemplateMapper) ToModel(t template.Template) TemplateModel {
	return TemplateModel{
		ID:           t.ID(),
		UserID:       t.UserID(),
		TemplateName: t.Name(),
		Niche:        t.Niche(),
		Theme:        string(t.Theme()),
		Activity:     t.Activity(),
		Script:       t.Script(),
		Visual:       t.Visual(),
		Caption:      t.Caption(),
		Hashtags:     t.Hashtags(),
		PostTime:     t.PostTime(),
		CTA:          t.CTA(),
		ImagePrompt:  t.ImagePrompt(),
		UsageCount:   t.UsageCount(),
		IsPublic:     t.IsPublic(),
		CreatedAt:    t.CreatedAt(),
	}
}

// JobMapper maps between domain Job and persistence JobModel.
type JobMapper struct{}

// ToDomain converts a JobModel to a domain Job. Malformed payload or
// result JSON degrades to an empty map rather than failing the read.
func (m JobMapper) ToDomain(e JobModel) job.Job {
	var payload map[string]any
	if len(e.Payload) > 0 {
		_ = json.Unmarshal(e.Payload, &payload)
	}

	var result map[string]any
	if len(e.Result) > 0 {
		_ = json.Unmarshal(e.Result, &result)
	}

	var startedAt, completedAt time.Time
	if e.StartedAt != nil {
		startedAt = *e.StartedAt
	}
	if e.CompletedAt != nil {
		completedAt = *e.CompletedAt
	}

	return job.ReconstructJob(
		e.ID,
		e.CorrelationID,
		e.UserID,
		job.Operation(e.Operation),
		e.Priority,
		payload,
		job.Status(e.Status),
		result,
		e.ErrorMessage,
		e.CreatedAt,
		startedAt,
		completedAt,
	)
}

// ToModel converts a domain Job to a JobModel.
func (m JobMapper) ToModel(j job.Job) JobModel {
	payload, _ := json.Marshal(j.Payload())

	var result json.RawMessage
	if r := j.Result(); r != nil {
		result, _ = json.Marshal(r)
	}

	var startedAt, completedAt *time.Time
	if t := j.StartedAt(); !t.IsZero() {
		startedAt = &t
	}
	if t := j.CompletedAt(); !t.IsZero() {
		completedAt = &t
	}

	return JobModel{
		ID:            j.ID(),
		CorrelationID: j.CorrelationID(),
		UserID:        j.UserID(),
		Operation:     j.Operation().String(),
		Priority:      j.Priority(),
		Payload:       payload,
		Status:        string(j.Status()),
		Result:        result,
		ErrorMessage:  j.ErrorMessage(),
		CreatedAt:     j.CreatedAt(),
		StartedAt:     startedAt,
		CompletedAt:   completedAt,
	}
}

// UsageMapper maps between domain usage Record and persistence UsageModel.
type UsageMapper struct{}

// ToDomain converts a UsageModel to a domain Record.
func (m UsageMapper) ToDomain(e UsageModel) usage.Record {
	return usage.ReconstructRecord(
		e.ID,
		e.UserID,
		e.Endpoint,
		time.Duration(e.ResponseTimeMS)*time.Millisecond,
		e.Success,
		e.ErrorMessage,
		e.CreditsUsed,
		e.Timestamp,
	)
}

// ToModel converts a domain Record to a UsageModel.
func (m UsageMapper) ToModel(r usage.Record) UsageModel {
	return UsageModel{
		ID:             r.ID(),
		UserID:         r.UserID(),
		Endpoint:       r.Endpoint(),
		ResponseTimeMS: r.ResponseTime().Milliseconds(),
		Success:        r.Success(),
		ErrorMessage:   r.ErrorMessage(),
		CreditsUsed:    r.CreditsUsed(),
		Timestamp:      r.Timestamp(),
	}
}
