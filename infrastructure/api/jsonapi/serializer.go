package jsonapi

import (
	"fmt"
	"time"

	"github.com/salonsuite/bella/domain/calendar"
)

// CalendarAttributes represents calendar attributes in JSON:API format.
type CalendarAttributes struct {
	Niche          string     `json:"niche"`
	City           string     `json:"city"`
	DaysGenerated  int        `json:"days_generated"`
	Method         string     `json:"generation_method"`
	GenerationTime float64    `json:"generation_time_seconds"`
	SuccessRate    float64    `json:"success_rate"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// CalendarEntryAttributes represents one calendar day in JSON:API format.
type CalendarEntryAttributes struct {
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

// CalendarResource converts a calendar to a JSON:API resource without entries.
// Used for list responses where per-day content would bloat the payload.
func CalendarResource(c calendar.Calendar) *Resource {
	createdAt := c.CreatedAt()
	return NewResource("calendar", fmt.Sprintf("%d", c.ID()), CalendarAttributes{
		Niche:          c.Niche(),
		City:           c.City(),
		DaysGenerated:  c.DaysGenerated(),
		Method:         string(c.Method()),
		GenerationTime: c.GenerationTime().Seconds(),
		SuccessRate:    c.SuccessRate(),
		CreatedAt:      &createdAt,
	})
}

// CalendarDetailResource converts a calendar to a JSON:API resource with its
// entries included as resources of type "calendar_entry".
func CalendarDetailResource(c calendar.Calendar) (*Resource, []any) {
	resource := CalendarResource(c)

	entries := c.Entries()
	included := make([]any, 0, len(entries))
	identifiers := make([]ResourceIdentifier, 0, len(entries))
	for _, e := range entries {
		id := fmt.Sprintf("%d-%d", c.ID(), e.Day())
		included = append(included, NewResource("calendar_entry", id, EntryAttributes(e)))
		identifiers = append(identifiers, ResourceIdentifier{Type: "calendar_entry", ID: id})
	}

	resource.Relationships = Relationships{
		"entries": {Data: identifiers},
	}
	return resource, included
}

// EntryAttributes converts a calendar entry to its JSON:API attributes.
func EntryAttributes(e calendar.Entry) CalendarEntryAttributes {
	return CalendarEntryAttributes{
		Day:         e.Day(),
		Activity:    e.Activity(),
		Script:      e.Script(),
		Visual:      e.Visual(),
		Caption:     e.Caption(),
		Hashtags:    e.Hashtags(),
		PostTime:    e.PostTime(),
		CTA:         e.CTA(),
		ImagePrompt: e.ImagePrompt(),
	}
}

// CalendarListDocument builds a JSON:API document for a calendar list page.
func CalendarListDocument(calendars []calendar.Calendar, meta *Meta, links *Links) *Document {
	resources := make([]*Resource, 0, len(calendars))
	for _, c := range calendars {
		resources = append(resources, CalendarResource(c))
	}
	doc := NewListResponse(resources)
	doc.Meta = meta
	doc.Links = links
	return doc
}
