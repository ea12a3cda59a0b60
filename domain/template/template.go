package template

import (
	"strconv"
	"strings"
	"time"

	"github.com/salonsuite/bella/domain/calendar"
)

// Template represents a saved content template. Content fields may carry
// {niche}, {city}, and {day} placeholders that are substituted when the
// template is materialized into a calendar entry.
type Template struct {
	id          int64
	userID      int64
	name        string
	niche       string
	theme       Theme
	activity    string
	script      string
	visual      string
	caption     string
	hashtags    string
	postTime    string
	cta         string
	imagePrompt string
	usageCount  int64
	isPublic    bool
	createdAt   time.Time
}

// NewTemplate creates a Template owned by a user.
func NewTemplate(
	userID int64,
	name, niche string,
	theme Theme,
	activity, script, visual, caption, hashtags, postTime, cta, imagePrompt string,
) Template {
	return Template{
		userID:      userID,
		name:        name,
		niche:       niche,
		theme:       theme,
		activity:    activity,
		script:      script,
		visual:      visual,
		caption:     caption,
		hashtags:    hashtags,
		postTime:    postTime,
		cta:         cta,
		imagePrompt: imagePrompt,
		createdAt:   time.Now().UTC(),
	}
}

// ReconstructTemplate reconstructs a Template from persistence.
func ReconstructTemplate(
	id, userID int64,
	name, niche string,
	theme Theme,
	activity, script, visual, caption, hashtags, postTime, cta, imagePrompt string,
	usageCount int64,
	isPublic bool,
	createdAt time.Time,
) Template {
	return Template{
		id:          id,
		userID:      userID,
		name:        name,
		niche:       niche,
		theme:       theme,
		activity:    activity,
		script:      script,
		visual:      visual,
		caption:     caption,
		hashtags:    hashtags,
		postTime:    postTime,
		cta:         cta,
		imagePrompt: imagePrompt,
		usageCount:  usageCount,
		isPublic:    isPublic,
		createdAt:   createdAt,
	}
}

// ID returns the template ID (zero until persisted).
func (t Template) ID() int64 { return t.id }

// UserID returns the owning user's ID.
func (t Template) UserID() int64 { return t.userID }

// Name returns the template name.
func (t Template) Name() string { return t.name }

// Niche returns the niche the template is written for.
func (t Template) Niche() string { return t.niche }

// Theme returns the content theme.
func (t Template) Theme() Theme { return t.theme }

// Activity returns the activity field (placeholders unexpanded).
func (t Template) Activity() string { return t.activity }

// Script returns the script field (placeholders unexpanded).
func (t Template) Script() string { return t.script }

// Visual returns the visual field (placeholders unexpanded).
func (t Template) Visual() string { return t.visual }

// Caption returns the caption field (placeholders unexpanded).
func (t Template) Caption() string { return t.caption }

// Hashtags returns the hashtags field (placeholders unexpanded).
func (t Template) Hashtags() string { return t.hashtags }

// PostTime returns the suggested posting time.
func (t Template) PostTime() string { return t.postTime }

// CTA returns the call-to-action field (placeholders unexpanded).
func (t Template) CTA() string { return t.cta }

// ImagePrompt returns the image prompt field (placeholders unexpanded).
func (t Template) ImagePrompt() string { return t.imagePrompt }

// UsageCount returns how many times the template has been used.
func (t Template) UsageCount() int64 { return t.usageCount }

// IsPublic reports whether the template is shared beyond its owner.
func (t Template) IsPublic() bool { return t.isPublic }

// CreatedAt returns the creation timestamp.
func (t Template) CreatedAt() time.Time { return t.createdAt }

// WithID returns a copy of the template with the given ID.
func (t Template) WithID(id int64) Template {
	t.id = id
	return t
}

// WithPublic returns a copy of the template with sharing enabled or disabled.
func (t Template) WithPublic(public bool) Template {
	t.isPublic = public
	return t
}

// Materialize expands the template into a calendar entry for one day,
// substituting {niche}, {city}, and {day} placeholders.
func (t Template) Materialize(day int, niche, city string) calendar.Entry {
	r := strings.NewReplacer(
		"{niche}", niche,
		"{city}", city,
		"{day}", strconv.Itoa(day),
	)
	return calendar.NewEntry(
		day,
		r.Replace(t.activity),
		r.Replace(t.script),
		r.Replace(t.visual),
		r.Replace(t.caption),
		r.Replace(t.hashtags),
		r.Replace(t.postTime),
		r.Replace(t.cta),
		r.Replace(t.imagePrompt),
	)
}
