// Package calendar provides content calendar domain types: the nine-field
// daily post entry and the calendar aggregate that groups a generation run.
package calendar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Method identifies how a calendar's content was produced.
type Method string

// Method values.
const (
	MethodTemplate Method = "template"
	MethodAI       Method = "ai"
	MethodMixed    Method = "mixed"
)

// Entry represents one day of planned content. Entries are immutable
// after creation.
type Entry struct {
	day         int
	activity    string
	script      string
	visual      string
	caption     string
	hashtags    string
	postTime    string
	cta         string
	imagePrompt string
}

// NewEntry creates an Entry from its nine fields.
func NewEntry(
	day int,
	activity, script, visual, caption, hashtags, postTime, cta, imagePrompt string,
) Entry {
	return Entry{
		day:         day,
		activity:    activity,
		script:      script,
		visual:      visual,
		caption:     caption,
		hashtags:    hashtags,
		postTime:    postTime,
		cta:         cta,
		imagePrompt: imagePrompt,
	}
}

// Day returns the 1-based day number.
func (e Entry) Day() int { return e.day }

// Activity returns the post activity or concept.
func (e Entry) Activity() string { return e.activity }

// Script returns the spoken or written script for the post.
func (e Entry) Script() string { return e.script }

// Visual returns the visual direction for the post.
func (e Entry) Visual() string { return e.visual }

// Caption returns the post caption.
func (e Entry) Caption() string { return e.caption }

// Hashtags returns the hashtag string.
func (e Entry) Hashtags() string { return e.hashtags }

// PostTime returns the suggested posting time.
func (e Entry) PostTime() string { return e.postTime }

// CTA returns the call to action.
func (e Entry) CTA() string { return e.cta }

// ImagePrompt returns the image generation prompt for the post.
func (e Entry) ImagePrompt() string { return e.imagePrompt }

// WithDay returns a copy of the entry renumbered to the given day.
func (e Entry) WithDay(day int) Entry {
	e.day = day
	return e
}

// Signature returns a dedup key for the entry: the lowercased activity
// and the first 30 bytes of the script joined by an underscore. Two
// entries with the same signature are considered the same content.
func (e Entry) Signature() string {
	script := e.script
	if len(script) > 30 {
		script = script[:30]
	}
	return strings.ToLower(e.activity) + "_" + strings.ToLower(script)
}

// Calendar represents the result of one generation run: a niche/city pair
// and the entries produced for it.
type Calendar struct {
	id             int64
	userID         int64
	niche          string
	city           string
	daysGenerated  int
	method         Method
	entries        []Entry
	generationTime time.Duration
	successRate    float64
	createdAt      time.Time
}

// NewCalendar creates a Calendar from a completed generation run.
func NewCalendar(userID int64, niche, city string, entries []Entry, method Method) Calendar {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return Calendar{
		userID:        userID,
		niche:         niche,
		city:          city,
		daysGenerated: len(copied),
		method:        method,
		entries:       copied,
		successRate:   1.0,
		createdAt:     time.Now().UTC(),
	}
}

// ReconstructCalendar reconstructs a Calendar from persistence.
func ReconstructCalendar(
	id, userID int64,
	niche, city string,
	daysGenerated int,
	method Method,
	entries []Entry,
	generationTime time.Duration,
	successRate float64,
	createdAt time.Time,
) Calendar {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return Calendar{
		id:             id,
		userID:         userID,
		niche:          niche,
		city:           city,
		daysGenerated:  daysGenerated,
		method:         method,
		entries:        copied,
		generationTime: generationTime,
		successRate:    successRate,
		createdAt:      createdAt,
	}
}

// ID returns the calendar ID (zero until persisted).
func (c Calendar) ID() int64 { return c.id }

// UserID returns the owning user's ID.
func (c Calendar) UserID() int64 { return c.userID }

// Niche returns the business niche the calendar was generated for.
func (c Calendar) Niche() string { return c.niche }

// City returns the city the calendar was generated for.
func (c Calendar) City() string { return c.city }

// DaysGenerated returns how many daily entries the run produced.
func (c Calendar) DaysGenerated() int { return c.daysGenerated }

// Method returns how the content was produced.
func (c Calendar) Method() Method { return c.method }

// Entries returns a copy of the calendar's entries.
func (c Calendar) Entries() []Entry {
	result := make([]Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// GenerationTime returns how long the run took.
func (c Calendar) GenerationTime() time.Duration { return c.generationTime }

// SuccessRate returns the fraction of days that generated successfully.
func (c Calendar) SuccessRate() float64 { return c.successRate }

// CreatedAt returns the creation timestamp.
func (c Calendar) CreatedAt() time.Time { return c.createdAt }

// WithID returns a copy of the calendar with the given ID.
func (c Calendar) WithID(id int64) Calendar {
	c.id = id
	return c
}

// WithGenerationStats returns a copy of the calendar with run timing
// and success rate recorded.
func (c Calendar) WithGenerationStats(elapsed time.Duration, successRate float64) Calendar {
	c.generationTime = elapsed
	c.successRate = successRate
	return c
}

// CacheKey returns the content cache key for one (niche, city, day) slot.
// Keys are case-insensitive in niche and city.
func CacheKey(niche, city string, day int) string {
	sum := md5.Sum(fmt.Appendf(nil, "%s|%s|%d",
		strings.ToLower(niche), strings.ToLower(city), day))
	return hex.EncodeToString(sum[:])
}
