package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinLineFields is the minimum number of pipe-separated fields a generated
// line must carry to be usable. Lines with fewer fields are rejected and
// the caller falls back to template content.
const MinLineFields = 6

// ErrMalformedLine indicates a generated line did not carry enough fields.
var ErrMalformedLine = errors.New("malformed calendar line")

// Line renders the entry in the nine-field pipe wire format:
//
//	Day 1 | Activity | Script | Visual | Caption | Hashtags | Time | CTA | Image prompt
func (e Entry) Line() string {
	return fmt.Sprintf("Day %d | %s | %s | %s | %s | %s | %s | %s | %s",
		e.day, e.activity, e.script, e.visual, e.caption,
		e.hashtags, e.postTime, e.cta, e.imagePrompt)
}

// ParseLine parses one pipe-separated line into an Entry. Fields are
// trimmed and interior newlines flattened to spaces. Lines with fewer
// than MinLineFields fields return ErrMalformedLine. Missing trailing
// fields fall back to niche/city-derived defaults; a day number that
// cannot be read from the first field falls back to the given day.
func ParseLine(line string, day int, niche, city string) (Entry, error) {
	raw := strings.Split(strings.TrimSpace(line), "|")
	if len(raw) < MinLineFields {
		return Entry{}, fmt.Errorf("%w: %d fields, need at least %d",
			ErrMalformedLine, len(raw), MinLineFields)
	}

	parts := make([]string, len(raw))
	for i, p := range raw {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(p), "\n", " ")
	}

	field := func(i int, fallback string) string {
		if i < len(parts) {
			return parts[i]
		}
		return fallback
	}

	return Entry{
		day:         parseDay(parts[0], day),
		activity:    field(1, "Social media post"),
		script:      field(2, fmt.Sprintf("Professional %s content", niche)),
		visual:      field(3, "Professional visual"),
		caption:     field(4, fmt.Sprintf("Quality %s in %s", niche, city)),
		hashtags:    field(5, DefaultHashtags(niche, city)),
		postTime:    field(6, "Peak hours"),
		cta:         field(7, "Book now"),
		imagePrompt: field(8, fmt.Sprintf("Professional %s business in %s", niche, city)),
	}, nil
}

// DefaultHashtags builds the niche/city hashtag pair used when a line
// carries no hashtag field: the first comma segment of the niche and the
// city, each with spaces removed.
func DefaultHashtags(niche, city string) string {
	first, _, _ := strings.Cut(niche, ",")
	return fmt.Sprintf("#%s #%s",
		strings.ReplaceAll(first, " ", ""),
		strings.ReplaceAll(city, " ", ""))
}

// parseDay reads the day number from a "Day N" field, falling back to
// the expected day when the field cannot be read.
func parseDay(s string, fallback int) int {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if rest, ok := strings.CutPrefix(lower, "day"); ok {
		s = strings.TrimSpace(rest)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
