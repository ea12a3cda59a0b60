package calendar

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLine_AllNineFields(t *testing.T) {
	line := "Day 2 | Client Testimonial | Happy clients in Austin | Candid photo | Real results from real people | #HairGoals #Austin | Evening (6-8pm) | DM us | Salon interior with client"

	e, err := ParseLine(line, 2, "hair salon", "Austin")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}

	if e.Day() != 2 {
		t.Errorf("Day() = %d, want 2", e.Day())
	}
	if e.Activity() != "Client Testimonial" {
		t.Errorf("Activity() = %q", e.Activity())
	}
	if e.PostTime() != "Evening (6-8pm)" {
		t.Errorf("PostTime() = %q", e.PostTime())
	}
	if e.ImagePrompt() != "Salon interior with client" {
		t.Errorf("ImagePrompt() = %q", e.ImagePrompt())
	}
}

func TestParseLine_SixFields_DefaultsTail(t *testing.T) {
	line := "Day 1 | Tip | Quick styling tip | Close-up shot | Try this at home | #Nails"

	e, err := ParseLine(line, 1, "nail salon", "Dallas")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}

	if e.PostTime() != "Peak hours" {
		t.Errorf("PostTime() = %q, want default %q", e.PostTime(), "Peak hours")
	}
	if e.CTA() != "Book now" {
		t.Errorf("CTA() = %q, want default %q", e.CTA(), "Book now")
	}
	if e.ImagePrompt() != "Professional nail salon business in Dallas" {
		t.Errorf("ImagePrompt() = %q", e.ImagePrompt())
	}
}

func TestParseLine_TooFewFields(t *testing.T) {
	_, err := ParseLine("Day 1 | Tip | Script | Visual | Caption", 1, "hair", "Austin")

	if !errors.Is(err, ErrMalformedLine) {
		t.Errorf("err = %v, want ErrMalformedLine", err)
	}
}

func TestParseLine_FlattensNewlines(t *testing.T) {
	line := "Day 1 | Tip | First line\nsecond line | Visual | Caption | #Tags"

	e, err := ParseLine(line, 1, "hair", "Austin")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if e.Script() != "First line second line" {
		t.Errorf("Script() = %q, want newline flattened", e.Script())
	}
}

func TestParseLine_UnreadableDayFallsBack(t *testing.T) {
	line := "Post one | Tip | Script | Visual | Caption | #Tags"

	e, err := ParseLine(line, 4, "hair", "Austin")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if e.Day() != 4 {
		t.Errorf("Day() = %d, want fallback 4", e.Day())
	}
}

func TestParseLine_LowercaseDayPrefix(t *testing.T) {
	line := "day 6 | Tip | Script | Visual | Caption | #Tags"

	e, err := ParseLine(line, 1, "hair", "Austin")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if e.Day() != 6 {
		t.Errorf("Day() = %d, want 6", e.Day())
	}
}

func TestEntry_Line_RoundTrips(t *testing.T) {
	e := NewEntry(5, "Team Spotlight", "Meet our stylists", "Group photo",
		"The team behind the chair", "#Team #Salon", "Morning (9-11am)", "Call today",
		"Stylists in a bright studio")

	parsed, err := ParseLine(e.Line(), 5, "hair", "Austin")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if parsed != e {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, e)
	}
}

func TestEntry_Line_Format(t *testing.T) {
	e := NewEntry(1, "A", "B", "C", "D", "E", "F", "G", "H")

	want := "Day 1 | A | B | C | D | E | F | G | H"
	if e.Line() != want {
		t.Errorf("Line() = %q, want %q", e.Line(), want)
	}
}

func TestDefaultHashtags(t *testing.T) {
	got := DefaultHashtags("hair salon, color bar", "San Antonio")

	if got != "#hairsalon #SanAntonio" {
		t.Errorf("DefaultHashtags() = %q, want %q", got, "#hairsalon #SanAntonio")
	}
}

func TestParseLine_ExtraWhitespace(t *testing.T) {
	line := "  Day 3 |  Promo  | Script | Visual | Caption | #Tags  "

	e, err := ParseLine(line, 3, "hair", "Austin")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if e.Activity() != "Promo" {
		t.Errorf("Activity() = %q, want trimmed %q", e.Activity(), "Promo")
	}
	if strings.Contains(e.Hashtags(), " ") && e.Hashtags() != "#Tags" {
		t.Errorf("Hashtags() = %q, want trimmed", e.Hashtags())
	}
}
