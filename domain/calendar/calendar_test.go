package calendar

import (
	"strings"
	"testing"
	"time"
)

func TestNewEntry_Fields(t *testing.T) {
	e := NewEntry(3, "Before & After", "See the transformation", "Split-screen reel",
		"Swipe for the glow-up", "#HairGoals #Austin", "Evening (6-8pm)", "Book now",
		"Modern salon interior, warm light")

	if e.Day() != 3 {
		t.Errorf("Day() = %d, want 3", e.Day())
	}
	if e.Activity() != "Before & After" {
		t.Errorf("Activity() = %q, want %q", e.Activity(), "Before & After")
	}
	if e.Script() != "See the transformation" {
		t.Errorf("Script() = %q", e.Script())
	}
	if e.Hashtags() != "#HairGoals #Austin" {
		t.Errorf("Hashtags() = %q", e.Hashtags())
	}
	if e.CTA() != "Book now" {
		t.Errorf("CTA() = %q, want %q", e.CTA(), "Book now")
	}
}

func TestEntry_WithDay(t *testing.T) {
	e := NewEntry(1, "Tip", "script", "", "", "", "", "", "")
	renumbered := e.WithDay(5)

	if renumbered.Day() != 5 {
		t.Errorf("Day() = %d, want 5", renumbered.Day())
	}
	if e.Day() != 1 {
		t.Error("original entry should be unchanged")
	}
}

func TestEntry_Signature(t *testing.T) {
	e := NewEntry(1, "Client Spotlight", "A very long script that keeps going well past thirty characters", "", "", "", "", "", "")

	sig := e.Signature()
	if !strings.HasPrefix(sig, "client spotlight_") {
		t.Errorf("Signature() = %q, want lowercased activity prefix", sig)
	}
	if len(sig) != len("client spotlight")+1+30 {
		t.Errorf("Signature() length = %d, want activity + separator + 30 script chars", len(sig))
	}
}

func TestEntry_Signature_ShortScript(t *testing.T) {
	e := NewEntry(1, "Tip", "Short", "", "", "", "", "", "")

	if e.Signature() != "tip_short" {
		t.Errorf("Signature() = %q, want %q", e.Signature(), "tip_short")
	}
}

func TestEntry_Signature_SameContentMatches(t *testing.T) {
	a := NewEntry(1, "Behind the Scenes", "Watch us prep the studio", "x", "y", "z", "", "", "")
	b := NewEntry(9, "behind the scenes", "Watch us prep the studio", "different", "fields", "here", "", "", "")

	if a.Signature() != b.Signature() {
		t.Error("entries differing only in case and day should share a signature")
	}
}

func TestNewCalendar_Fields(t *testing.T) {
	entries := []Entry{
		NewEntry(1, "a", "s", "", "", "", "", "", ""),
		NewEntry(2, "b", "s", "", "", "", "", "", ""),
	}
	c := NewCalendar(7, "hair salon", "Austin", entries, MethodMixed)

	if c.UserID() != 7 {
		t.Errorf("UserID() = %d, want 7", c.UserID())
	}
	if c.Niche() != "hair salon" {
		t.Errorf("Niche() = %q", c.Niche())
	}
	if c.DaysGenerated() != 2 {
		t.Errorf("DaysGenerated() = %d, want 2", c.DaysGenerated())
	}
	if c.Method() != MethodMixed {
		t.Errorf("Method() = %q, want %q", c.Method(), MethodMixed)
	}
	if c.SuccessRate() != 1.0 {
		t.Errorf("SuccessRate() = %v, want 1.0", c.SuccessRate())
	}
	if c.ID() != 0 {
		t.Errorf("ID() = %d, want 0 before persistence", c.ID())
	}
	if c.CreatedAt().IsZero() {
		t.Error("CreatedAt() should be set")
	}
}

func TestCalendar_EntriesCopied(t *testing.T) {
	entries := []Entry{NewEntry(1, "a", "s", "", "", "", "", "", "")}
	c := NewCalendar(1, "nails", "Dallas", entries, MethodTemplate)

	got := c.Entries()
	got[0] = NewEntry(99, "mutated", "", "", "", "", "", "", "")

	if c.Entries()[0].Day() != 1 {
		t.Error("mutating the returned slice should not affect the calendar")
	}
}

func TestCalendar_WithGenerationStats(t *testing.T) {
	c := NewCalendar(1, "lashes", "Miami", nil, MethodAI)
	c = c.WithGenerationStats(2500*time.Millisecond, 0.85)

	if c.GenerationTime() != 2500*time.Millisecond {
		t.Errorf("GenerationTime() = %v", c.GenerationTime())
	}
	if c.SuccessRate() != 0.85 {
		t.Errorf("SuccessRate() = %v, want 0.85", c.SuccessRate())
	}
}

func TestReconstructCalendar(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{NewEntry(1, "a", "s", "", "", "", "", "", "")}
	c := ReconstructCalendar(42, 7, "makeup", "Phoenix", 1, MethodTemplate,
		entries, 3*time.Second, 0.9, created)

	if c.ID() != 42 {
		t.Errorf("ID() = %d, want 42", c.ID())
	}
	if !c.CreatedAt().Equal(created) {
		t.Errorf("CreatedAt() = %v, want %v", c.CreatedAt(), created)
	}
	if c.GenerationTime() != 3*time.Second {
		t.Errorf("GenerationTime() = %v", c.GenerationTime())
	}
}

func TestCacheKey_Stable(t *testing.T) {
	a := CacheKey("hair salon", "Austin", 3)
	b := CacheKey("Hair Salon", "austin", 3)

	if a != b {
		t.Error("cache key should be case-insensitive in niche and city")
	}
	if len(a) != 32 {
		t.Errorf("cache key length = %d, want 32 hex chars", len(a))
	}
}

func TestCacheKey_DistinguishesDays(t *testing.T) {
	if CacheKey("hair", "Austin", 1) == CacheKey("hair", "Austin", 2) {
		t.Error("different days should produce different keys")
	}
}
