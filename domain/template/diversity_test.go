package template

import (
	"strings"
	"testing"
)

func TestDiversify_ProducesCompleteEntry(t *testing.T) {
	e := Diversify("hair salon", "Austin", 1, nil)

	if e.Day() != 1 {
		t.Errorf("Day() = %d, want 1", e.Day())
	}
	if e.Activity() == "" || e.Script() == "" || e.Caption() == "" {
		t.Error("entry should have activity, script, and caption")
	}
	if !strings.Contains(e.ImagePrompt(), "@salonsuitedigitalstudio") {
		t.Errorf("ImagePrompt() = %q, want branding handle", e.ImagePrompt())
	}
}

func TestDiversify_BeautyNichePrompt(t *testing.T) {
	beauty := Diversify("hair salon", "Austin", 1, nil)
	other := Diversify("pizza shop", "Austin", 1, nil)

	if !strings.Contains(beauty.ImagePrompt(), "salon in Austin") {
		t.Errorf("beauty prompt = %q", beauty.ImagePrompt())
	}
	if !strings.Contains(other.ImagePrompt(), "business in Austin") {
		t.Errorf("non-beauty prompt = %q", other.ImagePrompt())
	}
}

func TestDiversify_WalksPastUsedSignatures(t *testing.T) {
	first := Diversify("hair", "Austin", 1, nil)

	used := map[string]bool{first.Signature(): true}
	second := Diversify("hair", "Austin", 1, used)

	if first.Signature() == second.Signature() {
		t.Error("generation should walk past a used signature")
	}
}

func TestDiversify_ConsecutiveDaysDiffer(t *testing.T) {
	used := map[string]bool{}
	seen := map[string]bool{}
	for day := 1; day <= 5; day++ {
		e := Diversify("nails", "Dallas", day, used)
		sig := e.Signature()
		if seen[sig] {
			t.Errorf("day %d repeated signature %q", day, sig)
		}
		seen[sig] = true
		used[sig] = true
	}
}

func TestDiversify_ThemeMatchesRotation(t *testing.T) {
	// Day 1 lands on the education theme in the five-slot rotation.
	e := Diversify("hair", "Austin", 1, nil)

	eduActivities := diversityActivities[ThemeForDay(1)]
	found := false
	for _, a := range eduActivities {
		if a == e.Activity() {
			found = true
		}
	}
	if !found {
		t.Errorf("Activity() = %q, want one of the day-1 theme's activities", e.Activity())
	}
}

func TestDiversify_HashtagsCarryNicheAndCity(t *testing.T) {
	e := Diversify("hair salon", "San Antonio", 2, nil)

	if !strings.Contains(e.Hashtags(), "hairsalon") && !strings.Contains(e.Hashtags(), "SanAntonio") {
		t.Errorf("Hashtags() = %q, want niche or city tag", e.Hashtags())
	}
	if strings.Contains(e.Hashtags(), " salon") {
		t.Errorf("Hashtags() = %q, tags should have spaces removed", e.Hashtags())
	}
}
