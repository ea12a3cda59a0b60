package template

import (
	"errors"
	"testing"

	"github.com/salonsuite/bella/internal/domain"
)

func TestThemeForDay_Rotation(t *testing.T) {
	themes := Themes()

	// Five-day rotation: day and day+5 share a theme.
	for day := 1; day <= 5; day++ {
		if ThemeForDay(day) != ThemeForDay(day+5) {
			t.Errorf("day %d and %d should share a theme", day, day+5)
		}
	}

	seen := map[Theme]bool{}
	for day := 1; day <= 5; day++ {
		seen[ThemeForDay(day)] = true
	}
	if len(seen) != len(themes) {
		t.Errorf("five consecutive days cover %d themes, want %d", len(seen), len(themes))
	}
}

func TestTheme_Valid(t *testing.T) {
	for _, theme := range Themes() {
		if !theme.Valid() {
			t.Errorf("%q should be valid", theme)
		}
	}
	if Theme("viral").Valid() {
		t.Error("unknown theme should be invalid")
	}
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("behind_scenes")
	if err != nil {
		t.Fatalf("ParseTheme: %v", err)
	}
	if theme != ThemeBehindScenes {
		t.Errorf("ParseTheme = %q, want %q", theme, ThemeBehindScenes)
	}
}

func TestParseTheme_Unknown(t *testing.T) {
	_, err := ParseTheme("unknown")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}
