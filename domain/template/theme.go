// Package template provides content template domain types: saved templates,
// content themes, and the built-in fallback generators that guarantee a
// calendar can always be produced without an AI provider.
package template

import (
	"fmt"

	"github.com/salonsuite/bella/internal/domain"
)

// Theme classifies template content by its angle on the business.
type Theme string

// Theme values, in rotation order.
const (
	ThemeTransformation Theme = "transformation"
	ThemeEducation      Theme = "education"
	ThemeBehindScenes   Theme = "behind_scenes"
	ThemeClientFocus    Theme = "client_focus"
	ThemeTrends         Theme = "trends"
)

// Themes returns all themes in rotation order.
func Themes() []Theme {
	return []Theme{
		ThemeTransformation,
		ThemeEducation,
		ThemeBehindScenes,
		ThemeClientFocus,
		ThemeTrends,
	}
}

// ThemeForDay returns the theme assigned to a day of the rotation.
func ThemeForDay(day int) Theme {
	themes := Themes()
	return themes[day%len(themes)]
}

// Valid reports whether the theme is a known value.
func (t Theme) Valid() bool {
	switch t {
	case ThemeTransformation, ThemeEducation, ThemeBehindScenes, ThemeClientFocus, ThemeTrends:
		return true
	}
	return false
}

// ParseTheme converts a string into a Theme.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown theme %q", domain.ErrValidation, s)
	}
	return t, nil
}
