package models

import "fmt"

// Theme controls the client-side visual styling chosen by a user.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeBlue    Theme = "blue"
	ThemeGreen   Theme = "green"
	ThemeMinimal Theme = "minimal"
)

// Themes lists every accepted theme in display order.
var Themes = []Theme{ThemeDefault, ThemeBlue, ThemeGreen, ThemeMinimal}

// ParseTheme validates raw against the fixed theme set.
func ParseTheme(raw string) (Theme, error) {
	for _, t := range Themes {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", raw)
}
