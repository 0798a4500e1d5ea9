// Package i18n holds the message catalog used to localize derived display fields.
package i18n

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var weekdays = map[string][7]string{
	"fr": {"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"},
	"en": {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

var (
	registerOnce sync.Once
	supported    []language.Tag
	matcher      language.Matcher
)

func register() {
	// English first so unmatched locales fall back to it.
	for _, locale := range []string{"en", "fr"} {
		tag := language.MustParse(locale)
		supported = append(supported, tag)
		for day, name := range weekdays[locale] {
			_ = message.SetString(tag, weekdayKey(time.Weekday(day)), name)
		}
	}
	matcher = language.NewMatcher(supported)
}

func weekdayKey(d time.Weekday) string {
	return "weekday." + strings.ToLower(d.String())
}

// Locale resolves a locale string such as "fr", "fr-FR" or "en-GB" to a
// supported tag, English when nothing matches.
func Locale(raw string) language.Tag {
	registerOnce.Do(register)
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return supported[0]
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// Weekday returns the localized name of d.
func Weekday(tag language.Tag, d time.Weekday) string {
	registerOnce.Do(register)
	return message.NewPrinter(tag).Sprintf(weekdayKey(d))
}
