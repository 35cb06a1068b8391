// Package locale renders timestamps and dates the way the configured user
// locale expects them.
package locale

import (
	"fmt"
	"time"
	_ "time/tzdata" // zones must resolve on minimal images

	"golang.org/x/text/language"
)

type layouts struct {
	dateTime string
	date     string
}

var supported = []language.Tag{
	language.AmericanEnglish, // first entry is the matcher fallback
	language.BrazilianPortuguese,
	language.BritishEnglish,
	language.EuropeanPortuguese,
	language.Spanish,
	language.German,
	language.French,
}

var layoutsByTag = map[language.Tag]layouts{
	language.AmericanEnglish:     {dateTime: "1/2/2006, 3:04:05 PM", date: "1/2/2006"},
	language.BrazilianPortuguese: {dateTime: "02/01/2006 15:04:05", date: "02/01/2006"},
	language.BritishEnglish:      {dateTime: "02/01/2006, 15:04:05", date: "02/01/2006"},
	language.EuropeanPortuguese:  {dateTime: "02/01/2006, 15:04:05", date: "02/01/2006"},
	language.Spanish:             {dateTime: "2/1/2006, 15:04:05", date: "2/1/2006"},
	language.German:              {dateTime: "2.1.2006, 15:04:05", date: "2.1.2006"},
	language.French:              {dateTime: "02/01/2006 15:04:05", date: "02/01/2006"},
}

var matcher = language.NewMatcher(supported)

// Locale pairs a language (for layouts) with a time zone (for wall-clock values).
type Locale struct {
	Tag      language.Tag
	Location *time.Location
	layouts  layouts
}

// New resolves a BCP 47 language tag and an IANA time zone name. Unsupported
// languages fall back to the closest supported one; "Local" or an empty zone
// uses the process time zone.
func New(lang, tz string) (Locale, error) {
	desired, err := language.Parse(lang)
	if err != nil {
		return Locale{}, fmt.Errorf("parse language %q: %w", lang, err)
	}
	_, idx, _ := matcher.Match(desired)
	tag := supported[idx]

	loc := time.Local
	if tz != "" && tz != "Local" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return Locale{}, fmt.Errorf("load time zone %q: %w", tz, err)
		}
	}

	return Locale{Tag: tag, Location: loc, layouts: layoutsByTag[tag]}, nil
}

// Default is en-US in the process time zone.
func Default() Locale {
	return Locale{Tag: language.AmericanEnglish, Location: time.Local, layouts: layoutsByTag[language.AmericanEnglish]}
}

// Now returns the current time in the locale's zone.
func (l Locale) Now() time.Time {
	return time.Now().In(l.location())
}

// DateTime renders an instant as local date and time.
func (l Locale) DateTime(t time.Time) string {
	return t.In(l.location()).Format(l.layout().dateTime)
}

// Date renders the calendar date of t without converting zones.
func (l Locale) Date(t time.Time) string {
	return t.Format(l.layout().date)
}

// ParseDate reads a YYYY-MM-DD calendar date in the locale's zone.
func (l Locale) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, l.location())
}

func (l Locale) location() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}

func (l Locale) layout() layouts {
	if l.layouts.dateTime == "" {
		return layoutsByTag[language.AmericanEnglish]
	}
	return l.layouts
}
