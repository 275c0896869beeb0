package helpers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const dayLayout = "2006-01-02"

var digitRun = regexp.MustCompile(`\d+`)

// Layouts tried for absolute date strings, most specific first.
var absoluteLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizeDate converts an arbitrary date-like value to a YYYY-MM-DD
// string. It is total: any value it cannot interpret yields the date of now.
// Callers pass the current UTC time so one request normalizes every article
// against a single instant.
func NormalizeDate(value any, now time.Time) string {
	fallback := now.Format(dayLayout)

	s, ok := value.(string)
	if !ok {
		return fallback
	}
	s = strings.TrimSpace(s)

	if strings.Contains(s, "ago") {
		if out, ok := relativeDate(s, now); ok {
			return out
		}
		return fallback
	}
	if out, ok := partialDate(s, now); ok {
		return out
	}
	if out, ok := absoluteDate(s); ok {
		return out
	}
	return fallback
}

// relativeDate handles strings like "6h ago" and "2 days ago": the
// magnitude is the first digit run of the first field, the unit is the
// letter following that run when the field carries one ("6h"), otherwise
// the first character of the next field. "12 months ago" therefore reads
// as minutes.
func relativeDate(s string, now time.Time) (string, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return "", false
	}
	loc := digitRun.FindStringIndex(fields[0])
	if loc == nil {
		return "", false
	}
	value, err := strconv.Atoi(fields[0][loc[0]:loc[1]])
	if err != nil {
		return "", false
	}
	unitChar := fields[1][0]
	if rest := fields[0][loc[1]:]; rest != "" {
		unitChar = rest[0]
	}

	var unit time.Duration
	switch unicode.ToLower(rune(unitChar)) {
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'm':
		unit = time.Minute
	default:
		return "", false
	}
	return now.Add(-time.Duration(value) * unit).Format(dayLayout), true
}

// partialDate handles "Mon Day" forms ("Aug 6") by injecting the current
// UTC year.
func partialDate(s string, now time.Time) (string, bool) {
	t, err := time.Parse("Jan 2 2006", fmt.Sprintf("%s %d", s, now.Year()))
	if err != nil {
		return "", false
	}
	return t.Format(dayLayout), true
}

// absoluteDate handles full ISO-8601 strings, with a trailing Z rewritten to
// an explicit UTC offset.
func absoluteDate(s string) (string, bool) {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dayLayout), true
		}
	}
	return "", false
}
