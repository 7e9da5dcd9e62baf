package date

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateTimeFormat is the layout of exchange export timestamps, without offset.
const DateTimeFormat = "2006-01-02 15:04:05"

// dateTimeOffsetFormat also accepts fractional seconds after the seconds field.
const dateTimeOffsetFormat = DateTimeFormat + "Z07:00"

var offsetSuffix = regexp.MustCompile(`(Z|[+-]\d{2}:\d{2})$`)

// Time converts a millisecond timestamp to a UTC time.
func Time(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// Millis converts a time to a millisecond timestamp.
func Millis(t time.Time) int64 { return t.UnixMilli() }

// FormatMillis formats a millisecond timestamp in UTC with the given layout.
func FormatMillis(ms int64, layout string) string { return Time(ms).Format(layout) }

// ValidOffset reports whether s is a UTC offset like "+00:00" or "Z".
func ValidOffset(s string) bool { return s != "" && offsetSuffix.FindString(s) == s }

// ParseDateTime parses an export timestamp into milliseconds since the epoch.
//
// Exports omit the UTC offset most of the time; defaultOffset is appended when
// str does not end with one. A "T" separator is accepted in place of the space.
func ParseDateTime(str, defaultOffset string) (int64, error) {
	s := strings.TrimSpace(str)
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10] + " " + s[11:]
	}
	if !offsetSuffix.MatchString(s) {
		s += defaultOffset
	}
	t, err := time.Parse(dateTimeOffsetFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date-time %q want format %q: %w", str, DateTimeFormat, err)
	}
	return t.UnixMilli(), nil
}

// MustParseDateTime is like ParseDateTime with a UTC default offset, but panics on error.
func MustParseDateTime(str string) int64 {
	ms, err := ParseDateTime(str, "+00:00")
	if err != nil {
		panic(err.Error())
	}
	return ms
}
