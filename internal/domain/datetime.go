package domain

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// DateLayout is the layout of date query parameters
	DateLayout = "2006-01-02"
	// DateTimeLayout is the wire layout of order and ship dates
	DateTimeLayout = "2006-01-02T15:04:05"
)

// ParseDateTime accepts the common date and date-time spellings found in
// payloads and spreadsheets and normalizes them to UTC with second precision.
func ParseDateTime(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewValidationError(field, "is required")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, NewValidationError(field, "invalid date "+quote(s))
	}
	return t.UTC().Truncate(time.Second), nil
}

// FormatDateTime renders t in DateTimeLayout
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

func quote(s string) string {
	return "\"" + s + "\""
}
