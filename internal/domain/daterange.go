package domain

import (
	"strings"
	"time"
)

// DateRange is an inclusive [Start, End] calendar-day filter. A nil bound is
// unbounded on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateRange parses YYYY-MM-DD bounds; empty strings leave the side open.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, time.UTC)
		if err != nil {
			return r, NewValidationError("start_date", "must be YYYY-MM-DD, got "+quote(s))
		}
		r.Start = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, time.UTC)
		if err != nil {
			return r, NewValidationError("end_date", "must be YYYY-MM-DD, got "+quote(s))
		}
		r.End = &t
	}
	return r, nil
}

// Lower returns the inclusive lower bound, if any
func (r DateRange) Lower() (time.Time, bool) {
	if r.Start == nil {
		return time.Time{}, false
	}
	return *r.Start, true
}

// Upper returns the exclusive upper bound: the day after End, so that every
// order placed on End is included regardless of its time of day.
func (r DateRange) Upper() (time.Time, bool) {
	if r.End == nil {
		return time.Time{}, false
	}
	return r.End.AddDate(0, 0, 1), true
}
