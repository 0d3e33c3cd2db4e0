package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Customers type times like "10", "10:00", "10 AM", "2:30pm". The pattern
// accepts all of them after whitespace normalization.
var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(AM|PM)?$`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// NormalizeLocalTime resolves a loosely formatted local time string on the
// given calendar date (UTC-midnight convention) in the given IANA timezone to
// a canonical UTC interval of durationMinutes.
//
// Meridiem handling: "10 AM"/"10:00 pm" use 12-hour semantics; "10:00" and
// "14:30" are read as 24-hour clock. A bare hour with no meridiem that could
// mean either morning or evening (1-11) returns ErrAmbiguousHour so callers
// can ask the customer which they meant.
func NormalizeLocalTime(date time.Time, localTime, tz string, durationMinutes int) (Interval, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	if durationMinutes <= 0 {
		return Interval{}, fmt.Errorf("%w: duration must be positive", ErrInvalidTimeFormat)
	}

	cleaned := strings.ToUpper(whitespacePattern.ReplaceAllString(strings.TrimSpace(localTime), " "))
	m := clockPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, localTime)
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	meridiem := m[3]

	switch {
	case meridiem != "":
		if hour < 1 || hour > 12 {
			return Interval{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, localTime)
		}
		if meridiem == "PM" && hour != 12 {
			hour += 12
		}
		if meridiem == "AM" && hour == 12 {
			hour = 0
		}
	case m[2] == "":
		// Bare hour, no meridiem. 0 and 12-23 only make sense on a 24-hour
		// clock; 1-11 could be either morning or evening.
		if hour > 23 {
			return Interval{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, localTime)
		}
		if hour >= 1 && hour <= 11 {
			return Interval{}, fmt.Errorf("%w: %q", ErrAmbiguousHour, localTime)
		}
	default:
		if hour > 23 {
			return Interval{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, localTime)
		}
	}
	if minute > 59 {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, localTime)
	}

	year, month, day := date.UTC().Date()
	start := time.Date(year, month, day, hour, minute, 0, 0, loc).UTC()
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}, nil
}
