package schedule

import (
	"fmt"
	"time"

	"github.com/glossworks/detailing-ai-platform/internal/business"
)

// WindowFor resolves the open/close instants for the given calendar date
// (UTC-midnight convention) in the business's timezone. open is false when
// the business is closed that day.
//
// The weekday is taken from a midday reference constructed in the business
// timezone, so a date represented as a UTC-midnight instant near a zone
// boundary cannot shift to the wrong day.
func WindowFor(cal *business.Calendar, date time.Time) (Interval, bool, error) {
	loc, err := time.LoadLocation(cal.Timezone)
	if err != nil {
		return Interval{}, false, fmt.Errorf("%w: %q", ErrInvalidTimezone, cal.Timezone)
	}

	year, month, day := date.UTC().Date()
	midday := time.Date(year, month, day, 12, 0, 0, 0, loc)

	hours := cal.Hours.ForWeekday(midday.Weekday())
	if hours == nil || hours.Open == "" || hours.Close == "" {
		return Interval{}, false, nil
	}

	openHour, openMin, err := parseClock(hours.Open)
	if err != nil {
		return Interval{}, false, fmt.Errorf("%w: open %q", ErrInvalidTimeFormat, hours.Open)
	}
	closeHour, closeMin, err := parseClock(hours.Close)
	if err != nil {
		return Interval{}, false, fmt.Errorf("%w: close %q", ErrInvalidTimeFormat, hours.Close)
	}

	openAt := time.Date(year, month, day, openHour, openMin, 0, 0, loc).UTC()
	closeAt := time.Date(year, month, day, closeHour, closeMin, 0, 0, loc).UTC()
	if !openAt.Before(closeAt) {
		return Interval{}, false, fmt.Errorf("%w: %s-%s on %s", ErrInvalidWindow, hours.Open, hours.Close, midday.Weekday())
	}

	return Interval{Start: openAt, End: closeAt}, true, nil
}

// parseClock parses "HH:MM" 24-hour wall-clock strings from the hours table.
func parseClock(v string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
