// Package business provides per-business configuration: identity, timezone,
// weekly opening hours, and the optional external calendar connection.
package business

import (
	"fmt"
	"time"
)

// DayHours represents the opening hours for a single day.
// Nil means the business is closed that day.
type DayHours struct {
	Open  string `json:"open"`  // "09:00" in 24-hour format
	Close string `json:"close"` // "18:00" in 24-hour format
}

// Hours maps day names to their opening hours.
type Hours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// ForWeekday returns the hours entry for the given weekday, nil when closed.
func (h *Hours) ForWeekday(day time.Weekday) *DayHours {
	if h == nil {
		return nil
	}
	switch day {
	case time.Monday:
		return h.Monday
	case time.Tuesday:
		return h.Tuesday
	case time.Wednesday:
		return h.Wednesday
	case time.Thursday:
		return h.Thursday
	case time.Friday:
		return h.Friday
	case time.Saturday:
		return h.Saturday
	case time.Sunday:
		return h.Sunday
	}
	return nil
}

// Calendar holds the scheduling configuration for a business.
type Calendar struct {
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
	Timezone   string `json:"timezone"` // e.g., "America/New_York"
	Hours      Hours  `json:"business_hours"`

	// ExternalCalendarID is a Google Calendar reference queried for free/busy
	// data. Empty means no external calendar is connected.
	ExternalCalendarID string `json:"external_calendar_id,omitempty"`

	// Services offered, e.g. ["Full Detail", "Interior Detail", "Ceramic Coating"].
	Services []string `json:"services,omitempty"`

	// DefaultDurationMinutes is used when a caller does not specify a service
	// duration. Detailing jobs typically run 120-240 minutes.
	DefaultDurationMinutes int `json:"default_duration_minutes,omitempty"`
}

// Location resolves the calendar's IANA timezone.
func (c *Calendar) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("business: load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DefaultCalendar returns a sensible default configuration.
func DefaultCalendar(businessID string) *Calendar {
	return &Calendar{
		BusinessID: businessID,
		Name:       "Detail Shop",
		Timezone:   "America/New_York",
		Hours: Hours{
			Monday:    &DayHours{Open: "09:00", Close: "18:00"},
			Tuesday:   &DayHours{Open: "09:00", Close: "18:00"},
			Wednesday: &DayHours{Open: "09:00", Close: "18:00"},
			Thursday:  &DayHours{Open: "09:00", Close: "18:00"},
			Friday:    &DayHours{Open: "09:00", Close: "18:00"},
			Saturday:  &DayHours{Open: "10:00", Close: "16:00"},
			Sunday:    nil, // Closed
		},
		Services:               []string{"Express Wash", "Full Detail", "Ceramic Coating"},
		DefaultDurationMinutes: 120,
	}
}
