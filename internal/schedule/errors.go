package schedule

import "errors"

var (
	// ErrInvalidTimeFormat is returned when a local time string matches no
	// recognized pattern.
	ErrInvalidTimeFormat = errors.New("unrecognized time format")

	// ErrInvalidTimezone is returned when an IANA timezone identifier cannot
	// be resolved.
	ErrInvalidTimezone = errors.New("unknown timezone")

	// ErrAmbiguousHour is returned for a bare hour like "10" that could mean
	// either 10 AM or 10 PM. Callers should ask the customer to clarify
	// instead of assuming a meridiem.
	ErrAmbiguousHour = errors.New("bare hour is ambiguous, specify AM or PM")

	// ErrInvalidWindow is returned when a configured business day has its
	// open time at or after its close time. Overnight windows are not
	// supported.
	ErrInvalidWindow = errors.New("business window open must precede close")
)
