package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/glossworks/detailing-ai-platform/internal/business"
)

// ValidateRequest describes one proposed appointment.
type ValidateRequest struct {
	// Date is the requested calendar date (UTC-midnight convention).
	Date time.Time
	// LocalTime is the customer-supplied time string, e.g. "10:00 AM".
	LocalTime string
	// Timezone optionally overrides the business timezone for interpreting
	// LocalTime.
	Timezone        string
	DurationMinutes int
}

// Conflict describes one busy interval that collides with a request.
type Conflict struct {
	Source string    `json:"source"` // "commitment", "external", or "request"
	Label  string    `json:"label"`
	Start  time.Time `json:"start,omitempty"`
	End    time.Time `json:"end,omitempty"`
}

// ValidationResult is the availability verdict for one proposed appointment.
type ValidationResult struct {
	Available bool `json:"available"`
	// NeedsClarification is set when the requested time was ambiguous (a bare
	// hour with no AM/PM) and the caller should ask the customer to clarify.
	NeedsClarification bool       `json:"needs_clarification,omitempty"`
	Requested          *Interval  `json:"requested,omitempty"`
	Conflicts          []Conflict `json:"conflicts,omitempty"`
	Suggestions        []Slot     `json:"suggestions,omitempty"`
}

// Candidate hours scanned when proposing alternatives after a conflict.
// Deterministic and advisory; a full slot-generation run is the caller's
// prerogative.
var suggestionHours = []int{9, 12, 15}

// Validate checks one proposed appointment against the aggregated busy set.
// Malformed input comes back as a structured unavailable result, never as an
// error, so conversational callers can relay the message without crashing.
func (e *Engine) Validate(ctx context.Context, businessID string, req ValidateRequest) (*ValidationResult, error) {
	ctx, span := scheduleTracer.Start(ctx, "schedule.validate")
	defer span.End()
	span.SetAttributes(attribute.String("detailing.business_id", businessID))

	cal, err := e.calendars.Get(ctx, businessID)
	if err != nil {
		e.metrics.ObserveValidation("error")
		return nil, fmt.Errorf("schedule: load calendar: %w", err)
	}

	tz := req.Timezone
	if tz == "" {
		tz = cal.Timezone
	}
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = cal.DefaultDurationMinutes
	}
	if duration <= 0 {
		duration = 120
	}

	requested, err := NormalizeLocalTime(req.Date, req.LocalTime, tz, duration)
	if err != nil {
		switch {
		case errors.Is(err, ErrAmbiguousHour):
			e.metrics.ObserveValidation("ambiguous")
			return &ValidationResult{
				Available:          false,
				NeedsClarification: true,
				Conflicts:          []Conflict{{Source: SourceRequest, Label: err.Error()}},
			}, nil
		case errors.Is(err, ErrInvalidTimeFormat), errors.Is(err, ErrInvalidTimezone):
			e.metrics.ObserveValidation("bad_input")
			return &ValidationResult{
				Available: false,
				Conflicts: []Conflict{{Source: SourceRequest, Label: err.Error()}},
			}, nil
		default:
			e.metrics.ObserveValidation("error")
			return nil, err
		}
	}

	var conflicts []Conflict
	for _, entry := range e.busyEntries(ctx, cal, requested) {
		if Overlaps(requested, entry.Interval) {
			conflicts = append(conflicts, Conflict{
				Source: entry.Source,
				Label:  entry.Label,
				Start:  entry.Start,
				End:    entry.End,
			})
		}
	}

	if len(conflicts) == 0 {
		e.metrics.ObserveValidation("available")
		return &ValidationResult{Available: true, Requested: &requested}, nil
	}

	e.metrics.ObserveValidation("conflict")
	return &ValidationResult{
		Available:   false,
		Requested:   &requested,
		Conflicts:   conflicts,
		Suggestions: e.suggestAlternatives(ctx, cal, req.Date, duration),
	}, nil
}

// suggestAlternatives scans forward from the day after the requested date at
// fixed candidate hours and returns up to 3 open slots.
func (e *Engine) suggestAlternatives(ctx context.Context, cal *business.Calendar, date time.Time, durationMinutes int) []Slot {
	loc, err := time.LoadLocation(cal.Timezone)
	if err != nil {
		return nil
	}
	duration := time.Duration(durationMinutes) * time.Minute

	var suggestions []Slot
	for offset := 1; offset <= e.suggestionScanDays && len(suggestions) < 3; offset++ {
		day := date.UTC().AddDate(0, 0, offset)
		window, open, err := WindowFor(cal, day)
		if err != nil || !open {
			continue
		}

		busy := e.busyIntervals(ctx, cal, window)
		year, month, dayOfMonth := day.UTC().Date()
		for _, hour := range suggestionHours {
			start := time.Date(year, month, dayOfMonth, hour, 0, 0, 0, loc).UTC()
			candidate := Interval{Start: start, End: start.Add(duration)}
			if start.Before(window.Start) || candidate.End.After(window.End) {
				continue
			}
			if overlapsAny(candidate, busy) {
				continue
			}
			suggestions = append(suggestions, Slot{
				Start: candidate.Start,
				End:   candidate.End,
				Label: slotLabel(candidate.Start, candidate.End, loc),
			})
			if len(suggestions) >= 3 {
				break
			}
		}
	}
	return suggestions
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(candidate, b) {
			return true
		}
	}
	return false
}
