package schedule

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/glossworks/detailing-ai-platform/internal/business"
)

// maxSlots bounds the number of candidate slots returned per request. SMS
// conversations cannot usefully present more options than this.
const maxSlots = 20

// Slot is a bookable candidate time range with a label rendered in the
// business's timezone.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// SlotOptions configures slot generation. Zero values fall back to defaults.
type SlotOptions struct {
	Days            int // how many days ahead to scan, inclusive (default 14)
	DurationMinutes int // slot length (default 120)
	StepMinutes     int // cursor increment between candidate starts (default 30)
}

func (o SlotOptions) withDefaults() SlotOptions {
	if o.Days <= 0 {
		o.Days = 14
	}
	if o.DurationMinutes <= 0 {
		o.DurationMinutes = 120
	}
	if o.StepMinutes <= 0 {
		o.StepMinutes = 30
	}
	return o
}

// GenerateSlots walks calendar dates from "now" in the business's timezone
// through opts.Days ahead, subtracts the aggregated busy set from each open
// business window, and enumerates fixed-duration candidate slots at the
// configured step inside what remains. Results are ascending by start time
// and capped at 20; slots starting in the past are never emitted.
func (e *Engine) GenerateSlots(ctx context.Context, businessID string, opts SlotOptions) ([]Slot, error) {
	ctx, span := scheduleTracer.Start(ctx, "schedule.generate_slots")
	defer span.End()
	span.SetAttributes(attribute.String("detailing.business_id", businessID))

	opts = opts.withDefaults()

	cal, err := e.calendars.Get(ctx, businessID)
	if err != nil {
		e.metrics.ObserveSlotRequest("error", 0)
		return nil, fmt.Errorf("schedule: load calendar: %w", err)
	}
	loc, err := time.LoadLocation(cal.Timezone)
	if err != nil {
		e.metrics.ObserveSlotRequest("error", 0)
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, cal.Timezone)
	}

	now := e.now().UTC()
	localNow := now.In(loc)

	duration := time.Duration(opts.DurationMinutes) * time.Minute
	step := time.Duration(opts.StepMinutes) * time.Minute

	var slots []Slot
	for offset := 0; offset <= opts.Days && len(slots) < maxSlots; offset++ {
		localDate := localNow.AddDate(0, 0, offset)
		date := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, time.UTC)

		window, open, err := WindowFor(cal, date)
		if err != nil {
			// A misconfigured day must not sink the whole scan.
			e.logger.Warn("skipping day with invalid business window",
				"business_id", businessID,
				"date", date.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		if !open {
			continue
		}

		busy := e.busyIntervals(ctx, cal, window)
		for _, free := range Subtract(window, busy) {
			for cursor := free.Start; !cursor.Add(duration).After(free.End); cursor = cursor.Add(step) {
				if cursor.Before(now) {
					continue
				}
				slots = append(slots, Slot{
					Start: cursor,
					End:   cursor.Add(duration),
					Label: slotLabel(cursor, cursor.Add(duration), loc),
				})
				if len(slots) >= maxSlots {
					break
				}
			}
			if len(slots) >= maxSlots {
				break
			}
		}
	}

	e.metrics.ObserveSlotRequest("ok", len(slots))
	span.SetAttributes(attribute.Int("detailing.slots", len(slots)))
	return slots, nil
}

func (e *Engine) busyIntervals(ctx context.Context, cal *business.Calendar, rng Interval) []Interval {
	entries := e.busyEntries(ctx, cal, rng)
	intervals := make([]Interval, 0, len(entries))
	for _, entry := range entries {
		intervals = append(intervals, entry.Interval)
	}
	return Merge(intervals)
}

// slotLabel renders "Monday, January 5 from 9:00 AM to 11:00 AM" in the
// business timezone.
func slotLabel(start, end time.Time, loc *time.Location) string {
	localStart := start.In(loc)
	localEnd := end.In(loc)
	return fmt.Sprintf("%s from %s to %s",
		localStart.Format("Monday, January 2"),
		localStart.Format("3:04 PM"),
		localEnd.Format("3:04 PM"),
	)
}
