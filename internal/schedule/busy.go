package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/glossworks/detailing-ai-platform/internal/business"
)

// Busy-interval source names used in conflict reports.
const (
	SourceCommitment = "commitment"
	SourceExternal   = "external"
	SourceRequest    = "request"
)

// busyEntry pairs a canonical interval with where it came from, so the
// validator can report conflicts with a human-readable label.
type busyEntry struct {
	Interval
	Source string
	Label  string
}

// BusySetFor aggregates internal commitments and external calendar busy
// periods overlapping the range into one merged, disjoint set of UTC
// intervals.
func (e *Engine) BusySetFor(ctx context.Context, businessID string, rng Interval) ([]Interval, error) {
	cal, err := e.calendars.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	entries := e.busyEntries(ctx, cal, rng)
	intervals := make([]Interval, 0, len(entries))
	for _, entry := range entries {
		intervals = append(intervals, entry.Interval)
	}
	return Merge(intervals), nil
}

// busyEntries fetches both busy sources concurrently. The external provider
// is best-effort: a failed or timed-out query is logged and the result
// degrades to internal-only data. The merged output is sorted, so completion
// order never affects the result.
func (e *Engine) busyEntries(ctx context.Context, cal *business.Calendar, rng Interval) []busyEntry {
	ctx, span := scheduleTracer.Start(ctx, "schedule.busy_set")
	defer span.End()
	span.SetAttributes(attribute.String("detailing.business_id", cal.BusinessID))
	started := time.Now()

	var (
		wg       sync.WaitGroup
		internal []busyEntry
		external []busyEntry
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		internal = e.internalBusy(ctx, cal, rng)
	}()

	if e.provider != nil && cal.ExternalCalendarID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			external = e.externalBusy(ctx, cal, rng)
		}()
	}
	wg.Wait()

	entries := append(internal, external...)
	sortEntries(entries)

	e.metrics.ObserveResolveLatency(time.Since(started).Seconds())
	span.SetAttributes(attribute.Int("detailing.busy_intervals", len(entries)))
	return entries
}

func (e *Engine) internalBusy(ctx context.Context, cal *business.Calendar, rng Interval) []busyEntry {
	stored, err := e.store.ListOverlapping(ctx, cal.BusinessID, rng)
	if err != nil {
		e.logger.Error("commitment store read failed", "business_id", cal.BusinessID, "error", err)
		return nil
	}

	entries := make([]busyEntry, 0, len(stored))
	for _, c := range stored {
		if c.StartAt.IsZero() || c.DurationMinutes <= 0 {
			// A single bad row must not abort the whole computation.
			e.logger.Warn("skipping unparseable commitment",
				"business_id", cal.BusinessID,
				"commitment_id", c.ID,
				"start_at", c.StartAt,
				"duration_minutes", c.DurationMinutes,
			)
			continue
		}
		entries = append(entries, busyEntry{
			Interval: Interval{
				Start: c.StartAt.UTC(),
				End:   c.StartAt.UTC().Add(time.Duration(c.DurationMinutes) * time.Minute),
			},
			Source: SourceCommitment,
			Label:  commitmentLabel(c),
		})
	}
	return entries
}

func (e *Engine) externalBusy(ctx context.Context, cal *business.Calendar, rng Interval) []busyEntry {
	ctx, cancel := context.WithTimeout(ctx, e.providerTimeout)
	defer cancel()

	busy, err := e.provider.FreeBusy(ctx, cal.ExternalCalendarID, rng)
	if err != nil {
		e.metrics.ObserveProviderFailure()
		e.logger.Warn("external free/busy query failed, using internal data only",
			"business_id", cal.BusinessID,
			"calendar_ref", cal.ExternalCalendarID,
			"error", err,
		)
		return nil
	}

	entries := make([]busyEntry, 0, len(busy))
	for _, iv := range busy {
		if !iv.IsValid() {
			e.logger.Warn("skipping invalid external busy interval",
				"business_id", cal.BusinessID,
				"start", iv.Start,
				"end", iv.End,
			)
			continue
		}
		entries = append(entries, busyEntry{
			Interval: Interval{Start: iv.Start.UTC(), End: iv.End.UTC()},
			Source:   SourceExternal,
			Label:    "existing event",
		})
	}
	return entries
}

func commitmentLabel(c StoredCommitment) string {
	if c.Title != "" {
		return c.Title
	}
	if c.Kind == KindBlock {
		return "calendar block"
	}
	return "existing appointment"
}

func sortEntries(entries []busyEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Start.Equal(entries[j].Start) {
			return entries[i].End.Before(entries[j].End)
		}
		return entries[i].Start.Before(entries[j].Start)
	})
}
