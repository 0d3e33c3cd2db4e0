package schedule

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) time range in UTC. It is the canonical
// busy-interval form regardless of whether the data came from an internal
// commitment or an external calendar.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// IsValid reports whether the interval has positive length.
func (iv Interval) IsValid() bool {
	return !iv.Start.IsZero() && iv.Start.Before(iv.End)
}

// Overlaps reports whether a and b share any time. Touching endpoints do not
// overlap: a slot ending at 12:00 and one starting at 12:00 are back-to-back,
// which is legal.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Merge sorts the intervals and unions overlapping or adjacent ones into the
// minimal equivalent disjoint set. Invalid (zero or inverted) intervals are
// dropped.
func Merge(intervals []Interval) []Interval {
	var valid []Interval
	for _, iv := range intervals {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start.Equal(valid[j].Start) {
			return valid[i].End.Before(valid[j].End)
		}
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []Interval{valid[0]}
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Subtract removes every busy interval from the free window and returns the
// ordered remainder. Busy intervals may overlap each other or extend outside
// the window.
func Subtract(free Interval, busy []Interval) []Interval {
	if !free.IsValid() {
		return nil
	}

	var remaining []Interval
	cursor := free.Start
	for _, b := range Merge(busy) {
		if !Overlaps(free, b) {
			continue
		}
		if b.Start.After(cursor) {
			remaining = append(remaining, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(free.End) {
		remaining = append(remaining, Interval{Start: cursor, End: free.End})
	}
	return remaining
}
