package schedule

import (
	"context"
	"strings"
	"testing"
	"time"
)

// The canonical scenario: open Mon-Fri 09:00-18:00 New York, one 120-minute
// commitment Monday 12:00-14:00, slots requested Monday before opening with
// duration 120 / step 30. A 10:00 start ends exactly at 12:00 and is legal
// because touching intervals do not conflict; starts resume at 14:00 and the
// last fit is 16:00.
func TestGenerateSlotsAroundCommitment(t *testing.T) {
	cal := testCalendar()
	store := &stubCommitmentStore{commitments: []StoredCommitment{
		{ID: "c1", Title: "Full Detail", Kind: KindAppointment, StartAt: nyTime(t, testMonday, 12, 0), DurationMinutes: 120},
	}}
	e := newTestEngine(t, cal, store, nil)

	slots, err := e.GenerateSlots(context.Background(), "biz_1", SlotOptions{Days: 1, DurationMinutes: 120, StepMinutes: 30})
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}

	wantMondayStarts := []struct{ hour, min int }{
		{9, 0}, {9, 30}, {10, 0}, {14, 0}, {14, 30}, {15, 0}, {15, 30}, {16, 0},
	}
	var mondayStarts []time.Time
	for _, s := range slots {
		if s.Start.Before(nyTime(t, testMonday, 18, 0)) {
			mondayStarts = append(mondayStarts, s.Start)
		}
	}
	if len(mondayStarts) != len(wantMondayStarts) {
		t.Fatalf("Monday starts = %v, want %d of them", mondayStarts, len(wantMondayStarts))
	}
	for i, want := range wantMondayStarts {
		if !mondayStarts[i].Equal(nyTime(t, testMonday, want.hour, want.min)) {
			t.Errorf("slot[%d] = %v, want %02d:%02d New York", i, mondayStarts[i], want.hour, want.min)
		}
	}

	// days=1 also scans Tuesday, so the cap kicks in.
	if len(slots) != maxSlots {
		t.Fatalf("len(slots) = %d, want capped at %d", len(slots), maxSlots)
	}
}

func TestGenerateSlotsFullyBookedDay(t *testing.T) {
	cal := testCalendar()
	cal.Hours = weekdayHours("09:00", "18:00")
	cal.Hours.Tuesday = nil
	cal.Hours.Wednesday = nil
	cal.Hours.Thursday = nil
	cal.Hours.Friday = nil
	store := &stubCommitmentStore{commitments: []StoredCommitment{
		{ID: "c1", StartAt: nyTime(t, testMonday, 9, 0), DurationMinutes: 9 * 60},
	}}
	e := newTestEngine(t, cal, store, nil)

	slots, err := e.GenerateSlots(context.Background(), "biz_1", SlotOptions{Days: 1, DurationMinutes: 120, StepMinutes: 30})
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("fully booked day should yield zero slots, got %+v", slots)
	}
}

func TestGenerateSlotsNeverEmitsPastStarts(t *testing.T) {
	cal := testCalendar()
	// Clock pinned to Monday 15:30 local.
	now := nyTime(t, testMonday, 15, 30)
	e := newTestEngine(t, cal, &stubCommitmentStore{}, nil, WithClock(func() time.Time { return now }))

	slots, err := e.GenerateSlots(context.Background(), "biz_1", SlotOptions{Days: 1, DurationMinutes: 120, StepMinutes: 30})
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("afternoon should still have slots")
	}
	for _, s := range slots {
		if s.Start.Before(now) {
			t.Errorf("slot %v starts before now %v", s.Start, now)
		}
	}
	// Monday's remaining starts are exactly 15:30 and 16:00.
	var monday []Slot
	tuesday := testMonday.AddDate(0, 0, 1)
	for _, s := range slots {
		if s.Start.Before(nyTime(t, tuesday, 0, 0)) {
			monday = append(monday, s)
		}
	}
	if len(monday) != 2 {
		t.Fatalf("monday slots = %+v, want 2", monday)
	}
	if !monday[0].Start.Equal(nyTime(t, testMonday, 15, 30)) {
		t.Errorf("first slot = %v, want 15:30", monday[0].Start)
	}
	if !monday[1].Start.Equal(nyTime(t, testMonday, 16, 0)) {
		t.Errorf("last slot = %v, want 16:00", monday[1].Start)
	}
}

func TestGenerateSlotsNoDuplicateRanges(t *testing.T) {
	cal := testCalendar()
	store := &stubCommitmentStore{commitments: []StoredCommitment{
		{ID: "c1", StartAt: nyTime(t, testMonday, 11, 0), DurationMinutes: 60},
	}}
	e := newTestEngine(t, cal, store, nil)

	slots, err := e.GenerateSlots(context.Background(), "biz_1", SlotOptions{Days: 3, DurationMinutes: 90, StepMinutes: 30})
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	seen := make(map[string]bool)
	var prev time.Time
	for _, s := range slots {
		key := s.Start.String() + "/" + s.End.String()
		if seen[key] {
			t.Errorf("duplicate slot range %s", key)
		}
		seen[key] = true
		if s.Start.Before(prev) {
			t.Errorf("slots out of order at %v", s.Start)
		}
		prev = s.Start
	}
}

func TestGenerateSlotsSkipsClosedDays(t *testing.T) {
	cal := testCalendar() // weekend closed
	e := newTestEngine(t, cal, &stubCommitmentStore{}, nil,
		// Friday 2026-01-09, 08:00 local.
		WithClock(func() time.Time { return nyTime(t, testMonday.AddDate(0, 0, 4), 8, 0) }))

	slots, err := e.GenerateSlots(context.Background(), "biz_1", SlotOptions{Days: 2, DurationMinutes: 240, StepMinutes: 60})
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	for _, s := range slots {
		day := s.Start.In(mustLoc(t)).Weekday()
		if day == time.Saturday || day == time.Sunday {
			t.Errorf("slot emitted on closed %s: %v", day, s.Start)
		}
	}
}

func TestGenerateSlotsLabels(t *testing.T) {
	cal := testCalendar()
	e := newTestEngine(t, cal, &stubCommitmentStore{}, nil)

	slots, err := e.GenerateSlots(context.Background(), "biz_1", SlotOptions{Days: 0, DurationMinutes: 120, StepMinutes: 30})
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	label := slots[0].Label
	for _, part := range []string{"Monday", "January 5", "9:00 AM", "11:00 AM"} {
		if !strings.Contains(label, part) {
			t.Errorf("label %q missing %q", label, part)
		}
	}
}
