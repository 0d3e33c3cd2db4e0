package commitments

import (
	"context"
	"testing"
	"time"

	"github.com/glossworks/detailing-ai-platform/internal/schedule"
	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

type stubValidator struct {
	result *schedule.ValidationResult
	err    error
	calls  int
}

func (s *stubValidator) Validate(ctx context.Context, businessID string, req schedule.ValidateRequest) (*schedule.ValidationResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func availableResult(start time.Time, minutes int) *schedule.ValidationResult {
	return &schedule.ValidationResult{
		Available: true,
		Requested: &schedule.Interval{
			Start: start,
			End:   start.Add(time.Duration(minutes) * time.Minute),
		},
	}
}

func TestBookWritesAfterValidation(t *testing.T) {
	repo := NewInMemoryRepository()
	validator := &stubValidator{result: availableResult(mondayAt(15), 120)}
	svc := NewService(repo, validator, logging.New("error"))

	outcome, err := svc.Book(context.Background(), "biz_1", BookingRequest{
		Date:          time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		LocalTime:     "10:00 AM",
		Title:         "Ceramic Coating",
		CustomerName:  "Dana",
		CustomerPhone: "+15550001111",
		Vehicle:       "2019 Audi Q5",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if !outcome.Booked() {
		t.Fatalf("outcome = %+v, want booked", outcome)
	}
	if validator.calls != 1 {
		t.Fatalf("validator calls = %d, want 1 fresh validation per write", validator.calls)
	}
	if outcome.Commitment.DurationMinutes != 120 {
		t.Errorf("DurationMinutes = %d", outcome.Commitment.DurationMinutes)
	}
	if !outcome.Commitment.StartAt.Equal(mondayAt(15)) {
		t.Errorf("StartAt = %v, want normalized engine instant", outcome.Commitment.StartAt)
	}
}

func TestBookStopsOnUnavailable(t *testing.T) {
	repo := NewInMemoryRepository()
	validator := &stubValidator{result: &schedule.ValidationResult{
		Available: false,
		Conflicts: []schedule.Conflict{{Source: schedule.SourceCommitment, Label: "existing appointment"}},
	}}
	svc := NewService(repo, validator, logging.New("error"))

	outcome, err := svc.Book(context.Background(), "biz_1", BookingRequest{
		Date:      time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		LocalTime: "10:00 AM",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if outcome.Booked() {
		t.Fatal("nothing should be written on conflict")
	}
	if listed, _ := repo.ListOverlapping(context.Background(), "biz_1", mondayAt(0), mondayAt(23)); len(listed) != 0 {
		t.Fatalf("repository should be empty, got %+v", listed)
	}
}

func TestBookReportsLostRaceAsConflict(t *testing.T) {
	repo := NewInMemoryRepository()
	// Another writer grabbed 15:00-17:00 between validate and write.
	if _, err := repo.Create(context.Background(), &CreateRequest{
		BusinessID: "biz_1", StartAt: mondayAt(15), DurationMinutes: 120,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	validator := &stubValidator{result: availableResult(mondayAt(15), 120)}
	svc := NewService(repo, validator, logging.New("error"))

	outcome, err := svc.Book(context.Background(), "biz_1", BookingRequest{
		Date:      time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		LocalTime: "10:00 AM",
	})
	if err != nil {
		t.Fatalf("lost race must not surface as error: %v", err)
	}
	if outcome.Booked() {
		t.Fatal("double-booking silently accepted")
	}
	if outcome.Validation == nil || outcome.Validation.Available {
		t.Fatalf("validation = %+v, want unavailable", outcome.Validation)
	}
	if len(outcome.Validation.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v", outcome.Validation.Conflicts)
	}
}

func TestCancel(t *testing.T) {
	repo := NewInMemoryRepository()
	created, err := repo.Create(context.Background(), &CreateRequest{
		BusinessID: "biz_1", StartAt: mondayAt(15), DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewService(repo, &stubValidator{}, logging.New("error"))
	if err := svc.Cancel(context.Background(), "biz_1", created.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
}
