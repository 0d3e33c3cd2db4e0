package commitments

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/glossworks/detailing-ai-platform/internal/schedule"
	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

var commitmentsTracer = otel.Tracer("detailing.internal.commitments")

// Validator is the availability engine surface the booking flow needs.
type Validator interface {
	Validate(ctx context.Context, businessID string, req schedule.ValidateRequest) (*schedule.ValidationResult, error)
}

// Service books commitments with the validate-then-write contract: every
// write is preceded by a fresh availability check, and the repository's
// overlap guard rejects the write if another commitment sneaked in between.
type Service struct {
	repo   Repository
	engine Validator
	logger *logging.Logger
}

// NewService constructs a booking service.
func NewService(repo Repository, engine Validator, logger *logging.Logger) *Service {
	if repo == nil {
		panic("commitments: repository required")
	}
	if engine == nil {
		panic("commitments: validator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, engine: engine, logger: logger}
}

// BookingRequest describes an appointment to book, in customer terms.
type BookingRequest struct {
	Date            time.Time // calendar date, UTC-midnight convention
	LocalTime       string    // e.g. "10:00 AM"
	DurationMinutes int
	Kind            Kind
	Title           string
	CustomerName    string
	CustomerPhone   string
	Vehicle         string
}

// BookingOutcome carries either the created commitment or the validation
// result explaining why nothing was written.
type BookingOutcome struct {
	Commitment *Commitment                `json:"commitment,omitempty"`
	Validation *schedule.ValidationResult `json:"validation"`
}

// Booked reports whether a commitment was written.
func (o *BookingOutcome) Booked() bool {
	return o.Commitment != nil
}

// Book validates the requested time and, when it is free, writes the
// commitment. A conflict detected at write time (lost race) is reported the
// same way as one detected up front: an unavailable outcome, never a
// silently accepted double-booking.
func (s *Service) Book(ctx context.Context, businessID string, req BookingRequest) (*BookingOutcome, error) {
	ctx, span := commitmentsTracer.Start(ctx, "commitments.book")
	defer span.End()
	span.SetAttributes(attribute.String("detailing.business_id", businessID))

	result, err := s.engine.Validate(ctx, businessID, schedule.ValidateRequest{
		Date:            req.Date,
		LocalTime:       req.LocalTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !result.Available {
		return &BookingOutcome{Validation: result}, nil
	}

	created, err := s.repo.Create(ctx, &CreateRequest{
		BusinessID:      businessID,
		Kind:            req.Kind,
		Title:           req.Title,
		StartAt:         result.Requested.Start,
		DurationMinutes: int(result.Requested.Duration() / time.Minute),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Vehicle:         req.Vehicle,
	})
	if errors.Is(err, ErrCommitmentConflict) {
		s.logger.Warn("booking lost race to concurrent write",
			"business_id", businessID,
			"start_at", result.Requested.Start,
		)
		return &BookingOutcome{
			Validation: &schedule.ValidationResult{
				Available: false,
				Requested: result.Requested,
				Conflicts: []schedule.Conflict{{
					Source: schedule.SourceCommitment,
					Label:  "existing appointment",
					Start:  result.Requested.Start,
					End:    result.Requested.End,
				}},
			},
		}, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("commitment booked",
		"business_id", businessID,
		"commitment_id", created.ID,
		"start_at", created.StartAt,
		"duration_minutes", created.DurationMinutes,
	)
	return &BookingOutcome{Commitment: created, Validation: result}, nil
}

// Cancel removes a commitment so its window frees up immediately.
func (s *Service) Cancel(ctx context.Context, businessID, id string) error {
	ctx, span := commitmentsTracer.Start(ctx, "commitments.cancel")
	defer span.End()

	if err := s.repo.Cancel(ctx, businessID, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("commitment cancelled", "business_id", businessID, "commitment_id", id)
	return nil
}
