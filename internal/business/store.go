package business

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Store provides persistence for business calendars.
type Store struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewStore creates a new business calendar store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{
		redis:  redisClient,
		tracer: otel.Tracer("detailing.internal.business"),
	}
}

func (s *Store) key(businessID string) string {
	return fmt.Sprintf("business:calendar:%s", businessID)
}

// Get retrieves the calendar for a business, returning a default if not found.
func (s *Store) Get(ctx context.Context, businessID string) (*Calendar, error) {
	ctx, span := s.tracer.Start(ctx, "business.get_calendar")
	defer span.End()
	span.SetAttributes(attribute.String("detailing.business_id", businessID))

	data, err := s.redis.Get(ctx, s.key(businessID)).Bytes()
	if err == redis.Nil {
		return DefaultCalendar(businessID), nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("business: get calendar: %w", err)
	}

	var cal Calendar
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("business: unmarshal calendar: %w", err)
	}

	return &cal, nil
}

// Set saves the calendar.
func (s *Store) Set(ctx context.Context, cal *Calendar) error {
	ctx, span := s.tracer.Start(ctx, "business.set_calendar")
	defer span.End()

	if cal.BusinessID == "" {
		return fmt.Errorf("business: set calendar: business id required")
	}
	span.SetAttributes(attribute.String("detailing.business_id", cal.BusinessID))

	data, err := json.Marshal(cal)
	if err != nil {
		return fmt.Errorf("business: marshal calendar: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(cal.BusinessID), data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("business: set calendar: %w", err)
	}

	return nil
}
