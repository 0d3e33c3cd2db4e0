// Package gcal adapts the Google Calendar free/busy API into the schedule
// engine's external busy source.
package gcal

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/glossworks/detailing-ai-platform/internal/schedule"
	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

var gcalTracer = otel.Tracer("detailing.internal.gcal")

// Provider queries Google Calendar's freebusy endpoint for one business
// calendar at a time. It is read-only: the engine owns timeouts and treats
// provider errors as degraded, not fatal.
type Provider struct {
	svc    *calendar.Service
	logger *logging.Logger
}

// New builds a provider from service-account credentials JSON.
func New(ctx context.Context, credentialsJSON string, logger *logging.Logger) (*Provider, error) {
	if credentialsJSON == "" {
		return nil, fmt.Errorf("gcal: credentials required")
	}
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(calendar.CalendarReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("gcal: create service: %w", err)
	}
	return newProvider(svc, logger), nil
}

// NewWithService wires an already-built calendar service, used by tests to
// point the client at a fake endpoint.
func NewWithService(svc *calendar.Service, logger *logging.Logger) *Provider {
	if svc == nil {
		panic("gcal: calendar service required")
	}
	return newProvider(svc, logger)
}

func newProvider(svc *calendar.Service, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.Default()
	}
	return &Provider{svc: svc, logger: logger}
}

// FreeBusy returns the busy intervals of calendarID within rng. Results
// come back in UTC regardless of the calendar's own timezone.
func (p *Provider) FreeBusy(ctx context.Context, calendarID string, rng schedule.Interval) ([]schedule.Interval, error) {
	ctx, span := gcalTracer.Start(ctx, "gcal.freebusy")
	defer span.End()
	span.SetAttributes(
		attribute.String("gcal.calendar_id", calendarID),
		attribute.String("gcal.time_min", rng.Start.Format(time.RFC3339)),
		attribute.String("gcal.time_max", rng.End.Format(time.RFC3339)),
	)

	resp, err := p.svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: rng.Start.UTC().Format(time.RFC3339),
		TimeMax: rng.End.UTC().Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("gcal: freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("gcal: calendar %q missing from freebusy response", calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("gcal: freebusy error for %q: %s", calendarID, cal.Errors[0].Reason)
	}

	intervals := make([]schedule.Interval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		busyStart, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			p.logger.Warn("skipping unparseable busy period", "calendar_id", calendarID, "start", period.Start)
			continue
		}
		busyEnd, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			p.logger.Warn("skipping unparseable busy period", "calendar_id", calendarID, "end", period.End)
			continue
		}
		intervals = append(intervals, schedule.Interval{Start: busyStart.UTC(), End: busyEnd.UTC()})
	}
	return intervals, nil
}

var _ schedule.FreeBusyProvider = (*Provider)(nil)
