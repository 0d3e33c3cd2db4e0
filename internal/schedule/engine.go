// Package schedule implements availability resolution for detailing
// businesses: it combines configured opening hours, existing commitments, and
// an external calendar's busy periods into bookable slots and availability
// verdicts. The engine owns no persistent state; everything is computed from
// data fetched at call time.
package schedule

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/glossworks/detailing-ai-platform/internal/business"
	"github.com/glossworks/detailing-ai-platform/internal/observability/metrics"
	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

var scheduleTracer = otel.Tracer("detailing.internal.schedule")

// Commitment kinds as stored by the booking layer.
const (
	KindAppointment = "appointment"
	KindBlock       = "block"
)

// StoredCommitment is an occupied period read from the commitment store.
type StoredCommitment struct {
	ID              string
	Title           string
	Kind            string // "appointment" or "block"
	StartAt         time.Time
	DurationMinutes int
}

// CommitmentStore lists existing commitments overlapping a UTC range.
type CommitmentStore interface {
	ListOverlapping(ctx context.Context, businessID string, rng Interval) ([]StoredCommitment, error)
}

// FreeBusyProvider queries an external calendar for busy periods. It is
// best-effort: failures degrade to internal-only data.
type FreeBusyProvider interface {
	FreeBusy(ctx context.Context, calendarRef string, rng Interval) ([]Interval, error)
}

// CalendarSource loads the scheduling configuration for a business.
type CalendarSource interface {
	Get(ctx context.Context, businessID string) (*business.Calendar, error)
}

// Engine resolves availability. All operations are synchronous, stateless
// reads; there is no shared mutable state and no internal locking.
type Engine struct {
	calendars CalendarSource
	store     CommitmentStore
	provider  FreeBusyProvider // nil when no external calendar integration
	logger    *logging.Logger
	metrics   *metrics.SchedulingMetrics

	providerTimeout    time.Duration
	suggestionScanDays int
	now                func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.SchedulingMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithProviderTimeout bounds each external free/busy query.
func WithProviderTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.providerTimeout = d
		}
	}
}

// WithSuggestionScanDays bounds how far ahead alternative-time suggestions
// scan after a conflict.
func WithSuggestionScanDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.suggestionScanDays = days
		}
	}
}

// WithClock injects the time source. Tests pin "now" with this.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine constructs an availability engine. The provider may be nil;
// calendars and store are required.
func NewEngine(calendars CalendarSource, store CommitmentStore, provider FreeBusyProvider, logger *logging.Logger, opts ...Option) *Engine {
	if calendars == nil {
		panic("schedule: calendar source required")
	}
	if store == nil {
		panic("schedule: commitment store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		calendars:          calendars,
		store:              store,
		provider:           provider,
		logger:             logger,
		providerTimeout:    15 * time.Second,
		suggestionScanDays: 7,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
