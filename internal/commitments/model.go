// Package commitments tracks occupied periods for a business: confirmed
// appointments and manual calendar blocks. The availability engine reads
// them; this package owns their lifecycle.
package commitments

import (
	"time"
)

// Kind distinguishes customer appointments from manual calendar blocks.
type Kind string

const (
	KindAppointment Kind = "appointment"
	KindBlock       Kind = "block"
)

// Commitment is an existing occupied period belonging to a business.
type Commitment struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"business_id"`
	Kind            Kind      `json:"kind"`
	Title           string    `json:"title,omitempty"`
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`

	// Customer/vehicle details for appointments; empty for blocks.
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Vehicle       string `json:"vehicle,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// EndAt returns the commitment's end instant.
func (c *Commitment) EndAt() time.Time {
	return c.StartAt.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// CreateRequest describes a commitment to persist. StartAt must already be a
// validated UTC instant; callers go through the booking service, which runs
// the availability engine first.
type CreateRequest struct {
	BusinessID      string
	Kind            Kind
	Title           string
	StartAt         time.Time
	DurationMinutes int
	CustomerName    string
	CustomerPhone   string
	Vehicle         string
}

// Validate checks structural validity of the request.
func (r *CreateRequest) Validate() error {
	if r.BusinessID == "" {
		return ErrMissingBusiness
	}
	if r.Kind == "" {
		r.Kind = KindAppointment
	}
	if r.Kind != KindAppointment && r.Kind != KindBlock {
		return ErrInvalidKind
	}
	if r.StartAt.IsZero() {
		return ErrInvalidStart
	}
	if r.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
