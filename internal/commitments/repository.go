package commitments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for commitment storage.
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Commitment, error)
	GetByID(ctx context.Context, businessID, id string) (*Commitment, error)
	ListOverlapping(ctx context.Context, businessID string, start, end time.Time) ([]Commitment, error)
	Cancel(ctx context.Context, businessID, id string) error
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development.
type InMemoryRepository struct {
	mu          sync.RWMutex
	commitments map[string]*Commitment
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{commitments: make(map[string]*Commitment)}
}

// Create inserts a commitment, enforcing the no-overlap guard.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateRequest) (*Commitment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := req.StartAt.UTC()
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)
	for _, existing := range r.commitments {
		if existing.BusinessID != req.BusinessID || existing.CancelledAt != nil {
			continue
		}
		if existing.StartAt.Before(end) && start.Before(existing.EndAt()) {
			return nil, ErrCommitmentConflict
		}
	}

	c := &Commitment{
		ID:              uuid.NewString(),
		BusinessID:      req.BusinessID,
		Kind:            req.Kind,
		Title:           req.Title,
		StartAt:         start,
		DurationMinutes: req.DurationMinutes,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Vehicle:         req.Vehicle,
		CreatedAt:       time.Now().UTC(),
	}
	r.commitments[c.ID] = c
	return c, nil
}

// GetByID fetches a commitment scoped to the business.
func (r *InMemoryRepository) GetByID(ctx context.Context, businessID, id string) (*Commitment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.commitments[id]
	if !ok || c.BusinessID != businessID {
		return nil, ErrCommitmentNotFound
	}
	copied := *c
	return &copied, nil
}

// ListOverlapping returns active commitments overlapping [start, end).
func (r *InMemoryRepository) ListOverlapping(ctx context.Context, businessID string, start, end time.Time) ([]Commitment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Commitment
	for _, c := range r.commitments {
		if c.BusinessID != businessID || c.CancelledAt != nil {
			continue
		}
		if c.StartAt.Before(end) && start.Before(c.EndAt()) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// Cancel soft-deletes a commitment.
func (r *InMemoryRepository) Cancel(ctx context.Context, businessID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.commitments[id]
	if !ok || c.BusinessID != businessID || c.CancelledAt != nil {
		return ErrCommitmentNotFound
	}
	now := time.Now().UTC()
	c.CancelledAt = &now
	return nil
}
