package commitments

import (
	"context"

	"github.com/glossworks/detailing-ai-platform/internal/schedule"
)

// ScheduleStore bridges a Repository into the availability engine's
// CommitmentStore interface.
type ScheduleStore struct {
	repo Repository
}

// NewScheduleStore wraps a repository for the engine.
func NewScheduleStore(repo Repository) *ScheduleStore {
	if repo == nil {
		panic("commitments: repository required")
	}
	return &ScheduleStore{repo: repo}
}

// ListOverlapping satisfies schedule.CommitmentStore.
func (s *ScheduleStore) ListOverlapping(ctx context.Context, businessID string, rng schedule.Interval) ([]schedule.StoredCommitment, error) {
	rows, err := s.repo.ListOverlapping(ctx, businessID, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	out := make([]schedule.StoredCommitment, 0, len(rows))
	for _, c := range rows {
		out = append(out, schedule.StoredCommitment{
			ID:              c.ID,
			Title:           c.Title,
			Kind:            string(c.Kind),
			StartAt:         c.StartAt,
			DurationMinutes: c.DurationMinutes,
		})
	}
	return out, nil
}
