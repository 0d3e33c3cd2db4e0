package commitments

import "errors"

var (
	// ErrCommitmentConflict is returned when a new commitment would overlap
	// an existing one for the same business.
	ErrCommitmentConflict = errors.New("commitment overlaps an existing one")

	// ErrCommitmentNotFound is returned when a commitment does not exist or
	// belongs to another business.
	ErrCommitmentNotFound = errors.New("commitment not found")

	// ErrMissingBusiness is returned when no business id is supplied.
	ErrMissingBusiness = errors.New("business id is required")

	// ErrInvalidKind is returned for kinds other than appointment or block.
	ErrInvalidKind = errors.New("kind must be appointment or block")

	// ErrInvalidStart is returned when the start instant is missing.
	ErrInvalidStart = errors.New("start time is required")

	// ErrInvalidDuration is returned for non-positive durations.
	ErrInvalidDuration = errors.New("duration must be positive")
)
