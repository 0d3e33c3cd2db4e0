package commitments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// exclusionViolation is raised by the commitments_no_overlap constraint when
// two inserts race past the in-transaction check.
const exclusionViolation = "23P01"

// PgxIface is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores commitments in the relational database.
type PostgresRepository struct {
	db PgxIface
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("commitments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a commitment inside a transaction that re-checks for
// overlaps, so a stale validate result cannot silently double-book. The race
// window between concurrent transactions is closed by the table's exclusion
// constraint.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateRequest) (*Commitment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := req.StartAt.UTC()
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("commitments: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var conflicting bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM commitments
			WHERE business_id = $1
			  AND cancelled_at IS NULL
			  AND start_at < $3
			  AND start_at + make_interval(mins => duration_minutes) > $2
		)
	`, req.BusinessID, start, end).Scan(&conflicting)
	if err != nil {
		return nil, fmt.Errorf("commitments: overlap check: %w", err)
	}
	if conflicting {
		return nil, ErrCommitmentConflict
	}

	id := uuid.New()
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO commitments (id, business_id, kind, title, start_at, duration_minutes, customer_name, customer_phone, vehicle)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, id, req.BusinessID, string(req.Kind), req.Title, start, req.DurationMinutes,
		req.CustomerName, req.CustomerPhone, req.Vehicle,
	).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return nil, ErrCommitmentConflict
		}
		return nil, fmt.Errorf("commitments: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return nil, ErrCommitmentConflict
		}
		return nil, fmt.Errorf("commitments: commit: %w", err)
	}

	return &Commitment{
		ID:              id.String(),
		BusinessID:      req.BusinessID,
		Kind:            req.Kind,
		Title:           req.Title,
		StartAt:         start,
		DurationMinutes: req.DurationMinutes,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Vehicle:         req.Vehicle,
		CreatedAt:       createdAt,
	}, nil
}

// GetByID fetches a commitment scoped to the business.
func (r *PostgresRepository) GetByID(ctx context.Context, businessID, id string) (*Commitment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, business_id, kind, title, start_at, duration_minutes,
		       customer_name, customer_phone, vehicle, created_at, cancelled_at
		FROM commitments
		WHERE id = $1 AND business_id = $2
	`, id, businessID)

	c, err := scanCommitment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommitmentNotFound
		}
		return nil, fmt.Errorf("commitments: select: %w", err)
	}
	return c, nil
}

// ListOverlapping returns active commitments overlapping [start, end),
// ordered by start time.
func (r *PostgresRepository) ListOverlapping(ctx context.Context, businessID string, start, end time.Time) ([]Commitment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, kind, title, start_at, duration_minutes,
		       customer_name, customer_phone, vehicle, created_at, cancelled_at
		FROM commitments
		WHERE business_id = $1
		  AND cancelled_at IS NULL
		  AND start_at < $3
		  AND start_at + make_interval(mins => duration_minutes) > $2
		ORDER BY start_at
	`, businessID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("commitments: list: %w", err)
	}
	defer rows.Close()

	var out []Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, fmt.Errorf("commitments: scan: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("commitments: rows: %w", err)
	}
	return out, nil
}

// Cancel soft-deletes a commitment.
func (r *PostgresRepository) Cancel(ctx context.Context, businessID, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE commitments
		SET cancelled_at = now()
		WHERE id = $1 AND business_id = $2 AND cancelled_at IS NULL
	`, id, businessID)
	if err != nil {
		return fmt.Errorf("commitments: cancel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommitmentNotFound
	}
	return nil
}

func scanCommitment(row pgx.Row) (*Commitment, error) {
	var c Commitment
	var kind string
	if err := row.Scan(
		&c.ID,
		&c.BusinessID,
		&kind,
		&c.Title,
		&c.StartAt,
		&c.DurationMinutes,
		&c.CustomerName,
		&c.CustomerPhone,
		&c.Vehicle,
		&c.CreatedAt,
		&c.CancelledAt,
	); err != nil {
		return nil, err
	}
	c.Kind = Kind(kind)
	c.StartAt = c.StartAt.UTC()
	return &c, nil
}
