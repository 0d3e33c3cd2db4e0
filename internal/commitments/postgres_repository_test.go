package commitments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresCreateHappyPath(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	start := mondayAt(14)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("biz_1", start, start.Add(2*time.Hour)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO commitments").
		WithArgs(pgxmock.AnyArg(), "biz_1", "appointment", "Full Detail", start, 120, "Dana", "+15550001111", "2019 Audi Q5").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectCommit()

	repo := NewPostgresRepositoryWithDB(mock)
	created, err := repo.Create(context.Background(), &CreateRequest{
		BusinessID:      "biz_1",
		Kind:            KindAppointment,
		Title:           "Full Detail",
		StartAt:         start,
		DurationMinutes: 120,
		CustomerName:    "Dana",
		CustomerPhone:   "+15550001111",
		Vehicle:         "2019 Audi Q5",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || !created.StartAt.Equal(start) {
		t.Fatalf("created = %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresCreateConflictFromCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	start := mondayAt(14)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("biz_1", start, start.Add(time.Hour)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.Create(context.Background(), &CreateRequest{
		BusinessID: "biz_1", StartAt: start, DurationMinutes: 60,
	})
	if !errors.Is(err, ErrCommitmentConflict) {
		t.Fatalf("err = %v, want ErrCommitmentConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresCreateConflictFromExclusionConstraint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	start := mondayAt(14)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("biz_1", start, start.Add(time.Hour)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO commitments").
		WithArgs(pgxmock.AnyArg(), "biz_1", "appointment", "", start, 60, "", "", "").
		WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: "commitments_no_overlap"})
	mock.ExpectRollback()

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.Create(context.Background(), &CreateRequest{
		BusinessID: "biz_1", StartAt: start, DurationMinutes: 60,
	})
	if !errors.Is(err, ErrCommitmentConflict) {
		t.Fatalf("racing insert err = %v, want ErrCommitmentConflict", err)
	}
}

func TestPostgresListOverlapping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	start := mondayAt(12)
	rows := pgxmock.NewRows([]string{
		"id", "business_id", "kind", "title", "start_at", "duration_minutes",
		"customer_name", "customer_phone", "vehicle", "created_at", "cancelled_at",
	}).AddRow("c1", "biz_1", "appointment", "Interior Detail", start, 120, "Sam", "", "", time.Now().UTC(), nil)

	mock.ExpectQuery("SELECT (.+) FROM commitments").
		WithArgs("biz_1", mondayAt(9), mondayAt(18)).
		WillReturnRows(rows)

	repo := NewPostgresRepositoryWithDB(mock)
	listed, err := repo.ListOverlapping(context.Background(), "biz_1", mondayAt(9), mondayAt(18))
	if err != nil {
		t.Fatalf("ListOverlapping: %v", err)
	}
	if len(listed) != 1 || listed[0].Kind != KindAppointment || listed[0].Title != "Interior Detail" {
		t.Fatalf("listed = %+v", listed)
	}
}

func TestPostgresCancelNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("UPDATE commitments").
		WithArgs("nope", "biz_1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgresRepositoryWithDB(mock)
	if err := repo.Cancel(context.Background(), "biz_1", "nope"); !errors.Is(err, ErrCommitmentNotFound) {
		t.Fatalf("err = %v, want ErrCommitmentNotFound", err)
	}
}
