package store

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"newsight/models"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &Store{DB: db}, mock
}

func TestCreateSearchTerm(t *testing.T) {
	s, mock := newTestStore(t)
	id := uuid.NewString()

	mock.ExpectQuery(`INSERT INTO search_terms \(user_id, term\) VALUES \(\$1,\$2\) RETURNING id`).
		WithArgs("user-1", "ai").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	got, err := s.CreateSearchTerm(context.Background(), "user-1", "ai")
	if err != nil {
		t.Fatalf("CreateSearchTerm: %v", err)
	}
	if got != id {
		t.Fatalf("expected id %s got %s", id, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateSearchTermDuplicate(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(`INSERT INTO search_terms`).
		WithArgs("user-1", "ai").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := s.CreateSearchTerm(context.Background(), "user-1", "ai")
	if !errors.Is(err, models.ErrDuplicateSearch) {
		t.Fatalf("expected ErrDuplicateSearch got %v", err)
	}
}

func TestListSearchTermsNewestFirst(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, user_id, term, created_at FROM search_terms WHERE user_id=\$1 ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "term", "created_at"}).
			AddRow("t2", "user-1", "quantum computing", now).
			AddRow("t1", "user-1", "ai", now.Add(-time.Hour)))

	terms, err := s.ListSearchTerms(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListSearchTerms: %v", err)
	}
	if len(terms) != 2 || terms[0].Term != "quantum computing" || terms[1].Term != "ai" {
		t.Fatalf("unexpected terms: %+v", terms)
	}
}

func TestDeleteSearchTermOwned(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(`DELETE FROM search_terms WHERE id=\$1 AND user_id=\$2`).
		WithArgs("t1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := s.DeleteSearchTerm(context.Background(), "t1", "user-1")
	if err != nil {
		t.Fatalf("DeleteSearchTerm: %v", err)
	}
	if !ok {
		t.Fatalf("expected deletion to be reported")
	}
}

func TestDeleteSearchTermForeignOwnerIsNoop(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(`DELETE FROM search_terms WHERE id=\$1 AND user_id=\$2`).
		WithArgs("t1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.DeleteSearchTerm(context.Background(), "t1", "intruder")
	if err != nil {
		t.Fatalf("DeleteSearchTerm: %v", err)
	}
	if ok {
		t.Fatalf("expected no-op for another owner's record")
	}
}
