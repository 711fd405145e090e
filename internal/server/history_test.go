package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"newsight/internal/store"
	"newsight/models"
)

func newHistoryHandler(t *testing.T) (*HistoryHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &HistoryHandler{Store: &store.Store{DB: db}}, mock
}

func TestListHistoryNewestFirst(t *testing.T) {
	h, mock := newHistoryHandler(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, user_id, term, created_at FROM search_terms WHERE user_id=\$1 ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "term", "created_at"}).
			AddRow("t2", "user-1", "quantum computing", now).
			AddRow("t1", "user-1", "ai", now.Add(-time.Hour)))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/search-terms", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set("user_id", "user-1")

	if err := h.list(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var terms []models.SearchTerm
	if err := json.Unmarshal(rec.Body.Bytes(), &terms); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(terms) != 2 || terms[0].Term != "quantum computing" {
		t.Fatalf("unexpected terms: %+v", terms)
	}
}

func TestListHistoryEmptyIsArray(t *testing.T) {
	h, mock := newHistoryHandler(t)

	mock.ExpectQuery(`SELECT id, user_id, term, created_at FROM search_terms`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "term", "created_at"}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/search-terms", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set("user_id", "user-1")

	if err := h.list(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func deleteTerm(t *testing.T, h *HistoryHandler, id, userID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/search-terms/"+id, nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set("user_id", userID)
	ctx.SetParamNames("id")
	ctx.SetParamValues(id)
	if err := h.delete(ctx); err != nil {
		e.HTTPErrorHandler(err, ctx)
	}
	return rec
}

func TestDeleteHistoryTerm(t *testing.T) {
	h, mock := newHistoryHandler(t)

	mock.ExpectExec(`DELETE FROM search_terms WHERE id=\$1 AND user_id=\$2`).
		WithArgs("t1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := deleteTerm(t, h, "t1", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestDeleteHistoryTermNotOwned(t *testing.T) {
	h, mock := newHistoryHandler(t)

	mock.ExpectExec(`DELETE FROM search_terms WHERE id=\$1 AND user_id=\$2`).
		WithArgs("t1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := deleteTerm(t, h, "t1", "intruder")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
