package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"newsight/models"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type Store struct {
	DB *sql.DB
}

func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) CreateUser(ctx context.Context, email, hash string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES ($1,$2)`, email, hash)
	return err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (id string, hash string, err error) {
	err = s.DB.QueryRowContext(ctx, `SELECT id, password_hash FROM users WHERE email=$1`, email).Scan(&id, &hash)
	return
}

// CreateSearchTerm appends a term to the user's history. Re-recording an
// identical term returns models.ErrDuplicateSearch and leaves the existing
// row untouched, so listing order keeps the first-search time.
func (s *Store) CreateSearchTerm(ctx context.Context, userID, term string) (string, error) {
	var id string
	err := s.DB.QueryRowContext(ctx, `INSERT INTO search_terms (user_id, term) VALUES ($1,$2) RETURNING id`, userID, term).Scan(&id)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", models.ErrDuplicateSearch
		}
		return "", err
	}
	return id, nil
}

func (s *Store) ListSearchTerms(ctx context.Context, userID string) ([]models.SearchTerm, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, user_id, term, created_at FROM search_terms WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.SearchTerm
	for rows.Next() {
		var t models.SearchTerm
		if err := rows.Scan(&t.ID, &t.UserID, &t.Term, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteSearchTerm removes the record only when it belongs to userID.
// It reports false for an unknown id and for another owner's record alike.
func (s *Store) DeleteSearchTerm(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM search_terms WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
