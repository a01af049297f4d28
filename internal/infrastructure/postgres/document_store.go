package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
)

// querier is the subset of pgxpool.Pool the store needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DocumentStore keeps each record as one JSONB row of the documents table
// (see db/migrations).
type DocumentStore struct {
	db querier
}

func NewDocumentStore(db querier) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(ctx, `
		SELECT body
		FROM documents
		WHERE key = $1
	`, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Put upserts the whole record.
func (s *DocumentStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO documents (key, body, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`, key, string(value))
	return err
}

func (s *DocumentStore) Create(ctx context.Context, key string, value []byte) error {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO documents (key, body)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (key) DO NOTHING
	`, key, string(value))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrExists
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM documents WHERE key = $1`, key)
	return err
}

var (
	_ repository.Store   = (*DocumentStore)(nil)
	_ repository.Deleter = (*DocumentStore)(nil)
)
