package templates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists templates in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a template store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetByName fetches a template by its unique name.
// Returns ErrNotFound when no template with that name exists.
func (s *Store) GetByName(ctx context.Context, name string) (*Template, error) {
	const query = `
		SELECT id, name, subject, COALESCE(html_body, ''), text_body, created_at, updated_at
		FROM templates
		WHERE name = $1`

	var tpl Template
	err := s.pool.QueryRow(ctx, query, name).Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.Subject,
		&tpl.HTMLBody,
		&tpl.TextBody,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}

	return &tpl, nil
}

// Upsert inserts a template or updates the existing one with the same name.
// The HTML body is stored as NULL when empty.
func (s *Store) Upsert(ctx context.Context, tpl *Template) (*Template, error) {
	if tpl.Name == "" {
		return nil, ErrEmptyName
	}

	const query = `
		INSERT INTO templates (name, subject, html_body, text_body)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		ON CONFLICT (name) DO UPDATE SET
			subject = EXCLUDED.subject,
			html_body = EXCLUDED.html_body,
			text_body = EXCLUDED.text_body,
			updated_at = now()
		RETURNING id, name, subject, COALESCE(html_body, ''), text_body, created_at, updated_at`

	var saved Template
	err := s.pool.QueryRow(ctx, query, tpl.Name, tpl.Subject, tpl.HTMLBody, tpl.TextBody).Scan(
		&saved.ID,
		&saved.Name,
		&saved.Subject,
		&saved.HTMLBody,
		&saved.TextBody,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	return &saved, nil
}
