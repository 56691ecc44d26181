package queue

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordStore persists task records. Split out as an interface so the
// backend can be exercised without a database.
type RecordStore interface {
	// Create persists a new task record in the pending state.
	Create(ctx context.Context, name string) (*TaskRecord, error)

	// GetByID fetches a task record. Returns ErrTaskNotFound on miss.
	GetByID(ctx context.Context, id int64) (*TaskRecord, error)

	// MarkCompleted transitions pending -> completed and stores the result.
	MarkCompleted(ctx context.Context, id int64, result string) (*TaskRecord, error)

	// MarkFailed transitions pending -> failed and stores the error and trace.
	MarkFailed(ctx context.Context, id int64, errMsg, trace string) (*TaskRecord, error)
}

// Store is the PostgreSQL-backed RecordStore.
// Terminal transitions are conditional on the row still being pending,
// which makes the store the single source of idempotency truth when the
// external dispatcher delivers a callback more than once.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a task record store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const recordColumns = `id, name, status, COALESCE(result, ''), COALESCE(error, ''), COALESCE(trace, ''), created_at, updated_at`

func scanRecord(row pgx.Row) (*TaskRecord, error) {
	var rec TaskRecord
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Status,
		&rec.Result,
		&rec.Error,
		&rec.Trace,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create implements RecordStore.
func (s *Store) Create(ctx context.Context, name string) (*TaskRecord, error) {
	const query = `
		INSERT INTO tasks (name, status)
		VALUES ($1, 'pending')
		RETURNING ` + recordColumns

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, name))
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return rec, nil
}

// GetByID implements RecordStore.
func (s *Store) GetByID(ctx context.Context, id int64) (*TaskRecord, error) {
	const query = `SELECT ` + recordColumns + ` FROM tasks WHERE id = $1`

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return rec, nil
}

// MarkCompleted implements RecordStore.
func (s *Store) MarkCompleted(ctx context.Context, id int64, result string) (*TaskRecord, error) {
	const query = `
		UPDATE tasks
		SET status = 'completed', result = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + recordColumns

	return s.finalize(ctx, id, query, result)
}

// MarkFailed implements RecordStore.
func (s *Store) MarkFailed(ctx context.Context, id int64, errMsg, trace string) (*TaskRecord, error) {
	const query = `
		UPDATE tasks
		SET status = 'failed', error = $2, trace = $3, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + recordColumns

	return s.finalize(ctx, id, query, errMsg, trace)
}

// finalize runs a conditional terminal update. A missing row maps to
// ErrTaskNotFound; an existing but already-finalized row maps to
// ErrTaskFinalized so duplicate deliveries cannot overwrite the first
// outcome.
func (s *Store) finalize(ctx context.Context, id int64, query string, args ...any) (*TaskRecord, error) {
	queryArgs := append([]any{id}, args...)
	rec, err := scanRecord(s.pool.QueryRow(ctx, query, queryArgs...))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	// Zero rows updated: distinguish a missing task from a lost race.
	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrTaskFinalized
}
