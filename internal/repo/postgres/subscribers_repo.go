package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscribersRepo interface {
	// Upsert records an availability subscriber keyed by email. Calling it
	// again for the same email refreshes the referenced attempt, it never
	// creates a second row.
	Upsert(ctx context.Context, email string, attemptID int64) error
}

type SubscribersRepoImpl struct{ pool *pgxpool.Pool }

func NewSubscribersRepo(pool *pgxpool.Pool) *SubscribersRepoImpl {
	return &SubscribersRepoImpl{pool: pool}
}

func (r *SubscribersRepoImpl) Upsert(ctx context.Context, email string, attemptID int64) error {
	const q = `INSERT INTO availability_subscribers (email, attempt_id)
  VALUES ($1, $2)
  ON CONFLICT (email) DO UPDATE SET
    attempt_id = EXCLUDED.attempt_id,
    updated_at = now()`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, email, attemptID)
	return err
}

var _ SubscribersRepo = (*SubscribersRepoImpl)(nil)
