package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/velorahq/velora-api/internal/domain"
)

type LeadsRepo interface {
	Create(ctx context.Context, in *domain.Lead) (*domain.Lead, error)
}

type LeadsRepoImpl struct{ pool *pgxpool.Pool }

func NewLeadsRepo(pool *pgxpool.Pool) *LeadsRepoImpl { return &LeadsRepoImpl{pool: pool} }

func (r *LeadsRepoImpl) Create(ctx context.Context, in *domain.Lead) (*domain.Lead, error) {
	const q = `INSERT INTO leads (kind, name, email, phone, company, message)
  VALUES ($1,$2,$3,$4,$5,$6)
  RETURNING id, kind, name, email, phone, company, message, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var l domain.Lead
	err := r.pool.QueryRow(ctx, q,
		in.Kind, in.Name, in.Email, in.Phone, in.Company, in.Message,
	).Scan(
		&l.ID, &l.Kind, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Message, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

var _ LeadsRepo = (*LeadsRepoImpl)(nil)
