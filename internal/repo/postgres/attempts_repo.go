package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/velorahq/velora-api/internal/domain"
)

type AttemptsRepo interface {
	Create(ctx context.Context, in *domain.BookingAttempt) (*domain.BookingAttempt, error)
	GetByID(ctx context.Context, id int64) (*domain.BookingAttempt, error)
	SetOptedIn(ctx context.Context, id int64) (bool, error)
}

type AttemptsRepoImpl struct{ pool *pgxpool.Pool }

func NewAttemptsRepo(pool *pgxpool.Pool) *AttemptsRepoImpl { return &AttemptsRepoImpl{pool: pool} }

const attemptCols = `id, name, email, phone,
pickup_location, dropoff_location, notes,
vehicle_id, vehicle_name, vehicle_image, vehicle_price,
availability_message, opted_in, created_at`

func (r *AttemptsRepoImpl) Create(ctx context.Context, in *domain.BookingAttempt) (*domain.BookingAttempt, error) {
	const q = `INSERT INTO booking_attempts (
    name, email, phone,
    pickup_location, dropoff_location, notes,
    vehicle_id, vehicle_name, vehicle_image, vehicle_price,
    availability_message
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  RETURNING ` + attemptCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.BookingAttempt
	err := r.pool.QueryRow(ctx, q,
		in.Name, in.Email, in.Phone,
		in.Pickup, in.Dropoff, in.Notes,
		in.VehicleID, in.VehicleName, in.VehicleImage, in.VehiclePrice,
		in.AvailabilityMessage,
	).Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone,
		&a.Pickup, &a.Dropoff, &a.Notes,
		&a.VehicleID, &a.VehicleName, &a.VehicleImage, &a.VehiclePrice,
		&a.AvailabilityMessage, &a.OptedIn, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptsRepoImpl) GetByID(ctx context.Context, id int64) (*domain.BookingAttempt, error) {
	const q = `SELECT ` + attemptCols + ` FROM booking_attempts WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.BookingAttempt
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone,
		&a.Pickup, &a.Dropoff, &a.Notes,
		&a.VehicleID, &a.VehicleName, &a.VehicleImage, &a.VehiclePrice,
		&a.AvailabilityMessage, &a.OptedIn, &a.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SetOptedIn is idempotent: flipping an already-set flag reports success.
func (r *AttemptsRepoImpl) SetOptedIn(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE booking_attempts SET opted_in=true WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var _ AttemptsRepo = (*AttemptsRepoImpl)(nil)
