package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

// OwnerRepository defines persistence access for store owners.
type OwnerRepository interface {
	Create(ctx context.Context, owner *domain.Owner) error
	GetByID(ctx context.Context, id string) (*domain.Owner, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Owner, error)
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error
}

type ownerRepository struct {
	pool *pgxpool.Pool
}

// NewOwnerRepository returns a Postgres-backed implementation.
func NewOwnerRepository(pool *pgxpool.Pool) OwnerRepository {
	return &ownerRepository{pool: pool}
}

func (r *ownerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	const query = `
        INSERT INTO owners (first_name, last_name, phone, email, store_name, city, password_hash, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		owner.FirstName,
		owner.LastName,
		owner.Phone,
		owner.Email,
		owner.StoreName,
		owner.City,
		owner.PasswordHash,
		owner.Status,
	).Scan(&owner.ID, &owner.CreatedAt, &owner.UpdatedAt)
	return mapPgError(err)
}

const ownerColumns = `id, first_name, last_name, phone, email, store_name, city, password_hash, status, created_at, updated_at`

func (r *ownerRepository) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	return r.fetchSingle(ctx, `SELECT `+ownerColumns+` FROM owners WHERE id=$1`, id)
}

func (r *ownerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Owner, error) {
	return r.fetchSingle(ctx, `SELECT `+ownerColumns+` FROM owners WHERE phone=$1`, phone)
}

func (r *ownerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Owner, error) {
	var owner domain.Owner
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&owner.ID,
		&owner.FirstName,
		&owner.LastName,
		&owner.Phone,
		&owner.Email,
		&owner.StoreName,
		&owner.City,
		&owner.PasswordHash,
		&owner.Status,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &owner, nil
}

func (r *ownerRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE owners SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
