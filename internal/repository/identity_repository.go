package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffclock/attendance-service/internal/auth"
	"github.com/staffclock/attendance-service/internal/domain"
)

const uniqueViolation = "23505"

// AccountParams describes a new identity.
type AccountParams struct {
	Email       string
	Password    string
	DisplayName string
	Disabled    bool
}

// IdentityRepository manages authentication accounts.
//
// CreateAccount fails with ErrEmailExists when the email is taken; any other
// error is a store failure.
type IdentityRepository interface {
	CreateAccount(ctx context.Context, params AccountParams) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

type identityRepository struct {
	pool       *pgxpool.Pool
	bcryptCost int
}

// NewIdentityRepository returns a Postgres-backed identity store.
func NewIdentityRepository(pool *pgxpool.Pool, bcryptCost int) IdentityRepository {
	return &identityRepository{pool: pool, bcryptCost: bcryptCost}
}

func (r *identityRepository) CreateAccount(ctx context.Context, params AccountParams) (string, error) {
	hash, err := auth.HashPassword(params.Password, r.bcryptCost)
	if err != nil {
		return "", err
	}

	const query = `
        INSERT INTO identities (id, email, password_hash, display_name, disabled)
        VALUES ($1, $2, $3, $4, $5)`

	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, query,
		id,
		strings.TrimSpace(params.Email),
		hash,
		params.DisplayName,
		params.Disabled,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	const query = `
        SELECT id, email, password_hash, display_name, disabled, created_at
        FROM identities WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	const query = `
        SELECT id, email, password_hash, display_name, disabled, created_at
        FROM identities WHERE lower(email)=lower($1)`

	return r.scanOne(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
}

func (r *identityRepository) scanOne(row pgx.Row) (*domain.Identity, error) {
	var identity domain.Identity
	if err := row.Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.DisplayName,
		&identity.Disabled,
		&identity.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}
