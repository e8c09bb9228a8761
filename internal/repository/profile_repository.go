package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffclock/attendance-service/internal/domain"
)

// ProfileRepository is the document-style store of staff profiles keyed by identity id.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	SetByID(ctx context.Context, id string, profile *domain.Profile) error
	List(ctx context.Context, filter ProfileFilter) ([]domain.Profile, error)
}

// ProfileFilter narrows List. Nil fields are not filtered on and results are unordered.
type ProfileFilter struct {
	IsCheckedIn    *bool
	Role           *domain.Role
	AccountEnabled *bool
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed profile store.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `id, email, display_name, employee_id, position, role, account_enabled,
        is_checked_in, notification_token, last_seen, created_at`

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id=$1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// SetByID writes the full record. created_at is assigned by the database on
// first write and kept on later writes.
func (r *profileRepository) SetByID(ctx context.Context, id string, profile *domain.Profile) error {
	const query = `
        INSERT INTO users (id, email, display_name, employee_id, position, role, account_enabled,
            is_checked_in, notification_token, last_seen)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (id) DO UPDATE SET
            email=EXCLUDED.email,
            display_name=EXCLUDED.display_name,
            employee_id=EXCLUDED.employee_id,
            position=EXCLUDED.position,
            role=EXCLUDED.role,
            account_enabled=EXCLUDED.account_enabled,
            is_checked_in=EXCLUDED.is_checked_in,
            notification_token=EXCLUDED.notification_token,
            last_seen=EXCLUDED.last_seen
        RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query,
		id,
		profile.Email,
		profile.DisplayName,
		profile.EmployeeID,
		profile.Position,
		profile.Role,
		profile.AccountEnabled,
		profile.IsCheckedIn,
		profile.NotificationToken,
		profile.LastSeen,
	).Scan(&profile.CreatedAt); err != nil {
		return err
	}
	profile.ID = id
	return nil
}

func (r *profileRepository) List(ctx context.Context, filter ProfileFilter) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users`
	args := []any{}
	clauses := []string{}

	if filter.IsCheckedIn != nil {
		args = append(args, *filter.IsCheckedIn)
		clauses = append(clauses, fmt.Sprintf("is_checked_in=$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.AccountEnabled != nil {
		args = append(args, *filter.AccountEnabled)
		clauses = append(clauses, fmt.Sprintf("account_enabled=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *profile)
	}
	return result, rows.Err()
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var profile domain.Profile
	if err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.DisplayName,
		&profile.EmployeeID,
		&profile.Position,
		&profile.Role,
		&profile.AccountEnabled,
		&profile.IsCheckedIn,
		&profile.NotificationToken,
		&profile.LastSeen,
		&profile.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
