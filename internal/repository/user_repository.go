package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// UserRepository stores chat gateway users.
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	SetActive(ctx context.Context, userID int64, active bool) error
	SetAdmin(ctx context.Context, userID int64, isAdmin bool) error
	List(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository builds repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, username, first_name, last_name, active)
        VALUES ($1,$2,$3,$4,TRUE)
        ON CONFLICT (id) DO UPDATE SET
            username=EXCLUDED.username, first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name
        RETURNING is_admin, active, registered_at`
	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
	).Scan(&user.IsAdmin, &user.Active, &user.RegisteredAt)
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	const query = `
        SELECT id, username, first_name, last_name, is_admin, active, registered_at
        FROM users WHERE id=$1`
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.IsAdmin,
		&user.Active,
		&user.RegisteredAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET active=$1 WHERE id=$2`, active, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET is_admin=$1 WHERE id=$2`, isAdmin, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT id, username, first_name, last_name, is_admin, active, registered_at
        FROM users ORDER BY registered_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.IsAdmin,
			&user.Active,
			&user.RegisteredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
