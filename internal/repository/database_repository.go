package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// DatabaseRepository tracks databases created per hosting account.
type DatabaseRepository interface {
	Create(ctx context.Context, record *domain.DatabaseRecord) error
	ListByAccount(ctx context.Context, username string) ([]domain.DatabaseRecord, error)
	Exists(ctx context.Context, username, dbName, dbUser string) (bool, error)
}

type databaseRepository struct {
	pool *pgxpool.Pool
}

// NewDatabaseRepository builds repository.
func NewDatabaseRepository(pool *pgxpool.Pool) DatabaseRepository {
	return &databaseRepository{pool: pool}
}

func (r *databaseRepository) Create(ctx context.Context, record *domain.DatabaseRecord) error {
	const query = `
        INSERT INTO database_records (username, db_name, db_user)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		record.Username,
		record.DBName,
		record.DBUser,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *databaseRepository) ListByAccount(ctx context.Context, username string) ([]domain.DatabaseRecord, error) {
	const query = `
        SELECT id, username, db_name, db_user, created_at
        FROM database_records WHERE username=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DatabaseRecord
	for rows.Next() {
		var record domain.DatabaseRecord
		if err := rows.Scan(&record.ID, &record.Username, &record.DBName, &record.DBUser, &record.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (r *databaseRepository) Exists(ctx context.Context, username, dbName, dbUser string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM database_records WHERE username=$1 AND db_name=$2 AND db_user=$3)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, username, dbName, dbUser).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
