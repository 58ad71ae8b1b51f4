package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// BackupRepository manages the append-only backup log.
type BackupRepository interface {
	Create(ctx context.Context, backup *domain.BackupRecord) error
	ListByAccount(ctx context.Context, username string) ([]domain.BackupRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type backupRepository struct {
	pool *pgxpool.Pool
}

// NewBackupRepository builds repository.
func NewBackupRepository(pool *pgxpool.Pool) BackupRepository {
	return &backupRepository{pool: pool}
}

func (r *backupRepository) Create(ctx context.Context, backup *domain.BackupRecord) error {
	const query = `
        INSERT INTO backup_records (username, backup_type, status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		backup.Username,
		backup.Type,
		backup.Status,
	).Scan(&backup.ID, &backup.CreatedAt)
}

func (r *backupRepository) ListByAccount(ctx context.Context, username string) ([]domain.BackupRecord, error) {
	const query = `
        SELECT id, username, backup_type, status, created_at
        FROM backup_records WHERE username=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BackupRecord
	for rows.Next() {
		var backup domain.BackupRecord
		if err := rows.Scan(&backup.ID, &backup.Username, &backup.Type, &backup.Status, &backup.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, backup)
	}
	return result, rows.Err()
}

func (r *backupRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM backup_records WHERE created_at < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
