package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// SettingsRepository manages the single operator settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, settings *domain.Settings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository builds repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	const query = `
        SELECT allow_registration, maintenance_mode, backup_enabled, backup_retention_days
        FROM settings WHERE id=1`
	var settings domain.Settings
	if err := r.pool.QueryRow(ctx, query).Scan(
		&settings.AllowRegistration,
		&settings.MaintenanceMode,
		&settings.BackupEnabled,
		&settings.BackupRetentionDays,
	); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *domain.Settings) error {
	const query = `
        UPDATE settings SET allow_registration=$1, maintenance_mode=$2,
            backup_enabled=$3, backup_retention_days=$4, updated_at=NOW()
        WHERE id=1`
	_, err := r.pool.Exec(ctx, query,
		settings.AllowRegistration,
		settings.MaintenanceMode,
		settings.BackupEnabled,
		settings.BackupRetentionDays,
	)
	return err
}
