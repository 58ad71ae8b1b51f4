package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// PlanRepository stores the reseller packages offered for sale.
type PlanRepository interface {
	Upsert(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, planID string) error
	GetByID(ctx context.Context, planID string) (*domain.Plan, error)
	List(ctx context.Context) ([]domain.Plan, error)
}

type planRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository builds repository.
func NewPlanRepository(pool *pgxpool.Pool) PlanRepository {
	return &planRepository{pool: pool}
}

func (r *planRepository) Upsert(ctx context.Context, plan *domain.Plan) error {
	const query = `
        INSERT INTO plans (id, name, quota_mb, bandwidth_mb, domain_limit, price, billing_days)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO UPDATE SET
            name=EXCLUDED.name, quota_mb=EXCLUDED.quota_mb, bandwidth_mb=EXCLUDED.bandwidth_mb,
            domain_limit=EXCLUDED.domain_limit, price=EXCLUDED.price,
            billing_days=EXCLUDED.billing_days, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		plan.ID,
		plan.Name,
		plan.QuotaMB,
		plan.BandwidthMB,
		plan.DomainLimit,
		plan.Price,
		plan.BillingDays,
	).Scan(&plan.UpdatedAt)
}

func (r *planRepository) Delete(ctx context.Context, planID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id=$1`, planID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *planRepository) GetByID(ctx context.Context, planID string) (*domain.Plan, error) {
	const query = `
        SELECT id, name, quota_mb, bandwidth_mb, domain_limit, price, billing_days, updated_at
        FROM plans WHERE id=$1`
	var plan domain.Plan
	if err := r.pool.QueryRow(ctx, query, planID).Scan(
		&plan.ID,
		&plan.Name,
		&plan.QuotaMB,
		&plan.BandwidthMB,
		&plan.DomainLimit,
		&plan.Price,
		&plan.BillingDays,
		&plan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) List(ctx context.Context) ([]domain.Plan, error) {
	const query = `
        SELECT id, name, quota_mb, bandwidth_mb, domain_limit, price, billing_days, updated_at
        FROM plans ORDER BY price ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Plan
	for rows.Next() {
		var plan domain.Plan
		if err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.QuotaMB,
			&plan.BandwidthMB,
			&plan.DomainLimit,
			&plan.Price,
			&plan.BillingDays,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, plan)
	}
	return result, rows.Err()
}
