package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// HostingAccountRepository encapsulates hosting account persistence.
type HostingAccountRepository interface {
	Create(ctx context.Context, account *domain.HostingAccount) error
	GetByUsername(ctx context.Context, username string) (*domain.HostingAccount, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]domain.HostingAccount, error)
	ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.HostingAccount, error)
	ListActiveExpired(ctx context.Context, asOf time.Time) ([]domain.HostingAccount, error)
	UpdateStatus(ctx context.Context, username string, status domain.AccountStatus) error
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type hostingAccountRepository struct {
	pool *pgxpool.Pool
}

// NewHostingAccountRepository instantiates repository.
func NewHostingAccountRepository(pool *pgxpool.Pool) HostingAccountRepository {
	return &hostingAccountRepository{pool: pool}
}

const accountColumns = `id, owner_user_id, username, domain, email, package_id, status, expires_at, created_at, updated_at`

func (r *hostingAccountRepository) Create(ctx context.Context, account *domain.HostingAccount) error {
	const query = `
        INSERT INTO hosting_accounts (owner_user_id, username, domain, email, package_id, status, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		account.OwnerUserID,
		account.Username,
		account.Domain,
		account.Email,
		account.PackageID,
		account.Status,
		account.ExpiresAt,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *hostingAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.HostingAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM hosting_accounts WHERE username=$1`
	var account domain.HostingAccount
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.OwnerUserID,
		&account.Username,
		&account.Domain,
		&account.Email,
		&account.PackageID,
		&account.Status,
		&account.ExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *hostingAccountRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]domain.HostingAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM hosting_accounts WHERE owner_user_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *hostingAccountRepository) ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.HostingAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM hosting_accounts WHERE status=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *hostingAccountRepository) ListActiveExpired(ctx context.Context, asOf time.Time) ([]domain.HostingAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM hosting_accounts WHERE status=$1 AND expires_at < $2 ORDER BY expires_at ASC`
	rows, err := r.pool.Query(ctx, query, domain.AccountStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *hostingAccountRepository) UpdateStatus(ctx context.Context, username string, status domain.AccountStatus) error {
	const query = `UPDATE hosting_accounts SET status=$1, updated_at=NOW() WHERE username=$2`
	cmd, err := r.pool.Exec(ctx, query, status, username)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hostingAccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM hosting_accounts WHERE username=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanAccounts(rows pgx.Rows) ([]domain.HostingAccount, error) {
	var result []domain.HostingAccount
	for rows.Next() {
		var account domain.HostingAccount
		if err := rows.Scan(
			&account.ID,
			&account.OwnerUserID,
			&account.Username,
			&account.Domain,
			&account.Email,
			&account.PackageID,
			&account.Status,
			&account.ExpiresAt,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}
