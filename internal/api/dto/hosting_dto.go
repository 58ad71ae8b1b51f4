package dto

import (
	"time"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// CreateAccountRequest payload.
type CreateAccountRequest struct {
	PackageID string `json:"package_id"`
	Domain    string `json:"domain"`
	Email     string `json:"email"`
}

// AccountResponse response.
type AccountResponse struct {
	Username  string               `json:"username"`
	Domain    string               `json:"domain"`
	Email     string               `json:"email"`
	PackageID string               `json:"package_id"`
	Status    domain.AccountStatus `json:"status"`
	ExpiresAt time.Time            `json:"expires_at"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ProvisionResponse carries one-time credentials; the password is shown to
// the user exactly once and never stored.
type ProvisionResponse struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Account  AccountResponse `json:"account"`
}

// CreateDatabaseRequest payload.
type CreateDatabaseRequest struct {
	DBName string `json:"db_name"`
	DBUser string `json:"db_user"`
	DBPass string `json:"db_pass"`
}

// DatabaseResponse response.
type DatabaseResponse struct {
	DBName    string    `json:"db_name"`
	DBUser    string    `json:"db_user"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupResponse response.
type BackupResponse struct {
	ID        int64               `json:"id"`
	Type      domain.BackupType   `json:"type"`
	Status    domain.BackupStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// AddDomainRequest payload.
type AddDomainRequest struct {
	Domain string `json:"domain"`
}

// PanelReportResponse wraps an opaque panel usage/info report.
type PanelReportResponse struct {
	Username string `json:"username"`
	Report   string `json:"report"`
}
