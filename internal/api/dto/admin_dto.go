package dto

import (
	"time"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// UpsertPlanRequest payload.
type UpsertPlanRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	QuotaMB     int64  `json:"quota_mb"`
	BandwidthMB int64  `json:"bandwidth_mb"`
	DomainLimit int    `json:"domain_limit"`
	Price       int64  `json:"price"`
	BillingDays int    `json:"billing_days"`
}

// PlanResponse response.
type PlanResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	QuotaMB     int64  `json:"quota_mb"`
	BandwidthMB int64  `json:"bandwidth_mb"`
	DomainLimit int    `json:"domain_limit"`
	Price       int64  `json:"price"`
	BillingDays int    `json:"billing_days"`
}

// PlanFromDomain maps a plan to its response shape.
func PlanFromDomain(plan *domain.Plan) PlanResponse {
	return PlanResponse{
		ID:          plan.ID,
		Name:        plan.Name,
		QuotaMB:     plan.QuotaMB,
		BandwidthMB: plan.BandwidthMB,
		DomainLimit: plan.DomainLimit,
		Price:       plan.Price,
		BillingDays: plan.BillingDays,
	}
}

// SettingsPayload is used for both reads and updates of operator settings.
type SettingsPayload struct {
	AllowRegistration   bool `json:"allow_registration"`
	MaintenanceMode     bool `json:"maintenance_mode"`
	BackupEnabled       bool `json:"backup_enabled"`
	BackupRetentionDays int  `json:"backup_retention_days"`
}

// UserResponse response.
type UserResponse struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsAdmin      bool      `json:"is_admin"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
}

// SetUserFlagsRequest toggles user access or role; nil fields are untouched.
type SetUserFlagsRequest struct {
	Active  *bool `json:"active"`
	IsAdmin *bool `json:"is_admin"`
}
