package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/panel"
	"github.com/hostdesk/hosting-service/internal/repository"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// AdminService backs the operator surface: plan catalog, runtime settings
// and the gateway user registry.
type AdminService struct {
	plans    repository.PlanRepository
	settings repository.SettingsRepository
	users    repository.UserRepository
	panel    panel.Client
	logger   *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(plans repository.PlanRepository, settings repository.SettingsRepository, users repository.UserRepository, panelClient panel.Client, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{plans: plans, settings: settings, users: users, panel: panelClient, logger: logger}
}

// UpsertPlan stores a plan in the catalog.
func (s *AdminService) UpsertPlan(ctx context.Context, plan *domain.Plan) error {
	plan.ID = strings.TrimSpace(plan.ID)
	plan.Name = strings.TrimSpace(plan.Name)
	if plan.ID == "" || plan.Name == "" {
		return apperrors.NewValidationError("plan id and name are required", nil)
	}
	if plan.QuotaMB <= 0 || plan.BandwidthMB <= 0 {
		return apperrors.NewValidationError("quota and bandwidth must be positive", nil)
	}
	if plan.DomainLimit <= 0 {
		plan.DomainLimit = 1
	}
	if err := s.plans.Upsert(ctx, plan); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// PublishPlan creates the matching reseller package on the control panel.
// Kept separate from UpsertPlan so catalog edits never depend on panel
// availability.
func (s *AdminService) PublishPlan(ctx context.Context, planID string) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("plan", map[string]any{"plan_id": planID})
		}
		return apperrors.MapError(err)
	}

	if err := s.panel.CreatePackage(ctx, panel.PackageParams{
		Name:        plan.ID,
		QuotaMB:     plan.QuotaMB,
		BandwidthMB: plan.BandwidthMB,
		DomainLimit: plan.DomainLimit,
	}); err != nil {
		return apperrors.NewRemoteUnavailable("control panel could not create the package", err)
	}
	s.logger.Info("plan published to panel", zap.String("plan_id", plan.ID))
	return nil
}

// DeletePlan removes a plan from the catalog.
func (s *AdminService) DeletePlan(ctx context.Context, planID string) error {
	if err := s.plans.Delete(ctx, planID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("plan", map[string]any{"plan_id": planID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListPlans returns the catalog ordered by price.
func (s *AdminService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return plans, nil
}

// GetPlan returns one plan.
func (s *AdminService) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("plan", map[string]any{"plan_id": planID})
		}
		return nil, apperrors.MapError(err)
	}
	return plan, nil
}

// GetSettings returns the operator settings row.
func (s *AdminService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return settings, nil
}

// UpdateSettings validates and stores operator settings.
func (s *AdminService) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	if settings.BackupRetentionDays < 0 {
		return apperrors.NewValidationError("backup retention days cannot be negative", nil)
	}
	if settings.BackupRetentionDays == 0 {
		settings.BackupRetentionDays = domain.DefaultBackupRetentionDays
	}
	if err := s.settings.Update(ctx, settings); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListUsers returns every registered gateway user.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// SetUserActive toggles a user's access.
func (s *AdminService) SetUserActive(ctx context.Context, userID int64, active bool) error {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// SetUserAdmin grants or revokes the admin role.
func (s *AdminService) SetUserAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	if err := s.users.SetAdmin(ctx, userID, isAdmin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	return nil
}
