package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hostdesk/hosting-service/internal/api/dto"
	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/service"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// AdminHandler serves the operator surface: plan catalog, runtime settings
// and the gateway user registry.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// UpsertPlan PUT /v1/admin/plans.
func (h *AdminHandler) UpsertPlan(c *fiber.Ctx) error {
	var req dto.UpsertPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	plan := domain.Plan{
		ID:          req.ID,
		Name:        req.Name,
		QuotaMB:     req.QuotaMB,
		BandwidthMB: req.BandwidthMB,
		DomainLimit: req.DomainLimit,
		Price:       req.Price,
		BillingDays: req.BillingDays,
	}
	if err := h.service.UpsertPlan(c.Context(), &plan); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PlanFromDomain(&plan)})
}

// ListPlans GET /v1/admin/plans.
func (h *AdminHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.service.ListPlans(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		items = append(items, dto.PlanFromDomain(&plans[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetPlan GET /v1/admin/plans/:id.
func (h *AdminHandler) GetPlan(c *fiber.Ctx) error {
	plan, err := h.service.GetPlan(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PlanFromDomain(plan)})
}

// PublishPlan POST /v1/admin/plans/:id/publish.
func (h *AdminHandler) PublishPlan(c *fiber.Ctx) error {
	if err := h.service.PublishPlan(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"published": true}})
}

// DeletePlan DELETE /v1/admin/plans/:id.
func (h *AdminHandler) DeletePlan(c *fiber.Ctx) error {
	if err := h.service.DeletePlan(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetSettings GET /v1/admin/settings.
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingsPayload(settings)})
}

// UpdateSettings PUT /v1/admin/settings.
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.SettingsPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	settings := domain.Settings{
		AllowRegistration:   req.AllowRegistration,
		MaintenanceMode:     req.MaintenanceMode,
		BackupEnabled:       req.BackupEnabled,
		BackupRetentionDays: req.BackupRetentionDays,
	}
	if err := h.service.UpdateSettings(c.Context(), &settings); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingsPayload(&settings)})
}

// ListUsers GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.UserResponse{
			ID:           user.ID,
			Username:     user.Username,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			IsAdmin:      user.IsAdmin,
			Active:       user.Active,
			RegisteredAt: user.RegisteredAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetUserFlags PATCH /v1/admin/users/:id.
func (h *AdminHandler) SetUserFlags(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || userID <= 0 {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	var req dto.SetUserFlagsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Active == nil && req.IsAdmin == nil {
		return apperrors.NewValidationError("nothing to update", nil)
	}

	if req.Active != nil {
		if err := h.service.SetUserActive(c.Context(), userID, *req.Active); err != nil {
			return err
		}
	}
	if req.IsAdmin != nil {
		if err := h.service.SetUserAdmin(c.Context(), userID, *req.IsAdmin); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func settingsPayload(settings *domain.Settings) dto.SettingsPayload {
	return dto.SettingsPayload{
		AllowRegistration:   settings.AllowRegistration,
		MaintenanceMode:     settings.MaintenanceMode,
		BackupEnabled:       settings.BackupEnabled,
		BackupRetentionDays: settings.BackupRetentionDays,
	}
}
