package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hostdesk/hosting-service/internal/api/dto"
	"github.com/hostdesk/hosting-service/internal/auth"
	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/service"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// HostingHandler serves hosting account endpoints.
type HostingHandler struct {
	service *service.HostingService
}

// NewHostingHandler constructs handler.
func NewHostingHandler(hostingService *service.HostingService) *HostingHandler {
	return &HostingHandler{service: hostingService}
}

// CreateAccount POST /v1/hosting/accounts. Called by the gateway once
// payment has settled. The response is the only place the password appears.
func (h *HostingHandler) CreateAccount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.service.CreateAccount(c.Context(), principal.User.ID, req.PackageID, req.Domain, req.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ProvisionResponse{
		Username: result.Username,
		Password: result.Password,
		Account:  accountResponse(result.Account),
	}})
}

// ListAccounts GET /v1/hosting/accounts.
func (h *HostingHandler) ListAccounts(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	accounts, err := h.service.GetUserAccounts(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, accountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetAccount GET /v1/hosting/accounts/:username.
func (h *HostingHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.loadOwnedAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountResponse(account)})
}

// CreateDatabase POST /v1/hosting/accounts/:username/databases.
func (h *HostingHandler) CreateDatabase(c *fiber.Ctx) error {
	account, err := h.loadOwnedAccount(c)
	if err != nil {
		return err
	}
	var req dto.CreateDatabaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.CreateDatabase(c.Context(), account.Username, req.DBName, req.DBUser, req.DBPass)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.DatabaseResponse{
		DBName:    record.DBName,
		DBUser:    record.DBUser,
		CreatedAt: record.CreatedAt,
	}})
}

// ListDatabases GET /v1/hosting/accounts/:username/databases.
func (h *HostingHandler) ListDatabases(c *fiber.Ctx) error {
	account, err := h.loadOwnedAccount(c)
	if err != nil {
		return err
	}
	records, err := h.service.GetAccountDatabases(c.Context(), account.Username)
	if err != nil {
		return err
	}
	items := make([]dto.DatabaseResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.DatabaseResponse{
			DBName:    record.DBName,
			DBUser:    record.DBUser,
			CreatedAt: record.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateBackup POST /v1/hosting/accounts/:username/backups.
func (h *HostingHandler) CreateBackup(c *fiber.Ctx) error {
	account, err := h.loadOwnedAccount(c)
	if err != nil {
		return err
	}
	backup, err := h.service.CreateBackup(c.Context(), account.Username)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": backupResponse(backup)})
}

// ListBackups GET /v1/hosting/accounts/:username/backups.
func (h *HostingHandler) ListBackups(c *fiber.Ctx) error {
	account, err := h.loadOwnedAccount(c)
	if err != nil {
		return err
	}
	backups, err := h.service.GetAccountBackups(c.Context(), account.Username)
	if err != nil {
		return err
	}
	items := make([]dto.BackupResponse, 0, len(backups))
	for i := range backups {
		items = append(items, backupResponse(&backups[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddDomain POST /v1/hosting/accounts/:username/domains.
func (h *HostingHandler) AddDomain(c *fiber.Ctx) error {
	account, err := h.loadOwnedAccount(c)
	if err != nil {
		return err
	}
	var req dto.AddDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.AddDomain(c.Context(), account.Username, req.Domain); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"domain": req.Domain}})
}

// GetUsage GET /v1/hosting/accounts/:username/usage.
func (h *HostingHandler) GetUsage(c *fiber.Ctx) error {
	account, err := h.loadOwnedAccount(c)
	if err != nil {
		return err
	}
	report, err := h.service.GetResourceUsage(c.Context(), account.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PanelReportResponse{Username: account.Username, Report: report}})
}

// GetInfo GET /v1/hosting/accounts/:username/info.
func (h *HostingHandler) GetInfo(c *fiber.Ctx) error {
	account, err := h.loadOwnedAccount(c)
	if err != nil {
		return err
	}
	report, err := h.service.GetAccountInfo(c.Context(), account.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PanelReportResponse{Username: account.Username, Report: report}})
}

// Suspend POST /v1/admin/hosting/accounts/:username/suspend.
func (h *HostingHandler) Suspend(c *fiber.Ctx) error {
	if err := h.service.SuspendAccount(c.Context(), c.Params("username")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": domain.AccountStatusSuspended}})
}

// Unsuspend POST /v1/admin/hosting/accounts/:username/unsuspend.
func (h *HostingHandler) Unsuspend(c *fiber.Ctx) error {
	if err := h.service.UnsuspendAccount(c.Context(), c.Params("username")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": domain.AccountStatusActive}})
}

// Delete DELETE /v1/admin/hosting/accounts/:username.
func (h *HostingHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteAccount(c.Context(), c.Params("username")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": domain.AccountStatusDeleted}})
}

func (h *HostingHandler) loadOwnedAccount(c *fiber.Ctx) (*domain.HostingAccount, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("user required")
	}
	account, err := h.service.GetAccount(c.Context(), c.Params("username"))
	if err != nil {
		return nil, err
	}
	if principal.Role != auth.RoleAdmin && account.OwnerUserID != principal.User.ID {
		return nil, apperrors.NewForbidden("not your hosting account")
	}
	return account, nil
}

func accountResponse(account *domain.HostingAccount) dto.AccountResponse {
	return dto.AccountResponse{
		Username:  account.Username,
		Domain:    account.Domain,
		Email:     account.Email,
		PackageID: account.PackageID,
		Status:    account.Status,
		ExpiresAt: account.ExpiresAt,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

func backupResponse(backup *domain.BackupRecord) dto.BackupResponse {
	return dto.BackupResponse{
		ID:        backup.ID,
		Type:      backup.Type,
		Status:    backup.Status,
		CreatedAt: backup.CreatedAt,
	}
}
