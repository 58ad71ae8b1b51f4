package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hostdesk/hosting-service/internal/api/dto"
	"github.com/hostdesk/hosting-service/internal/service"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// AuthHandler mints gateway sessions.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// CreateSession POST /v1/auth/session.
func (h *AuthHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.GatewayKey == "" {
		return apperrors.NewUnauthorized("gateway key required")
	}

	result, err := h.service.CreateSession(c.Context(), req.GatewayKey, service.SessionInput{
		UserID:    req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SessionResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Role:      string(result.Role),
	}})
}
