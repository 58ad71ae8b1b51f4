package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hostdesk/hosting-service/internal/auth"
	"github.com/hostdesk/hosting-service/internal/config"
	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/repository"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// AuthService mints per-user API sessions for the chat gateway. The gateway
// authenticates itself with a shared key; users never hold credentials of
// their own, their identity comes from the messenger platform.
type AuthService struct {
	cfg      config.AuthConfig
	users    repository.UserRepository
	settings repository.SettingsRepository
	tokens   *auth.TokenManager
}

// SessionInput identifies the gateway user a session is minted for.
type SessionInput struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}

// SessionResult carries the signed token.
type SessionResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	Role      auth.Role
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, settings repository.SettingsRepository) *AuthService {
	return &AuthService{
		cfg:      cfg,
		users:    users,
		settings: settings,
		tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// CreateSession verifies the gateway key, registers or refreshes the user
// record and returns a signed session token.
func (s *AuthService) CreateSession(ctx context.Context, gatewayKey string, input SessionInput) (*SessionResult, error) {
	if s.cfg.GatewayKeyHash == "" {
		return nil, apperrors.NewUnauthorized("gateway access not configured")
	}
	if err := auth.CompareSecret(s.cfg.GatewayKeyHash, gatewayKey); err != nil {
		return nil, apperrors.NewUnauthorized("invalid gateway key")
	}
	if input.UserID <= 0 {
		return nil, apperrors.NewValidationError("user id is required", nil)
	}

	known := true
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		known = false
	}

	if !known {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !settings.AllowRegistration {
			return nil, apperrors.NewForbidden("registration is disabled")
		}
	}

	user := &domain.User{
		ID:        input.UserID,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if !user.Active {
		return nil, apperrors.NewForbidden("user is deactivated")
	}

	role := auth.RoleUser
	if user.IsAdmin {
		role = auth.RoleAdmin
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &SessionResult{Token: token, ExpiresAt: expiresAt, User: user, Role: role}, nil
}
