package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hostdesk/hosting-service/internal/persistence"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": h.serviceName,
		"version": h.version,
		"status":  "ok",
	})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	if h.postgres != nil && h.postgres.PoolHandle() != nil {
		if err := h.postgres.PoolHandle().Ping(c.Context()); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		checks["postgres"] = "not configured"
		healthy = false
	}

	if err := h.redis.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"service": h.serviceName,
		"version": h.version,
		"checks":  checks,
	})
}
