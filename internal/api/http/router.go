package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hostdesk/hosting-service/internal/api/http/handlers"
	"github.com/hostdesk/hosting-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Hosting        *handlers.HostingHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/v1")
	v1.Post("/auth/session", cfg.Auth.CreateSession)

	protected := v1.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Post("/:id/close", cfg.Tickets.CloseTicket)
	tickets.Post("/:id/reopen", cfg.Tickets.ReopenTicket)

	accounts := protected.Group("/hosting/accounts")
	accounts.Post("", cfg.Hosting.CreateAccount)
	accounts.Get("", cfg.Hosting.ListAccounts)
	accounts.Get("/:username", cfg.Hosting.GetAccount)
	accounts.Post("/:username/databases", cfg.Hosting.CreateDatabase)
	accounts.Get("/:username/databases", cfg.Hosting.ListDatabases)
	accounts.Post("/:username/backups", cfg.Hosting.CreateBackup)
	accounts.Get("/:username/backups", cfg.Hosting.ListBackups)
	accounts.Post("/:username/domains", cfg.Hosting.AddDomain)
	accounts.Get("/:username/usage", cfg.Hosting.GetUsage)
	accounts.Get("/:username/info", cfg.Hosting.GetInfo)

	admin := protected.Group("/admin", auth.RequireAdmin())
	admin.Get("/tickets", cfg.Tickets.ListByStatus)

	admin.Post("/hosting/accounts/:username/suspend", cfg.Hosting.Suspend)
	admin.Post("/hosting/accounts/:username/unsuspend", cfg.Hosting.Unsuspend)
	admin.Delete("/hosting/accounts/:username", cfg.Hosting.Delete)

	admin.Put("/plans", cfg.Admin.UpsertPlan)
	admin.Get("/plans", cfg.Admin.ListPlans)
	admin.Get("/plans/:id", cfg.Admin.GetPlan)
	admin.Post("/plans/:id/publish", cfg.Admin.PublishPlan)
	admin.Delete("/plans/:id", cfg.Admin.DeletePlan)

	admin.Get("/settings", cfg.Admin.GetSettings)
	admin.Put("/settings", cfg.Admin.UpdateSettings)

	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Patch("/users/:id", cfg.Admin.SetUserFlags)
}
