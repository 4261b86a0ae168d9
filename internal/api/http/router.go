package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chamados/helpdesk-service/internal/api/http/handlers"
	"github.com/chamados/helpdesk-service/internal/auth"
	"github.com/chamados/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Accounts.Register)
	authGroup.Post("/login", cfg.Accounts.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	staff := app.Group("/staff/tickets", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAttendant, domain.RoleAdministrator))
	staff.Post("/:id/claim", cfg.StaffTickets.Claim)
	staff.Post("/:id/close", cfg.StaffTickets.Close)
	staff.Post("/:id/hide", cfg.StaffTickets.Hide)
	staff.Post("/:id/unhide", auth.RequireRole(domain.RoleAdministrator), cfg.StaffTickets.Unhide)
}
