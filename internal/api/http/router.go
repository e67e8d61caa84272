package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/itsm-console/internal/api/http/handlers"
	"github.com/spec-kit/itsm-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Incidents       *handlers.TicketsHandler
	ServiceRequests *handlers.TicketsHandler
	Notifications   *handlers.NotificationsHandler
	AuthMiddleware  *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Mutating ticket operations beyond
// creation require a verified bearer token; reads and creation are open,
// mirroring the upstream API surface.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	registerTicketRoutes(api.Group("/incidents"), cfg.Incidents, cfg.AuthMiddleware)

	requests := api.Group("/service-requests")
	registerTicketRoutes(requests, cfg.ServiceRequests, cfg.AuthMiddleware)
	requests.Get("/", cfg.ServiceRequests.ListAll)
	// keep this last so it does not shadow the named routes
	requests.Get("/:id", cfg.ServiceRequests.Get)

	notifications := api.Group("/notifications")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Patch("/:id/read", cfg.Notifications.MarkRead)
}

func registerTicketRoutes(group fiber.Router, h *handlers.TicketsHandler, authMW *auth.AuthMiddleware) {
	group.Post("/", h.Create)
	group.Get("/all", h.ListAll)
	group.Get("/user/id/:handle", h.ListByPrefix)
	group.Get("/user/name/:nameOrEmail", h.ListByCreator)
	group.Get("/view/:id", h.View)
	group.Post("/notes/:id", authMW.Handle, h.AddNote)
	group.Put("/edit/:id", authMW.Handle, h.Edit)
	group.Put("/action/:id", authMW.Handle, h.Resolve)
}
