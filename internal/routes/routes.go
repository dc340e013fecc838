package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/brianyyz/ShareRidesV2Server/internal/config"
	"github.com/brianyyz/ShareRidesV2Server/internal/handlers"
	"github.com/brianyyz/ShareRidesV2Server/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	statusHandler *handlers.StatusHandler,
	userHandler *handlers.UserHandler,
	installationHandler *handlers.InstallationHandler,
	rideHandler *handlers.RideHandler,
	requestHandler *handlers.RequestHandler,
	teamHandler *handlers.TeamHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Public: health and the status clients poll before anything else
	api.Get("/health", healthHandler.Check)
	api.Get("/status", statusHandler.Get)

	jwt := middleware.JWTProtected(cfg)

	// Users
	api.Post("/users/sync", jwt, userHandler.Sync)

	// Installations
	api.Post("/installations", jwt, installationHandler.Upsert)
	api.Post("/installations/subscribe", jwt, installationHandler.Subscribe)

	// Rides
	api.Get("/rides", jwt, rideHandler.List)
	api.Post("/rides", jwt, rideHandler.Create)
	api.Get("/rides/:id", jwt, rideHandler.Get)
	api.Put("/rides/:id", jwt, rideHandler.Update)
	api.Delete("/rides/:id", jwt, rideHandler.Delete)
	api.Post("/rides/:id/message-passengers", jwt, rideHandler.MessagePassengers)
	api.Post("/rides/:id/message-owner", jwt, rideHandler.MessageOwner)

	// Ride requests
	api.Post("/requests", jwt, requestHandler.Create)
	api.Put("/requests/:id", jwt, requestHandler.Update)
	api.Put("/requests/:id/approve", jwt, requestHandler.Approve)
	api.Put("/requests/:id/pend", jwt, requestHandler.Pend)
	api.Delete("/requests/:id", jwt, requestHandler.Delete)
	api.Get("/requests/pending", jwt, requestHandler.CheckPending)

	// Teams and team requests
	api.Post("/teams", jwt, teamHandler.Create)
	api.Delete("/teams/:id", jwt, teamHandler.Delete)
	api.Get("/teams/:id/has-requests", jwt, teamHandler.HasRequests)
	api.Post("/team-requests", jwt, teamHandler.CreateRequest)
	api.Put("/team-requests/:id/approve", jwt, teamHandler.ApproveRequest)
	api.Put("/team-requests/:id/pend", jwt, teamHandler.PendRequest)
	api.Delete("/team-requests/:id", jwt, teamHandler.DeleteRequest)
	api.Get("/team-requests/pending", jwt, teamHandler.CheckPending)

	// Admin: system status management
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db))
	admin.Put("/status", statusHandler.Set)
}
