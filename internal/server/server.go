// Package server wires the route table. Role requirements are declared
// here, once per group, and enforced by the auth middleware chain.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gauravpatil09/rating-app/internal/admin"
	"github.com/gauravpatil09/rating-app/internal/audit"
	"github.com/gauravpatil09/rating-app/internal/auth"
	"github.com/gauravpatil09/rating-app/internal/config"
	"github.com/gauravpatil09/rating-app/internal/delivery"
	"github.com/gauravpatil09/rating-app/internal/models"
	"github.com/gauravpatil09/rating-app/internal/rating"
	"github.com/gauravpatil09/rating-app/internal/stores"
)

func New(cfg *config.Config, db *gorm.DB, cache *rating.Cache, sender delivery.Sender) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"message": e.Message,
				})
			}
			logrus.Errorf("unexpected error on %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Server error",
			})
		},
	})

	app.Use(requestid.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))
	api.Post("/auth/reset-request", auth.ResetRequestHandler(db, cfg, sender))
	api.Post("/auth/reset", auth.ResetHandler(db, cfg))

	// Everything else requires a valid session token.
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	// Admin-only
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Get("/dashboard", admin.DashboardHandler(db))
	adminRoutes.Get("/users", admin.ListUsersHandler(db))
	adminRoutes.Post("/users", admin.CreateUserHandler(db))
	adminRoutes.Delete("/users/:id", admin.DeleteUserHandler(db, cache))
	adminRoutes.Post("/users/:id/reset-by-admin", admin.ForceResetHandler(db))
	adminRoutes.Get("/stores", admin.ListStoresHandler(db))
	adminRoutes.Post("/stores", admin.CreateStoreHandler(db))
	adminRoutes.Delete("/stores/:id", admin.DeleteStoreHandler(db, cache))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	// Store browsing and rating, any authenticated role.
	storeRoutes := protected.Group("/stores")
	storeRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleUser, models.RoleOwner))

	storeRoutes.Get("/", stores.ListStoresHandler(db, cache))
	storeRoutes.Post("/", stores.CreateStoreHandler(db))
	storeRoutes.Get("/:id", stores.GetStoreHandler(db, cache))
	storeRoutes.Post("/:id/rate", stores.RateStoreHandler(db, cache))

	return app
}
