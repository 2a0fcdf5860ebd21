package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/skillswap-service/internal/api/http/handlers"
	"github.com/spec-kit/skillswap-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	SwapRequests   *handlers.SwapRequestsHandler
	Skills         *handlers.SkillsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/profile", cfg.Auth.GetProfile)
	authProtected.Put("/profile", cfg.Auth.UpdateProfile)
	authProtected.Put("/change-password", cfg.Auth.ChangePassword)

	users := api.Group("/users")
	users.Get("/skills", cfg.Users.SkillsDirectory)
	users.Get("", cfg.AuthMiddleware.Handle, cfg.Users.List)
	users.Get("/:id", cfg.AuthMiddleware.Handle, cfg.Users.Get)

	skills := api.Group("/skills")
	skills.Get("", cfg.Skills.List)
	skills.Post("", cfg.AuthMiddleware.Handle, cfg.Skills.Submit)
	// /categories must register before /:id.
	skills.Get("/categories", cfg.Skills.Categories)
	skills.Get("/:id", cfg.Skills.Get)
	skills.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Skills.Update)
	skills.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Skills.Delete)

	swaps := api.Group("/swap-requests", cfg.AuthMiddleware.Handle)
	swaps.Post("", cfg.SwapRequests.Create)
	swaps.Get("/my-requests", cfg.SwapRequests.ListSent)
	swaps.Get("/received", cfg.SwapRequests.ListReceived)
	swaps.Get("/:id", cfg.SwapRequests.Get)
	swaps.Put("/:id", cfg.SwapRequests.UpdateStatus)
	swaps.Delete("/:id", cfg.SwapRequests.Delete)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users/:id/ban", cfg.Admin.BanUser)
	admin.Post("/users/:id/unban", cfg.Admin.UnbanUser)
	admin.Get("/skills/pending", cfg.Admin.PendingSkills)
	admin.Post("/skills/:id/approve", cfg.Admin.ApproveSkill)
	admin.Post("/skills/:id/reject", cfg.Admin.RejectSkill)
	admin.Get("/requests", cfg.Admin.ListRequests)
}
